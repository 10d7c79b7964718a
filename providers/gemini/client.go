package gemini

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"bloggie/config"
)

// Client implementiert providers.TextGenerator über die Gemini-API.
type Client struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewClient erstellt einen Gemini-Client aus der Konfiguration.
func NewClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	model := strings.TrimSpace(cfg.GeminiModel)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Client{client: client, model: model, logger: logger}, nil
}

// Generate führt einen einzelnen Completion-Aufruf aus. Es gibt keine
// Retries: ein fehlgeschlagener Aufruf wird direkt an den Handler gemeldet.
func (c *Client) Generate(ctx context.Context, systemInstruction, prompt string, jsonOutput bool) (string, error) {
	genCfg := &genai.GenerateContentConfig{}
	if systemInstruction != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}
	if jsonOutput {
		genCfg.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), genCfg)
	if err != nil {
		c.logger.Error("Gemini-Aufruf fehlgeschlagen", zap.String("model", c.model), zap.Error(err))
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}
