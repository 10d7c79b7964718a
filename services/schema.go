package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bloggie/models"
	"bloggie/providers"
)

const schemaSystemInstruction = `You generate structured data markup for local business blog posts.
Produce a JSON-LD document that combines LocalBusiness/Organization schema with Article/BlogPosting schema for the given post.
When the post has FAQs, additionally include FAQPage schema.
Respond with a single strict JSON object with exactly these keys:
- "type": the primary schema.org type used
- "jsonLd": the complete JSON-LD document, encoded as a string
- "validationStatus": "valid", "warning" or "error"
Do not wrap the JSON in markdown fences and do not add commentary.`

// SchemaService ist die JSON-LD-Generierungs-Stufe.
type SchemaService struct {
	Generator providers.TextGenerator
	Logger    *zap.Logger
}

// NewSchemaService erstellt eine neue SchemaService-Instanz.
func NewSchemaService(gen providers.TextGenerator, logger *zap.Logger) *SchemaService {
	return &SchemaService{Generator: gen, Logger: logger}
}

// Generate erzeugt JSON-LD-Markup für den optimierten Content. Die
// Fence-Stripping- und Parse-Semantik ist identisch zur Optimierungs-Stufe;
// zusätzlich wird das innere jsonLd-Dokument auf syntaktische Gültigkeit
// geprüft.
func (s *SchemaService) Generate(ctx context.Context, content *models.OptimizedContent, biz *models.BusinessContext, meta models.MetaOption) (*models.SchemaData, error) {
	prompt := buildSchemaPrompt(content, biz, meta)

	raw, err := s.Generator.Generate(ctx, schemaSystemInstruction, prompt, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	cleaned := stripCodeFence(raw)
	var schema models.SchemaData
	if err := json.Unmarshal([]byte(cleaned), &schema); err != nil {
		s.Logger.Error("Schema-Antwort ist kein gültiges JSON", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrBadGeneratorOutput, err)
	}

	// Das innere Dokument muss dekodiert valides JSON sein.
	if !json.Valid([]byte(schema.JSONLD)) {
		schema.ValidationStatus = models.SchemaStatusError
		schema.ValidationMessages = append(schema.ValidationMessages, "jsonLd is not syntactically valid JSON")
	}

	return &schema, nil
}

func buildSchemaPrompt(content *models.OptimizedContent, biz *models.BusinessContext, meta models.MetaOption) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Business: %s (%s)\n", biz.BusinessName, biz.BusinessType)
	fmt.Fprintf(&b, "Target audience: %s\n\n", biz.TargetAudience)
	fmt.Fprintf(&b, "Blog title: %s\n", meta.Title)
	fmt.Fprintf(&b, "Blog description: %s\n\n", meta.Description)
	fmt.Fprintf(&b, "Content:\n%s\n", content.ContentMarkdown)
	if len(content.FAQs) > 0 {
		b.WriteString("\nFAQs:\n")
		for _, faq := range content.FAQs {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", faq.Question, faq.Answer)
		}
	}
	return b.String()
}
