package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bloggie/models"
	"bloggie/providers"
	"bloggie/providers/plagiarism"
)

// Fehlerklassen der LLM-gestützten Stufen. Handler mappen beide auf 500.
var (
	// ErrGeneration: der externe Generierungs-Aufruf selbst ist fehlgeschlagen.
	ErrGeneration = errors.New("text generation failed")
	// ErrBadGeneratorOutput: der Generator hat geantwortet, aber die Antwort war
	// nach Fence-Stripping kein gültiges JSON.
	ErrBadGeneratorOutput = errors.New("unparseable generator response")
)

const optimizeSystemInstruction = `You are an expert SEO content editor for local business blogs.
Rewrite the blog post you are given to improve flow and readability while keeping its meaning.
Rules:
- Balance section lengths; no section may dwarf the others.
- Keep all internal links SEO-safe (descriptive anchor text, relative or same-domain URLs).
- Preserve the FAQ list, improving phrasing where helpful.
- Score the result with integer SEO sub-scores between 0 and 100: overall, contentStructure, readability, and one score per target keyword.
- Include actionableInsights ONLY for sub-scores below 90; otherwise leave the list empty.
Respond with a single JSON object with exactly these keys:
title, slug, metaDescription, contentMarkdown, faqs, internalLinks, seoScores.
Do not wrap the JSON in markdown fences and do not add commentary.`

const refinePreamble = `The previous optimization pass left issues that were flagged in seoScores.actionableInsights. Fix those issues first, then re-optimize the post below.

`

// Optimizer ist die Optimierungs-Stufe: ein Generator-Aufruf, Fence-Stripping,
// Parsen in OptimizedContent. Kein Retry, kein Teilergebnis.
type Optimizer struct {
	Generator providers.TextGenerator
	Logger    *zap.Logger
}

// NewOptimizer erstellt eine neue Optimizer-Instanz.
func NewOptimizer(gen providers.TextGenerator, logger *zap.Logger) *Optimizer {
	return &Optimizer{Generator: gen, Logger: logger}
}

// Optimize optimiert einen Blog-Post. blogPost wird wortwörtlich als JSON in
// den Prompt übernommen; refining stellt die Fix-Anweisung voran. An jedes
// erfolgreiche Ergebnis wird der Platzhalter-Plagiatsreport angehängt.
func (o *Optimizer) Optimize(ctx context.Context, blogPost json.RawMessage, refining bool) (*models.OptimizedContent, error) {
	prompt := string(blogPost)
	if refining {
		prompt = refinePreamble + prompt
	}

	raw, err := o.Generator.Generate(ctx, optimizeSystemInstruction, prompt, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	cleaned := stripCodeFence(raw)
	var optimized models.OptimizedContent
	if err := json.Unmarshal([]byte(cleaned), &optimized); err != nil {
		o.Logger.Error("Generator-Antwort ist kein gültiges JSON", zap.Error(err), zap.Int("response_length", len(raw)))
		return nil, fmt.Errorf("%w: %v", ErrBadGeneratorOutput, err)
	}

	// Platzhalter, bis der echte Plagiats-Check integriert ist; bewusst
	// unabhängig von der Generator-Antwort.
	optimized.PlagiarismReport = plagiarism.FixedReport()

	return &optimized, nil
}

// stripCodeFence entfernt einen optionalen führenden Markdown-Codefence
// (mit optionalem Sprach-Tag) und den zugehörigen schließenden Fence.
// Alles andere bleibt unverändert.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	// Erste Zeile (```json o.ä.) abschneiden
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	} else {
		return strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
	}
	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
