package providers

import (
	"context"

	"bloggie/models"
)

// TextGenerator ist das Interface zum externen LLM-Dienst.
// Die Pipeline-Stufen hängen ausschließlich an dieser Fähigkeit, nicht an
// einem konkreten Anbieter.
type TextGenerator interface {
	// Generate führt einen einzelnen Completion-Aufruf aus. Bei jsonOutput
	// wird der Anbieter angewiesen, ein reines JSON-Objekt zu liefern.
	Generate(ctx context.Context, systemInstruction, prompt string, jsonOutput bool) (string, error)
}

// PlagiarismChecker prüft optimierten Content auf Ähnlichkeit mit
// externen Quellen. Aktuell existiert nur eine Mock-Implementierung; eine
// echte Integration ersetzt sie ohne Änderungen am aufrufenden Code.
type PlagiarismChecker interface {
	Check(ctx context.Context, content *models.OptimizedContent) (*models.PlagiarismReport, error)
}
