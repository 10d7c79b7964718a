// Package plagiarism enthält die Mock-Implementierung des
// Ähnlichkeits-Checks. Platzhalter für eine echte Drittanbieter-Integration
// (z.B. Copyscape); der Report ist bis dahin fest verdrahtet.
package plagiarism

import (
	"context"
	"time"

	"bloggie/models"
)

// DefaultDelay simuliert die Latenz eines echten Ähnlichkeits-Dienstes.
const DefaultDelay = 1500 * time.Millisecond

// FixedReport liefert den fest verdrahteten Report. Die Optimierungs-Stufe
// hängt denselben Report als Platzhalter an jedes Ergebnis.
func FixedReport() *models.PlagiarismReport {
	return &models.PlagiarismReport{
		IsSafe:            true,
		OverallSimilarity: 4,
		FlaggedSections: []models.FlaggedSection{
			{
				TextSegment:     "Regular maintenance is essential for long-term performance and reliability.",
				SimilarityScore: 85,
				SourceURL:       "https://www.example-industry-blog.com/maintenance-tips",
			},
		},
	}
}

// MockChecker implementiert providers.PlagiarismChecker mit dem festen
// Report und einer künstlichen Verzögerung.
type MockChecker struct {
	Delay time.Duration
}

// NewMockChecker erstellt einen MockChecker mit der Standard-Verzögerung.
func NewMockChecker() *MockChecker {
	return &MockChecker{Delay: DefaultDelay}
}

// Check wartet die konfigurierte Verzögerung ab und gibt den festen Report
// zurück. Der Content wird nicht analysiert.
func (m *MockChecker) Check(ctx context.Context, content *models.OptimizedContent) (*models.PlagiarismReport, error) {
	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return FixedReport(), nil
}
