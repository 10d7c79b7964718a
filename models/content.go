package models

// Die Typen in dieser Datei sind transiente Pipeline-Werte: sie werden
// zwischen den Stufen vom Aufrufer durchgereicht und hier nicht persistiert.

// FAQ ist ein einzelnes Frage/Antwort-Paar eines Artikels.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// InternalLink ist ein vom Optimierer vorgeschlagener interner Link.
type InternalLink struct {
	AnchorText string `json:"anchorText"`
	URL        string `json:"url"`
}

// KeywordScore bewertet ein einzelnes Ziel-Keyword (0-100).
type KeywordScore struct {
	Keyword string `json:"keyword"`
	Score   int    `json:"score"`
}

// SEOScores sind die numerischen Teil-Scores des Optimierers. Alle Werte
// liegen zwischen 0 und 100; ActionableInsights ist nur befüllt, wenn
// mindestens ein Teil-Score unter 90 liegt.
type SEOScores struct {
	Overall            int            `json:"overall"`
	ContentStructure   int            `json:"contentStructure"`
	Readability        int            `json:"readability"`
	TargetKeywords     []KeywordScore `json:"targetKeywords"`
	ActionableInsights []string       `json:"actionableInsights,omitempty"`
}

// FlaggedSection ist ein einzelner markierter Abschnitt eines
// Plagiats-Reports. Der SimilarityScore ist unabhängig vom Gesamtwert.
type FlaggedSection struct {
	TextSegment     string `json:"textSegment"`
	SimilarityScore int    `json:"similarityScore"`
	SourceURL       string `json:"sourceUrl,omitempty"`
}

// PlagiarismReport ist das Ergebnis eines Ähnlichkeits-Checks. Wird pro
// Aufruf frisch erzeugt und nie gespeichert.
type PlagiarismReport struct {
	IsSafe            bool             `json:"isSafe"`
	OverallSimilarity int              `json:"overallSimilarity"`
	FlaggedSections   []FlaggedSection `json:"flaggedSections"`
}

// OptimizedContent ist das Ergebnis der Optimierungs-Stufe.
type OptimizedContent struct {
	Title            string            `json:"title"`
	Slug             string            `json:"slug"`
	MetaDescription  string            `json:"metaDescription"`
	ContentMarkdown  string            `json:"contentMarkdown"`
	FAQs             []FAQ             `json:"faqs"`
	InternalLinks    []InternalLink    `json:"internalLinks"`
	SEOScores        SEOScores         `json:"seoScores"`
	PlagiarismReport *PlagiarismReport `json:"plagiarismReport,omitempty"`
}

// Validierungs-Status eines generierten JSON-LD-Dokuments.
const (
	SchemaStatusValid   = "valid"
	SchemaStatusWarning = "warning"
	SchemaStatusError   = "error"
)

// SchemaData ist das Ergebnis der Schema-Generierung. JSONLD enthält das
// string-kodierte JSON-LD-Dokument und muss dekodiert valides JSON sein.
type SchemaData struct {
	Type               string   `json:"type"`
	JSONLD             string   `json:"jsonLd"`
	ValidationStatus   string   `json:"validationStatus"`
	ValidationMessages []string `json:"validationMessages,omitempty"`
}

// MetaOption ist eine vom Nutzer gewählte Titel/Beschreibungs-Variante.
type MetaOption struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CTAData ist der deterministisch erzeugte Call-to-Action-Block. CTACopy
// und CTALink sind Pflichtfelder; das Bild wird von einer separaten Stufe
// befüllt.
type CTAData struct {
	CTAHeadline   string `json:"ctaHeadline,omitempty"`
	CTACopy       string `json:"ctaCopy"`
	CTAButtonText string `json:"ctaButtonText,omitempty"`
	CTALink       string `json:"ctaLink"`
	CTAImageURL   string `json:"ctaImageUrl,omitempty"`
}
