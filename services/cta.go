package services

import (
	"fmt"
	"strings"
	"unicode"

	"bloggie/models"
)

// BuildCTA erzeugt den Call-to-Action-Block deterministisch aus Kontext und
// Content, bewusst ohne LLM-Aufruf: identische Eingabe ergibt byte-identische
// Ausgabe. Das Bild wird von einer separaten Stufe befüllt.
func BuildCTA(content *models.OptimizedContent, biz *models.BusinessContext) models.CTAData {
	return models.CTAData{
		CTAHeadline:   "Ready to get started?",
		CTACopy:       fmt.Sprintf("Looking for a trusted %s? %s is here to help. Book your appointment today.", strings.ToLower(biz.BusinessType), biz.BusinessName),
		CTAButtonText: "Book Now",
		CTALink:       fmt.Sprintf("https://%s.bookings.app", bookingSlug(biz.BusinessName)),
	}
}

// RenderCTAMarkdown rendert den CTA als Markdown-Block. Der Block wird hier
// NICHT an den Content angehängt; das entscheidet der Aufrufer, damit ein
// Mensch den CTA vor dem Commit noch bearbeiten kann.
func RenderCTAMarkdown(cta models.CTAData) string {
	var b strings.Builder
	b.WriteString("\n\n---\n\n")
	if cta.CTAHeadline != "" {
		fmt.Fprintf(&b, "## %s\n\n", cta.CTAHeadline)
	}
	b.WriteString(cta.CTACopy)
	b.WriteString("\n\n")
	label := cta.CTAButtonText
	if label == "" {
		label = cta.CTALink
	}
	fmt.Fprintf(&b, "[%s](%s)\n", label, cta.CTALink)
	return b.String()
}

// bookingSlug bildet den Subdomain-Slug: Kleinbuchstaben, Whitespace raus.
func bookingSlug(name string) string {
	lowered := strings.ToLower(name)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, lowered)
}
