package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloggie/models"
)

func TestBuildCTADeterministic(t *testing.T) {
	content := &models.OptimizedContent{Title: "5 Tips", ContentMarkdown: "# Intro"}
	biz := &models.BusinessContext{BusinessName: "Sunrise Dental Care", BusinessType: "Dental Clinic"}

	first := BuildCTA(content, biz)
	second := BuildCTA(content, biz)

	// Byte-identisch über Aufrufe hinweg: es gibt keine randomisierten Felder.
	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuildCTAFields(t *testing.T) {
	content := &models.OptimizedContent{Title: "5 Tips"}
	biz := &models.BusinessContext{BusinessName: "Sunrise Dental Care", BusinessType: "Dental Clinic"}

	cta := BuildCTA(content, biz)

	assert.Equal(t, "Book Now", cta.CTAButtonText)
	assert.Equal(t, "https://sunrisedentalcare.bookings.app", cta.CTALink)
	assert.Contains(t, cta.CTACopy, "Sunrise Dental Care")
	assert.Contains(t, cta.CTACopy, "dental clinic")
	assert.Empty(t, cta.CTAImageURL)
	assert.NotEmpty(t, cta.CTAHeadline)
}

func TestRenderCTAMarkdownDoesNotTouchContent(t *testing.T) {
	content := &models.OptimizedContent{ContentMarkdown: "# Intro\n\nBody."}
	biz := &models.BusinessContext{BusinessName: "Joes Plumbing", BusinessType: "Plumber"}

	cta := BuildCTA(content, biz)
	block := RenderCTAMarkdown(cta)

	assert.Contains(t, block, cta.CTALink)
	assert.Contains(t, block, "[Book Now](")
	// Das Original bleibt unverändert; anhängen entscheidet der Aufrufer.
	assert.Equal(t, "# Intro\n\nBody.", content.ContentMarkdown)
}

func TestBookingSlug(t *testing.T) {
	assert.Equal(t, "sunrisedentalcare", bookingSlug("Sunrise Dental Care"))
	assert.Equal(t, "joes-plumbing", bookingSlug("Joes-Plumbing"))
	assert.Equal(t, "caférouge", bookingSlug("Café  Rouge"))
}
