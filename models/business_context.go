package models

import "time"

// Location beschreibt den Standort eines Geschäfts. Fehlende Teilfelder
// bleiben leer und werden im JSON weggelassen.
type Location struct {
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
}

// BusinessContext ist das kanonische Profil des Geschäfts, für das Content
// generiert wird. Root-Aggregat: alle nachgelagerten Pipeline-Stufen lesen es.
type BusinessContext struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Besitzer (Identity-Provider-ID), optional bei anonymem Setup
	UserID string `json:"userId,omitempty" gorm:"index"`

	BusinessName   string   `json:"businessName" gorm:"not null"`
	BusinessType   string   `json:"businessType" gorm:"not null"`
	Location       Location `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	Services       []string `json:"services" gorm:"serializer:json"`
	TargetAudience string   `json:"targetAudience" gorm:"type:text;not null"`
	Positioning    string   `json:"positioning" gorm:"type:text;not null"`

	// Optionale Integrations-Credentials (z.B. CMS-Publishing), nie im JSON
	CMSEndpoint string `json:"cmsEndpoint,omitempty"`
	CMSToken    string `json:"-"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (BusinessContext) TableName() string {
	return "business_contexts"
}
