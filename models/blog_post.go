package models

import (
	"time"

	"gorm.io/datatypes"
)

// BlogPost repräsentiert einen generierten Blog-Artikel. Persistiert wird
// nur das Endergebnis der Pipeline; Zwischenergebnisse (OptimizedContent,
// SchemaData, CTAData) bleiben transient beim Aufrufer.
type BlogPost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID            string `json:"userId" gorm:"index"`
	BusinessContextID uint   `json:"businessContextId" gorm:"index"`

	Title           string         `json:"title" gorm:"not null"`
	Slug            string         `json:"slug" gorm:"index"`
	MetaDescription string         `json:"metaDescription" gorm:"type:text"`
	ContentMarkdown string         `json:"contentMarkdown" gorm:"type:text"`
	FAQs            datatypes.JSON `json:"faqs" gorm:"type:jsonb"`

	// draft, published
	Status      string     `json:"status" gorm:"index;default:'draft'"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (BlogPost) TableName() string {
	return "blog_posts"
}
