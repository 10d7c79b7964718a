package models

import "time"

// Feedback ist eine reine Write-Only-Senke: Bewertungen werden eingefügt,
// aber von diesem System nie zurückgelesen.
type Feedback struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`

	BlogID        string `json:"blogId" gorm:"index;not null"`
	BlogTitle     string `json:"blogTitle"`
	UserEmail     string `json:"userEmail" gorm:"not null"`
	OverallRating int    `json:"overallRating" gorm:"not null"`

	ContentScore    *int   `json:"contentScore,omitempty"`
	ContentFeedback string `json:"contentFeedback,omitempty" gorm:"type:text"`
	SEOScore        *int   `json:"seoScore,omitempty"`
	SEOFeedback     string `json:"seoFeedback,omitempty" gorm:"type:text"`
	AgentFeedback   string `json:"agentFeedback,omitempty" gorm:"type:text"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Feedback) TableName() string {
	return "feedbacks"
}
