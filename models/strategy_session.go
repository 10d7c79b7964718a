package models

import (
	"time"

	"gorm.io/datatypes"
)

// Mögliche Status einer Strategie-Session. Der Status ist eine reine
// Aufzählung ohne erzwungene Übergänge (der Aufrufer setzt ihn frei).
const (
	SessionStatusPendingReview = "pending_review"
	SessionStatusApproved      = "approved"
	SessionStatusRejected      = "rejected"
)

// StrategySession ist ein vorgeschlagener Keyword-/Themenplan, der auf
// menschliche Freigabe wartet. Keyword-Strategie und Themenoptionen sind
// opake JSON-Blobs aus dem Strategie-Schritt der UI.
type StrategySession struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	BusinessContextID uint `json:"businessContextId" gorm:"index"`

	KeywordStrategy datatypes.JSON `json:"keywordStrategy" gorm:"type:jsonb"`
	TopicOptions    datatypes.JSON `json:"topicOptions" gorm:"type:jsonb"`
	Status          string         `json:"status" gorm:"index;default:'pending_review'"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (StrategySession) TableName() string {
	return "strategy_sessions"
}
