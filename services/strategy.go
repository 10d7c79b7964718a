package services

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloggie/models"
)

// StrategyService verwaltet Strategie-Sessions: Upsert-auf-ID, Abruf der
// jüngsten Session und hartes Löschen. Es gibt keine Versionshistorie und
// keine Sperren; konkurrierende Writer auf dieselbe ID gewinnen zuletzt.
type StrategyService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewStrategyService erstellt eine neue Service-Instanz.
func NewStrategyService(db *gorm.DB, logger *zap.Logger) *StrategyService {
	return &StrategyService{DB: db, Logger: logger}
}

// Create fügt eine neue Session ein oder aktualisiert bei gesetzter ID die
// bestehende Zeile (keywordStrategy, topicOptions, status). Ein Update ohne
// Treffer meldet gorm.ErrRecordNotFound statt still zu verpuffen.
func (s *StrategyService) Create(session *models.StrategySession) (*models.StrategySession, error) {
	if session.ID != 0 {
		res := s.DB.Model(&models.StrategySession{}).
			Where("id = ?", session.ID).
			Updates(map[string]interface{}{
				"keyword_strategy": session.KeywordStrategy,
				"topic_options":    session.TopicOptions,
				"status":           session.Status,
			})
		if res.Error != nil {
			s.Logger.Error("Strategie-Session-Update fehlgeschlagen", zap.Uint("id", session.ID), zap.Error(res.Error))
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
		var stored models.StrategySession
		if err := s.DB.First(&stored, session.ID).Error; err != nil {
			return nil, err
		}
		return &stored, nil
	}

	if session.Status == "" {
		session.Status = models.SessionStatusPendingReview
	}
	if err := s.DB.Create(session).Error; err != nil {
		s.Logger.Error("Strategie-Session konnte nicht angelegt werden", zap.Error(err))
		return nil, err
	}
	return session, nil
}

// GetLatest gibt die zuletzt angelegte Session zurück, optional gefiltert
// nach Business-Kontext. Keine Treffer sind kein Fehler: (nil, nil).
func (s *StrategyService) GetLatest(businessContextID *uint) (*models.StrategySession, error) {
	query := s.DB.Order("created_at desc")
	if businessContextID != nil {
		query = query.Where("business_context_id = ?", *businessContextID)
	}
	var session models.StrategySession
	if err := query.First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// Delete löscht eine Session hart. Eine unbekannte ID ist kein Fehler:
// Löschen und "war nie da" sind für den Aufrufer nicht unterscheidbar.
func (s *StrategyService) Delete(id uint) error {
	return s.DB.Delete(&models.StrategySession{}, id).Error
}
