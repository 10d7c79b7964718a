package services

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloggie/models"
)

// ErrValidation kennzeichnet eine fehlgeschlagene Eingabe-Validierung.
// Handler mappen den Fehler auf 400.
var ErrValidation = errors.New("validation failed")

// BusinessContextService validiert, normalisiert und persistiert
// Business-Kontexte. Es gibt nur einen Insert-Pfad (create-or-fail).
type BusinessContextService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewBusinessContextService erstellt eine neue Service-Instanz.
func NewBusinessContextService(db *gorm.DB, logger *zap.Logger) *BusinessContextService {
	return &BusinessContextService{DB: db, Logger: logger}
}

// Create normalisiert den rohen Kontext (trimmen, leere Service-Einträge
// verwerfen), validiert die Pflichtfelder und fügt eine neue Zeile ein.
// Bei Validierungsfehlern wird nichts geschrieben.
func (s *BusinessContextService) Create(ctx *models.BusinessContext) error {
	normalizeBusinessContext(ctx)
	if err := validateBusinessContext(ctx); err != nil {
		return err
	}
	if err := s.DB.Create(ctx).Error; err != nil {
		s.Logger.Error("Business-Kontext konnte nicht gespeichert werden", zap.Error(err))
		return err
	}
	s.Logger.Info("Business-Kontext angelegt", zap.Uint("id", ctx.ID), zap.String("name", ctx.BusinessName))
	return nil
}

// List gibt alle gespeicherten Business-Kontexte zurück.
func (s *BusinessContextService) List() ([]models.BusinessContext, error) {
	var contexts []models.BusinessContext
	if err := s.DB.Order("created_at desc").Find(&contexts).Error; err != nil {
		return nil, err
	}
	return contexts, nil
}

func normalizeBusinessContext(ctx *models.BusinessContext) {
	ctx.BusinessName = strings.TrimSpace(ctx.BusinessName)
	ctx.BusinessType = strings.TrimSpace(ctx.BusinessType)
	ctx.TargetAudience = strings.TrimSpace(ctx.TargetAudience)
	ctx.Positioning = strings.TrimSpace(ctx.Positioning)
	ctx.Location.Address = strings.TrimSpace(ctx.Location.Address)
	ctx.Location.City = strings.TrimSpace(ctx.Location.City)
	ctx.Location.Region = strings.TrimSpace(ctx.Location.Region)
	ctx.Location.Country = strings.TrimSpace(ctx.Location.Country)

	if ctx.Services != nil {
		cleaned := make([]string, 0, len(ctx.Services))
		for _, svc := range ctx.Services {
			if trimmed := strings.TrimSpace(svc); trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		ctx.Services = cleaned
	}
}

func validateBusinessContext(ctx *models.BusinessContext) error {
	required := []struct {
		field string
		value string
	}{
		{"businessName", ctx.BusinessName},
		{"businessType", ctx.BusinessType},
		{"targetAudience", ctx.TargetAudience},
		{"positioning", ctx.Positioning},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, r.field)
		}
	}
	if ctx.Services == nil {
		return fmt.Errorf("%w: services must be a list", ErrValidation)
	}
	return nil
}
