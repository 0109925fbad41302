package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pratofeito/backend/internal/models"
)

// SettingsService reads and writes the single portion-defaults row.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the defaults row, creating it with the house values on
// first access.
func (s *SettingsService) Get(ctx context.Context) (*models.PortionDefaults, error) {
	var defaults models.PortionDefaults
	err := s.db.WithContext(ctx).First(&defaults).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults = models.PortionDefaults{VegetableQtyG: 100, SaladQtyG: 80, SauceQtyG: 30}
		if err := s.db.WithContext(ctx).Create(&defaults).Error; err != nil {
			return nil, err
		}
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &defaults, nil
}

// Update replaces the default portion grams.
func (s *SettingsService) Update(ctx context.Context, vegetable, salad, sauce float64) (*models.PortionDefaults, error) {
	defaults, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	defaults.VegetableQtyG = vegetable
	defaults.SaladQtyG = salad
	defaults.SauceQtyG = sauce

	if err := s.db.WithContext(ctx).Save(defaults).Error; err != nil {
		return nil, err
	}
	return defaults, nil
}
