package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pratofeito/backend/internal/models"
)

var (
	ErrMenuNotFound  = errors.New("no menu entry for this date and meal type")
	ErrMenuSlotTaken = errors.New("a menu entry for this date and meal type already exists")
)

// MenuService owns the calendar of planned meals.
type MenuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

// Plan creates a menu entry for one (date, meal_type) slot.
func (s *MenuService) Plan(ctx context.Context, entry *models.MenuEntry) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.MenuEntry{}).
		Where("menu_date = ? AND meal_type = ?", entry.MenuDate, entry.MealType).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrMenuSlotTaken
	}
	return s.db.WithContext(ctx).Create(entry).Error
}

// Get returns the menu entry for a slot with its recipes preloaded.
func (s *MenuService) Get(ctx context.Context, date time.Time, meal models.MealType) (*models.MenuEntry, error) {
	var entry models.MenuEntry
	err := s.db.WithContext(ctx).
		Preload("ProteinRecipe").
		Preload("CarbRecipe").
		Preload("VegetableRecipe").
		Preload("SaladRecipe").
		Preload("SauceRecipe").
		Where("menu_date = ? AND meal_type = ?", date, meal).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMenuNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Month lists entries whose date falls within the given month.
func (s *MenuService) Month(ctx context.Context, year int, month time.Month) ([]models.MenuEntry, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var entries []models.MenuEntry
	if err := s.db.WithContext(ctx).
		Where("menu_date >= ? AND menu_date < ?", start, end).
		Order("menu_date, meal_type").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Update replaces the recipe assignments of an existing slot.
func (s *MenuService) Update(ctx context.Context, date time.Time, meal models.MealType, updates *models.MenuEntry) (*models.MenuEntry, error) {
	entry, err := s.Get(ctx, date, meal)
	if err != nil {
		return nil, err
	}

	entry.ProteinRecipeID = updates.ProteinRecipeID
	entry.CarbRecipeID = updates.CarbRecipeID
	entry.VegetableRecipeID = updates.VegetableRecipeID
	entry.SaladRecipeID = updates.SaladRecipeID
	entry.SauceRecipeID = updates.SauceRecipeID

	if err := s.db.WithContext(ctx).Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Remove deletes a slot's menu entry.
func (s *MenuService) Remove(ctx context.Context, date time.Time, meal models.MealType) error {
	result := s.db.WithContext(ctx).
		Where("menu_date = ? AND meal_type = ?", date, meal).
		Delete(&models.MenuEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMenuNotFound
	}
	return nil
}
