package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/pratofeito/backend/internal/models"
)

// MaterializeReport accumulates the outcome of one materialization run.
// Skips are expected conditions, never failures.
type MaterializeReport struct {
	Created           int `json:"created"`
	SkippedExisting   int `json:"skipped_existing"`
	SkippedNoMenu     int `json:"skipped_no_menu"`
	SkippedIncomplete int `json:"skipped_incomplete"`
}

// MaterializerService turns recurring schedules plus the day's menu into
// concrete order rows.
type MaterializerService struct {
	db *gorm.DB
}

func NewMaterializerService(db *gorm.DB) *MaterializerService {
	return &MaterializerService{db: db}
}

// Materialize produces one order per active customer whose active
// schedule matches the date's day-of-week and the meal type, provided a
// menu entry exists for the slot. Runs are idempotent by skip: an
// existing order is never overwritten.
func (s *MaterializerService) Materialize(ctx context.Context, date time.Time, meal models.MealType) (*MaterializeReport, error) {
	report := &MaterializeReport{}
	dow := ScheduleDayOfWeek(date)

	menu, err := s.menuFor(ctx, date, meal)
	if err != nil {
		return nil, err
	}

	defaults, err := s.portionDefaults(ctx)
	if err != nil {
		return nil, err
	}

	var customers []models.Customer
	if err := s.db.WithContext(ctx).
		Where("active = ? AND status = ?", true, models.CustomerActive).
		Preload("Schedules", "active = ? AND day_of_week = ? AND meal_type = ?", true, dow, meal).
		Find(&customers).Error; err != nil {
		return nil, err
	}

	for _, customer := range customers {
		for _, schedule := range customer.Schedules {
			if !schedule.Complete() {
				log.Printf("materialize: skipping %s %s/%s: incomplete schedule", customer.Name, date.Format("2006-01-02"), meal)
				report.SkippedIncomplete++
				continue
			}
			if menu == nil {
				report.SkippedNoMenu++
				continue
			}

			var existing models.Order
			err := s.db.WithContext(ctx).
				Where("customer_id = ? AND order_date = ? AND meal_type = ?", customer.ID, date, meal).
				First(&existing).Error
			if err == nil {
				report.SkippedExisting++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}

			order := s.buildOrder(&customer, &schedule, menu, defaults, date, meal)
			if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
				return nil, err
			}
			report.Created++
		}
	}

	return report, nil
}

func (s *MaterializerService) buildOrder(
	customer *models.Customer,
	schedule *models.DeliverySchedule,
	menu *models.MenuEntry,
	defaults models.PortionDefaults,
	date time.Time,
	meal models.MealType,
) *models.Order {
	proteinTarget, carbTarget, _ := customer.MacroTargets(meal)

	order := &models.Order{
		CustomerID:      customer.ID,
		OrderDate:       date,
		MealType:        meal,
		Status:          models.OrderPending,
		DeliveryTime:    schedule.DeliveryTime,
		DeliveryAddress: schedule.DeliveryAddress,

		ProteinRecipeID:   menu.ProteinRecipeID,
		CarbRecipeID:      menu.CarbRecipeID,
		VegetableRecipeID: menu.VegetableRecipeID,
		SaladRecipeID:     menu.SaladRecipeID,
		SauceRecipeID:     menu.SauceRecipeID,
	}

	order.ProteinQtyG = ProteinQuantity(proteinTarget, menu.ProteinRecipe)
	order.CarbQtyG = CarbQuantity(carbTarget, menu.CarbRecipe)

	if menu.VegetableRecipeID != nil {
		order.VegetableQtyG = defaults.VegetableQtyG
	}
	if menu.SaladRecipeID != nil {
		order.SaladQtyG = defaults.SaladQtyG
	}
	if menu.SauceRecipeID != nil {
		order.SauceQtyG = defaults.SauceQtyG
	}

	return order
}

func (s *MaterializerService) menuFor(ctx context.Context, date time.Time, meal models.MealType) (*models.MenuEntry, error) {
	var menu models.MenuEntry
	err := s.db.WithContext(ctx).
		Preload("ProteinRecipe").
		Preload("CarbRecipe").
		Where("menu_date = ? AND meal_type = ?", date, meal).
		First(&menu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// portionDefaults loads the settings row once per run; callers receive a
// value copy, never shared mutable state. A missing row falls back to
// the model defaults.
func (s *MaterializerService) portionDefaults(ctx context.Context) (models.PortionDefaults, error) {
	var defaults models.PortionDefaults
	err := s.db.WithContext(ctx).First(&defaults).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PortionDefaults{VegetableQtyG: 100, SaladQtyG: 80, SauceQtyG: 30}, nil
	}
	if err != nil {
		return models.PortionDefaults{}, err
	}
	return defaults, nil
}
