package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratofeito/backend/internal/models"
)

const pickupOffsetMinutes = 10

// ArchiverService copies finished orders into the immutable history
// table with denormalized recipe names and both macro views.
type ArchiverService struct {
	db *gorm.DB
}

func NewArchiverService(db *gorm.DB) *ArchiverService {
	return &ArchiverService{db: db}
}

// ArchiveReport accumulates a batch archival run.
type ArchiveReport struct {
	Archived       int `json:"archived"`
	AlreadyPresent int `json:"already_present"`
}

// Archive snapshots one order into history. An existing row for the
// same (customer, date, meal_type) makes the call a no-op, not an error.
func (s *ArchiverService) Archive(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Customer").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrOrderNotFound
		}
		return false, err
	}
	return s.archiveOrder(ctx, &order)
}

// ArchiveSlot archives every order of one (date, meal_type) slot.
// Failures on one order do not undo or stop the rest.
func (s *ArchiverService) ArchiveSlot(ctx context.Context, date time.Time, meal models.MealType) (*ArchiveReport, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).Preload("Customer").
		Where("order_date = ? AND meal_type = ?", date, meal).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	report := &ArchiveReport{}
	for i := range orders {
		created, err := s.archiveOrder(ctx, &orders[i])
		if err != nil {
			return nil, err
		}
		if created {
			report.Archived++
		} else {
			report.AlreadyPresent++
		}
	}
	return report, nil
}

func (s *ArchiverService) archiveOrder(ctx context.Context, order *models.Order) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.OrderHistory{}).
		Where("customer_id = ? AND order_date = ? AND meal_type = ?", order.CustomerID, order.OrderDate, order.MealType).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if order.Customer == nil {
		return false, fmt.Errorf("order %s has no customer", order.ID)
	}

	protein, err := ResolveComponent(ctx, s.db, RecipeSelection{
		OverrideID:   order.ProteinOverrideID,
		OverrideName: order.ProteinOverrideName,
		MenuDefault:  order.ProteinRecipeID,
	})
	if err != nil {
		return false, err
	}
	carb, err := ResolveComponent(ctx, s.db, RecipeSelection{
		OverrideID:   order.CarbOverrideID,
		OverrideName: order.CarbOverrideName,
		MenuDefault:  order.CarbRecipeID,
	})
	if err != nil {
		return false, err
	}
	vegetable, err := ResolveComponent(ctx, s.db, RecipeSelection{MenuDefault: order.VegetableRecipeID})
	if err != nil {
		return false, err
	}
	salad, err := ResolveComponent(ctx, s.db, RecipeSelection{MenuDefault: order.SaladRecipeID})
	if err != nil {
		return false, err
	}
	sauce, err := ResolveComponent(ctx, s.db, RecipeSelection{MenuDefault: order.SauceRecipeID})
	if err != nil {
		return false, err
	}

	targetProtein, targetCarbs, targetFat := order.Customer.MacroTargets(order.MealType)
	delivered := DeliveredTotals([]PlateComponent{
		{Recipe: protein.Recipe, QtyG: order.ProteinQtyG},
		{Recipe: carb.Recipe, QtyG: order.CarbQtyG},
		{Recipe: vegetable.Recipe, QtyG: order.VegetableQtyG},
		{Recipe: salad.Recipe, QtyG: order.SaladQtyG},
		{Recipe: sauce.Recipe, QtyG: order.SauceQtyG},
	})

	history := models.OrderHistory{
		CustomerID:   order.CustomerID,
		CustomerName: order.Customer.Name,
		OrderDate:    order.OrderDate,
		MealType:     order.MealType,

		ProteinName:   protein.Name,
		ProteinQtyG:   order.ProteinQtyG,
		CarbName:      carb.Name,
		CarbQtyG:      order.CarbQtyG,
		VegetableName: vegetable.Name,
		VegetableQtyG: order.VegetableQtyG,
		SaladName:     salad.Name,
		SaladQtyG:     order.SaladQtyG,
		SauceName:     sauce.Name,
		SauceQtyG:     order.SauceQtyG,

		TargetProteinG: targetProtein,
		TargetCarbsG:   targetCarbs,
		TargetFatG:     targetFat,
		TargetKcal:     TargetKcal(targetProtein, targetCarbs, targetFat),

		DeliveredProteinG: delivered.ProteinG,
		DeliveredCarbsG:   delivered.CarbsG,
		DeliveredFatG:     delivered.FatG,
		DeliveredKcal:     delivered.Kcal,
		DeliveredCost:     delivered.Cost,

		KitchenStatus:  string(order.Status),
		DeliveryStatus: deliveryStatus(order.Status),

		DeliveryTime:    order.DeliveryTime,
		PickupTime:      PickupTime(order.DeliveryTime),
		DeliveryAddress: order.DeliveryAddress,
	}

	if err := s.db.WithContext(ctx).Create(&history).Error; err != nil {
		return false, err
	}
	return true, nil
}

func deliveryStatus(status models.OrderStatus) string {
	switch status {
	case models.OrderDelivered, models.OrderCancelled:
		return string(status)
	default:
		return "pending"
	}
}

// PickupTime derives the kitchen pickup slot as a fixed offset before
// delivery, wrapping around midnight with modular minute arithmetic.
func PickupTime(deliveryTime string) string {
	var hour, minute int
	if _, err := fmt.Sscanf(deliveryTime, "%d:%d", &hour, &minute); err != nil {
		return ""
	}
	total := (hour*60 + minute - pickupOffsetMinutes + 24*60) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
