package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratofeito/backend/internal/models"
)

// OrderView is an order joined with the names operations staff work with.
type OrderView struct {
	Order         models.Order `json:"order"`
	CustomerName  string       `json:"customer_name"`
	CustomerPhone string       `json:"customer_phone"`
	ProteinName   string       `json:"protein_name"`
	CarbName      string       `json:"carb_name"`
	VegetableName string       `json:"vegetable_name"`
	SaladName     string       `json:"salad_name"`
	SauceName     string       `json:"sauce_name"`
}

// OrderService reads and edits materialized orders.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// Get returns one order with its customer preloaded.
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Customer").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ForSlot returns the day's orders for a meal type, joined with customer
// and resolved component names, sorted by delivery time.
func (s *OrderService) ForSlot(ctx context.Context, date time.Time, meal models.MealType) ([]OrderView, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).Preload("Customer").
		Where("order_date = ? AND meal_type = ?", date, meal).
		Order("delivery_time").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		view, err := s.buildView(ctx, &orders[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// FindBySlot locates a customer's order on a given slot.
func (s *OrderService) FindBySlot(ctx context.Context, customerID uuid.UUID, date time.Time, meal models.MealType) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Where("customer_id = ? AND order_date = ? AND meal_type = ?", customerID, date, meal).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Save persists in-place edits (overrides, address, time, quantities).
func (s *OrderService) Save(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Save(order).Error
}

func (s *OrderService) buildView(ctx context.Context, order *models.Order) (OrderView, error) {
	view := OrderView{Order: *order}
	if order.Customer != nil {
		view.CustomerName = order.Customer.Name
		view.CustomerPhone = order.Customer.Phone
	}

	protein, err := ResolveComponent(ctx, s.db, RecipeSelection{
		OverrideID:   order.ProteinOverrideID,
		OverrideName: order.ProteinOverrideName,
		MenuDefault:  order.ProteinRecipeID,
	})
	if err != nil {
		return view, err
	}
	view.ProteinName = protein.Name

	carb, err := ResolveComponent(ctx, s.db, RecipeSelection{
		OverrideID:   order.CarbOverrideID,
		OverrideName: order.CarbOverrideName,
		MenuDefault:  order.CarbRecipeID,
	})
	if err != nil {
		return view, err
	}
	view.CarbName = carb.Name

	for _, c := range []struct {
		id   *uuid.UUID
		dest *string
	}{
		{order.VegetableRecipeID, &view.VegetableName},
		{order.SaladRecipeID, &view.SaladName},
		{order.SauceRecipeID, &view.SauceName},
	} {
		resolved, err := ResolveComponent(ctx, s.db, RecipeSelection{MenuDefault: c.id})
		if err != nil {
			return view, err
		}
		*c.dest = resolved.Name
	}

	return view, nil
}
