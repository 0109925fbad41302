package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratofeito/backend/internal/models"
)

// ErrInvalidTransition is returned for a status change the kitchen flow
// does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrOrderNotFound is returned when the order id does not exist.
var ErrOrderNotFound = errors.New("order not found")

var statusRank = map[models.OrderStatus]int{
	models.OrderPending:   0,
	models.OrderPreparing: 1,
	models.OrderReady:     2,
	models.OrderDelivered: 3,
}

// CanTransition reports whether from→to is a legal status change.
// Progression is forward-only, one step at a time; cancellation is
// reachable from any live state.
func CanTransition(from, to models.OrderStatus) bool {
	if from == models.OrderCancelled {
		return false
	}
	if to == models.OrderCancelled {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank == fromRank+1
}

// StatusService mutates the kitchen/delivery progression of orders.
type StatusService struct {
	db *gorm.DB
}

func NewStatusService(db *gorm.DB) *StatusService {
	return &StatusService{db: db}
}

// Update moves an order to the given status. The write is a plain
// single-row update; concurrent operators race and the last write wins,
// which is acceptable at this scale.
func (s *StatusService) Update(ctx context.Context, orderID uuid.UUID, to models.OrderStatus) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !CanTransition(order.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, to)
	}

	order.Status = to
	if err := s.db.WithContext(ctx).Model(&order).Update("status", to).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Cancel marks the order cancelled regardless of its current state.
func (s *StatusService) Cancel(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.Update(ctx, orderID, models.OrderCancelled)
}
