package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pratofeito/backend/config"
	"github.com/pratofeito/backend/internal/models"
	"github.com/pratofeito/backend/internal/service"
)

// ErrNotSendable means the order cannot be mapped onto ERP product ids.
var ErrNotSendable = errors.New("order is missing ERP product ids")

// ERPService pushes production orders to the kitchen ERP.
type ERPService struct {
	orders  *service.OrderService
	catalog *service.CatalogService
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewERPService(cfg *config.Config, orders *service.OrderService, catalog *service.CatalogService) (*ERPService, error) {
	if cfg.ERPBaseURL == "" {
		return nil, fmt.Errorf("ERP_BASE_URL must be set")
	}
	return &ERPService{
		orders:  orders,
		catalog: catalog,
		baseURL: cfg.ERPBaseURL,
		apiKey:  cfg.ERPAPIKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type erpLine struct {
	ProductID string  `json:"product_id"`
	QtyG      float64 `json:"qty_g"`
}

type erpOrderPayload struct {
	Reference    string    `json:"reference"`
	CustomerName string    `json:"customer_name"`
	DeliveryDate string    `json:"delivery_date"`
	MealType     string    `json:"meal_type"`
	Lines        []erpLine `json:"lines"`
}

// PushOrder maps one order onto ERP product ids and posts it. Orders
// missing an external id on either macro component are flagged
// unsendable before any call is made.
func (s *ERPService) PushOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}

	protein, err := s.componentRecipe(ctx, order.ProteinOverrideID, order.ProteinRecipeID)
	if err != nil {
		return err
	}
	carb, err := s.componentRecipe(ctx, order.CarbOverrideID, order.CarbRecipeID)
	if err != nil {
		return err
	}

	if protein == nil || carb == nil || protein.ERPProductID == "" || carb.ERPProductID == "" {
		return ErrNotSendable
	}

	payload := erpOrderPayload{
		Reference:    order.ID.String(),
		DeliveryDate: order.OrderDate.Format("2006-01-02"),
		MealType:     string(order.MealType),
		Lines: []erpLine{
			{ProductID: protein.ERPProductID, QtyG: order.ProteinQtyG},
			{ProductID: carb.ERPProductID, QtyG: order.CarbQtyG},
		},
	}
	if order.Customer != nil {
		payload.CustomerName = order.Customer.Name
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal ERP payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/orders", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create ERP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ERP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read ERP response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ERP request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// PushSlot pushes every order of a slot, accumulating per-item results.
func (s *ERPService) PushSlot(ctx context.Context, date time.Time, meal models.MealType) (*Report, error) {
	views, err := s.orders.ForSlot(ctx, date, meal)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, v := range views {
		if err := s.PushOrder(ctx, v.Order.ID); err != nil {
			report.Failure(v.Order.ID.String(), err)
			continue
		}
		report.Success(v.Order.ID.String())
	}
	return report, nil
}

func (s *ERPService) componentRecipe(ctx context.Context, overrideID, recipeID *uuid.UUID) (*models.Recipe, error) {
	id := recipeID
	if overrideID != nil {
		id = overrideID
	}
	if id == nil {
		return nil, nil
	}
	recipe, err := s.catalog.Get(ctx, *id)
	if errors.Is(err, service.ErrRecipeNotFound) {
		return nil, nil
	}
	return recipe, err
}
