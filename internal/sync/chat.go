package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pratofeito/backend/config"
	"github.com/pratofeito/backend/internal/models"
	"github.com/pratofeito/backend/internal/service"
)

// Custom field names on the chat platform side. Looked up once per
// invocation and addressed by id afterwards.
var chatFieldNames = []string{
	"nome", "endereco", "horario", "proteina", "carboidrato",
	"legumes", "salada", "molho", "refeicao",
}

// ChatService mirrors the day's orders onto chat-platform subscriber
// custom fields so automation flows can message customers.
type ChatService struct {
	orders  *service.OrderService
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewChatService(cfg *config.Config, orders *service.OrderService) (*ChatService, error) {
	if cfg.ChatBaseURL == "" {
		return nil, fmt.Errorf("CHAT_BASE_URL must be set")
	}
	return &ChatService{
		orders:  orders,
		baseURL: cfg.ChatBaseURL,
		apiKey:  cfg.ChatAPIKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// SyncSlot pushes every order of a slot to the chat platform. A partial
// field-update failure marks that customer failed but the loop moves on.
func (s *ChatService) SyncSlot(ctx context.Context, date time.Time, meal models.MealType) (*Report, error) {
	views, err := s.orders.ForSlot(ctx, date, meal)
	if err != nil {
		return nil, err
	}

	fields, err := s.fieldIDs(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, v := range views {
		if v.CustomerPhone == "" {
			report.Failure(v.CustomerName, fmt.Errorf("customer has no phone"))
			continue
		}
		if err := s.syncOrder(ctx, fields, &v); err != nil {
			report.Failure(v.CustomerPhone, err)
			continue
		}
		report.Success(v.CustomerPhone)
	}
	return report, nil
}

func (s *ChatService) syncOrder(ctx context.Context, fields map[string]string, v *service.OrderView) error {
	subscriberID, err := s.resolveSubscriber(ctx, v.CustomerPhone, v.CustomerName)
	if err != nil {
		return err
	}

	updates := map[string]string{
		"nome":        v.CustomerName,
		"endereco":    v.Order.DeliveryAddress,
		"horario":     v.Order.DeliveryTime,
		"proteina":    fmt.Sprintf("%s %.0fg", v.ProteinName, v.Order.ProteinQtyG),
		"carboidrato": fmt.Sprintf("%s %.0fg", v.CarbName, v.Order.CarbQtyG),
		"legumes":     v.VegetableName,
		"salada":      v.SaladName,
		"molho":       v.SauceName,
		"refeicao":    string(v.Order.MealType),
	}

	for _, name := range chatFieldNames {
		fieldID, ok := fields[name]
		if !ok {
			return fmt.Errorf("chat platform has no custom field %q", name)
		}
		if err := s.setField(ctx, subscriberID, fieldID, updates[name]); err != nil {
			return fmt.Errorf("updating field %q: %w", name, err)
		}
	}
	return nil
}

// fieldIDs fetches the custom field catalog once per invocation.
func (s *ChatService) fieldIDs(ctx context.Context) (map[string]string, error) {
	body, err := s.call(ctx, "GET", "/custom_fields", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Data []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode custom fields: %w", err)
	}

	fields := make(map[string]string, len(result.Data))
	for _, f := range result.Data {
		fields[f.Name] = f.ID
	}
	return fields, nil
}

// resolveSubscriber finds a subscriber by phone or creates one.
func (s *ChatService) resolveSubscriber(ctx context.Context, phone, name string) (string, error) {
	body, err := s.call(ctx, "GET", "/subscribers?phone="+url.QueryEscape(phone), nil)
	if err == nil {
		var result struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		if jsonErr := json.Unmarshal(body, &result); jsonErr == nil && len(result.Data) > 0 {
			return result.Data[0].ID, nil
		}
	}

	body, err = s.call(ctx, "POST", "/subscribers", map[string]string{
		"phone":      phone,
		"first_name": name,
	})
	if err != nil {
		return "", fmt.Errorf("creating subscriber: %w", err)
	}

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("failed to decode subscriber: %w", err)
	}
	if created.Data.ID == "" {
		return "", fmt.Errorf("subscriber response carried no id")
	}
	return created.Data.ID, nil
}

func (s *ChatService) setField(ctx context.Context, subscriberID, fieldID, value string) error {
	path := fmt.Sprintf("/subscribers/%s/custom_fields/%s", subscriberID, fieldID)
	_, err := s.call(ctx, "POST", path, map[string]string{"value": value})
	return err
}

func (s *ChatService) call(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("chat request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
