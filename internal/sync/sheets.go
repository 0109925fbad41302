package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pratofeito/backend/config"
	"github.com/pratofeito/backend/internal/models"
	"github.com/pratofeito/backend/internal/service"
)

const sheetsAPIBase = "https://sheets.googleapis.com"

// cancelSentinel is what drivers write into the address cell to mark a
// delivery as called off.
const cancelSentinel = "Cancelado"

// Routing sheet column layout. The first six columns are written by the
// export; the last four are filled in by drivers on the road.
const (
	colTime = iota
	colName
	colPhone
	colAddress
	colProteinQty
	colCarbQty
	colFixAddress
	colFixTime
	colFixProtein
	colFixCarb
	colCount
)

// defaultRoutingRange spans every column of the layout above. The
// Sheets API only returns cells inside the requested range, so a
// narrower range silently drops the trailing correction cells on read.
var defaultRoutingRange = fmt.Sprintf("Rotas!A2:%c", 'A'+colCount-1)

// TokenMinter supplies a bearer token for one invocation.
type TokenMinter interface {
	MintAccessToken(ctx context.Context, scopes ...string) (string, error)
}

// SheetsService bridges the day's orders to the driver routing
// spreadsheet and applies corrections back.
type SheetsService struct {
	auth          TokenMinter
	orders        *service.OrderService
	customers     *service.CustomerService
	status        *service.StatusService
	spreadsheetID string
	routingRange  string
	baseURL       string
	client        *http.Client
}

func NewSheetsService(cfg *config.Config, auth TokenMinter, orders *service.OrderService, customers *service.CustomerService, status *service.StatusService) (*SheetsService, error) {
	if cfg.SheetsSpreadsheetID == "" {
		return nil, fmt.Errorf("SHEETS_SPREADSHEET_ID must be set")
	}
	routingRange := cfg.SheetsRoutingRange
	if routingRange == "" {
		routingRange = defaultRoutingRange
	}
	return &SheetsService{
		auth:          auth,
		orders:        orders,
		customers:     customers,
		status:        status,
		spreadsheetID: cfg.SheetsSpreadsheetID,
		routingRange:  routingRange,
		baseURL:       sheetsAPIBase,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Export clears the routing range and rewrites it from the slot's
// orders, sorted by delivery time. Full overwrite, no incremental diff.
func (s *SheetsService) Export(ctx context.Context, date time.Time, meal models.MealType) (*Report, error) {
	views, err := s.orders.ForSlot(ctx, date, meal)
	if err != nil {
		return nil, err
	}

	token, err := s.auth.MintAccessToken(ctx, "https://www.googleapis.com/auth/spreadsheets")
	if err != nil {
		return nil, err
	}

	if err := s.clearRange(ctx, token); err != nil {
		return nil, err
	}

	values := make([][]string, 0, len(views))
	for _, v := range views {
		values = append(values, []string{
			v.Order.DeliveryTime,
			v.CustomerName,
			v.CustomerPhone,
			v.Order.DeliveryAddress,
			fmt.Sprintf("%s %.0fg", v.ProteinName, v.Order.ProteinQtyG),
			fmt.Sprintf("%s %.0fg", v.CarbName, v.Order.CarbQtyG),
		})
	}

	if err := s.writeRange(ctx, token, values); err != nil {
		return nil, err
	}

	report := &Report{}
	for _, v := range views {
		report.Success(v.CustomerPhone)
	}
	return report, nil
}

// Import reads the routing range back and applies driver corrections.
// Only non-empty correction cells override the planned values; the
// cancel sentinel in the address cell cancels the order instead.
func (s *SheetsService) Import(ctx context.Context, date time.Time, meal models.MealType) (*Report, error) {
	token, err := s.auth.MintAccessToken(ctx, "https://www.googleapis.com/auth/spreadsheets.readonly")
	if err != nil {
		return nil, err
	}

	rows, err := s.readRange(ctx, token)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, row := range rows {
		phone := cell(row, colPhone)
		if phone == "" {
			continue
		}

		if err := s.applyRow(ctx, phone, row, date, meal); err != nil {
			report.Failure(phone, err)
			continue
		}
		report.Success(phone)
	}
	return report, nil
}

func (s *SheetsService) applyRow(ctx context.Context, phone string, row []string, date time.Time, meal models.MealType) error {
	customer, err := s.customers.FindByPhone(ctx, phone)
	if err != nil {
		return err
	}
	order, err := s.orders.FindBySlot(ctx, customer.ID, date, meal)
	if err != nil {
		return err
	}

	if cell(row, colFixAddress) == cancelSentinel {
		_, err := s.status.Cancel(ctx, order.ID)
		return err
	}

	if v := cell(row, colFixAddress); v != "" {
		order.DeliveryAddress = v
	}
	if v := cell(row, colFixTime); v != "" {
		order.DeliveryTime = v
	}
	if v := cell(row, colFixProtein); v != "" {
		qty, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("bad protein correction %q: %w", v, err)
		}
		order.ProteinQtyG = qty
	}
	if v := cell(row, colFixCarb); v != "" {
		qty, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("bad carb correction %q: %w", v, err)
		}
		order.CarbQtyG = qty
	}

	return s.orders.Save(ctx, order)
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func (s *SheetsService) clearRange(ctx context.Context, token string) error {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:clear",
		s.baseURL, s.spreadsheetID, url.PathEscape(s.routingRange))
	_, err := s.call(ctx, token, "POST", endpoint, nil)
	return err
}

func (s *SheetsService) writeRange(ctx context.Context, token string, values [][]string) error {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?valueInputOption=USER_ENTERED",
		s.baseURL, s.spreadsheetID, url.PathEscape(s.routingRange))
	payload := map[string]interface{}{"values": values}
	_, err := s.call(ctx, token, "PUT", endpoint, payload)
	return err
}

func (s *SheetsService) readRange(ctx context.Context, token string) ([][]string, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s",
		s.baseURL, s.spreadsheetID, url.PathEscape(s.routingRange))
	body, err := s.call(ctx, token, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Values [][]string `json:"values"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode sheet values: %w", err)
	}
	return result.Values, nil
}

func (s *SheetsService) call(ctx context.Context, token, method, endpoint string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheets request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheets response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sheets request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
