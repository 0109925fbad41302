package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pratofeito/backend/config"
	"github.com/pratofeito/backend/internal/models"
	"github.com/pratofeito/backend/internal/service"
	"github.com/pratofeito/backend/internal/testhelpers"
)

// chatFake implements just enough of the chat platform API: the custom
// field catalog, subscriber lookup/creation and field updates.
type chatFake struct {
	knownPhones map[string]string          // phone -> subscriber id
	failPhones  map[string]bool            // phones whose field updates 500
	fieldValues map[string]map[string]string // subscriber id -> field id -> value
	created     int
}

func (f *chatFake) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/custom_fields":
			var data []map[string]string
			for i, name := range chatFieldNames {
				data = append(data, map[string]string{"id": fmt.Sprintf("f%d", i), "name": name})
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": data})

		case r.Method == "GET" && r.URL.Path == "/subscribers":
			phone := r.URL.Query().Get("phone")
			if id, ok := f.knownPhones[phone]; ok {
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"data": []map[string]string{{"id": id}},
				})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": []map[string]string{}})

		case r.Method == "POST" && r.URL.Path == "/subscribers":
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			f.created++
			id := "sub-new-" + req["phone"]
			f.knownPhones[req["phone"]] = id
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": map[string]string{"id": id}})

		case r.Method == "POST" && strings.HasPrefix(r.URL.Path, "/subscribers/"):
			parts := strings.Split(r.URL.Path, "/")
			subscriberID, fieldID := parts[2], parts[4]
			for phone, id := range f.knownPhones {
				if id == subscriberID && f.failPhones[phone] {
					http.Error(w, "boom", http.StatusInternalServerError)
					return
				}
			}
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			if f.fieldValues[subscriberID] == nil {
				f.fieldValues[subscriberID] = map[string]string{}
			}
			f.fieldValues[subscriberID][fieldID] = req["value"]
			w.Write([]byte("{}"))

		default:
			http.NotFound(w, r)
		}
	}
}

func newChatFake() *chatFake {
	return &chatFake{
		knownPhones: map[string]string{},
		failPhones:  map[string]bool{},
		fieldValues: map[string]map[string]string{},
	}
}

func newTestChat(t *testing.T, db *gorm.DB, baseURL string) *ChatService {
	t.Helper()

	svc, err := NewChatService(
		&config.Config{ChatBaseURL: baseURL, ChatAPIKey: "chat-key"},
		service.NewOrderService(db),
	)
	require.NoError(t, err)
	return svc
}

func seedChatOrder(t *testing.T, db *gorm.DB, date time.Time, name, phone string) *models.Order {
	t.Helper()

	customer := testhelpers.CreateActiveCustomer(t, db, name, phone, 40, 56, 15)
	order := &models.Order{
		CustomerID:      customer.ID,
		OrderDate:       date,
		MealType:        models.MealLunch,
		DeliveryTime:    "12:00",
		DeliveryAddress: "Rua A, 10",
		ProteinQtyG:     160,
		CarbQtyG:        200,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestChatSyncSlot(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	seedChatOrder(t, db, date, "Ana", "5511999990001")

	fake := newChatFake()
	fake.knownPhones["5511999990001"] = "sub-ana"

	server := httptest.NewServer(fake.handler())
	defer server.Close()

	svc := newTestChat(t, db, server.URL)

	report, err := svc.SyncSlot(context.Background(), date, models.MealLunch)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Zero(t, fake.created, "existing subscribers are reused")

	fields := fake.fieldValues["sub-ana"]
	require.Len(t, fields, len(chatFieldNames))
	assert.Equal(t, "Ana", fields["f0"])        // nome
	assert.Equal(t, "Rua A, 10", fields["f1"])  // endereco
	assert.Equal(t, "12:00", fields["f2"])      // horario
	assert.Equal(t, "lunch", fields["f8"])      // refeicao
}

func TestChatSyncCreatesMissingSubscriber(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	seedChatOrder(t, db, date, "Ana", "5511999990001")

	fake := newChatFake()
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	svc := newTestChat(t, db, server.URL)

	report, err := svc.SyncSlot(context.Background(), date, models.MealLunch)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, fake.created)
}

func TestChatSyncPhonelessCustomerKeyedByName(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	seedChatOrder(t, db, date, "Ana", "")
	seedChatOrder(t, db, date, "Bruno", "5511999990002")

	fake := newChatFake()
	fake.knownPhones["5511999990002"] = "sub-bruno"

	server := httptest.NewServer(fake.handler())
	defer server.Close()

	svc := newTestChat(t, db, server.URL)

	report, err := svc.SyncSlot(context.Background(), date, models.MealLunch)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)

	for _, item := range report.Items {
		if item.OK {
			assert.Equal(t, "5511999990002", item.Key)
			continue
		}
		assert.Equal(t, "Ana", item.Key, "phoneless customers are reported by name")
		assert.Contains(t, item.Error, "no phone")
	}
}

func TestChatSyncContinuesPastFailures(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	seedChatOrder(t, db, date, "Ana", "5511999990001")
	seedChatOrder(t, db, date, "Bruno", "5511999990002")

	fake := newChatFake()
	fake.knownPhones["5511999990001"] = "sub-ana"
	fake.knownPhones["5511999990002"] = "sub-bruno"
	fake.failPhones["5511999990001"] = true

	server := httptest.NewServer(fake.handler())
	defer server.Close()

	svc := newTestChat(t, db, server.URL)

	report, err := svc.SyncSlot(context.Background(), date, models.MealLunch)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)

	// The failing customer never blocks the other one.
	assert.NotEmpty(t, fake.fieldValues["sub-bruno"])
}
