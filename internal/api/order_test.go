package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pratofeito/backend/internal/api"
	"github.com/pratofeito/backend/internal/models"
	"github.com/pratofeito/backend/internal/service"
	"github.com/pratofeito/backend/internal/testhelpers"
)

func setupOrderRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	handler := api.NewOrderHandler(
		service.NewOrderService(db),
		service.NewMaterializerService(db),
		service.NewStatusService(db),
		service.NewArchiverService(db),
	)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListOrdersValidation(t *testing.T) {
	router, _ := setupOrderRouter(t)

	// meal_type is mandatory.
	w := doJSON(t, router, "GET", "/api/v1/orders?date=2026-08-24", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/orders?date=24/08/2026&meal_type=lunch", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/orders?date=2026-08-24&meal_type=brunch", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/orders?date=2026-08-24&meal_type=lunch", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaterializeEndpoint(t *testing.T) {
	router, db := setupOrderRouter(t)

	chicken := testhelpers.CreateRecipe(t, db, "Frango grelhado", models.CategoryProtein, 25, 0, 5, 150, 3)
	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC) // Monday
	testhelpers.CreateMenu(t, db, date, models.MealLunch, chicken, nil, nil, nil, nil)

	customer := testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)
	testhelpers.CreateSchedule(t, db, customer, 1, models.MealLunch, "12:00", "Rua A, 10")

	w := doJSON(t, router, "POST", "/api/v1/orders/materialize", gin.H{
		"date": "2026-08-24", "meal_type": "lunch",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var report service.MaterializeReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Created)

	// Missing body fields get rejected at binding.
	w = doJSON(t, router, "POST", "/api/v1/orders/materialize", gin.H{"date": "2026-08-24"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	router, db := setupOrderRouter(t)

	customer := testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)
	order := &models.Order{
		CustomerID: customer.ID,
		OrderDate:  time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		MealType:   models.MealLunch,
		Status:     models.OrderPending,
	}
	require.NoError(t, db.Create(order).Error)

	w := doJSON(t, router, "PATCH", "/api/v1/orders/"+order.ID.String()+"/status", gin.H{"status": "preparing"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Skipping a step is a conflict, not a validation error.
	w = doJSON(t, router, "PATCH", "/api/v1/orders/"+order.ID.String()+"/status", gin.H{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, "PATCH", "/api/v1/orders/not-a-uuid/status", gin.H{"status": "preparing"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "PATCH", "/api/v1/orders/6d2c1df2-4b02-4c41-8d35-5591b1a12c1f/status", gin.H{"status": "preparing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArchiveEndpoints(t *testing.T) {
	router, db := setupOrderRouter(t)

	customer := testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)
	order := &models.Order{
		CustomerID:   customer.ID,
		OrderDate:    time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		MealType:     models.MealLunch,
		Status:       models.OrderDelivered,
		DeliveryTime: "12:00",
	}
	require.NoError(t, db.Create(order).Error)

	w := doJSON(t, router, "POST", "/api/v1/orders/"+order.ID.String()+"/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"archived": true}`, w.Body.String())

	// Re-archiving reports the no-op.
	w = doJSON(t, router, "POST", "/api/v1/orders/"+order.ID.String()+"/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"archived": false}`, w.Body.String())

	w = doJSON(t, router, "POST", "/api/v1/orders/archive", gin.H{"date": "2026-08-24", "meal_type": "lunch"})
	require.Equal(t, http.StatusOK, w.Code)

	var report service.ArchiveReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.AlreadyPresent)
}
