package api_test

import (
	"net/http"
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

func setupWebhookRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	handler := api.NewWebhookHandler(
		service.NewCustomerService(db, nil),
		service.NewOrderService(db),
		service.NewCatalogService(db),
	)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, db
}

func seedWebhookOrder(t *testing.T, db *gorm.DB) *models.Order {
	t.Helper()

	customer := testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)
	order := &models.Order{
		CustomerID:      customer.ID,
		OrderDate:       time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		MealType:        models.MealLunch,
		DeliveryTime:    "12:00",
		DeliveryAddress: "Rua A, 10",
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestChatWebhookAppliesUpdates(t *testing.T) {
	router, db := setupWebhookRouter(t)
	order := seedWebhookOrder(t, db)

	tilapia := testhelpers.CreateRecipe(t, db, "Tilápia assada", models.CategoryProtein, 20, 0, 3, 110, 4)

	w := doJSON(t, router, "POST", "/api/v1/webhooks/chat", gin.H{
		"phone":      "5511999990001",
		"order_date": "2026-08-24",
		"custom_fields": gin.H{
			"refeicao":    "lunch",
			"endereco":    "Rua Nova, 99",
			"horario":     "13:00",
			"proteina":    "Tilápia assada",
			"carboidrato": "Batata doce da vizinha",
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, "Rua Nova, 99", reloaded.DeliveryAddress)
	assert.Equal(t, "13:00", reloaded.DeliveryTime)

	// A known recipe name becomes a catalog override.
	require.NotNil(t, reloaded.ProteinOverrideID)
	assert.Equal(t, tilapia.ID, *reloaded.ProteinOverrideID)
	assert.Empty(t, reloaded.ProteinOverrideName)

	// An unknown name stays as free text, never rejected.
	assert.Nil(t, reloaded.CarbOverrideID)
	assert.Equal(t, "Batata doce da vizinha", reloaded.CarbOverrideName)
}

func TestChatWebhookValidation(t *testing.T) {
	router, db := setupWebhookRouter(t)
	seedWebhookOrder(t, db)

	// Unknown phone.
	w := doJSON(t, router, "POST", "/api/v1/webhooks/chat", gin.H{
		"phone":         "550000000000",
		"order_date":    "2026-08-24",
		"custom_fields": gin.H{"refeicao": "lunch"},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// No order on that slot.
	w = doJSON(t, router, "POST", "/api/v1/webhooks/chat", gin.H{
		"phone":         "5511999990001",
		"order_date":    "2026-08-25",
		"custom_fields": gin.H{"refeicao": "lunch"},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// refeicao is how the meal slot is addressed; it must be valid.
	w = doJSON(t, router, "POST", "/api/v1/webhooks/chat", gin.H{
		"phone":         "5511999990001",
		"order_date":    "2026-08-24",
		"custom_fields": gin.H{"refeicao": "brunch"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
