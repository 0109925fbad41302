package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func newTestERP(t *testing.T, db *gorm.DB, baseURL string) *ERPService {
	t.Helper()

	svc, err := NewERPService(
		&config.Config{ERPBaseURL: baseURL, ERPAPIKey: "erp-key"},
		service.NewOrderService(db),
		service.NewCatalogService(db),
	)
	require.NoError(t, err)
	return svc
}

func TestPushOrder(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	chicken := testhelpers.CreateRecipe(t, db, "Frango grelhado", models.CategoryProtein, 25, 0, 5, 150, 3)
	rice := testhelpers.CreateRecipe(t, db, "Arroz integral", models.CategoryCarbohydrate, 2.5, 28, 1, 130, 0.5)
	require.NoError(t, db.Model(chicken).Update("erp_product_id", "ERP-CHK").Error)
	require.NoError(t, db.Model(rice).Update("erp_product_id", "ERP-RCE").Error)

	customer := testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)
	order := &models.Order{
		CustomerID:      customer.ID,
		OrderDate:       time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		MealType:        models.MealLunch,
		ProteinRecipeID: &chicken.ID,
		ProteinQtyG:     160,
		CarbRecipeID:    &rice.ID,
		CarbQtyG:        200,
	}
	require.NoError(t, db.Create(order).Error)

	var received erpOrderPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "Bearer erp-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	svc := newTestERP(t, db, server.URL)
	require.NoError(t, svc.PushOrder(ctx, order.ID))

	assert.Equal(t, order.ID.String(), received.Reference)
	assert.Equal(t, "Ana", received.CustomerName)
	assert.Equal(t, "2026-08-24", received.DeliveryDate)
	assert.Equal(t, "lunch", received.MealType)
	require.Len(t, received.Lines, 2)
	assert.Equal(t, erpLine{ProductID: "ERP-CHK", QtyG: 160}, received.Lines[0])
	assert.Equal(t, erpLine{ProductID: "ERP-RCE", QtyG: 200}, received.Lines[1])
}

func TestPushOrderMissingProductIDs(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	// No erp_product_id on either recipe.
	chicken := testhelpers.CreateRecipe(t, db, "Frango grelhado", models.CategoryProtein, 25, 0, 5, 150, 3)
	rice := testhelpers.CreateRecipe(t, db, "Arroz integral", models.CategoryCarbohydrate, 2.5, 28, 1, 130, 0.5)

	customer := testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)
	order := &models.Order{
		CustomerID:      customer.ID,
		OrderDate:       time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		MealType:        models.MealLunch,
		ProteinRecipeID: &chicken.ID,
		CarbRecipeID:    &rice.ID,
	}
	require.NoError(t, db.Create(order).Error)

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	svc := newTestERP(t, db, server.URL)

	err := svc.PushOrder(ctx, order.ID)
	assert.ErrorIs(t, err, ErrNotSendable)
	assert.Zero(t, calls, "unsendable orders must be rejected before any call")
}

func TestPushOrderPrefersOverrideRecipe(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	planned := testhelpers.CreateRecipe(t, db, "Frango grelhado", models.CategoryProtein, 25, 0, 5, 150, 3)
	swapped := testhelpers.CreateRecipe(t, db, "Tilápia assada", models.CategoryProtein, 20, 0, 3, 110, 4)
	rice := testhelpers.CreateRecipe(t, db, "Arroz integral", models.CategoryCarbohydrate, 2.5, 28, 1, 130, 0.5)
	require.NoError(t, db.Model(planned).Update("erp_product_id", "ERP-CHK").Error)
	require.NoError(t, db.Model(swapped).Update("erp_product_id", "ERP-TIL").Error)
	require.NoError(t, db.Model(rice).Update("erp_product_id", "ERP-RCE").Error)

	customer := testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)
	order := &models.Order{
		CustomerID:        customer.ID,
		OrderDate:         time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		MealType:          models.MealLunch,
		ProteinRecipeID:   &planned.ID,
		ProteinOverrideID: &swapped.ID,
		ProteinQtyG:       200,
		CarbRecipeID:      &rice.ID,
		CarbQtyG:          150,
	}
	require.NoError(t, db.Create(order).Error)

	var received erpOrderPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
	}))
	defer server.Close()

	svc := newTestERP(t, db, server.URL)
	require.NoError(t, svc.PushOrder(ctx, order.ID))

	require.Len(t, received.Lines, 2)
	assert.Equal(t, "ERP-TIL", received.Lines[0].ProductID)
}

func TestPushSlotAccumulatesResults(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	chicken := testhelpers.CreateRecipe(t, db, "Frango grelhado", models.CategoryProtein, 25, 0, 5, 150, 3)
	rice := testhelpers.CreateRecipe(t, db, "Arroz integral", models.CategoryCarbohydrate, 2.5, 28, 1, 130, 0.5)
	require.NoError(t, db.Model(chicken).Update("erp_product_id", "ERP-CHK").Error)
	require.NoError(t, db.Model(rice).Update("erp_product_id", "ERP-RCE").Error)

	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	sendable := testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)
	unsendable := testhelpers.CreateActiveCustomer(t, db, "Bruno", "5511999990002", 35, 60, 12)

	require.NoError(t, db.Create(&models.Order{
		CustomerID:      sendable.ID,
		OrderDate:       date,
		MealType:        models.MealLunch,
		ProteinRecipeID: &chicken.ID,
		CarbRecipeID:    &rice.ID,
	}).Error)
	require.NoError(t, db.Create(&models.Order{
		CustomerID: unsendable.ID,
		OrderDate:  date,
		MealType:   models.MealLunch,
	}).Error)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	svc := newTestERP(t, db, server.URL)

	report, err := svc.PushSlot(ctx, date, models.MealLunch)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
}
