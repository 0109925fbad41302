package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pratofeito/backend/internal/api"
	"github.com/pratofeito/backend/internal/models"
	"github.com/pratofeito/backend/internal/service"
	"github.com/pratofeito/backend/internal/testhelpers"
)

func setupCustomerRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	handler := api.NewCustomerHandler(service.NewCustomerService(db, nil))

	router := gin.New()
	group := router.Group("/api/v1")
	handler.RegisterPublicRoutes(group, nil)
	handler.RegisterRoutes(group)
	return router, db
}

func TestCustomerRegistrationFlow(t *testing.T) {
	router, db := setupCustomerRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/customers/register", gin.H{
		"name":            "Ana",
		"phone":           "5511999990001",
		"lunch_protein_g": 40,
		"lunch_carbs_g":   56,
		"lunch_fat_g":     15,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.CustomerPendingApproval, created.Status)
	assert.False(t, created.Active)

	w = doJSON(t, router, "POST", "/api/v1/customers/"+created.ID.String()+"/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Customer
	require.NoError(t, db.First(&reloaded, "id = ?", created.ID).Error)
	assert.Equal(t, models.CustomerActive, reloaded.Status)
}

func TestCustomerRegistrationValidation(t *testing.T) {
	router, _ := setupCustomerRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/customers/register", gin.H{"name": "Ana"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApproveConflictResponses(t *testing.T) {
	router, db := setupCustomerRouter(t)

	testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)

	duplicate := &models.Customer{Name: "Ana Segunda", Phone: "5511999990001", Status: models.CustomerPendingApproval}
	require.NoError(t, db.Create(duplicate).Error)

	w := doJSON(t, router, "POST", "/api/v1/customers/"+duplicate.ID.String()+"/approve", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/customers/9f0c0f86-0c4e-4a46-9a53-65bd85c2ff00/approve", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleEndpoints(t *testing.T) {
	router, db := setupCustomerRouter(t)

	customer := testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)
	base := "/api/v1/customers/" + customer.ID.String() + "/schedules"

	w := doJSON(t, router, "POST", base, gin.H{
		"day_of_week":      3,
		"meal_type":        "dinner",
		"delivery_time":    "19:30",
		"delivery_address": "Rua A, 10",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Day of week is 1..7.
	w = doJSON(t, router, "POST", base, gin.H{
		"day_of_week": 0, "meal_type": "lunch",
		"delivery_time": "12:00", "delivery_address": "Rua A, 10",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "GET", base, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Schedules []models.DeliverySchedule `json:"schedules"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Schedules, 1)

	w = doJSON(t, router, "DELETE", base+"/"+resp.Schedules[0].ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
