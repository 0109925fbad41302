package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pratofeito/backend/internal/models"
	"github.com/pratofeito/backend/internal/service"
)

type CustomerHandler struct {
	customers *service.CustomerService
}

func NewCustomerHandler(customers *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// RegisterPublicRoutes mounts the self-service endpoints that run
// without a staff token.
func (h *CustomerHandler) RegisterPublicRoutes(router *gin.RouterGroup, limiter gin.HandlerFunc) {
	if limiter != nil {
		router.POST("/customers/register", limiter, h.Register)
	} else {
		router.POST("/customers/register", h.Register)
	}
}

func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup) {
	customers := router.Group("/customers")
	{
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.POST("/:id/approve", h.ApproveCustomer)
		customers.GET("/:id/schedules", h.ListSchedules)
		customers.POST("/:id/schedules", h.AddSchedule)
		customers.DELETE("/:id/schedules/:scheduleID", h.RemoveSchedule)
	}
}

func (h *CustomerHandler) Register(c *gin.Context) {
	var req struct {
		Name           string  `json:"name" binding:"required"`
		Phone          string  `json:"phone" binding:"required"`
		Email          string  `json:"email"`
		Address        string  `json:"address"`
		LunchProteinG  float64 `json:"lunch_protein_g"`
		LunchCarbsG    float64 `json:"lunch_carbs_g"`
		LunchFatG      float64 `json:"lunch_fat_g"`
		DinnerProteinG float64 `json:"dinner_protein_g"`
		DinnerCarbsG   float64 `json:"dinner_carbs_g"`
		DinnerFatG     float64 `json:"dinner_fat_g"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer := models.Customer{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		LunchProteinG:  req.LunchProteinG,
		LunchCarbsG:    req.LunchCarbsG,
		LunchFatG:      req.LunchFatG,
		DinnerProteinG: req.DinnerProteinG,
		DinnerCarbsG:   req.DinnerCarbsG,
		DinnerFatG:     req.DinnerFatG,
	}

	if err := h.customers.Register(c.Request.Context(), &customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	status := models.CustomerStatus(c.Query("status"))
	customers, err := h.customers.List(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	customer, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	var updates models.Customer
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customers.Update(c.Request.Context(), id, &updates)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) ApproveCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	customer, err := h.customers.Approve(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		case errors.Is(err, service.ErrPhoneConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyActive):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve customer"})
		}
		return
	}

	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) ListSchedules(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	schedules, err := h.customers.Schedules(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedules"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

func (h *CustomerHandler) AddSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	var req struct {
		DayOfWeek       int    `json:"day_of_week" binding:"required,min=1,max=7"`
		MealType        string `json:"meal_type" binding:"required"`
		DeliveryTime    string `json:"delivery_time"`
		DeliveryAddress string `json:"delivery_address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidMealType(models.MealType(req.MealType)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meal_type must be lunch or dinner"})
		return
	}

	schedule := models.DeliverySchedule{
		CustomerID:      id,
		DayOfWeek:       req.DayOfWeek,
		MealType:        models.MealType(req.MealType),
		DeliveryTime:    req.DeliveryTime,
		DeliveryAddress: req.DeliveryAddress,
		Active:          true,
	}

	if err := h.customers.AddSchedule(c.Request.Context(), &schedule); err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add schedule"})
		return
	}
	c.JSON(http.StatusCreated, schedule)
}

func (h *CustomerHandler) RemoveSchedule(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("scheduleID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule id"})
		return
	}

	if err := h.customers.RemoveSchedule(c.Request.Context(), scheduleID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule removed"})
}
