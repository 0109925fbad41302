package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pratofeito/backend/internal/models"
	"github.com/pratofeito/backend/internal/service"
)

type OrderHandler struct {
	orders       *service.OrderService
	materializer *service.MaterializerService
	status       *service.StatusService
	archiver     *service.ArchiverService
}

func NewOrderHandler(orders *service.OrderService, materializer *service.MaterializerService, status *service.StatusService, archiver *service.ArchiverService) *OrderHandler {
	return &OrderHandler{
		orders:       orders,
		materializer: materializer,
		status:       status,
		archiver:     archiver,
	}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.POST("/materialize", h.Materialize)
		orders.PATCH("/:id/status", h.UpdateStatus)
		orders.POST("/:id/archive", h.ArchiveOrder)
		orders.POST("/archive", h.ArchiveSlot)
	}
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	date, meal, ok := parseSlotQuery(c)
	if !ok {
		return
	}

	views, err := h.orders.ForSlot(c.Request.Context(), date, meal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": views})
}

type slotRequest struct {
	Date     string `json:"date" binding:"required"`
	MealType string `json:"meal_type" binding:"required"`
}

func (h *OrderHandler) Materialize(c *gin.Context) {
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, meal, ok := parseSlotValues(c, req.Date, req.MealType)
	if !ok {
		return
	}

	report, err := h.materializer.Materialize(c.Request.Context(), date, meal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to materialize orders"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.status.Update(c.Request.Context(), id, models.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, service.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ArchiveOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	created, err := h.archiver.Archive(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"archived": created})
}

func (h *OrderHandler) ArchiveSlot(c *gin.Context) {
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, meal, ok := parseSlotValues(c, req.Date, req.MealType)
	if !ok {
		return
	}

	report, err := h.archiver.ArchiveSlot(c.Request.Context(), date, meal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive orders"})
		return
	}
	c.JSON(http.StatusOK, report)
}
