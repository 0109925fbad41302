package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pratofeito/backend/internal/service"
	"github.com/pratofeito/backend/internal/sync"
)

// SyncHandler exposes the on-demand external adapters. Any adapter may
// be nil when its platform is not configured for this deployment.
type SyncHandler struct {
	sheets *sync.SheetsService
	erp    *sync.ERPService
	chat   *sync.ChatService
}

func NewSyncHandler(sheets *sync.SheetsService, erp *sync.ERPService, chat *sync.ChatService) *SyncHandler {
	return &SyncHandler{sheets: sheets, erp: erp, chat: chat}
}

func (h *SyncHandler) RegisterRoutes(router *gin.RouterGroup) {
	syncGroup := router.Group("/sync")
	{
		syncGroup.POST("/sheets/export", h.SheetsExport)
		syncGroup.POST("/sheets/import", h.SheetsImport)
		syncGroup.POST("/erp", h.ERPPush)
		syncGroup.POST("/chat", h.ChatSync)
	}
}

func (h *SyncHandler) SheetsExport(c *gin.Context) {
	if h.sheets == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sheets sync is not configured"})
		return
	}

	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, meal, ok := parseSlotValues(c, req.Date, req.MealType)
	if !ok {
		return
	}

	report, err := h.sheets.Export(c.Request.Context(), date, meal)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *SyncHandler) SheetsImport(c *gin.Context) {
	if h.sheets == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sheets sync is not configured"})
		return
	}

	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, meal, ok := parseSlotValues(c, req.Date, req.MealType)
	if !ok {
		return
	}

	report, err := h.sheets.Import(c.Request.Context(), date, meal)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *SyncHandler) ERPPush(c *gin.Context) {
	if h.erp == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ERP sync is not configured"})
		return
	}

	var req struct {
		OrderID  string `json:"order_id"`
		Date     string `json:"date"`
		MealType string `json:"meal_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.OrderID != "" {
		orderID, err := uuid.Parse(req.OrderID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}
		if err := h.erp.PushOrder(c.Request.Context(), orderID); err != nil {
			switch {
			case errors.Is(err, service.ErrOrderNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			case errors.Is(err, sync.ErrNotSendable):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"pushed": req.OrderID})
		return
	}

	date, meal, ok := parseSlotValues(c, req.Date, req.MealType)
	if !ok {
		return
	}
	report, err := h.erp.PushSlot(c.Request.Context(), date, meal)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *SyncHandler) ChatSync(c *gin.Context) {
	if h.chat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat sync is not configured"})
		return
	}

	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, meal, ok := parseSlotValues(c, req.Date, req.MealType)
	if !ok {
		return
	}

	report, err := h.chat.SyncSlot(c.Request.Context(), date, meal)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
