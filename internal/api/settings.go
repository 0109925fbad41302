package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pratofeito/backend/internal/service"
)

// SettingsHandler exposes the default portion sizes used when
// materializing orders.
type SettingsHandler struct {
	settings *service.SettingsService
}

func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/settings/portions", h.GetPortions)
	router.PUT("/settings/portions", h.UpdatePortions)
}

type portionDefaultsRequest struct {
	VegetableQtyG float64 `json:"vegetable_qty_g" binding:"required,gt=0"`
	SaladQtyG     float64 `json:"salad_qty_g" binding:"required,gt=0"`
	SauceQtyG     float64 `json:"sauce_qty_g" binding:"required,gt=0"`
}

func (h *SettingsHandler) GetPortions(c *gin.Context) {
	defaults, err := h.settings.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load portion defaults"})
		return
	}
	c.JSON(http.StatusOK, defaults)
}

func (h *SettingsHandler) UpdatePortions(c *gin.Context) {
	var req portionDefaultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	defaults, err := h.settings.Update(c.Request.Context(), req.VegetableQtyG, req.SaladQtyG, req.SauceQtyG)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update portion defaults"})
		return
	}
	c.JSON(http.StatusOK, defaults)
}
