package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pratofeito/backend/internal/models"
	"github.com/pratofeito/backend/internal/service"
)

// WebhookHandler receives inbound calls from the chat platform when a
// customer changes their delivery through the bot flow.
type WebhookHandler struct {
	customers *service.CustomerService
	orders    *service.OrderService
	catalog   *service.CatalogService
}

func NewWebhookHandler(customers *service.CustomerService, orders *service.OrderService, catalog *service.CatalogService) *WebhookHandler {
	return &WebhookHandler{customers: customers, orders: orders, catalog: catalog}
}

func (h *WebhookHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/webhooks/chat", h.ChatUpdate)
}

// ChatUpdate applies field changes from the chat platform to an
// existing order. Recipe fields are looked up by name within their
// category; an unknown name is kept as a free-text override rather than
// rejected, since substitutions need not exist in the catalog.
func (h *WebhookHandler) ChatUpdate(c *gin.Context) {
	var req struct {
		Phone        string            `json:"phone" binding:"required"`
		CustomFields map[string]string `json:"custom_fields" binding:"required"`
		OrderDate    string            `json:"order_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dateStr := req.OrderDate
	if dateStr == "" {
		dateStr = time.Now().Format(dateLayout)
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_date must be YYYY-MM-DD"})
		return
	}

	meal := models.MealType(req.CustomFields["refeicao"])
	if !models.ValidMealType(meal) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "custom field refeicao must be lunch or dinner"})
		return
	}

	customer, err := h.customers.FindByPhone(c.Request.Context(), req.Phone)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	order, err := h.orders.FindBySlot(c.Request.Context(), customer.ID, date, meal)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No order for this date and meal type"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up order"})
		return
	}

	if v := req.CustomFields["endereco"]; v != "" {
		order.DeliveryAddress = v
	}
	if v := req.CustomFields["horario"]; v != "" {
		order.DeliveryTime = v
	}
	if v := req.CustomFields["proteina"]; v != "" {
		h.applyRecipeField(c, v, models.CategoryProtein, &order.ProteinOverrideID, &order.ProteinOverrideName)
	}
	if v := req.CustomFields["carboidrato"]; v != "" {
		h.applyRecipeField(c, v, models.CategoryCarbohydrate, &order.CarbOverrideID, &order.CarbOverrideName)
	}

	if err := h.orders.Save(c.Request.Context(), order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *WebhookHandler) applyRecipeField(c *gin.Context, name string, category models.RecipeCategory, overrideID **uuid.UUID, overrideName *string) {
	recipe, err := h.catalog.FindByNameAndCategory(c.Request.Context(), name, category)
	if err != nil {
		*overrideID = nil
		*overrideName = name
		return
	}
	id := recipe.ID
	*overrideID = &id
	*overrideName = ""
}
