package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pratofeito/backend/internal/models"
	"github.com/pratofeito/backend/internal/service"
)

const dateLayout = "2006-01-02"

type MenuHandler struct {
	menus *service.MenuService
}

func NewMenuHandler(menus *service.MenuService) *MenuHandler {
	return &MenuHandler{menus: menus}
}

func (h *MenuHandler) RegisterRoutes(router *gin.RouterGroup) {
	menu := router.Group("/menu")
	{
		menu.GET("", h.GetSlot)
		menu.GET("/month", h.GetMonth)
		menu.POST("", h.PlanSlot)
		menu.PUT("", h.UpdateSlot)
		menu.DELETE("", h.RemoveSlot)
	}
}

type menuRequest struct {
	Date              string     `json:"date" binding:"required"`
	MealType          string     `json:"meal_type" binding:"required"`
	ProteinRecipeID   *uuid.UUID `json:"protein_recipe_id"`
	CarbRecipeID      *uuid.UUID `json:"carb_recipe_id"`
	VegetableRecipeID *uuid.UUID `json:"vegetable_recipe_id"`
	SaladRecipeID     *uuid.UUID `json:"salad_recipe_id"`
	SauceRecipeID     *uuid.UUID `json:"sauce_recipe_id"`
}

func (h *MenuHandler) PlanSlot(c *gin.Context) {
	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, meal, ok := parseSlotValues(c, req.Date, req.MealType)
	if !ok {
		return
	}

	entry := models.MenuEntry{
		MenuDate:          date,
		MealType:          meal,
		ProteinRecipeID:   req.ProteinRecipeID,
		CarbRecipeID:      req.CarbRecipeID,
		VegetableRecipeID: req.VegetableRecipeID,
		SaladRecipeID:     req.SaladRecipeID,
		SauceRecipeID:     req.SauceRecipeID,
	}

	if err := h.menus.Plan(c.Request.Context(), &entry); err != nil {
		if errors.Is(err, service.ErrMenuSlotTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to plan menu"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *MenuHandler) GetSlot(c *gin.Context) {
	date, meal, ok := parseSlotQuery(c)
	if !ok {
		return
	}

	entry, err := h.menus.Get(c.Request.Context(), date, meal)
	if err != nil {
		if errors.Is(err, service.ErrMenuNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *MenuHandler) GetMonth(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year is required"})
		return
	}
	monthNum, err := strconv.Atoi(c.Query("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be 1-12"})
		return
	}

	entries, err := h.menus.Month(c.Request.Context(), year, time.Month(monthNum))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *MenuHandler) UpdateSlot(c *gin.Context) {
	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, meal, ok := parseSlotValues(c, req.Date, req.MealType)
	if !ok {
		return
	}

	updates := models.MenuEntry{
		ProteinRecipeID:   req.ProteinRecipeID,
		CarbRecipeID:      req.CarbRecipeID,
		VegetableRecipeID: req.VegetableRecipeID,
		SaladRecipeID:     req.SaladRecipeID,
		SauceRecipeID:     req.SauceRecipeID,
	}

	entry, err := h.menus.Update(c.Request.Context(), date, meal, &updates)
	if err != nil {
		if errors.Is(err, service.ErrMenuNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update menu"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *MenuHandler) RemoveSlot(c *gin.Context) {
	date, meal, ok := parseSlotQuery(c)
	if !ok {
		return
	}

	if err := h.menus.Remove(c.Request.Context(), date, meal); err != nil {
		if errors.Is(err, service.ErrMenuNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove menu"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu entry removed"})
}

// parseSlotQuery reads date/meal_type from query parameters, defaulting
// the date to today.
func parseSlotQuery(c *gin.Context) (time.Time, models.MealType, bool) {
	dateStr := c.Query("date")
	if dateStr == "" {
		dateStr = time.Now().Format(dateLayout)
	}
	return parseSlotValues(c, dateStr, c.Query("meal_type"))
}

func parseSlotValues(c *gin.Context, dateStr, mealStr string) (time.Time, models.MealType, bool) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, "", false
	}

	meal := models.MealType(mealStr)
	if !models.ValidMealType(meal) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meal_type must be lunch or dinner"})
		return time.Time{}, "", false
	}
	return date, meal, true
}
