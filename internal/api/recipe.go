package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pratofeito/backend/internal/models"
	"github.com/pratofeito/backend/internal/service"
)

type RecipeHandler struct {
	catalog *service.CatalogService
	photos  *service.PhotoService
}

// NewRecipeHandler creates the catalog handler; photos may be nil when
// S3 is not configured.
func NewRecipeHandler(catalog *service.CatalogService, photos *service.PhotoService) *RecipeHandler {
	return &RecipeHandler{catalog: catalog, photos: photos}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", h.CreateRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.POST("/:id/photo", h.UploadPhoto)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	category := models.RecipeCategory(c.Query("category"))
	activeOnly := c.Query("active") == "true"

	recipes, err := h.catalog.List(c.Request.Context(), category, activeOnly)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if recipe.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if err := h.catalog.Create(c.Request.Context(), &recipe); err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateRecipeName):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidCategory):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
		}
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var updates models.Recipe
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.catalog.Update(c.Request.Context(), id, &updates)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		case errors.Is(err, service.ErrDuplicateRecipeName):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidCategory):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipe"})
		}
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		case errors.Is(err, service.ErrRecipeInUse):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete recipe"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted"})
}

func (h *RecipeHandler) UploadPhoto(c *gin.Context) {
	if h.photos == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage is not configured"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if _, err := h.catalog.Get(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil || len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty photo body"})
		return
	}

	url, err := h.photos.UploadRecipePhoto(c.Request.Context(), id, data, c.ContentType())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}
	if err := h.catalog.SetPhotoURL(c.Request.Context(), id, url); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record photo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}
