package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratofeito/backend/internal/models"
)

// Typed constraint errors surfaced by the storage layer instead of
// string-matching driver messages.
var (
	ErrDuplicateRecipeName = errors.New("a recipe with this name already exists")
	ErrRecipeInUse         = errors.New("recipe is referenced by existing orders")
	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrInvalidCategory     = errors.New("unrecognized recipe category")
)

// CatalogService owns the recipe catalog.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// Create inserts a recipe after checking name uniqueness among live rows.
func (s *CatalogService) Create(ctx context.Context, recipe *models.Recipe) error {
	if !models.ValidCategory(recipe.Category) {
		return ErrInvalidCategory
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("name = ?", recipe.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateRecipeName
	}

	return s.db.WithContext(ctx).Create(recipe).Error
}

// Get returns one recipe by id.
func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// List returns recipes, optionally filtered by category and active flag.
func (s *CatalogService) List(ctx context.Context, category models.RecipeCategory, activeOnly bool) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx)
	if category != "" {
		if !models.ValidCategory(category) {
			return nil, ErrInvalidCategory
		}
		query = query.Where("category = ?", category)
	}
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var recipes []models.Recipe
	if err := query.Order("name").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// FindByNameAndCategory locates a recipe the way the chat webhook refers
// to it: by display name within a category.
func (s *CatalogService) FindByNameAndCategory(ctx context.Context, name string, category models.RecipeCategory) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Where("name = ? AND category = ?", name, category).
		First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Update applies changes to a recipe, keeping the live-name uniqueness
// invariant.
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, updates *models.Recipe) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if updates.Name != "" && updates.Name != recipe.Name {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
			Where("name = ? AND id <> ?", updates.Name, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateRecipeName
		}
		recipe.Name = updates.Name
	}
	if updates.Category != "" {
		if !models.ValidCategory(updates.Category) {
			return nil, ErrInvalidCategory
		}
		recipe.Category = updates.Category
	}

	recipe.KcalPer100g = updates.KcalPer100g
	recipe.ProteinPer100g = updates.ProteinPer100g
	recipe.CarbsPer100g = updates.CarbsPer100g
	recipe.FatPer100g = updates.FatPer100g
	recipe.CostPer100g = updates.CostPer100g
	recipe.ERPProductID = updates.ERPProductID
	recipe.Active = updates.Active
	if updates.Allergens != nil {
		recipe.Allergens = updates.Allergens
	}

	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// Delete soft-deletes a recipe unless any order still references it.
func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("protein_recipe_id = ? OR carb_recipe_id = ? OR vegetable_recipe_id = ? OR salad_recipe_id = ? OR sauce_recipe_id = ? OR protein_override_id = ? OR carb_override_id = ?",
			id, id, id, id, id, id, id).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrRecipeInUse
	}

	return s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id).Error
}

// SetPhotoURL records the uploaded photo location for a recipe.
func (s *CatalogService) SetPhotoURL(ctx context.Context, id uuid.UUID, url string) error {
	result := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Update("photo_url", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}
