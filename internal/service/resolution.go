package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratofeito/backend/internal/models"
)

// RecipeSelection captures the three-tier fallback for one plate
// component: a catalog override beats a free-text name override, which
// beats the menu default copied onto the order at materialization.
type RecipeSelection struct {
	OverrideID   *uuid.UUID
	OverrideName string
	MenuDefault  *uuid.UUID
}

// ResolvedComponent is the outcome of resolving a RecipeSelection.
// Recipe is nil for a name-only substitution; the name is stored as a
// plain string and never re-resolved to a catalog id.
type ResolvedComponent struct {
	Name   string
	Recipe *models.Recipe
}

// ResolveComponent applies the prioritized match. Soft-deleted recipes
// are still resolvable here: history snapshots must name what was
// actually cooked.
func ResolveComponent(ctx context.Context, db *gorm.DB, sel RecipeSelection) (ResolvedComponent, error) {
	if sel.OverrideID != nil {
		recipe, err := findRecipeUnscoped(ctx, db, *sel.OverrideID)
		if err != nil {
			return ResolvedComponent{}, fmt.Errorf("resolving override recipe: %w", err)
		}
		return ResolvedComponent{Name: recipe.Name, Recipe: recipe}, nil
	}

	if sel.OverrideName != "" {
		return ResolvedComponent{Name: sel.OverrideName}, nil
	}

	if sel.MenuDefault != nil {
		recipe, err := findRecipeUnscoped(ctx, db, *sel.MenuDefault)
		if err != nil {
			return ResolvedComponent{}, fmt.Errorf("resolving menu recipe: %w", err)
		}
		return ResolvedComponent{Name: recipe.Name, Recipe: recipe}, nil
	}

	return ResolvedComponent{}, nil
}

func findRecipeUnscoped(ctx context.Context, db *gorm.DB, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := db.WithContext(ctx).Unscoped().First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("recipe %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}
