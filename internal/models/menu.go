package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuEntry assigns recipes to one (date, meal_type) slot.
// Components are nullable; a slot may plan only part of the plate.
type MenuEntry struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	MenuDate  time.Time      `gorm:"type:date;not null;index:idx_menu_date_meal,unique" json:"menu_date"`
	MealType  MealType       `gorm:"size:10;not null;index:idx_menu_date_meal,unique" json:"meal_type"`

	ProteinRecipeID   *uuid.UUID `gorm:"type:uuid" json:"protein_recipe_id"`
	CarbRecipeID      *uuid.UUID `gorm:"type:uuid" json:"carb_recipe_id"`
	VegetableRecipeID *uuid.UUID `gorm:"type:uuid" json:"vegetable_recipe_id"`
	SaladRecipeID     *uuid.UUID `gorm:"type:uuid" json:"salad_recipe_id"`
	SauceRecipeID     *uuid.UUID `gorm:"type:uuid" json:"sauce_recipe_id"`

	ProteinRecipe   *Recipe `gorm:"foreignKey:ProteinRecipeID" json:"protein_recipe,omitempty"`
	CarbRecipe      *Recipe `gorm:"foreignKey:CarbRecipeID" json:"carb_recipe,omitempty"`
	VegetableRecipe *Recipe `gorm:"foreignKey:VegetableRecipeID" json:"vegetable_recipe,omitempty"`
	SaladRecipe     *Recipe `gorm:"foreignKey:SaladRecipeID" json:"salad_recipe,omitempty"`
	SauceRecipe     *Recipe `gorm:"foreignKey:SauceRecipeID" json:"sauce_recipe,omitempty"`
}
