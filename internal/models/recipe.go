package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeCategory classifies a recipe by its role on the plate.
type RecipeCategory string

const (
	CategoryProtein      RecipeCategory = "protein"
	CategoryCarbohydrate RecipeCategory = "carbohydrate"
	CategoryVegetable    RecipeCategory = "vegetable"
	CategorySalad        RecipeCategory = "salad"
	CategoryMarinade     RecipeCategory = "marinade"
	CategoryDressing     RecipeCategory = "dressing"
)

// ValidCategory reports whether c is one of the known recipe categories.
func ValidCategory(c RecipeCategory) bool {
	switch c {
	case CategoryProtein, CategoryCarbohydrate, CategoryVegetable,
		CategorySalad, CategoryMarinade, CategoryDressing:
		return true
	}
	return false
}

// Recipe holds nutritional facts and cost on a per-100g basis.
// ERPProductID is the opaque identifier under which the kitchen ERP
// knows this recipe; empty means the recipe cannot be pushed there.
type Recipe struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
	Name            string           `gorm:"size:255;not null" json:"name"`
	Category        RecipeCategory   `gorm:"size:50;not null" json:"category"`
	KcalPer100g     float64          `gorm:"type:float" json:"kcal_per_100g"`
	ProteinPer100g  float64          `gorm:"type:float" json:"protein_per_100g"`
	CarbsPer100g    float64          `gorm:"type:float" json:"carbs_per_100g"`
	FatPer100g      float64          `gorm:"type:float" json:"fat_per_100g"`
	CostPer100g     float64          `gorm:"type:float" json:"cost_per_100g"`
	Allergens       JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"allergens"`
	ERPProductID    string           `gorm:"size:100" json:"erp_product_id"`
	PhotoURL        string           `gorm:"size:255" json:"photo_url"`
	Active          bool             `gorm:"not null;default:true" json:"active"`
}
