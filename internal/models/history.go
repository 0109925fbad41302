package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderHistory is an append-only snapshot of a finished order. Recipe
// names are denormalized so the row survives catalog deletions and
// renames. Write-once per (customer, date, meal_type).
type OrderHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CustomerID   uuid.UUID `gorm:"type:uuid;not null;index:idx_history_slot,unique" json:"customer_id"`
	CustomerName string    `gorm:"size:255;not null" json:"customer_name"`
	OrderDate    time.Time `gorm:"type:date;not null;index:idx_history_slot,unique" json:"order_date"`
	MealType     MealType  `gorm:"size:10;not null;index:idx_history_slot,unique" json:"meal_type"`

	ProteinName   string  `gorm:"size:255" json:"protein_name"`
	ProteinQtyG   float64 `gorm:"type:float" json:"protein_qty_g"`
	CarbName      string  `gorm:"size:255" json:"carb_name"`
	CarbQtyG      float64 `gorm:"type:float" json:"carb_qty_g"`
	VegetableName string  `gorm:"size:255" json:"vegetable_name"`
	VegetableQtyG float64 `gorm:"type:float" json:"vegetable_qty_g"`
	SaladName     string  `gorm:"size:255" json:"salad_name"`
	SaladQtyG     float64 `gorm:"type:float" json:"salad_qty_g"`
	SauceName     string  `gorm:"size:255" json:"sauce_name"`
	SauceQtyG     float64 `gorm:"type:float" json:"sauce_qty_g"`

	TargetProteinG float64 `gorm:"type:float" json:"target_protein_g"`
	TargetCarbsG   float64 `gorm:"type:float" json:"target_carbs_g"`
	TargetFatG     float64 `gorm:"type:float" json:"target_fat_g"`
	TargetKcal     float64 `gorm:"type:float" json:"target_kcal"`

	DeliveredProteinG float64 `gorm:"type:float" json:"delivered_protein_g"`
	DeliveredCarbsG   float64 `gorm:"type:float" json:"delivered_carbs_g"`
	DeliveredFatG     float64 `gorm:"type:float" json:"delivered_fat_g"`
	DeliveredKcal     float64 `gorm:"type:float" json:"delivered_kcal"`
	DeliveredCost     float64 `gorm:"type:float" json:"delivered_cost"`

	KitchenStatus  string `gorm:"size:20" json:"kitchen_status"`
	DeliveryStatus string `gorm:"size:20" json:"delivery_status"`

	DeliveryTime    string `gorm:"size:5" json:"delivery_time"`
	PickupTime      string `gorm:"size:5" json:"pickup_time"`
	DeliveryAddress string `gorm:"size:255" json:"delivery_address"`
}
