package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the kitchen/delivery progression of one order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is one materialized delivery for (customer, date, meal_type).
// Component recipe ids come from the day's menu at materialization time;
// OverrideID / OverrideName allow departing from the plan afterwards
// without touching the menu. A name override is free text and is never
// re-resolved to a catalog id.
type Order struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CustomerID uuid.UUID   `gorm:"type:uuid;not null;index:idx_orders_slot,unique" json:"customer_id"`
	OrderDate  time.Time   `gorm:"type:date;not null;index:idx_orders_slot,unique" json:"order_date"`
	MealType   MealType    `gorm:"size:10;not null;index:idx_orders_slot,unique" json:"meal_type"`
	Status     OrderStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	DeliveryTime    string `gorm:"size:5" json:"delivery_time"`
	DeliveryAddress string `gorm:"size:255" json:"delivery_address"`

	ProteinRecipeID     *uuid.UUID `gorm:"type:uuid" json:"protein_recipe_id"`
	ProteinOverrideID   *uuid.UUID `gorm:"type:uuid" json:"protein_override_id"`
	ProteinOverrideName string     `gorm:"size:255" json:"protein_override_name"`
	ProteinQtyG         float64    `gorm:"type:float" json:"protein_qty_g"`

	CarbRecipeID     *uuid.UUID `gorm:"type:uuid" json:"carb_recipe_id"`
	CarbOverrideID   *uuid.UUID `gorm:"type:uuid" json:"carb_override_id"`
	CarbOverrideName string     `gorm:"size:255" json:"carb_override_name"`
	CarbQtyG         float64    `gorm:"type:float" json:"carb_qty_g"`

	VegetableRecipeID *uuid.UUID `gorm:"type:uuid" json:"vegetable_recipe_id"`
	VegetableQtyG     float64    `gorm:"type:float" json:"vegetable_qty_g"`

	SaladRecipeID *uuid.UUID `gorm:"type:uuid" json:"salad_recipe_id"`
	SaladQtyG     float64    `gorm:"type:float" json:"salad_qty_g"`

	SauceRecipeID *uuid.UUID `gorm:"type:uuid" json:"sauce_recipe_id"`
	SauceQtyG     float64    `gorm:"type:float" json:"sauce_qty_g"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}
