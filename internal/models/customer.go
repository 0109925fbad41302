package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerStatus tracks the approval lifecycle of a customer.
type CustomerStatus string

const (
	CustomerPendingApproval CustomerStatus = "pending_approval"
	CustomerActive          CustomerStatus = "active"
)

// MealType identifies the delivery slot within a day.
type MealType string

const (
	MealLunch  MealType = "lunch"
	MealDinner MealType = "dinner"
)

// ValidMealType reports whether m is a recognized meal type.
func ValidMealType(m MealType) bool {
	return m == MealLunch || m == MealDinner
}

// Customer carries contact info plus per-meal macro prescriptions in grams.
// Self-registered customers start in pending_approval and only become
// active through an explicit staff approval.
type Customer struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Phone     string         `gorm:"size:30;not null;index" json:"phone"`
	Email     string         `gorm:"size:255" json:"email"`
	Address   string         `gorm:"size:255" json:"address"`
	Status    CustomerStatus `gorm:"size:30;not null;default:'pending_approval'" json:"status"`
	Active    bool           `gorm:"not null;default:false" json:"active"`

	LunchProteinG  float64 `gorm:"type:float" json:"lunch_protein_g"`
	LunchCarbsG    float64 `gorm:"type:float" json:"lunch_carbs_g"`
	LunchFatG      float64 `gorm:"type:float" json:"lunch_fat_g"`
	DinnerProteinG float64 `gorm:"type:float" json:"dinner_protein_g"`
	DinnerCarbsG   float64 `gorm:"type:float" json:"dinner_carbs_g"`
	DinnerFatG     float64 `gorm:"type:float" json:"dinner_fat_g"`

	Schedules []DeliverySchedule `gorm:"foreignKey:CustomerID" json:"schedules,omitempty"`
}

// MacroTargets returns the prescription for the given meal type.
func (c *Customer) MacroTargets(meal MealType) (protein, carbs, fat float64) {
	if meal == MealDinner {
		return c.DinnerProteinG, c.DinnerCarbsG, c.DinnerFatG
	}
	return c.LunchProteinG, c.LunchCarbsG, c.LunchFatG
}

// DeliverySchedule is a weekly recurring slot for one customer.
// DayOfWeek uses 1=Monday..7=Sunday.
type DeliverySchedule struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	CustomerID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	DayOfWeek       int            `gorm:"not null;check:day_of_week >= 1 AND day_of_week <= 7" json:"day_of_week"`
	MealType        MealType       `gorm:"size:10;not null" json:"meal_type"`
	DeliveryTime    string         `gorm:"size:5" json:"delivery_time"`
	DeliveryAddress string         `gorm:"size:255" json:"delivery_address"`
	Active          bool           `gorm:"not null;default:true" json:"active"`
}

// Complete reports whether the schedule carries everything an order needs.
func (s *DeliverySchedule) Complete() bool {
	return s.DeliveryTime != "" && s.DeliveryAddress != ""
}
