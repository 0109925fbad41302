package models

import (
	"time"

	"github.com/google/uuid"
)

// PortionDefaults holds the house gram amounts for the plate components
// that are not derived from macro targets. A single row is expected;
// callers load it once per operation and pass the values around rather
// than reading it as ambient state.
type PortionDefaults struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	VegetableQtyG  float64   `gorm:"type:float;not null;default:100" json:"vegetable_qty_g"`
	SaladQtyG      float64   `gorm:"type:float;not null;default:80" json:"salad_qty_g"`
	SauceQtyG      float64   `gorm:"type:float;not null;default:30" json:"sauce_qty_g"`
}
