package service

import (
	"math"
	"time"

	"github.com/pratofeito/backend/internal/models"
)

// DayOfWeekRemap converts a 0=Sunday weekday to the 1=Monday..7=Sunday
// convention used by delivery schedules.
func DayOfWeekRemap(dow int) int {
	if dow == 0 {
		return 7
	}
	return dow
}

// ScheduleDayOfWeek returns the schedule day-of-week for a calendar date.
func ScheduleDayOfWeek(date time.Time) int {
	return DayOfWeekRemap(int(date.Weekday()))
}

// ComputeQuantity scales "grams of macro wanted" to "grams of food
// needed" on the recipe's per-100g basis. A recipe without the macro
// yields zero rather than dividing by it.
func ComputeQuantity(targetGrams, per100g float64) float64 {
	if per100g <= 0 {
		return 0
	}
	return math.Round(targetGrams / per100g * 100)
}

// ProteinQuantity resolves the protein portion for a customer target.
func ProteinQuantity(targetGrams float64, recipe *models.Recipe) float64 {
	if recipe == nil {
		return 0
	}
	return ComputeQuantity(targetGrams, recipe.ProteinPer100g)
}

// CarbQuantity resolves the carbohydrate portion for a customer target.
func CarbQuantity(targetGrams float64, recipe *models.Recipe) float64 {
	if recipe == nil {
		return 0
	}
	return ComputeQuantity(targetGrams, recipe.CarbsPer100g)
}
