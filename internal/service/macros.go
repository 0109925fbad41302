package service

import (
	"github.com/pratofeito/backend/internal/models"
)

// MacroTotals is the summed nutrition and cost of a composed plate.
type MacroTotals struct {
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	Kcal     float64 `json:"kcal"`
	Cost     float64 `json:"cost"`
}

// PlateComponent pairs a recipe with its portion in grams. Recipe may be
// nil for free-text substitutions that have no catalog entry; those
// contribute nothing to the totals.
type PlateComponent struct {
	Recipe *models.Recipe
	QtyG   float64
}

// TargetKcal derives the prescribed calories from macro grams using the
// standard Atwater factors. Deliberately a different formula from the
// summed delivered kcal: target reflects the prescription, delivered
// reflects what was actually composed.
func TargetKcal(proteinG, carbsG, fatG float64) float64 {
	return proteinG*4 + carbsG*4 + fatG*9
}

// DeliveredTotals sums per-100g recipe facts over the portions that were
// plated. Marinade and dressing portions count toward cost but not
// nutrition; they are flavoring, not macros.
func DeliveredTotals(components []PlateComponent) MacroTotals {
	var totals MacroTotals
	for _, c := range components {
		if c.Recipe == nil || c.QtyG <= 0 {
			continue
		}
		factor := c.QtyG / 100

		totals.Cost += c.Recipe.CostPer100g * factor

		switch c.Recipe.Category {
		case models.CategoryMarinade, models.CategoryDressing:
			continue
		}

		totals.ProteinG += c.Recipe.ProteinPer100g * factor
		totals.CarbsG += c.Recipe.CarbsPer100g * factor
		totals.FatG += c.Recipe.FatPer100g * factor
		totals.Kcal += c.Recipe.KcalPer100g * factor
	}
	return totals
}
