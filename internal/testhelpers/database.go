package testhelpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pratofeito/backend/internal/database"
	"github.com/pratofeito/backend/internal/models"
)

// SetupTestDatabase opens an in-memory sqlite database with the full
// schema migrated.
func SetupTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	return db
}

// CreateRecipe inserts a recipe with the given macro facts.
func CreateRecipe(t *testing.T, db *gorm.DB, name string, category models.RecipeCategory, protein, carbs, fat, kcal, cost float64) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		Name:           name,
		Category:       category,
		ProteinPer100g: protein,
		CarbsPer100g:   carbs,
		FatPer100g:     fat,
		KcalPer100g:    kcal,
		CostPer100g:    cost,
		Allergens:      models.JSONBStringArray{},
		Active:         true,
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

// CreateActiveCustomer inserts an approved customer with lunch targets.
func CreateActiveCustomer(t *testing.T, db *gorm.DB, name, phone string, proteinG, carbsG, fatG float64) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		Name:          name,
		Phone:         phone,
		Status:        models.CustomerActive,
		Active:        true,
		LunchProteinG: proteinG,
		LunchCarbsG:   carbsG,
		LunchFatG:     fatG,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

// CreateSchedule attaches a complete weekly slot to a customer.
func CreateSchedule(t *testing.T, db *gorm.DB, customer *models.Customer, dayOfWeek int, meal models.MealType, deliveryTime, address string) *models.DeliverySchedule {
	t.Helper()

	schedule := &models.DeliverySchedule{
		CustomerID:      customer.ID,
		DayOfWeek:       dayOfWeek,
		MealType:        meal,
		DeliveryTime:    deliveryTime,
		DeliveryAddress: address,
		Active:          true,
	}
	require.NoError(t, db.Create(schedule).Error)
	return schedule
}

// CreateMenu plans a slot with the given component recipes. Nil recipes
// leave the component unplanned.
func CreateMenu(t *testing.T, db *gorm.DB, date time.Time, meal models.MealType, protein, carb, vegetable, salad, sauce *models.Recipe) *models.MenuEntry {
	t.Helper()

	menu := &models.MenuEntry{MenuDate: date, MealType: meal}
	if protein != nil {
		menu.ProteinRecipeID = &protein.ID
	}
	if carb != nil {
		menu.CarbRecipeID = &carb.ID
	}
	if vegetable != nil {
		menu.VegetableRecipeID = &vegetable.ID
	}
	if salad != nil {
		menu.SaladRecipeID = &salad.ID
	}
	if sauce != nil {
		menu.SauceRecipeID = &sauce.ID
	}
	require.NoError(t, db.Create(menu).Error)
	return menu
}
