package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratofeito/backend/internal/models"
	"github.com/pratofeito/backend/internal/service"
	"github.com/pratofeito/backend/internal/testhelpers"
)

func TestPickupTime(t *testing.T) {
	assert.Equal(t, "11:50", service.PickupTime("12:00"))
	assert.Equal(t, "08:55", service.PickupTime("9:05"))

	// Wraps around midnight.
	assert.Equal(t, "23:55", service.PickupTime("00:05"))

	// Unparseable input yields no pickup slot.
	assert.Equal(t, "", service.PickupTime(""))
	assert.Equal(t, "", service.PickupTime("noon"))
}

func TestArchiveSnapshotsOrder(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	chicken := testhelpers.CreateRecipe(t, db, "Frango grelhado", models.CategoryProtein, 25, 0, 5, 150, 3)
	rice := testhelpers.CreateRecipe(t, db, "Arroz integral", models.CategoryCarbohydrate, 2.5, 28, 1, 130, 0.5)

	customer := testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)
	order := &models.Order{
		CustomerID:      customer.ID,
		OrderDate:       mustDate("2026-08-24"),
		MealType:        models.MealLunch,
		Status:          models.OrderDelivered,
		DeliveryTime:    "12:00",
		DeliveryAddress: "Rua A, 10",
		ProteinRecipeID: &chicken.ID,
		ProteinQtyG:     160,
		CarbRecipeID:    &rice.ID,
		CarbQtyG:        200,
	}
	require.NoError(t, db.Create(order).Error)

	svc := service.NewArchiverService(db)
	created, err := svc.Archive(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, created)

	var history models.OrderHistory
	require.NoError(t, db.First(&history, "customer_id = ?", customer.ID).Error)

	assert.Equal(t, "Ana", history.CustomerName)
	assert.Equal(t, "Frango grelhado", history.ProteinName)
	assert.Equal(t, "Arroz integral", history.CarbName)
	assert.Equal(t, "11:50", history.PickupTime)

	assert.Equal(t, 40.0, history.TargetProteinG)
	assert.Equal(t, service.TargetKcal(40, 56, 15), history.TargetKcal)

	// 160g chicken + 200g rice.
	assert.InDelta(t, 45, history.DeliveredProteinG, 0.001)
	assert.InDelta(t, 56, history.DeliveredCarbsG, 0.001)
	assert.InDelta(t, 500, history.DeliveredKcal, 0.001)
	assert.InDelta(t, 5.8, history.DeliveredCost, 0.001)

	assert.Equal(t, "delivered", history.KitchenStatus)
	assert.Equal(t, "delivered", history.DeliveryStatus)
}

func TestArchiveIsWriteOnce(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	customer := testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)
	order := &models.Order{
		CustomerID:   customer.ID,
		OrderDate:    mustDate("2026-08-24"),
		MealType:     models.MealLunch,
		Status:       models.OrderDelivered,
		DeliveryTime: "12:00",
	}
	require.NoError(t, db.Create(order).Error)

	svc := service.NewArchiverService(db)

	created, err := svc.Archive(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, created)

	// Mutate the order, then archive again: the snapshot must not move.
	require.NoError(t, db.Model(order).Update("protein_qty_g", 999).Error)

	created, err = svc.Archive(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, created)

	var histories []models.OrderHistory
	require.NoError(t, db.Find(&histories).Error)
	require.Len(t, histories, 1)
	assert.Zero(t, histories[0].ProteinQtyG)
}

func TestArchiveUsesOverridePriority(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	planned := testhelpers.CreateRecipe(t, db, "Frango grelhado", models.CategoryProtein, 25, 0, 5, 150, 3)
	swapped := testhelpers.CreateRecipe(t, db, "Tilápia assada", models.CategoryProtein, 20, 0, 3, 110, 4)

	customer := testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)
	order := &models.Order{
		CustomerID:        customer.ID,
		OrderDate:         mustDate("2026-08-24"),
		MealType:          models.MealLunch,
		Status:            models.OrderDelivered,
		DeliveryTime:      "12:00",
		ProteinRecipeID:   &planned.ID,
		ProteinOverrideID: &swapped.ID,
		ProteinQtyG:       200,
		CarbOverrideName:  "Cuscuz da casa",
		CarbQtyG:          150,
	}
	require.NoError(t, db.Create(order).Error)

	svc := service.NewArchiverService(db)
	created, err := svc.Archive(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, created)

	var history models.OrderHistory
	require.NoError(t, db.First(&history, "customer_id = ?", customer.ID).Error)

	// Catalog override beats the menu default.
	assert.Equal(t, "Tilápia assada", history.ProteinName)
	assert.InDelta(t, 40, history.DeliveredProteinG, 0.001)

	// Free-text substitution keeps its name and contributes no macros.
	assert.Equal(t, "Cuscuz da casa", history.CarbName)
	assert.Zero(t, history.DeliveredCarbsG)
}

func TestArchiveSlot(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	date := mustDate("2026-08-24")
	ana := testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)
	bruno := testhelpers.CreateActiveCustomer(t, db, "Bruno", "5511999990002", 35, 60, 12)

	for _, c := range []*models.Customer{ana, bruno} {
		require.NoError(t, db.Create(&models.Order{
			CustomerID:   c.ID,
			OrderDate:    date,
			MealType:     models.MealLunch,
			Status:       models.OrderDelivered,
			DeliveryTime: "12:00",
		}).Error)
	}

	svc := service.NewArchiverService(db)

	report, err := svc.ArchiveSlot(ctx, date, models.MealLunch)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Archived)
	assert.Equal(t, 0, report.AlreadyPresent)

	report, err = svc.ArchiveSlot(ctx, date, models.MealLunch)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Archived)
	assert.Equal(t, 2, report.AlreadyPresent)
}
