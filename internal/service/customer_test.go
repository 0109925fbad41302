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

type recordingNotifier struct {
	registered []*models.Customer
}

func (n *recordingNotifier) NotifyRegistration(customer *models.Customer) {
	n.registered = append(n.registered, customer)
}

func TestRegisterForcesPendingApproval(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	notifier := &recordingNotifier{}
	svc := service.NewCustomerService(db, notifier)

	customer := &models.Customer{
		Name:   "Ana",
		Phone:  "5511999990001",
		Status: models.CustomerActive, // must not be honored
		Active: true,
	}
	require.NoError(t, svc.Register(context.Background(), customer))

	assert.Equal(t, models.CustomerPendingApproval, customer.Status)
	assert.False(t, customer.Active)
	require.Len(t, notifier.registered, 1)
	assert.Equal(t, "Ana", notifier.registered[0].Name)
}

func TestApproveActivatesCustomer(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewCustomerService(db, nil)
	ctx := context.Background()

	customer := &models.Customer{Name: "Ana", Phone: "5511999990001"}
	require.NoError(t, svc.Register(ctx, customer))

	approved, err := svc.Approve(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerActive, approved.Status)
	assert.True(t, approved.Active)

	_, err = svc.Approve(ctx, customer.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyActive)
}

func TestApprovePhoneConflictKeepsCustomerPending(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewCustomerService(db, nil)
	ctx := context.Background()

	testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)

	duplicate := &models.Customer{Name: "Ana Segunda", Phone: "5511999990001"}
	require.NoError(t, svc.Register(ctx, duplicate))

	_, err := svc.Approve(ctx, duplicate.ID)
	assert.ErrorIs(t, err, service.ErrPhoneConflict)

	// The conflicting customer must still be pending, not half-approved.
	reloaded, err := svc.Get(ctx, duplicate.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerPendingApproval, reloaded.Status)
	assert.False(t, reloaded.Active)
}

func TestFindByPhone(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewCustomerService(db, nil)
	ctx := context.Background()

	created := testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)

	found, err := svc.FindByPhone(ctx, "5511999990001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.FindByPhone(ctx, "550000000000")
	assert.ErrorIs(t, err, service.ErrCustomerNotFound)
}

func TestSchedulesLifecycle(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewCustomerService(db, nil)
	ctx := context.Background()

	customer := testhelpers.CreateActiveCustomer(t, db, "Ana", "5511999990001", 40, 56, 15)

	schedule := &models.DeliverySchedule{
		CustomerID:      customer.ID,
		DayOfWeek:       3,
		MealType:        models.MealDinner,
		DeliveryTime:    "19:30",
		DeliveryAddress: "Rua A, 10",
		Active:          true,
	}
	require.NoError(t, svc.AddSchedule(ctx, schedule))

	schedules, err := svc.Schedules(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, 3, schedules[0].DayOfWeek)

	require.NoError(t, svc.RemoveSchedule(ctx, schedule.ID))

	schedules, err = svc.Schedules(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, schedules)
}
