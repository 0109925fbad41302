package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratofeito/backend/internal/models"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrPhoneConflict    = errors.New("an active customer with this phone number already exists")
	ErrAlreadyActive    = errors.New("customer is already active")
)

// CustomerService owns customer lifecycle and delivery schedules.
type CustomerService struct {
	db       *gorm.DB
	notifier Notifier
}

// Notifier is told about events staff should hear about. May be nil.
type Notifier interface {
	NotifyRegistration(customer *models.Customer)
}

func NewCustomerService(db *gorm.DB, notifier Notifier) *CustomerService {
	return &CustomerService{db: db, notifier: notifier}
}

// Register creates a self-service customer in pending_approval. No
// schedule is attached yet; that happens after staff approval.
func (s *CustomerService) Register(ctx context.Context, customer *models.Customer) error {
	customer.Status = models.CustomerPendingApproval
	customer.Active = false

	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyRegistration(customer)
	}
	return nil
}

// Approve activates a pending customer unless an active customer already
// holds the same phone number; on conflict the customer stays pending.
func (s *CustomerService) Approve(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer.Status == models.CustomerActive {
		return nil, ErrAlreadyActive
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Customer{}).
		Where("phone = ? AND status = ? AND id <> ?", customer.Phone, models.CustomerActive, id).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrPhoneConflict
	}

	customer.Status = models.CustomerActive
	customer.Active = true
	if err := s.db.WithContext(ctx).Save(customer).Error; err != nil {
		return nil, err
	}

	log.Printf("customer %s approved", customer.ID)
	return customer, nil
}

// Get returns one customer by id.
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByPhone matches a customer by phone number, the key external
// systems use.
func (s *CustomerService) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// List returns customers filtered by status ("" means all).
func (s *CustomerService) List(ctx context.Context, status models.CustomerStatus) ([]models.Customer, error) {
	query := s.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var customers []models.Customer
	if err := query.Order("name").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Update applies profile and macro-target changes.
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, updates *models.Customer) (*models.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if updates.Name != "" {
		customer.Name = updates.Name
	}
	if updates.Phone != "" {
		customer.Phone = updates.Phone
	}
	if updates.Email != "" {
		customer.Email = updates.Email
	}
	if updates.Address != "" {
		customer.Address = updates.Address
	}
	customer.LunchProteinG = updates.LunchProteinG
	customer.LunchCarbsG = updates.LunchCarbsG
	customer.LunchFatG = updates.LunchFatG
	customer.DinnerProteinG = updates.DinnerProteinG
	customer.DinnerCarbsG = updates.DinnerCarbsG
	customer.DinnerFatG = updates.DinnerFatG

	if err := s.db.WithContext(ctx).Save(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// AddSchedule attaches a weekly recurring slot to a customer.
func (s *CustomerService) AddSchedule(ctx context.Context, schedule *models.DeliverySchedule) error {
	if _, err := s.Get(ctx, schedule.CustomerID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(schedule).Error
}

// Schedules lists a customer's schedules.
func (s *CustomerService) Schedules(ctx context.Context, customerID uuid.UUID) ([]models.DeliverySchedule, error) {
	var schedules []models.DeliverySchedule
	if err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("day_of_week, meal_type").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// RemoveSchedule soft-deletes one schedule row.
func (s *CustomerService) RemoveSchedule(ctx context.Context, scheduleID uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.DeliverySchedule{}, "id = ?", scheduleID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
