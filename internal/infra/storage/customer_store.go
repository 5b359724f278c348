package storage

import (
	"errors"
	"fmt"

	"stock_orders/internal/domain"

	"gorm.io/gorm"
)

// FindCustomer loads a customer by id.
func (s *Storage) FindCustomer(id uint) (*domain.Customer, error) {
	return findCustomer(s.db, id)
}

func findCustomer(db *gorm.DB, id uint) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", domain.ErrCustomerNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer inserts a customer (onboarding happens outside the order
// engine; this exists for seeding and tests).
func (s *Storage) CreateCustomer(customer *domain.Customer) error {
	return s.db.Create(customer).Error
}

// CountCustomers reports how many customers exist. Seeding uses it to run
// only against an empty database.
func (s *Storage) CountCustomers() (int64, error) {
	var n int64
	err := s.db.Model(&domain.Customer{}).Count(&n).Error
	return n, err
}
