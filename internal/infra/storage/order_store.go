package storage

import (
	"errors"
	"fmt"
	"time"

	"stock_orders/internal/domain"

	"gorm.io/gorm"
)

// OrderFilter narrows an order listing. Zero/nil fields are ignored.
type OrderFilter struct {
	CustomerID uint
	From       *time.Time
	To         *time.Time
	Status     *domain.OrderStatus
}

// SaveOrder persists a new or updated order inside the transaction.
func (t *Tx) SaveOrder(order *domain.Order) error {
	return t.db.Save(order).Error
}

// FindOrder loads an order by id inside the transaction.
func (t *Tx) FindOrder(id uint) (*domain.Order, error) {
	return findOrder(t.db, id)
}

// FindOrder loads an order by id.
func (s *Storage) FindOrder(id uint) (*domain.Order, error) {
	return findOrder(s.db, id)
}

func findOrder(db *gorm.DB, id uint) (*domain.Order, error) {
	var order domain.Order
	err := db.First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", domain.ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns the orders matching the filter, newest first.
func (s *Storage) ListOrders(f OrderFilter) ([]domain.Order, error) {
	q := s.db.Where("customer_id = ?", f.CustomerID)
	if f.From != nil {
		q = q.Where("create_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("create_date <= ?", *f.To)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var orders []domain.Order
	err := q.Order("create_date DESC").Find(&orders).Error
	return orders, err
}

// CreateOrder inserts a pre-built order outside any order flow (seeding).
func (s *Storage) CreateOrder(order *domain.Order) error {
	return s.db.Create(order).Error
}
