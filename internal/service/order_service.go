package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"stock_orders/internal/domain"
	"stock_orders/internal/infra/storage"
	"stock_orders/internal/notify"
)

// EventSink receives order lifecycle events after the enclosing transaction
// commits. The websocket broadcaster implements it; tests plug in a fake.
type EventSink interface {
	Publish(event notify.Event)
}

// CreateOrderRequest carries the fields needed to place a new order.
type CreateOrderRequest struct {
	CustomerID uint
	AssetName  string
	Side       domain.OrderSide
	Size       decimal.Decimal
	Price      decimal.Decimal
}

// OrderService orchestrates the order lifecycle. Every mutating operation
// runs a single transaction that updates the order and the affected asset
// rows together, with the per-(customer, asset) locks held throughout.
type OrderService struct {
	store    *storage.Storage
	registry *HandlerRegistry
	events   EventSink
	logger   *slog.Logger
}

func NewOrderService(store *storage.Storage, registry *HandlerRegistry, events EventSink, logger *slog.Logger) *OrderService {
	return &OrderService{
		store:    store,
		registry: registry,
		events:   events,
		logger:   logger.With("module", "order_service"),
	}
}

// Create validates and places a new PENDING order, reserving the funding
// asset. Validation runs before any lock or lookup so a malformed request
// never touches the ledger.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	order := domain.NewOrder(req.CustomerID, req.AssetName, req.Side, req.Size, req.Price)
	if err := order.Validate(); err != nil {
		return nil, err
	}

	handler, err := s.registry.get(domain.ActionCreate, order.Side)
	if err != nil {
		// Registry construction fails fast, so this is a wiring defect.
		s.logger.Error("no action handler registered", slog.Any("error", err))
		return nil, err
	}

	// Resolve the customer before opening the write transaction; waiters on
	// the asset lock then hold no read state while blocked.
	if _, err := s.store.FindCustomer(order.CustomerID); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx *storage.Tx) error {
		if err := handler.handle(tx, order); err != nil {
			return err
		}
		return tx.SaveOrder(order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		"order_id", order.ID,
		"customer_id", order.CustomerID,
		"asset", order.AssetName,
		"side", order.Side,
		"size", order.Size,
		"price", order.Price,
	)
	s.publish(notify.EventOrderCreated, order)
	return order, nil
}

// Find returns one order. A non-nil customerID restricts access to that
// customer's own orders; nil means an admin caller.
func (s *OrderService) Find(ctx context.Context, orderID uint, customerID *uint) (*domain.Order, error) {
	order, err := s.store.FindOrder(orderID)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(order, customerID); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns a customer's orders matching the filter, newest first.
func (s *OrderService) List(ctx context.Context, filter storage.OrderFilter) ([]domain.Order, error) {
	return s.store.ListOrders(filter)
}

// Cancel cancels a PENDING order and releases whatever it had reserved.
// Ownership rules follow Find.
func (s *OrderService) Cancel(ctx context.Context, orderID uint, customerID *uint) (*domain.Order, error) {
	order, err := s.transition(ctx, orderID, customerID, domain.ActionCancel)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order canceled", "order_id", order.ID, "customer_id", order.CustomerID)
	s.publish(notify.EventOrderCanceled, order)
	return order, nil
}

// Match settles a PENDING order, moving the reserved leg out of the seller
// and the purchased leg in. Admin only; the caller enforces that.
func (s *OrderService) Match(ctx context.Context, orderID uint) (*domain.Order, error) {
	order, err := s.transition(ctx, orderID, nil, domain.ActionMatch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order matched", "order_id", order.ID, "customer_id", order.CustomerID)
	s.publish(notify.EventOrderMatched, order)
	return order, nil
}

// transition runs a CANCEL or MATCH against a stored order inside one
// transaction: load, ownership check, handler, save.
func (s *OrderService) transition(ctx context.Context, orderID uint, customerID *uint, action domain.OrderAction) (*domain.Order, error) {
	var order *domain.Order
	err := s.store.Transaction(ctx, func(tx *storage.Tx) error {
		var err error
		order, err = tx.FindOrder(orderID)
		if err != nil {
			return err
		}
		if err := checkOwnership(order, customerID); err != nil {
			return err
		}

		handler, err := s.registry.get(action, order.Side)
		if err != nil {
			s.logger.Error("no action handler registered", slog.Any("error", err))
			return err
		}
		if err := handler.handle(tx, order); err != nil {
			return err
		}
		return tx.SaveOrder(order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) publish(eventType notify.EventType, order *domain.Order) {
	if s.events == nil {
		return
	}
	s.events.Publish(notify.NewEvent(eventType, *order))
}

func checkOwnership(order *domain.Order, customerID *uint) error {
	if customerID != nil && order.CustomerID != *customerID {
		return fmt.Errorf("%w: order %d belongs to another customer", domain.ErrUnallowedAccess, order.ID)
	}
	return nil
}
