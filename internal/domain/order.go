package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderSide indicates whether an order buys or sells the asset.
type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

// Valid reports whether the side is one of the known values.
func (s OrderSide) Valid() bool {
	return s == SideBuy || s == SideSell
}

// OrderAction is the lifecycle operation applied to an order.
type OrderAction string

const (
	ActionCreate OrderAction = "CREATE"
	ActionCancel OrderAction = "CANCEL"
	ActionMatch  OrderAction = "MATCH"
)

// OrderStatus represents the lifecycle state of an order.
// MATCHED and CANCELED are terminal.
type OrderStatus string

const (
	StatusPending  OrderStatus = "PENDING"
	StatusMatched  OrderStatus = "MATCHED"
	StatusCanceled OrderStatus = "CANCELED"
)

// Valid reports whether the status is one of the known values.
func (s OrderStatus) Valid() bool {
	return s == StatusPending || s == StatusMatched || s == StatusCanceled
}

// Order is a single trade intent: a customer's instruction to buy or sell
// an amount of an asset at a price.
type Order struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CustomerID uint            `gorm:"index" json:"customer_id"`
	AssetName  string          `json:"asset_name"`
	Side       OrderSide       `json:"side"`
	Size       decimal.Decimal `gorm:"type:numeric" json:"size"`
	Price      decimal.Decimal `gorm:"type:numeric" json:"price"`
	Status     OrderStatus     `gorm:"index" json:"status"`
	CreateDate time.Time       `json:"create_date"`
	UpdateDate time.Time       `json:"update_date"`
}

// NewOrder builds a PENDING order. Callers validate before persisting.
func NewOrder(customerID uint, assetName string, side OrderSide, size, price decimal.Decimal) *Order {
	now := time.Now().UTC()
	return &Order{
		CustomerID: customerID,
		AssetName:  assetName,
		Side:       side,
		Size:       size,
		Price:      price,
		Status:     StatusPending,
		CreateDate: now,
		UpdateDate: now,
	}
}

// Validate checks the business rules for a new order.
func (o *Order) Validate() error {
	if o.AssetName == CashSymbol {
		return &OperationNotPermittedError{
			Msg: fmt.Sprintf("cannot buy or sell %s assets", CashSymbol),
		}
	}
	if !o.Side.Valid() {
		return &ValidationError{Message: fmt.Sprintf("invalid order side: %s", o.Side)}
	}
	if !o.Size.IsPositive() {
		return &ValidationError{Message: "order size must be positive"}
	}
	if !o.Price.IsPositive() {
		return &ValidationError{Message: "order price must be positive"}
	}
	return nil
}

// TotalCost is size × price rounded half-up to 2 decimal places: the cash
// amount a BUY reserves and a matched BUY pays.
func (o *Order) TotalCost() (decimal.Decimal, error) {
	cost := o.Size.Mul(o.Price).Round(2)
	if !cost.IsPositive() {
		// Unreachable once Validate passed; kept as a consistency guard.
		return decimal.Zero, fmt.Errorf("order total cost %s is not positive", cost)
	}
	return cost, nil
}

// Cancel transitions PENDING -> CANCELED.
func (o *Order) Cancel() error {
	if o.Status != StatusPending {
		return &OperationNotPermittedError{
			Msg: fmt.Sprintf("cannot cancel a non-pending order, status is %s", o.Status),
		}
	}
	o.Status = StatusCanceled
	o.UpdateDate = time.Now().UTC()
	return nil
}

// Match transitions PENDING -> MATCHED.
func (o *Order) Match() error {
	if o.Status != StatusPending {
		return &OperationNotPermittedError{
			Msg: fmt.Sprintf("cannot match a non-pending order, status is %s", o.Status),
		}
	}
	o.Status = StatusMatched
	o.UpdateDate = time.Now().UTC()
	return nil
}
