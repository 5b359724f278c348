package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CashSymbol is the designated currency asset. It funds BUY orders and
// receives SELL proceeds, and can never be traded itself.
const CashSymbol = "TRY"

// Asset is one (customer, symbol) balance pair. Size is the total amount
// owned; UsableSize is the portion not reserved by pending orders.
// 0 <= UsableSize <= Size holds after every mutation.
type Asset struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CustomerID uint            `gorm:"uniqueIndex:idx_customer_asset" json:"customer_id"`
	AssetName  string          `gorm:"uniqueIndex:idx_customer_asset" json:"asset_name"`
	Size       decimal.Decimal `gorm:"type:numeric" json:"size"`
	UsableSize decimal.Decimal `gorm:"type:numeric" json:"usable_size"`
	Version    uint            `json:"-"` // optimistic-concurrency counter
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NewAsset creates a zero-balance asset row for a customer.
func NewAsset(customerID uint, assetName string) *Asset {
	return &Asset{
		CustomerID: customerID,
		AssetName:  assetName,
		Size:       decimal.Zero,
		UsableSize: decimal.Zero,
	}
}

// Reserve decreases the usable size without touching the total: the amount
// stays owned but is locked by a pending order.
func (a *Asset) Reserve(amount decimal.Decimal) error {
	if a.UsableSize.LessThan(amount) {
		return fmt.Errorf("%w: asset %s has usable %s, need %s",
			ErrInsufficientBalance, a.AssetName, a.UsableSize, amount)
	}
	a.UsableSize = a.UsableSize.Sub(amount)
	return a.checkInvariant()
}

// Release returns a previously reserved amount to the usable size.
func (a *Asset) Release(amount decimal.Decimal) error {
	a.UsableSize = a.UsableSize.Add(amount)
	return a.checkInvariant()
}

// WithdrawFromTotal finalizes a reserved deduction at settlement: the total
// shrinks, the usable size is untouched because it already dropped at
// reserve time.
func (a *Asset) WithdrawFromTotal(amount decimal.Decimal) error {
	a.Size = a.Size.Sub(amount)
	return a.checkInvariant()
}

// Credit increases both total and usable size. Receiving side of a
// settlement or a cash deposit.
func (a *Asset) Credit(amount decimal.Decimal) error {
	a.Size = a.Size.Add(amount)
	a.UsableSize = a.UsableSize.Add(amount)
	return a.checkInvariant()
}

func (a *Asset) checkInvariant() error {
	if a.UsableSize.IsNegative() {
		return fmt.Errorf("asset %s invariant broken: usable size %s is negative",
			a.AssetName, a.UsableSize)
	}
	if a.UsableSize.GreaterThan(a.Size) {
		return fmt.Errorf("asset %s invariant broken: usable %s exceeds size %s",
			a.AssetName, a.UsableSize, a.Size)
	}
	return nil
}
