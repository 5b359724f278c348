package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"stock_orders/internal/domain"
	"stock_orders/internal/infra/storage"
)

// AssetService exposes asset balances and the cash movements that do not go
// through the order lifecycle.
type AssetService struct {
	store  *storage.Storage
	logger *slog.Logger
}

func NewAssetService(store *storage.Storage, logger *slog.Logger) *AssetService {
	return &AssetService{
		store:  store,
		logger: logger.With("module", "asset_service"),
	}
}

// Get returns one asset row for a customer.
func (s *AssetService) Get(ctx context.Context, customerID uint, assetName string) (*domain.Asset, error) {
	return s.store.GetAsset(customerID, assetName)
}

// List returns a customer's assets, optionally filtered by name.
func (s *AssetService) List(ctx context.Context, customerID uint, assetName string) ([]domain.Asset, error) {
	if _, err := s.store.FindCustomer(customerID); err != nil {
		return nil, err
	}
	return s.store.ListAssets(customerID, assetName)
}

// Deposit credits cash to a customer, creating the cash asset on first use.
func (s *AssetService) Deposit(ctx context.Context, customerID uint, amount decimal.Decimal) (*domain.Asset, error) {
	if !amount.IsPositive() {
		return nil, &domain.ValidationError{Message: "deposit amount must be positive"}
	}

	if _, err := s.store.FindCustomer(customerID); err != nil {
		return nil, err
	}

	var asset *domain.Asset
	err := s.store.Transaction(ctx, func(tx *storage.Tx) error {
		var err error
		asset, err = tx.FindOrCreateAsset(customerID, domain.CashSymbol)
		if err != nil {
			return err
		}
		if err := asset.Credit(amount); err != nil {
			return err
		}
		return tx.SaveAsset(asset)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cash deposited", "customer_id", customerID, "amount", amount)
	return asset, nil
}

// Withdraw removes usable cash from a customer. Cash reserved by pending
// orders cannot be withdrawn.
func (s *AssetService) Withdraw(ctx context.Context, customerID uint, amount decimal.Decimal) (*domain.Asset, error) {
	if !amount.IsPositive() {
		return nil, &domain.ValidationError{Message: "withdrawal amount must be positive"}
	}

	var asset *domain.Asset
	err := s.store.Transaction(ctx, func(tx *storage.Tx) error {
		var err error
		asset, err = tx.LockAsset(customerID, domain.CashSymbol)
		if err != nil {
			return err
		}
		if err := asset.Reserve(amount); err != nil {
			return err
		}
		if err := asset.WithdrawFromTotal(amount); err != nil {
			return err
		}
		return tx.SaveAsset(asset)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cash withdrawn", "customer_id", customerID, "amount", amount)
	return asset, nil
}
