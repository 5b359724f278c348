package storage

import (
	"fmt"
	"log/slog"

	"stock_orders/internal/domain"
	"stock_orders/internal/infra"

	"github.com/shopspring/decimal"
)

// SeedDemo populates an empty database with demo customers, each holding a
// starting cash balance. Runs only when the customer table is empty so a
// restart never duplicates rows.
func (s *Storage) SeedDemo(cfg *infra.Config) error {
	if !cfg.Seed.Enabled {
		return nil
	}

	n, err := s.CountCustomers()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	cash, err := decimal.NewFromString(cfg.Seed.CashSize)
	if err != nil {
		return fmt.Errorf("invalid seed cash size %q: %w", cfg.Seed.CashSize, err)
	}

	for i := 1; i <= cfg.Seed.Customers; i++ {
		customer := &domain.Customer{Name: fmt.Sprintf("customer%d", i)}
		if err := s.CreateCustomer(customer); err != nil {
			return err
		}

		tryAsset := domain.NewAsset(customer.ID, domain.CashSymbol)
		if err := tryAsset.Credit(cash); err != nil {
			return err
		}
		if err := s.CreateAsset(tryAsset); err != nil {
			return err
		}

		slog.Info("seeded customer",
			slog.Uint64("customer_id", uint64(customer.ID)),
			slog.String("cash", cash.String()))
	}

	return nil
}
