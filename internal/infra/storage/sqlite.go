package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"stock_orders/internal/domain"
	"stock_orders/internal/infra"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage wraps the database and the asset lock manager. All mutating order
// flows run through Transaction so that order and asset writes commit or
// roll back together.
type Storage struct {
	db    *gorm.DB
	locks *infra.LockManager
}

// NewStorage opens the SQLite database, runs migrations, and returns a
// Storage bound to the given lock manager.
func NewStorage(cfg *infra.Config, locks *infra.LockManager) (*Storage, error) {
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Pure Go SQLite driver
	db, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Customer{}, &domain.Asset{}, &domain.Order{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db, locks: locks}, nil
}

// Tx is one order-lifecycle transaction: a database transaction plus the
// asset row locks acquired during it. Locks are held until the transaction
// ends, successfully or not.
type Tx struct {
	db       *gorm.DB
	locks    *infra.LockManager
	ctx      context.Context
	releases []func()
}

// Transaction runs fn inside a database transaction. Any error aborts the
// transaction; no partial ledger writes survive. Asset locks acquired via
// the Tx are released after the transaction finishes, in reverse order.
func (s *Storage) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	t := &Tx{locks: s.locks, ctx: ctx}
	defer func() {
		for i := len(t.releases) - 1; i >= 0; i-- {
			t.releases[i]()
		}
	}()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t.db = tx
		return fn(t)
	})
}

// lockAsset acquires the exclusive (customer, asset) lock and registers its
// release with the transaction.
func (t *Tx) lockAsset(customerID uint, assetName string) error {
	release, err := t.locks.Acquire(t.ctx, customerID, assetName)
	if err != nil {
		return err
	}
	t.releases = append(t.releases, release)
	return nil
}
