package app

import (
	"log/slog"
	"net/http"

	"stock_orders/internal/handler"
	"stock_orders/internal/infra"
	"stock_orders/internal/infra/storage"
	"stock_orders/internal/notify"
	"stock_orders/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config      *infra.Config
	Storage     *storage.Storage
	Broadcaster *notify.Broadcaster
	Router      http.Handler
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize wires the whole system: config, logger, storage, services and
// the HTTP router.
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping stock orders service...")

	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (DB) with the asset lock manager
	locks := infra.NewLockManager(cfg.Locking.AcquireTimeout)
	store, err := storage.NewStorage(cfg, locks)
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("✅ Database initialized")

	// 4. Demo data
	if err := store.SeedDemo(cfg); err != nil {
		return err
	}

	// 5. Services and HTTP surface
	registry, err := service.NewHandlerRegistry()
	if err != nil {
		return err
	}

	b.Broadcaster = notify.NewBroadcaster(logger)
	orders := service.NewOrderService(store, registry, b.Broadcaster, logger)
	assets := service.NewAssetService(store, logger)
	b.Router = handler.NewRouter(orders, assets, b.Broadcaster, logger)
	slog.Info("✅ Services wired")

	return nil
}

// Close releases long-lived resources. Safe to call once during shutdown.
func (b *Bootstrap) Close() {
	if b.Broadcaster != nil {
		b.Broadcaster.Close()
	}
}
