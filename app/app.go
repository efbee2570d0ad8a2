package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/glamournym/nymshop/internal/cart"
	"github.com/glamournym/nymshop/internal/catalog"
	"github.com/glamournym/nymshop/internal/config"
	"github.com/glamournym/nymshop/internal/handlers"
	"github.com/glamournym/nymshop/internal/receipt"
	"github.com/glamournym/nymshop/internal/storage"
)

type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Storage  storage.Provider
	Handlers *handlers.Handlers
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	shopCatalog, err := catalog.NewParser().ParseFile(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if err := catalog.NewValidator().Validate(shopCatalog); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	provider, err := storage.NewProvider(startupCtx, storage.Config{
		Provider:              cfg.StorageProvider,
		RedisConnectionString: cfg.RedisConnectionString,
		PostgresURL:           cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage provider: %w", err)
	}

	cartStore := cart.NewStore(startupCtx, provider, logger.With("component", "cart"))

	history, err := receipt.NewHistory(provider, logger.With("component", "receipt_history"))
	if err != nil {
		closeProvider(logger, provider)
		return nil, fmt.Errorf("failed to initialize receipt history: %w", err)
	}
	generator, err := receipt.NewGenerator(shopCatalog.Shop, history, logger.With("component", "receipt_generator"))
	if err != nil {
		closeProvider(logger, provider)
		return nil, fmt.Errorf("failed to initialize receipt generator: %w", err)
	}

	h, err := handlers.New(handlers.Dependencies{
		Config:    cfg,
		CartStore: cartStore,
		Receipts:  generator,
		History:   history,
		Catalog:   shopCatalog,
		Logger:    logger,
	})
	if err != nil {
		closeProvider(logger, provider)
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	logger.Info("app initialized",
		"shop", shopCatalog.Shop.Name,
		"products", len(shopCatalog.ActiveProducts()),
		"storage", cfg.StorageProvider,
	)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Storage:  provider,
		Handlers: h,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Storage != nil {
		closeProvider(a.Logger, a.Storage)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	format := strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	case "text", "":
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level: cfg.LogLevel,
		}))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: cfg.LogLevel}))
}

func closeProvider(logger *slog.Logger, provider storage.Provider) {
	if provider == nil {
		return
	}
	if err := provider.Close(); err != nil && logger != nil {
		logger.Warn("failed to close storage provider", "error", err)
	}
}
