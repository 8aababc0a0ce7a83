// Package bootstrap wires caches, adapters and services from configuration.
// Both the HTTP server and the CLI start from New.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/greenscan/backend/config"
	"github.com/greenscan/backend/internal/domain"
	"github.com/greenscan/backend/internal/infrastructure/cache"
	"github.com/greenscan/backend/internal/infrastructure/foodtable"
	"github.com/greenscan/backend/internal/infrastructure/httpclient"
	"github.com/greenscan/backend/internal/infrastructure/kassalapp"
	"github.com/greenscan/backend/internal/infrastructure/openfoodfacts"
	"github.com/greenscan/backend/internal/infrastructure/usda"
	"github.com/greenscan/backend/internal/usecase"
)

// App holds the wired services. Close releases caches, Redis and the food table.
type App struct {
	Resolver  *usecase.ProductResolver
	Search    *usecase.SearchService
	FoodTable *foodtable.Store

	logger  *zap.Logger
	closers []func() error
}

// New builds every component described by cfg
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{logger: logger}

	caches, err := app.cacheFactory(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	offLogger := logger.Named("openfoodfacts")
	products := openfoodfacts.NewClient(
		cfg.OpenFoodFacts.BaseURL,
		httpclient.New(httpclient.Config{
			UserAgent: cfg.OpenFoodFacts.UserAgent,
			Timeout:   cfg.OpenFoodFacts.Timeout,
			Logger:    offLogger,
		}),
		caches("openfoodfacts"),
		cfg.Cache.TTL,
		offLogger,
	)

	var grocery domain.GroceryProductSource
	if cfg.Kassalapp.APIKey != "" {
		kassalLogger := logger.Named("kassalapp")
		grocery = kassalapp.NewClient(
			cfg.Kassalapp.BaseURL,
			cfg.Kassalapp.APIKey,
			httpclient.New(httpclient.Config{
				Timeout:           cfg.Kassalapp.Timeout,
				RequestsPerSecond: float64(cfg.Kassalapp.RequestsPerMinute) / 60,
				Logger:            kassalLogger,
			}),
			caches("kassalapp"),
			cfg.Cache.TTL,
			kassalLogger,
		)
	} else {
		logger.Warn("kassalapp API key not set, prices and Norwegian catalogue disabled")
	}

	store, err := openFoodTable(ctx, cfg.FoodTable, logger.Named("foodtable"))
	if err != nil {
		app.Close()
		return nil, err
	}
	app.FoodTable = store
	app.closers = append(app.closers, store.Close)

	references := []domain.NutritionReference{store}
	if cfg.USDA.APIKey != "" {
		usdaLogger := logger.Named("usda")
		client := usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL, httpclient.New(httpclient.Config{Logger: usdaLogger}), usdaLogger)
		references = append(references, usecase.NewReferenceNutritionService(
			caches("reference"),
			client,
			usecase.ReferenceServiceConfig{},
			usdaLogger,
		))
	}
	reference := usecase.NewReferenceChain(logger.Named("reference"), references...)

	app.Resolver = usecase.NewProductResolver(products, grocery, reference, logger.Named("resolver"))
	app.Search = usecase.NewSearchService(products, grocery, usecase.SearchConfig{
		DefaultLimit: cfg.Search.DefaultLimit,
		MaxLimit:     cfg.Search.MaxLimit,
	}, logger.Named("search"))

	logger.Info("services ready",
		zap.String("cache", cfg.Cache.Type),
		zap.Bool("kassalapp", grocery != nil),
		zap.Int("references", reference.Len()),
	)
	return app, nil
}

// Close releases resources in reverse order of creation
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// cacheFactory returns a constructor for per-adapter caches. Memory caches
// are independent; Redis caches share one client and differ by key prefix.
func (a *App) cacheFactory(ctx context.Context, cfg config.CacheConfig) (func(name string) domain.CacheRepository, error) {
	if cfg.Type == "redis" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return func(name string) domain.CacheRepository {
			return newRedisCache(client, name, cfg.TTL)
		}, nil
	}

	return func(name string) domain.CacheRepository {
		mc := cache.NewMemoryCache(cache.MemoryConfig{
			Capacity:        cfg.Capacity,
			TTL:             cfg.TTL,
			CleanupInterval: cfg.CleanupInterval,
		})
		a.closers = append(a.closers, mc.Close)
		return mc
	}, nil
}

func newRedisCache(client redis.UniversalClient, name string, ttl time.Duration) *cache.RedisCache {
	return cache.NewRedisCache(client, "greenscan:"+name, ttl)
}

// openFoodTable opens the SQLite table, seeds the built-in staples into an
// empty table and then applies the optional seed file.
func openFoodTable(ctx context.Context, cfg config.FoodTableConfig, logger *zap.Logger) (*foodtable.Store, error) {
	store, err := foodtable.Open(cfg.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("open food table: %w", err)
	}

	seeded, err := store.SeedDefaults(ctx)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("seed food table: %w", err)
	}
	if cfg.SeedFile != "" {
		imported, err := store.ImportFile(ctx, cfg.SeedFile)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("import %s: %w", cfg.SeedFile, err)
		}
		seeded += imported
	}
	if seeded > 0 {
		logger.Info("food table seeded", zap.Int("rows", seeded))
	}
	return store, nil
}
