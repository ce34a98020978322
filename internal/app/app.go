package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/spesasmart/pricing/config"
	"github.com/spesasmart/pricing/internal/api"
	"github.com/spesasmart/pricing/internal/auth"
	"github.com/spesasmart/pricing/internal/cache"
	"github.com/spesasmart/pricing/internal/logger"
	"github.com/spesasmart/pricing/internal/pricing"
	"github.com/spesasmart/pricing/internal/service"
	"github.com/spesasmart/pricing/internal/storage"
)

// Stores bundles the backing connections shared by every run mode.
// Cache is nil when caching is disabled.
type Stores struct {
	DB    *sql.DB
	Cache *cache.Cache
}

// Close releases every open connection.
func (s *Stores) Close() {
	if s.Cache != nil {
		_ = s.Cache.Close()
	}
	if s.DB != nil {
		_ = s.DB.Close()
	}
}

// OpenStores connects to PostgreSQL and, when configured, to Redis.
// A Redis failure fails startup; an unset REDIS_ADDR simply disables caching.
func OpenStores(cfg config.Config) (*Stores, error) {
	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	c, err := cacheOpener(cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	if c == nil {
		logger.L().Info().Msg("redis not configured, best-price cache disabled")
	}

	return &Stores{DB: db, Cache: c}, nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL and the optional Redis cache via OpenStores().
//   - Initializes the repository layer (OfferRepository).
//   - Builds the pricing service with thresholds, timezone and trend window from config.
//   - Creates the HTTP handler layer and the JWT verifier.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness checks and the cache statistics route.
//   - Provides a cleanup function to close resources.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	stores, err := OpenStores(cfg)
	if err != nil {
		return nil, nil, err
	}

	// Initialize repository layer (responsible for DB access)
	repo := storage.NewOfferRepository(stores.DB)

	opts := service.Options{
		Thresholds:  pricing.Thresholds{Ottimo: cfg.Pricing.OttimoRatio, Alto: cfg.Pricing.AltoRatio},
		Location:    cfg.Pricing.Location,
		TrendMonths: cfg.Pricing.TrendMonths,
	}
	var (
		cachePing  func() error
		cacheStats func() cache.StatsSnapshot
	)
	if stores.Cache != nil {
		opts.Cache = stores.Cache
		cachePing = func() error { return stores.Cache.Ping(context.Background()) }
		cacheStats = stores.Cache.GetStats
	}

	// Initialize service layer (business logic)
	svc := service.NewPricingService(repo, opts)

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc)
	verifier := auth.NewVerifier(cfg.JWT.SecretKey, cfg.JWT.Issuer)

	router := api.NewRouter(handler, verifier, api.RouterOptions{
		AllowedOrigins:     cfg.Server.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
	})

	// Register health and readiness checks
	healthHandler := api.NewHealthHandler(stores.DB.Ping, cachePing).WithCacheStats(cacheStats)
	healthHandler.Register(router)

	return router, stores.Close, nil
}
