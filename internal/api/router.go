package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/spesasmart/pricing/internal/middleware"
)

// RequestTimeout bounds the context of every API request.
const RequestTimeout = 10 * time.Second

// RouterOptions carries the HTTP-level settings taken from configuration.
type RouterOptions struct {
	AllowedOrigins     []string // empty allows any origin
	RateLimitPerMinute int      // <= 0 uses middleware.DefaultRequestsPerMinute
}

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, CORS, RateLimiter).
//   - Adds request timeout handling (10 seconds).
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures API v1 routes (/api/v1); /users/me/* requires a Bearer token.
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
//
// Parameters:
//   - handler (*Handler): The HTTP handler with business logic.
//   - verifier (middleware.TokenVerifier): Validates bearer tokens of user routes.
//   - opts (RouterOptions): CORS and rate limiting settings.
//
// Returns:
//   - *gin.Engine: Configured Gin router.
func NewRouter(handler *Handler, verifier middleware.TokenVerifier, opts RouterOptions) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		// CORS answers preflights before they count against the limit and
		// stamps its headers on 429 responses too.
		middleware.CORS(opts.AllowedOrigins),
		middleware.RateLimiter(opts.RateLimitPerMinute),
	)

	// ─── Timeout ──────────────────────────────────
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), RequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products/:id")
		products.GET("/best-price", handler.GetBestPrice)
		products.GET("/history", handler.GetHistory)
		products.GET("/price-trends", handler.GetPriceTrends)
		products.GET("/indicator", handler.GetIndicator)
		products.GET("/compare", handler.CompareChains)

		v1.GET("/chains", handler.ListChains)

		offers := v1.Group("/offers")
		offers.GET("/active", handler.GetActiveOffers)
		offers.GET("/best", handler.GetBestOffers)
		v1.GET("/categories/:category/offers", handler.GetCategoryOffers)

		me := v1.Group("/users/me", middleware.RequireAuth(verifier))
		me.GET("/deals", handler.GetMyDeals)
	}

	return router
}
