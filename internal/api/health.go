package api

import (
	"github.com/gin-gonic/gin"

	"github.com/spesasmart/pricing/internal/cache"
)

// HealthHandler provides liveness and readiness endpoints for the service.
//
// Responsibilities:
//   - /healthz: Basic liveness check (always returns 200 OK).
//   - /readyz: Readiness check (depends on database and, when configured, cache connectivity).
//   - /cache/stats: Hit/miss counters of the best-price cache.
type HealthHandler struct {
	dbPing     func() error // Function to check database connectivity
	cachePing  func() error // nil when caching is disabled
	cacheStats func() cache.StatsSnapshot
}

// NewHealthHandler constructs a HealthHandler with the provided ping functions.
//
// Parameters:
//   - dbPing (func() error): A function used to check if the database is reachable.
//     Typically, this is db.Ping from *sql.DB.
//   - cachePing (func() error): Optional Redis check; pass nil when caching is off.
//
// Returns:
//   - *HealthHandler: A new handler instance.
func NewHealthHandler(dbPing, cachePing func() error) *HealthHandler {
	return &HealthHandler{dbPing: dbPing, cachePing: cachePing}
}

// WithCacheStats exposes the cache counters on /cache/stats.
func (h *HealthHandler) WithCacheStats(stats func() cache.StatsSnapshot) *HealthHandler {
	h.cacheStats = stats
	return h
}

// Register mounts the health and readiness endpoints into the provided Gin router.
//
// Routes:
//   - GET /healthz: Always returns 200 OK.
//   - GET /readyz: Returns 200 OK if every ping succeeds, 503 naming the failing dependency otherwise.
//   - GET /cache/stats: Cache counters, or enabled=false when caching is off.
//
// Parameters:
//   - r (*gin.Engine): The Gin router to register routes on.
func (h *HealthHandler) Register(r *gin.Engine) {
	// Liveness check (just checks if the service is up)
	// @Summary      Liveness check
	// @Description  Always returns OK if the service is running
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Router       /healthz [get]
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Readiness check (checks DB and cache connections)
	// @Summary      Readiness check
	// @Description  Returns ready if the service dependencies (DB, Redis) are reachable
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Failure      503  {object}  map[string]string
	// @Router       /readyz [get]
	r.GET("/readyz", func(c *gin.Context) {
		if h.dbPing != nil && h.dbPing() != nil {
			c.JSON(503, gin.H{"status": "degraded", "failed": "database"})
			return
		}
		if h.cachePing != nil && h.cachePing() != nil {
			c.JSON(503, gin.H{"status": "degraded", "failed": "cache"})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	// Cache statistics
	// @Summary      Best-price cache statistics
	// @Description  Hit, miss, set, delete and error counters since startup
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]interface{}
	// @Router       /cache/stats [get]
	r.GET("/cache/stats", func(c *gin.Context) {
		if h.cacheStats == nil {
			c.JSON(200, gin.H{"enabled": false})
			return
		}
		c.JSON(200, gin.H{"enabled": true, "stats": h.cacheStats()})
	})
}
