package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spesasmart/pricing/internal/auth"
	"github.com/spesasmart/pricing/internal/logger"
)

// RequestLogger is a Gin middleware that logs method, path, status code,
// request latency, request ID and, for authenticated routes, the user ID.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RequestLogger())
//
// Example log output:
//
//	request_id=123e4567-e89b-12d3-a456-426614174000 method=GET path=/api/v1/chains status=200 latency_ms=15
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		rid, _ := c.Get(RequestIDKey)

		ev := logger.L().Info()
		if status >= 500 {
			ev = logger.L().Error()
		}
		ev = ev.
			Str("request_id", toString(rid)).
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Int64("latency_ms", latency.Milliseconds()).
			Str("client_ip", c.ClientIP())
		if v, ok := c.Get(PrincipalKey); ok {
			if p, ok := v.(auth.Principal); ok {
				ev = ev.Str("user_id", p.UserID.String())
			}
		}
		ev.Msg("http_request")
	}
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
