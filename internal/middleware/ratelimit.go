package middleware

import (
	"net/http"
	"ticket-backoffice/internal/cache"
	"ticket-backoffice/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScanRateLimit bounds scan traffic per (client IP, staff id). A limiter
// failure fails open: a broken redis must not close the door line.
func ScanRateLimit(limiter cache.RedisRateLimiter) gin.HandlerFunc {
	log := logger.WithComponent("ratelimit")

	return func(c *gin.Context) {
		staffID, _ := StaffIDFromContext(c)

		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP(), staffID)
		if err != nil {
			log.Warn("rate limiter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}

		if !decision.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":          "too many requests",
				"retry_after_ms": decision.RetryAfter.Milliseconds(),
			})
			return
		}

		c.Next()
	}
}
