package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"ticket-backoffice/internal/cache"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubRateLimiter struct {
	decision cache.RateLimitDecision
	err      error
	calls    int
	lastIP   string
	lastID   int
}

func (s *stubRateLimiter) Allow(ctx context.Context, ip string, staffID int) (cache.RateLimitDecision, error) {
	s.calls++
	s.lastIP = ip
	s.lastID = staffID
	return s.decision, s.err
}

func setupRateLimitRouter(limiter cache.RedisRateLimiter, staffID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/scan",
		func(c *gin.Context) {
			if staffID != 0 {
				c.Set(ContextStaffID, staffID)
			}
			c.Next()
		},
		ScanRateLimit(limiter),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return router
}

func rateLimitGet(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/scan", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestScanRateLimit_Allowed(t *testing.T) {
	limiter := &stubRateLimiter{decision: cache.RateLimitDecision{Allowed: true, Remaining: 5}}
	router := setupRateLimitRouter(limiter, 7)

	w := rateLimitGet(router)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, limiter.calls)
	assert.Equal(t, 7, limiter.lastID)
}

func TestScanRateLimit_Denied(t *testing.T) {
	limiter := &stubRateLimiter{decision: cache.RateLimitDecision{
		Allowed:    false,
		RetryAfter: 1500 * time.Millisecond,
	}}
	router := setupRateLimitRouter(limiter, 7)

	w := rateLimitGet(router)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"retry_after_ms":1500`)
}

func TestScanRateLimit_FailsOpen(t *testing.T) {
	limiter := &stubRateLimiter{err: errors.New("redis down")}
	router := setupRateLimitRouter(limiter, 7)

	w := rateLimitGet(router)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestScanRateLimit_NoStaffInContext(t *testing.T) {
	limiter := &stubRateLimiter{decision: cache.RateLimitDecision{Allowed: true}}
	router := setupRateLimitRouter(limiter, 0)

	w := rateLimitGet(router)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, limiter.lastID)
}
