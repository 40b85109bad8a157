package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimitDecision is what the limiter hands back to the middleware.
type RateLimitDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RedisRateLimiter bounds scan traffic per (client IP, staff id) pair
// over a sliding window.
type RedisRateLimiter interface {
	Allow(ctx context.Context, ip string, staffID int) (RateLimitDecision, error)
}

type RedisRateLimiterImpl struct {
	client *redis.Client
	window time.Duration
	limit  int
}

func NewRedisRateLimiter(client *redis.Client, window time.Duration, limit int) RedisRateLimiter {
	return &RedisRateLimiterImpl{
		client: client,
		window: window,
		limit:  limit,
	}
}

func (l *RedisRateLimiterImpl) key(ip string, staffID int) string {
	return fmt.Sprintf("ratelimit:scan:%s:%d", ip, staffID)
}

// limiterMember builds a unique ZSET member; two requests in the same
// millisecond must not overwrite each other's window entry.
func limiterMember(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString())
}

// Allow records the attempt and decides atomically in a Lua script, so
// two concurrent requests cannot both slip under the limit.
func (l *RedisRateLimiterImpl) Allow(ctx context.Context, ip string, staffID int) (RateLimitDecision, error) {
	key := l.key(ip, staffID)
	now := time.Now()

	script := `
		local key = KEYS[1]
		local now_ms = tonumber(ARGV[1])
		local window_ms = tonumber(ARGV[2])
		local limit = tonumber(ARGV[3])

		-- drop entries that fell out of the sliding window
		redis.call('ZREMRANGEBYSCORE', key, 0, now_ms - window_ms)

		local count = redis.call('ZCARD', key)
		if count >= limit then
			-- retry once the oldest entry leaves the window
			local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
			local retry_ms = window_ms
			if oldest[2] then
				retry_ms = (tonumber(oldest[2]) + window_ms) - now_ms
			end
			if retry_ms < 0 then retry_ms = 0 end
			return {0, 0, retry_ms}
		end

		redis.call('ZADD', key, now_ms, ARGV[4])
		redis.call('PEXPIRE', key, window_ms)

		return {1, limit - count - 1, 0}
	`

	result, err := l.client.Eval(ctx, script, []string{key},
		now.UnixMilli(), l.window.Milliseconds(), l.limit, limiterMember(now),
	).Result()
	if err != nil {
		return RateLimitDecision{}, err
	}

	resSlice, ok := result.([]interface{})
	if !ok || len(resSlice) != 3 {
		return RateLimitDecision{}, fmt.Errorf("unexpected rate limit script result: %v", result)
	}

	allowed := resSlice[0].(int64) == 1
	remaining := int(resSlice[1].(int64))
	retryAfter := time.Duration(resSlice[2].(int64)) * time.Millisecond

	return RateLimitDecision{
		Allowed:    allowed,
		Remaining:  remaining,
		RetryAfter: retryAfter,
	}, nil
}
