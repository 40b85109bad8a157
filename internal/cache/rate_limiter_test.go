package cache

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterMember_UniquePerCall(t *testing.T) {
	now := time.Now()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		member := limiterMember(now)
		assert.False(t, seen[member], "member %q repeated", member)
		seen[member] = true
	}
}

func TestLimiterMember_CarriesTimestamp(t *testing.T) {
	now := time.Now()
	member := limiterMember(now)

	ms, _, found := strings.Cut(member, "-")
	require.True(t, found)
	assert.Equal(t, strconv.FormatInt(now.UnixMilli(), 10), ms)
}

func TestRateLimiterKey(t *testing.T) {
	l := &RedisRateLimiterImpl{}
	assert.Equal(t, "ratelimit:scan:10.0.0.1:7", l.key("10.0.0.1", 7))
}
