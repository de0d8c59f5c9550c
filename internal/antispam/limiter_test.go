package antispam

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupLimiter(t *testing.T, limit int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewLimiter(client, limit, window, logger), mr
}

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	limiter, _ := setupLimiter(t, 5, 10*time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		v := limiter.Allow(ctx, "203.0.113.9")
		assert.True(t, v.Allowed, "attempt %d should be allowed", i+1)
	}

	v := limiter.Allow(ctx, "203.0.113.9")
	assert.False(t, v.Allowed)
	assert.Zero(t, v.Remaining)
	assert.Greater(t, v.RetryAfter, time.Duration(0))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	limiter, _ := setupLimiter(t, 1, 10*time.Minute)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "203.0.113.9").Allowed)
	assert.False(t, limiter.Allow(ctx, "203.0.113.9").Allowed)

	// A different client is unaffected.
	assert.True(t, limiter.Allow(ctx, "198.51.100.7").Allowed)
}

func TestLimiter_WindowSlides(t *testing.T) {
	limiter, _ := setupLimiter(t, 1, 10*time.Minute)
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	limiter.nowFunc = func() time.Time { return base }

	assert.True(t, limiter.Allow(ctx, "203.0.113.9").Allowed)
	assert.False(t, limiter.Allow(ctx, "203.0.113.9").Allowed)

	// Past the window the old attempts age out.
	limiter.nowFunc = func() time.Time { return base.Add(11 * time.Minute) }
	assert.True(t, limiter.Allow(ctx, "203.0.113.9").Allowed)
}

func TestLimiter_FailsOpenWhenRedisDown(t *testing.T) {
	limiter, mr := setupLimiter(t, 1, 10*time.Minute)
	ctx := context.Background()

	mr.Close()

	v := limiter.Allow(ctx, "203.0.113.9")
	assert.True(t, v.Allowed)
}
