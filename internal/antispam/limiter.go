package antispam

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "contact:rl:"

// Verdict is the outcome of a rate limit check.
type Verdict struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter is a Redis-backed sliding window rate limiter for the contact form.
// When Redis is unreachable it fails open: a broken cache must not take the
// contact form down with it.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *slog.Logger

	nowFunc func() time.Time
	seq     atomic.Uint64
}

// NewLimiter creates a sliding window limiter allowing limit requests per
// window per key.
func NewLimiter(client *redis.Client, limit int, window time.Duration, logger *slog.Logger) *Limiter {
	return &Limiter{
		client:  client,
		limit:   limit,
		window:  window,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// Allow records an attempt for the key and reports whether it is within the
// window limit. Errors talking to Redis are logged and treated as allowed.
func (l *Limiter) Allow(ctx context.Context, key string) Verdict {
	now := l.nowFunc()
	redisKey := keyPrefix + key
	windowStart := now.Add(-l.window)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	// The sequence keeps members unique even when two attempts land on the
	// same nanosecond.
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d-%d", now.UnixNano(), l.seq.Add(1)),
	})
	countCmd := pipe.ZCard(ctx, redisKey)
	oldestCmd := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	pipe.Expire(ctx, redisKey, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.WarnContext(ctx, "rate limiter unavailable, failing open",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return Verdict{Allowed: true, Limit: l.limit, Remaining: l.limit}
	}

	count := int(countCmd.Val())
	if count <= l.limit {
		return Verdict{
			Allowed:   true,
			Limit:     l.limit,
			Remaining: l.limit - count,
		}
	}

	// Over the limit: the window frees up when the oldest recorded attempt
	// ages out.
	retryAfter := l.window
	if oldest := oldestCmd.Val(); len(oldest) > 0 {
		oldestAt := time.Unix(0, int64(oldest[0].Score))
		retryAfter = l.window - now.Sub(oldestAt)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
	}

	return Verdict{
		Allowed:    false,
		Limit:      l.limit,
		Remaining:  0,
		RetryAfter: retryAfter,
	}
}
