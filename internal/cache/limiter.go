package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter per key stored in Redis.
// A nil Redis or a non-positive limit allows everything.
type RateLimiter struct {
	redis  *Redis
	prefix string
	limit  int64
	window time.Duration
}

func NewRateLimiter(r *Redis, prefix string, limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		redis:  r,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
	}
}

// Allow counts one hit for key and reports whether it is within the limit.
// On Redis errors the hit is allowed and the error returned for logging.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.redis == nil || l.limit <= 0 {
		return true, nil
	}
	redisKey := fmt.Sprintf("rl:%s:%s", l.prefix, key)

	// SET NX seeds the window TTL and INCR counts the hit in one MULTI, so a
	// counter never exists without an expiry.
	var incr *redis.IntCmd
	_, err := l.redis.Client().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, redisKey, 0, l.window)
		incr = pipe.Incr(ctx, redisKey)
		return nil
	})
	if err != nil {
		return true, fmt.Errorf("rate limit incr: %w", err)
	}
	return incr.Val() <= l.limit, nil
}
