package middleware

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisLimiter is a fixed-window counter shared by every instance that
// talks to the same Redis.
type RedisLimiter struct {
	rdb    *redis.Client
	max    int64
	window time.Duration
	prefix string
}

func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisLimiter {
	if rdb == nil {
		panic("redis client cannot be nil for RedisLimiter")
	}
	if limit <= 0 || window <= 0 {
		panic("RedisLimiter needs a positive max and window")
	}
	return &RedisLimiter{rdb: rdb, max: int64(limit), window: window, prefix: "booking:ratelimit:"}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	// first hit in the window, or a counter that lost its expiry
	if ttl.Val() < 0 {
		if err := l.rdb.PExpire(ctx, k, l.window).Err(); err != nil {
			return false, err
		}
	}
	return incr.Val() <= l.max, nil
}
