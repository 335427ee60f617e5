package quota

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter counts gateway calls per key inside a fixed window.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

func key(id string) string {
	return "usage:" + id
}

// CheckLimit reports whether another call is allowed for id.
func (r *RedisLimiter) CheckLimit(ctx context.Context, id string) (bool, error) {
	val, err := r.client.Get(ctx, key(id)).Result()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read usage: %w", err)
	}
	usage, err := strconv.Atoi(val)
	if err != nil {
		return false, fmt.Errorf("corrupt usage counter for %s: %w", id, err)
	}
	return usage < r.limit, nil
}

// Increment records one call. The window starts with the first call; a
// counter left without an expiry gets one on its next increment.
func (r *RedisLimiter) Increment(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, key(id))
	if r.window > 0 {
		pipe.ExpireNX(ctx, key(id), r.window)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	return nil
}

func (r *RedisLimiter) Limit() int {
	return r.limit
}
