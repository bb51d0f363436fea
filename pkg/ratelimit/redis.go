// pkg/ratelimit/redis.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to addr and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

// RedisLimiter is a fixed-window limiter shared by every API instance.
type RedisLimiter struct {
	client redis.Cmdable
	limit  int
	period time.Duration
	prefix string
}

func NewRedisLimiter(client redis.Cmdable, limit int, period time.Duration, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, period: period, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := l.prefix + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.period)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to count hit for %s: %w", key, err)
	}

	if incr.Val() > int64(l.limit) {
		retry := ttl.Val()
		if retry < 0 {
			retry = l.period
		}
		return false, retry, nil
	}
	return true, 0, nil
}
