package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisResultCache shares conversion results between replicas. Redis failures are
// logged and treated as a miss, so a broken cache never fails a conversion.
type RedisResultCache struct {
	client *redis.Client
	prefix string
}

func NewRedisResultCache(client *redis.Client, prefix string) *RedisResultCache {
	return &RedisResultCache{client: client, prefix: prefix}
}

func (c *RedisResultCache) Get(ctx context.Context, key string) (float64, bool) {
	value, err := c.client.Get(ctx, c.prefix+key).Float64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).WithField("key", key).Warn("Redis cache read failed")
		}
		return 0, false
	}
	return value, true
}

func (c *RedisResultCache) Set(ctx context.Context, key string, value float64, ttl time.Duration) {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Redis cache write failed")
	}
}

func (c *RedisResultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisResultCache) Close() error { return c.client.Close() }
