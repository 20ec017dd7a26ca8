package cache

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

var (
	redisSetupOnce sync.Once

	redisContainer *tcredis.RedisContainer
	redisURL       string
)

func TestMain(m *testing.M) {
	code := m.Run()
	if redisContainer != nil {
		_ = testcontainers.TerminateContainer(redisContainer)
	}
	os.Exit(code)
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	redisSetupOnce.Do(func() {
		ctx := context.Background()
		rc, err := tcredis.Run(ctx, "redis:7-alpine")
		require.NoError(t, err)
		connStr, err := rc.ConnectionString(ctx)
		require.NoError(t, err)
		redisContainer = rc
		redisURL = connStr
	})
	require.NotEmpty(t, redisURL, "redis container failed to start")

	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	require.NoError(t, client.FlushDB(context.Background()).Err())
	return client
}

func TestRedisResultCache_SetAndGet(t *testing.T) {
	c := NewRedisResultCache(setupRedis(t), "fxconvert:")
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	c.Set(ctx, "exchange_rate:USD:EUR:100", 92.0, time.Minute)

	got, ok := c.Get(ctx, "exchange_rate:USD:EUR:100")
	require.True(t, ok)
	require.InDelta(t, 92.0, got, 1e-9)
}

func TestRedisResultCache_UsesPrefixAndTTL(t *testing.T) {
	client := setupRedis(t)
	c := NewRedisResultCache(client, "fxconvert:")
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	c.Set(ctx, "exchange_rate:USD:EUR:1", 0.92, 300*time.Second)

	ttl, err := client.TTL(ctx, "fxconvert:exchange_rate:USD:EUR:1").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, 290*time.Second)
	require.LessOrEqual(t, ttl, 300*time.Second)
}

func TestRedisResultCache_Miss(t *testing.T) {
	c := NewRedisResultCache(setupRedis(t), "fxconvert:")
	t.Cleanup(func() { _ = c.Close() })

	_, ok := c.Get(context.Background(), "exchange_rate:EUR:USD:5")
	require.False(t, ok)
}

func TestRedisResultCache_ClosedClientDegradesToMiss(t *testing.T) {
	c := NewRedisResultCache(setupRedis(t), "fxconvert:")
	require.NoError(t, c.Close())

	ctx := context.Background()
	c.Set(ctx, "k", 1, time.Minute)
	_, ok := c.Get(ctx, "k")
	require.False(t, ok)
}
