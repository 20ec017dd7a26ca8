package cache

import (
	"context"
	"fmt"
	"time"

	"fxconvert/internal/domain"

	"github.com/dgraph-io/ristretto"
	"github.com/sirupsen/logrus"
)

// RistrettoResultCache keeps conversion results in process memory.
// Expired entries are dropped by ristretto itself.
type RistrettoResultCache struct {
	cache *ristretto.Cache
}

func NewResultCache(maxItems int64) (*RistrettoResultCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        10 * maxItems,
		MaxCost:            maxItems,
		BufferItems:        64,
		Metrics:            true,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create result cache failed: %w", err)
	}
	return &RistrettoResultCache{cache: c}, nil
}

func (c *RistrettoResultCache) Get(_ context.Context, key string) (float64, bool) {
	if v, ok := c.cache.Get(key); ok {
		result, ok := v.(float64)
		return result, ok
	}
	return 0, false
}

// Set blocks until the write buffer is applied, so the entry is visible to the next Get.
func (c *RistrettoResultCache) Set(_ context.Context, key string, value float64, ttl time.Duration) {
	if !c.cache.SetWithTTL(key, value, 1, ttl) {
		logrus.WithField("key", key).Debug("Result cache store dropped")
		return
	}
	c.cache.Wait()
}

func (c *RistrettoResultCache) Stats() domain.CacheStats {
	m := c.cache.Metrics
	return domain.CacheStats{
		Hits:        m.Hits(),
		Misses:      m.Misses(),
		KeysAdded:   m.KeysAdded(),
		KeysEvicted: m.KeysEvicted(),
		Ratio:       m.Ratio(),
	}
}

func (c *RistrettoResultCache) Close() { c.cache.Close() }
