package adapters

import (
	"context"
	"time"

	"fxconvert/internal/domain"
)

type RateClient interface {
	GetPairRate(ctx context.Context, from string, to string) (float64, error)
}

// ResultCache stores converted amounts. Implementations must be safe for concurrent
// use and must stop returning an entry once its ttl has passed.
type ResultCache interface {
	Get(ctx context.Context, key string) (float64, bool)
	Set(ctx context.Context, key string, value float64, ttl time.Duration)
}

type CacheStatsProvider interface {
	Stats() domain.CacheStats
}

type CurrencyRepository interface {
	ListCodes(ctx context.Context) ([]string, error)
}
