package rate

import (
	"testing"

	"fxconvert/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestCacheKey_Deterministic(t *testing.T) {
	a := CacheKey(domain.ConversionRequest{From: "USD", To: "EUR", Amount: 100})
	b := CacheKey(domain.ConversionRequest{From: "usd", To: "eur", Amount: 100.0})
	require.Equal(t, "exchange_rate:USD:EUR:100", a)
	require.Equal(t, a, b)
}

func TestCacheKey_DistinguishesTriples(t *testing.T) {
	keys := map[string]struct{}{}
	for _, req := range []domain.ConversionRequest{
		{From: "USD", To: "EUR", Amount: 100},
		{From: "EUR", To: "USD", Amount: 100},
		{From: "USD", To: "EUR", Amount: 100.01},
		{From: "USD", To: "EUR", Amount: 10},
		{From: "USD", To: "EUR", Amount: 1e-7},
		{From: "USD", To: "EU", Amount: 100},
	} {
		keys[CacheKey(req)] = struct{}{}
	}
	require.Len(t, keys, 6)
}
