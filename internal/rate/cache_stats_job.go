package rate

import (
	"fxconvert/internal/adapters"
	"fxconvert/internal/metrics"

	"github.com/sirupsen/logrus"
)

// ReportCacheStats publishes the cache hit ratio and logs the raw counters.
func ReportCacheStats(execID string, provider adapters.CacheStatsProvider, m *metrics.Metrics) {
	stats := provider.Stats()
	m.CacheHitRatio(stats.Ratio)

	logrus.WithFields(logrus.Fields{
		"exec_id":      execID,
		"hits":         stats.Hits,
		"misses":       stats.Misses,
		"keys_added":   stats.KeysAdded,
		"keys_evicted": stats.KeysEvicted,
		"ratio":        stats.Ratio,
	}).Info("Cache stats reported")
}
