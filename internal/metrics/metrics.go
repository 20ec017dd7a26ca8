package metrics

import (
	"time"

	"fxconvert/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fxconvert"

// Upstream call outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeRateMissing = "rate_missing"
	OutcomeAPIError    = "api_error"
	OutcomeHTTPError   = "http_error"
	OutcomeUnreachable = "unreachable"
	OutcomeUnexpected  = "unexpected"
)

// Metrics holds the service collectors. A nil *Metrics is a valid no-op recorder.
type Metrics struct {
	cacheLookups     *prometheus.CounterVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration prometheus.Histogram
	conversionErrors *prometheus.CounterVec
	cacheHitRatio    prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Conversion cache lookups by result.",
			},
			[]string{"result"},
		),
		upstreamRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Calls to the exchange rate provider by outcome.",
			},
			[]string{"outcome"},
		),
		upstreamDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Latency of calls to the exchange rate provider.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		conversionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversion_errors_total",
				Help:      "Failed conversion requests by error code.",
			},
			[]string{"code"},
		),
		cacheHitRatio: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cache_hit_ratio",
				Help:      "Hit ratio reported by the in-memory cache.",
			},
		),
	}
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) UpstreamRequest(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(outcome).Inc()
	m.upstreamDuration.Observe(took.Seconds())
}

func (m *Metrics) ConversionError(code domain.ErrorCode) {
	if m == nil {
		return
	}
	m.conversionErrors.WithLabelValues(string(code)).Inc()
}

func (m *Metrics) CacheHitRatio(ratio float64) {
	if m == nil {
		return
	}
	m.cacheHitRatio.Set(ratio)
}
