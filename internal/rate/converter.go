package rate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"fxconvert/internal/adapters"
	"fxconvert/internal/domain"
	"fxconvert/internal/metrics"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	ResultTTL       = 300 * time.Second
	UpstreamTimeout = 10 * time.Second
)

const (
	msgServiceUnavailable = "currency service unavailable, please try again later"
	msgUnexpected         = "an unexpected error occurred, please try again later"
)

type Converter struct {
	client  adapters.RateClient
	cache   adapters.ResultCache
	metrics *metrics.Metrics

	dedupe   bool
	inflight singleflight.Group
}

type ConverterOption func(*Converter)

func WithMetrics(m *metrics.Metrics) ConverterOption {
	return func(c *Converter) { c.metrics = m }
}

// WithInflightDedupe makes concurrent misses for the same cache key share one
// upstream call.
func WithInflightDedupe(enabled bool) ConverterOption {
	return func(c *Converter) { c.dedupe = enabled }
}

func NewConverter(client adapters.RateClient, cache adapters.ResultCache, opts ...ConverterOption) *Converter {
	c := &Converter{client: client, cache: cache}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert returns the converted amount rounded to two decimals. Results are served
// from cache for ResultTTL; on a miss the unit rate is fetched once and scaled
// locally. Every error returned is a *domain.ConversionError.
func (c *Converter) Convert(ctx context.Context, req domain.ConversionRequest) (float64, error) {
	key := CacheKey(req)

	if cached, ok := c.cache.Get(ctx, key); ok {
		c.metrics.CacheLookup(true)
		logrus.WithFields(logrus.Fields{"key": key, "result": cached}).Debug("Conversion served from cache")
		return cached, nil
	}
	c.metrics.CacheLookup(false)

	if !c.dedupe {
		return c.fetchAndStore(ctx, key, req)
	}

	// The shared call must outlive any single waiter; it is still bounded by UpstreamTimeout.
	resCh := c.inflight.DoChan(key, func() (interface{}, error) {
		return c.fetchAndStore(context.WithoutCancel(ctx), key, req)
	})
	select {
	case <-ctx.Done():
		logrus.WithError(ctx.Err()).WithFields(logrus.Fields{
			"from": req.From,
			"to":   req.To,
		}).Info("Caller gave up waiting for conversion")
		return 0, domain.NewServiceError(http.StatusServiceUnavailable, msgServiceUnavailable)
	case res := <-resCh:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(float64), nil
	}
}

func (c *Converter) fetchAndStore(ctx context.Context, key string, req domain.ConversionRequest) (float64, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, UpstreamTimeout)
	defer cancel()

	begin := time.Now()
	unitRate, err := c.client.GetPairRate(fetchCtx, string(req.From), string(req.To))
	if err != nil {
		c.metrics.UpstreamRequest(upstreamOutcome(err), time.Since(begin))
		return 0, c.classify(req, err)
	}
	c.metrics.UpstreamRequest(metrics.OutcomeSuccess, time.Since(begin))

	result, err := scale(unitRate, req.Amount)
	if err != nil {
		return 0, c.classify(req, err)
	}

	c.cache.Set(ctx, key, result, ResultTTL)
	logrus.WithFields(logrus.Fields{"key": key, "result": result}).Info("Conversion result cached")
	return result, nil
}

// scale multiplies in decimal arithmetic and rounds half away from zero.
func scale(unitRate, amount float64) (float64, error) {
	if math.IsNaN(unitRate) || math.IsInf(unitRate, 0) {
		return 0, fmt.Errorf("non-finite unit rate %v", unitRate)
	}
	result := decimal.NewFromFloat(unitRate).Mul(decimal.NewFromFloat(amount)).Round(2).InexactFloat64()
	if math.IsInf(result, 0) {
		return 0, fmt.Errorf("conversion result out of range: %v x %v", unitRate, amount)
	}
	return result, nil
}

// classify maps a failure to its client-facing error and logs the internal detail.
func (c *Converter) classify(req domain.ConversionRequest, err error) *domain.ConversionError {
	var (
		statusErr *domain.UpstreamStatusError
		resultErr *domain.UpstreamResultError
		convErr   *domain.ConversionError
	)

	switch {
	case errors.Is(err, domain.ErrRateUnavailable):
		convErr = domain.NewServiceError(
			http.StatusServiceUnavailable,
			fmt.Sprintf("failed to retrieve exchange rate for %s to %s", req.From, req.To),
		)
	case errors.As(err, &resultErr):
		errorType := resultErr.ErrorType
		if errorType == "" {
			errorType = "unknown"
		}
		convErr = domain.NewServiceError(http.StatusInternalServerError, "external API error: "+errorType)
	case errors.As(err, &statusErr):
		status := statusErr.StatusCode
		if status < http.StatusBadRequest || status > 599 {
			status = http.StatusServiceUnavailable
		}
		convErr = domain.NewServiceError(status, "error retrieving data from external API: "+statusErr.Error())
	case errors.Is(err, domain.ErrUpstreamUnreachable):
		convErr = domain.NewServiceError(http.StatusServiceUnavailable, msgServiceUnavailable)
	default:
		convErr = domain.NewServiceError(http.StatusInternalServerError, msgUnexpected)
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"from":   req.From,
		"to":     req.To,
		"status": convErr.HTTPStatus,
	}).Error("Currency conversion failed")
	return convErr
}

func upstreamOutcome(err error) string {
	var (
		statusErr *domain.UpstreamStatusError
		resultErr *domain.UpstreamResultError
	)
	switch {
	case errors.Is(err, domain.ErrRateUnavailable):
		return metrics.OutcomeRateMissing
	case errors.As(err, &resultErr):
		return metrics.OutcomeAPIError
	case errors.As(err, &statusErr):
		return metrics.OutcomeHTTPError
	case errors.Is(err, domain.ErrUpstreamUnreachable):
		return metrics.OutcomeUnreachable
	default:
		return metrics.OutcomeUnexpected
	}
}
