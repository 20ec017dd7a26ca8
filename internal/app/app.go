package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fxconvert/internal/adapters"
	"fxconvert/internal/adapters/cache"
	"fxconvert/internal/adapters/httpclient"
	"fxconvert/internal/adapters/postgres"
	"fxconvert/internal/api"
	"fxconvert/internal/config"
	"fxconvert/internal/metrics"
	"fxconvert/internal/platform/db"
	httpserver "fxconvert/internal/platform/http"
	"fxconvert/internal/rate"
	"fxconvert/internal/rate/handler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	configureLogger(appCfg.Logging)
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, initial reads)
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Supported currencies codes
	supportedCodes, err := loadSupportedCodes(startupCtx, appCfg)
	if err != nil || len(supportedCodes) == 0 {
		if err == nil {
			err = errors.New("no supported currencies available")
		}
		logrus.WithError(err).Error("Failed to load supported currencies")
		return err
	}
	logrus.WithField("count", len(supportedCodes)).Info("✅ Supported currencies loaded")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = rate.UpstreamTimeout
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	// External clients
	exchangeAPIBaseURL := strings.TrimSuffix(appCfg.ExchangeRateAPI.BaseURL, "/")
	rateClient := httpclient.NewExchangeRateClient(
		baseHTTPClient,
		fmt.Sprintf("%s/%s", exchangeAPIBaseURL, appCfg.ExchangeRateAPI.APIKey),
	)

	// Result cache
	resultCache, statsProvider, closeCache, err := newResultCache(startupCtx, appCfg)
	if err != nil {
		logrus.WithError(err).Error("Failed to initialize result cache")
		return err
	}
	defer closeCache()
	logrus.WithField("backend", appCfg.Cache.Backend).Info("✅ Result cache ready")

	// Services
	rateValidator := rate.NewValidator(supportedCodes)
	converter := rate.NewConverter(rateClient, resultCache,
		rate.WithMetrics(appMetrics),
		rate.WithInflightDedupe(appCfg.Cache.DedupeInflight),
	)

	if statsProvider != nil {
		scheduler := rate.NewScheduler(statsProvider, appMetrics, time.Duration(appCfg.Scheduler.StatsIntervalSec)*time.Second)
		defer func() {
			if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
				logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
			}
		}()
		// Start scheduler tied to root context
		if startErr := scheduler.Start(ctx); startErr != nil {
			logrus.WithError(startErr).Error("Failed to start scheduler")
			return startErr
		}
		logrus.Info("✅ Scheduler activation successful")
	}

	// Handlers and router
	rateHandler := handler.NewRateHandler(rateValidator, converter, appMetrics)
	router := api.NewRouter(rateHandler, registry)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

func configureLogger(cfg config.Logging) {
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(cfg.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	if cfg.Format == "text" {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

// loadSupportedCodes reads the currency set from the configured source.
func loadSupportedCodes(ctx context.Context, appCfg *config.AppConfig) (map[string]struct{}, error) {
	if appCfg.Currencies.Source != config.CurrencySourcePostgres {
		return rate.DefaultCurrencies(), nil
	}

	pool, err := db.CreatePoolAndPing(ctx, appCfg.DbServer)
	if err != nil {
		return nil, fmt.Errorf("error connecting to db: %w", err)
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	if err = db.Migrate(ctx, pool); err != nil {
		return nil, err
	}
	logrus.Info("✅ Migrations applied")

	return codeSet(ctx, postgres.NewCurrencyRepository(pool))
}

func codeSet(ctx context.Context, repo adapters.CurrencyRepository) (map[string]struct{}, error) {
	codes, err := repo.ListCodes(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		m[c] = struct{}{}
	}
	return m, nil
}

func newResultCache(ctx context.Context, appCfg *config.AppConfig) (adapters.ResultCache, adapters.CacheStatsProvider, func(), error) {
	if appCfg.Cache.Backend == config.CacheBackendRedis {
		redisCache := cache.NewRedisResultCache(redis.NewClient(&redis.Options{
			Addr:     appCfg.Redis.Addr,
			Password: appCfg.Redis.Password,
			DB:       appCfg.Redis.DB,
		}), appCfg.Redis.KeyPrefix)
		if err := redisCache.Ping(ctx); err != nil {
			_ = redisCache.Close()
			return nil, nil, nil, fmt.Errorf("error connecting to redis: %w", err)
		}
		return redisCache, nil, func() { _ = redisCache.Close() }, nil
	}

	memCache, err := cache.NewResultCache(appCfg.Cache.MaxItems)
	if err != nil {
		return nil, nil, nil, err
	}
	return memCache, memCache, memCache.Close, nil
}
