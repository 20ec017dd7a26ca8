package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"

	CurrencySourceBuiltin  = "builtin"
	CurrencySourcePostgres = "postgres"
)

type HTTPServer struct {
	Port string `mapstructure:"port" validate:"required,numeric"`
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gt=0"`
}

type ExchangeRateAPI struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key" validate:"required"`
}

type Cache struct {
	Backend        string `mapstructure:"backend" validate:"oneof=memory redis"`
	MaxItems       int64  `mapstructure:"max_items" validate:"gt=0"`
	DedupeInflight bool   `mapstructure:"dedupe_inflight"`
}

type Redis struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db" validate:"gte=0"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type Currencies struct {
	Source string `mapstructure:"source" validate:"oneof=builtin postgres"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns" validate:"gte=0"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type Scheduler struct {
	StatsIntervalSec int `mapstructure:"stats_interval_sec" validate:"gt=0"`
}

type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

type AppConfig struct {
	HTTPServer      HTTPServer      `mapstructure:"http_server"`
	HTTPClient      HTTPClient      `mapstructure:"http_client"`
	ExchangeRateAPI ExchangeRateAPI `mapstructure:"exchange_rate_api"`
	Cache           Cache           `mapstructure:"cache"`
	Redis           Redis           `mapstructure:"redis"`
	Currencies      Currencies      `mapstructure:"currencies"`
	DbServer        DbServer        `mapstructure:"db_server"`
	Scheduler       Scheduler       `mapstructure:"scheduler"`
	Logging         Logging         `mapstructure:"logging"`
}

var validate = validator.New()

// Init loads config.yaml, or the file named by CONFIG_PATH.
func Init() (*AppConfig, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	return Load(path)
}

// Load reads the yaml file at path, overlays .env and environment variables
// and validates the result. A missing .env file is not an error.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	setDefaults(v)
	bindEnv(v)

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *AppConfig) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Cache.Backend == CacheBackendRedis && cfg.Redis.Addr == "" {
		return errors.New("invalid config: redis.addr is required for the redis cache backend")
	}
	if cfg.Currencies.Source == CurrencySourcePostgres && (cfg.DbServer.Host == "" || cfg.DbServer.Name == "") {
		return errors.New("invalid config: db_server.host and db_server.name are required for the postgres currency source")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", "8080")
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("exchange_rate_api.base_url", "https://v6.exchangerate-api.com/v6")
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.max_items", 100_000)
	v.SetDefault("cache.dedupe_inflight", true)
	v.SetDefault("redis.key_prefix", "fxconvert:")
	v.SetDefault("currencies.source", CurrencySourceBuiltin)
	v.SetDefault("db_server.max_conns", 10)
	v.SetDefault("scheduler.stats_interval_sec", 60)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func bindEnv(v *viper.Viper) {
	// http server env vars
	_ = v.BindEnv("http_server.port", "HTTP_PORT")

	// exchange rate api env vars
	_ = v.BindEnv("exchange_rate_api.api_key", "EXCHANGE_RATE_API_KEY")
	_ = v.BindEnv("exchange_rate_api.base_url", "EXCHANGE_RATE_API_BASE_URL")

	// http client env vars
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	// cache env vars
	_ = v.BindEnv("cache.backend", "CACHE_BACKEND")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")

	// currencies env vars
	_ = v.BindEnv("currencies.source", "CURRENCIES_SOURCE")

	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// logging env vars
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")
}
