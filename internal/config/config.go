package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Order sources
const (
	SourceREST     = "rest"
	SourceDynamoDB = "dynamodb"
)

// Config is the runtime configuration shared by the API and the worker.
type Config struct {
	Env      string
	LogLevel string
	RunLocal bool
	Addr     string

	OrderSource     string
	UpstreamBaseURL string
	UpstreamToken   string
	UpstreamTimeout time.Duration

	OrdersTable      string
	IdempotencyTable string
	QueueURL         string
	MetricsNamespace string
	IdempotencyTTL   time.Duration
}

// Load reads an optional .env file (existing environment variables win) and
// then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:              getenv("ENV", "production"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		RunLocal:         os.Getenv("RUN_LOCAL") == "true",
		Addr:             getenv("HTTP_ADDR", ":8080"),
		OrderSource:      getenv("ORDER_SOURCE", SourceREST),
		UpstreamBaseURL:  os.Getenv("UPSTREAM_BASE_URL"),
		UpstreamToken:    os.Getenv("UPSTREAM_TOKEN"),
		OrdersTable:      getenv("ORDERS_TABLE", "orders"),
		IdempotencyTable: getenv("IDEMPOTENCY_TABLE", "idempotency"),
		QueueURL:         os.Getenv("ORDERS_QUEUE_URL"),
		MetricsNamespace: getenv("METRICS_NAMESPACE", "OrderInsights"),
	}

	var err error
	if cfg.UpstreamTimeout, err = durationEnv("UPSTREAM_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", 48*time.Hour); err != nil {
		return Config{}, err
	}

	switch cfg.OrderSource {
	case SourceREST:
		if cfg.UpstreamBaseURL == "" {
			return Config{}, errors.New("UPSTREAM_BASE_URL is required when ORDER_SOURCE=rest")
		}
	case SourceDynamoDB:
	default:
		return Config{}, fmt.Errorf("unknown ORDER_SOURCE %q", cfg.OrderSource)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// durationEnv accepts Go durations ("30s") or a bare number of seconds.
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
