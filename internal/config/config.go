package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
)

// Storage backends for the cart record.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config holds all configuration for the storefront process.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort            int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
	RequestTimeoutSecs  int `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
	CatalogCacheSeconds int `env:"CATALOG_CACHE_SECONDS" envDefault:"60"`

	// Per-client rate limit on /api/v1; 0 disables it.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// Catalog source: exactly one of URL or file is used, URL first.
	CatalogURL            string `env:"CATALOG_URL"`
	CatalogFile           string `env:"CATALOG_FILE"`
	CatalogTimeoutSeconds int    `env:"CATALOG_TIMEOUT_SECONDS" envDefault:"10"`
	CatalogPageSize       int    `env:"CATALOG_PAGE_SIZE" envDefault:"12"`

	// Cart storage
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`
	RedisAddr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass      string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	// CartTTL in hours; 0 keeps carts forever.
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"0"`

	// Kafka; no brokers disables cart events.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// Tracing
	TracingEnabled bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	return load(nil)
}

// LoadFrom reads configuration from the given environment only.
func LoadFrom(environment map[string]string) (*Config, error) {
	return load(environment)
}

func load(environment map[string]string) (*Config, error) {
	cfg := &Config{}

	var err error
	if environment == nil {
		err = pkgconfig.Load(cfg)
	} else {
		err = pkgconfig.LoadFrom(cfg, environment)
	}
	if err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	c.CatalogURL = strings.TrimSpace(c.CatalogURL)
	c.CatalogFile = strings.TrimSpace(c.CatalogFile)
	c.KafkaBrokers = compact(c.KafkaBrokers)
	c.CORSAllowedOrigins = compact(c.CORSAllowedOrigins)
}

// validate rejects values the storefront cannot run with.
func (c *Config) validate() error {
	var errs []error

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP port: %d", c.HTTPPort))
	}
	if c.CatalogURL == "" && c.CatalogFile == "" {
		errs = append(errs, errors.New("one of CATALOG_URL or CATALOG_FILE is required"))
	}
	if c.CatalogPageSize < 1 {
		errs = append(errs, fmt.Errorf("CATALOG_PAGE_SIZE must be positive, got %d", c.CatalogPageSize))
	}
	if c.CatalogTimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("CATALOG_TIMEOUT_SECONDS must be positive, got %d", c.CatalogTimeoutSeconds))
	}
	switch c.StorageBackend {
	case StorageMemory:
	case StorageRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis storage backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q (want memory or redis)", c.StorageBackend))
	}
	if c.RateLimitRPS < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %v", c.RateLimitRPS))
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be positive when rate limiting is on, got %d", c.RateLimitBurst))
	}
	if c.CartTTL < 0 {
		errs = append(errs, fmt.Errorf("CART_TTL_HOURS must not be negative, got %d", c.CartTTL))
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		errs = append(errs, fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %v", c.OTELSampleRate))
	}

	return errors.Join(errs...)
}

// CartTTLDuration is the Redis expiry for cart records.
func (c *Config) CartTTLDuration() time.Duration {
	return time.Duration(c.CartTTL) * time.Hour
}

// CatalogTimeout bounds one catalog fetch.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.CatalogTimeoutSeconds) * time.Second
}

// RequestTimeout bounds one HTTP request; 0 disables the limit.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// EventsEnabled reports whether cart events are published to Kafka.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
