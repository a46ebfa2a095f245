package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{"CATALOG_FILE": "testdata/products.json"}
}

func with(overrides map[string]string) map[string]string {
	env := baseEnv()
	for k, v := range overrides {
		env[k] = v
	}
	return env
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(baseEnv())

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 12, cfg.CatalogPageSize)
	assert.Equal(t, 10*time.Second, cfg.CatalogTimeout())
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, time.Duration(0), cfg.CartTTLDuration())
	assert.False(t, cfg.EventsEnabled())
	assert.False(t, cfg.TracingEnabled)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 20.0, cfg.RateLimitRPS)
	assert.Equal(t, 40, cfg.RateLimitBurst)
}

func TestLoadFrom_MissingCatalogSource(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_URL or CATALOG_FILE")
}

func TestLoadFrom_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"port zero", map[string]string{"STOREFRONT_HTTP_PORT": "0"}, "invalid HTTP port"},
		{"port too high", map[string]string{"STOREFRONT_HTTP_PORT": "70000"}, "invalid HTTP port"},
		{"page size", map[string]string{"CATALOG_PAGE_SIZE": "0"}, "CATALOG_PAGE_SIZE"},
		{"catalog timeout", map[string]string{"CATALOG_TIMEOUT_SECONDS": "-1"}, "CATALOG_TIMEOUT_SECONDS"},
		{"backend", map[string]string{"STORAGE_BACKEND": "postgres"}, "unknown STORAGE_BACKEND"},
		{"ttl", map[string]string{"CART_TTL_HOURS": "-2"}, "CART_TTL_HOURS"},
		{"sample rate", map[string]string{"OTEL_SAMPLE_RATE": "2.0"}, "OTEL_SAMPLE_RATE must be between 0.0 and 1.0"},
		{"rate limit", map[string]string{"RATE_LIMIT_RPS": "-1"}, "RATE_LIMIT_RPS"},
		{"rate limit burst", map[string]string{"RATE_LIMIT_BURST": "0"}, "RATE_LIMIT_BURST"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadFrom(with(tc.env))

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadFrom_RateLimitDisabled(t *testing.T) {
	cfg, err := LoadFrom(with(map[string]string{"RATE_LIMIT_RPS": "0", "RATE_LIMIT_BURST": "0"}))

	require.NoError(t, err)
	assert.Zero(t, cfg.RateLimitRPS)
}

func TestLoadFrom_ReportsAllProblems(t *testing.T) {
	_, err := LoadFrom(map[string]string{"STOREFRONT_HTTP_PORT": "0", "STORAGE_BACKEND": "disk"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
	assert.Contains(t, err.Error(), "CATALOG_URL or CATALOG_FILE")
	assert.Contains(t, err.Error(), "unknown STORAGE_BACKEND")
}

func TestLoadFrom_NotANumber(t *testing.T) {
	_, err := LoadFrom(with(map[string]string{"CATALOG_PAGE_SIZE": "twelve"}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load storefront config")
}

func TestLoadFrom_RedisAndKafka(t *testing.T) {
	cfg, err := LoadFrom(with(map[string]string{
		"STORAGE_BACKEND": " Redis ",
		"REDIS_ADDR":      "redis.internal:6380",
		"CART_TTL_HOURS":  "24",
		"KAFKA_BROKERS":   "k1:9092, k2:9092,,",
	}))

	require.NoError(t, err)
	assert.Equal(t, StorageRedis, cfg.StorageBackend)
	assert.Equal(t, "redis.internal:6380", cfg.RedisAddr)
	assert.Equal(t, 24*time.Hour, cfg.CartTTLDuration())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.EventsEnabled())
}

func TestLoadFrom_CatalogURL(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"CATALOG_URL": " https://cdn.example.com/products.json "})

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/products.json", cfg.CatalogURL)
}

func TestLoad_FromProcessEnvironment(t *testing.T) {
	t.Setenv("CATALOG_FILE", "products.json")
	t.Setenv("STOREFRONT_HTTP_PORT", "9090")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "products.json", cfg.CatalogFile)
}
