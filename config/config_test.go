package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseWith(t *testing.T, environ map[string]string) AppConfig {
	t.Helper()

	var cfg AppConfig
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: environ}))
	cfg.Sanitize()
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := parseWith(t, map[string]string{})

	assert.False(t, cfg.IsDev)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "sf_session", cfg.HTTP.CookieName)
	assert.True(t, cfg.HTTP.CookieSecure)
	assert.Equal(t, StorageBackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, "storefront:", cfg.Storage.Redis.KeyPrefix)
	assert.Equal(t, "https://fakestoreapi.com", cfg.Catalog.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 720*time.Hour, cfg.Cart.Retention)
	assert.Equal(t, 100, cfg.Cart.MaxSnapshots)
}

func TestEnvOverrides(t *testing.T) {
	cfg := parseWith(t, map[string]string{
		"DEV":                "true",
		"HTTP_ADDR":          ":9090",
		"STORAGE_BACKEND":    "memory",
		"REDIS_ADDR":         "redis.internal:6380",
		"REDIS_DB":           "3",
		"CATALOG_BASE_URL":   "http://localhost:3001",
		"CART_RETENTION":     "24h",
		"CART_MAX_SNAPSHOTS": "10",
	})

	assert.True(t, cfg.IsDev)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, StorageBackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "redis.internal:6380", cfg.Storage.Redis.Addr)
	assert.Equal(t, 3, cfg.Storage.Redis.DB)
	assert.Equal(t, "http://localhost:3001", cfg.Catalog.BaseURL)
	assert.Equal(t, 24*time.Hour, cfg.Cart.Retention)
	assert.Equal(t, 10, cfg.Cart.MaxSnapshots)
}

func TestSanitizeGuardrails(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		check   func(t *testing.T, cfg AppConfig)
	}{
		{
			name:    "unknown storage backend falls back to redis",
			environ: map[string]string{"STORAGE_BACKEND": "dynamo"},
			check: func(t *testing.T, cfg AppConfig) {
				assert.Equal(t, StorageBackendRedis, cfg.Storage.Backend)
			},
		},
		{
			name:    "backend is case and whitespace insensitive",
			environ: map[string]string{"STORAGE_BACKEND": " Memory "},
			check: func(t *testing.T, cfg AppConfig) {
				assert.Equal(t, StorageBackendMemory, cfg.Storage.Backend)
			},
		},
		{
			name:    "negative redis db clamped",
			environ: map[string]string{"REDIS_DB": "-1"},
			check: func(t *testing.T, cfg AppConfig) {
				assert.Equal(t, 0, cfg.Storage.Redis.DB)
			},
		},
		{
			name:    "non-positive retention restored",
			environ: map[string]string{"CART_RETENTION": "0"},
			check: func(t *testing.T, cfg AppConfig) {
				assert.Equal(t, 720*time.Hour, cfg.Cart.Retention)
			},
		},
		{
			name:    "zero snapshot cap restored",
			environ: map[string]string{"CART_MAX_SNAPSHOTS": "0"},
			check: func(t *testing.T, cfg AppConfig) {
				assert.Equal(t, 100, cfg.Cart.MaxSnapshots)
			},
		},
		{
			name:    "non-positive catalog timeout restored",
			environ: map[string]string{"CATALOG_TIMEOUT": "0"},
			check: func(t *testing.T, cfg AppConfig) {
				assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, parseWith(t, tt.environ))
		})
	}
}
