package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/northwind/storefront/config"
	"github.com/northwind/storefront/internal/adapters/fakestore"
	"github.com/northwind/storefront/internal/adapters/memory"
	"github.com/northwind/storefront/internal/adapters/redis"
	"github.com/northwind/storefront/internal/ports"
)

// NewKeyValueStore builds the durable key-value store selected by config.
// The returned closer releases the underlying connection; it is a no-op for
// the memory backend.
func NewKeyValueStore(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (ports.KeyValueStore, func() error, error) {
	if cfg.Storage.Backend == config.StorageBackendMemory {
		logger.Info("using in-memory storage; nothing persists across restarts")
		return memory.NewKVStore(), func() error { return nil }, nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Storage.Redis.Addr,
		Password: cfg.Storage.Redis.Password,
		DB:       cfg.Storage.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis at %s: %w", cfg.Storage.Redis.Addr, err)
	}

	logger.Info("connected to redis", "addr", cfg.Storage.Redis.Addr, "db", cfg.Storage.Redis.DB)
	return redis.NewKVStoreWithPrefix(client, cfg.Storage.Redis.KeyPrefix), client.Close, nil
}

// NewCatalogClient builds the remote store API client.
func NewCatalogClient(cfg *config.AppConfig) (ports.CatalogClient, error) {
	client, err := fakestore.NewClient(fakestore.Config{
		BaseURL: cfg.Catalog.BaseURL,
		Timeout: cfg.Catalog.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("build catalog client: %w", err)
	}
	return client, nil
}
