package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/northwind/storefront/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting storefront",
		"dev", cfg.IsDev,
		"storage", cfg.Storage.Backend,
		"catalog", cfg.Catalog.BaseURL,
	)

	kv, closeKV, err := bootstrap.NewKeyValueStore(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeKV(); cerr != nil {
			logger.ErrorContext(ctx, "close storage failed", "error", cerr)
		}
	}()

	catalog, err := bootstrap.NewCatalogClient(&cfg)
	if err != nil {
		return err
	}

	return bootstrap.RunHTTPServer(ctx, &bootstrap.HTTPServerConfig{
		Config:  &cfg,
		KV:      kv,
		Catalog: catalog,
		Logger:  logger,
	})
}
