package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/target/q-inventory/config"
	"github.com/target/q-inventory/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) (err error) {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	infra, err := bootstrap.BuildInfrastructure(ctx, bootstrap.InfrastructureDeps{
		Config: &cfg,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("init infrastructure: %w", err)
	}
	defer func() {
		if cerr := infra.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close infrastructure failed", "error", cerr)
			err = errors.Join(err, cerr)
		}
	}()

	services := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: &cfg,
		Infra:  infra,
		Logger: logger,
	})

	if err = bootstrap.SeedServices(ctx, &cfg, services, logger); err != nil {
		return err
	}

	return bootstrap.RunWithSignals(&bootstrap.RunConfig{
		Config:   &cfg,
		Services: services,
		Infra:    infra,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting q-inventory",
		"addr", cfg.HTTP.Addr,
		"session_store", cfg.Auth.SessionStore,
		"seed_catalog", cfg.Inventory.SeedCatalog,
		"metrics_backend", cfg.Observability.Metrics.Backend,
		"dev", cfg.IsDev)
}
