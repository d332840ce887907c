package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/townsquare/townsquare-api/config"
	"github.com/townsquare/townsquare-api/internal/bootstrap"
	"github.com/townsquare/townsquare-api/internal/devseed"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: &cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	if cfg.IsDev {
		if err := devseed.Seed(ctx, services.Users, logger); err != nil {
			return err
		}
	}

	return bootstrap.RunHTTPServer(ctx, &bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting townsquare service",
		"addr", cfg.HTTP.Addr,
		"dev", cfg.IsDev,
		"signup_enabled", cfg.Auth.SignupEnabled(),
		"secret_configured", cfg.Auth.SecretConfigured())
}
