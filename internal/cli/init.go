// Package cli provides the startup steps shared by cmd/resultsdash and
// cmd/results-report.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"resultsdash/internal/backend"
	"resultsdash/internal/config"
	"resultsdash/internal/core"
	"resultsdash/internal/descriptions"
	applog "resultsdash/internal/log"
	"resultsdash/internal/services"
)

// SetupLogger builds the application logger at level and installs it as
// the slog default. An unknown level falls back to info.
func SetupLogger(level string) *applog.Logger {
	return SetupLoggerTo(level, os.Stdout)
}

// SetupLoggerTo is SetupLogger writing to w.
func SetupLoggerTo(level string, w io.Writer) *applog.Logger {
	lvl, err := applog.ParseLevel(level)
	logger := applog.New(applog.Config{Level: lvl, Component: applog.ComponentApp, Output: w})
	applog.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, using info", "level", level)
	}
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// OpenSource creates the results reader selected by cfg.
func OpenSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger).CreateBackend(ctx, bcfg)
}

// LoadDashboard opens the configured source, loads the dataset once and
// builds the dashboard service. Load failures do not return an error here:
// the service is returned in its unavailable state and the failure is
// reported by Ready. Only configuration problems with the description
// file are returned.
func LoadDashboard(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*services.DashboardService, error) {
	lookup, err := descriptions.Load(cfg.DescriptionsFile)
	if err != nil {
		return nil, err
	}

	ds, loadErr := loadDataset(ctx, cfg, logger)
	if loadErr != nil {
		logger.ErrorContext(ctx, "Failed to load results dataset",
			applog.FieldSource, cfg.ResultsSource,
			applog.FieldError, loadErr)
	}

	return services.NewDashboardService(ds, loadErr, lookup, services.DashboardConfig{
		Policy:    core.SelectionPolicy{DefaultProjects: cfg.DefaultProjects},
		TopRows:   cfg.TopRows,
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Logger:    logger,
	}), nil
}

func loadDataset(ctx context.Context, cfg *config.Config, logger *applog.Logger) (core.Dataset, error) {
	src, err := OpenSource(ctx, cfg, logger.Logger)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("open %s source: %w", cfg.ResultsSource, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warn("Failed to close results source", applog.FieldError, err)
		}
	}()
	return services.LoadDataset(ctx, src.Reader)
}
