package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"resultsdash/internal/cli"
	apphttp "resultsdash/internal/http"
	applog "resultsdash/internal/log"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		logger := cli.SetupLogger("info")
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg.LogLevel)

	ctx, stop := cli.SignalContext()
	defer stop()

	svc, err := cli.LoadDashboard(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize dashboard", applog.FieldError, err)
		os.Exit(1)
	}
	defer svc.Close()

	if err := svc.Ready(); err == nil {
		logger.Info("Results dataset loaded",
			applog.FieldSource, cfg.ResultsSource,
			applog.FieldRows, svc.Dataset().Len())
	}

	srv, err := apphttp.NewServer(":"+cfg.Port, svc, logger, apphttp.WithRateLimit(cfg.RateLimitPerMinute))
	if err != nil {
		logger.Error("Failed to create server", applog.FieldError, err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting results dashboard",
			"port", cfg.Port,
			applog.FieldSource, cfg.ResultsSource,
			applog.FieldOperation, applog.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
