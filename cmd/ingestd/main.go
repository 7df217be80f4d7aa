// Command ingestd runs the ingestion service: an HTTP surface over
// the classify/clean/route pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"crystalball/internal/classifier"
	"crystalball/internal/config"
	"crystalball/internal/feedback"
	"crystalball/internal/infrastructure"
	"crystalball/internal/pipeline"
	"crystalball/internal/quality"
	"crystalball/internal/routing"
	transport "crystalball/internal/transport/http"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ingestd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to prepare directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		if err := infrastructure.CloseLogFile(); err != nil {
			fmt.Fprintf(os.Stderr, "ingestd: failed to close log file: %v\n", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := infrastructure.NewMetrics(registry)

	p := pipeline.New(pipeline.Deps{
		Classifier: classifier.New(cfg.Project.ID, logger),
		Validator:  quality.New(logger),
		Router: routing.New(
			routing.NewLocalObjectStore(cfg.Storage.ObjectDir),
			routing.NewLocalWarehouse(cfg.Storage.WarehouseDir),
			logger),
		Metrics:    metrics,
		ReportsDir: cfg.Storage.ReportsDir,
		Logger:     logger,
	})
	pipeline.RegisterFileSources(p)

	router := transport.NewRouter(transport.RouterDeps{
		Pipeline: p,
		Feedback: feedback.NewFileSink(cfg.Feedback.Dir, logger),
		Registry: registry,
		Config:   cfg,
		Logger:   logger,
		Version:  version,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting ingestion service",
			slog.Int("port", cfg.Server.Port),
			slog.String("version", version),
			slog.String("project", cfg.Project.ID))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
