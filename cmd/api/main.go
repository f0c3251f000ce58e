package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	"atena/internal/shared/config"
	"atena/internal/shared/logger"
	"atena/internal/shared/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.NewWithOptions(os.Stdout, logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	// Amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  cfg.Telemetry.Environment,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		}, log)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTelemetry(ctx); err != nil {
				log.Error().Err(err).Msg("telemetry shutdown failed")
			}
		}()
	}

	deps, err := NewDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	if cfg.Scheduler.Enabled {
		deps.Scheduler.Start()
		log.Info().
			Dur("interval", cfg.Scheduler.Interval).
			Int("workers", cfg.Scheduler.WorkerCount).
			Str("timezone", cfg.Scheduler.Location.String()).
			Msg("scheduler started")
	} else {
		deps.Scheduler.StartWorkers()
		log.Info().Msg("scheduler loop disabled, cycles run on demand only")
	}

	handler := SetupRoutes(deps, cfg, log)
	srv, serveErr := StartServer(NewServerConfigFromConfig(handler, cfg), log)

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			GracefulShutdown(srv, deps.Scheduler, shutdownTimeout, log)
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	GracefulShutdown(srv, deps.Scheduler, shutdownTimeout, log)
	return nil
}
