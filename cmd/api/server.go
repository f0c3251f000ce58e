package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"atena/internal/interfaces/scheduler"
	"atena/internal/shared/config"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Handler http.Handler
	Addr    string
}

// StartServer starts the HTTP server in the background. A listen failure is
// delivered on the returned channel.
func StartServer(scfg ServerConfig, log zerolog.Logger) (*http.Server, <-chan error) {
	srv := &http.Server{
		Addr:         scfg.Addr,
		Handler:      scfg.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", scfg.Addr).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return srv, errCh
}

// GracefulShutdown stops accepting requests, then drains the scheduler.
func GracefulShutdown(srv *http.Server, sched *scheduler.Scheduler, timeout time.Duration, log zerolog.Logger) {
	log.Info().Msg("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error shutting down HTTP server")
	}

	if sched != nil {
		sched.Shutdown(timeout)
	}

	log.Info().Msg("server stopped")
}

// NewServerConfigFromConfig creates ServerConfig from application config.
func NewServerConfigFromConfig(handler http.Handler, cfg *config.Config) ServerConfig {
	return ServerConfig{
		Handler: handler,
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
	}
}
