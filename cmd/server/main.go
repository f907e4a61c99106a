package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/appshelf/appshelf/config"
	"github.com/appshelf/appshelf/internal/api"
	"github.com/appshelf/appshelf/internal/app"
	"github.com/appshelf/appshelf/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(config.LogConfig{}, os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.New(cfg.Log, os.Stdout)

	// Validate critical configuration
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET environment variable is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to open storage")
	}
	defer a.Close()
	log.Info().Str("driver", cfg.Storage.Driver).Strs("collections", a.Registry.Names()).Msg("collections loaded")

	// Simulated latency can be tuned in the config file without a restart.
	var latency atomic.Int64
	latency.Store(int64(cfg.Server.Latency))
	watching, err := config.Watch(func(next *config.Config, err error) {
		if err != nil {
			log.Warn().Err(err).Msg("ignoring invalid config change")
			return
		}
		latency.Store(int64(next.Server.Latency))
		log.Info().Dur("latency", next.Server.Latency).Msg("config reloaded")
	})
	if err != nil {
		log.Warn().Err(err).Msg("config watch disabled")
	}
	log.Debug().Bool("watching", watching).Msg("config watch")

	router := api.NewRouter(a, log, func() time.Duration { return time.Duration(latency.Load()) })
	server := newServer(cfg.Server, router.Setup(cfg.Server.Mode))

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server is listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("could not listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("server is shutting down")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func newServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
}
