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
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/routekit/core/health"
	"github.com/dmitrymomot/routekit/core/logger"
	"github.com/dmitrymomot/routekit/core/server"
	"github.com/dmitrymomot/routekit/middleware"
	"github.com/dmitrymomot/routekit/pkg/ratelimiter"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo application",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			log, err := newLogger(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides SERVER_ADDR)")
	return cmd
}

func serve(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	store, closeStore, err := newStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	limiter, err := ratelimiter.NewBucket(store, cfg.RateLimit)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(middleware.MetricsConfig{Registry: registry})

	var checks []health.Check
	if hc, ok := store.(interface{ Healthcheck(context.Context) error }); ok {
		checks = append(checks, hc.Healthcheck)
	}

	app, err := newApp(deps{cfg: cfg, logger: log, limiter: limiter, metrics: metrics, checks: checks})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", app)

	srv, err := server.New(cfg.Server, server.WithLogger(log))
	if err != nil {
		return err
	}
	return srv.Run(ctx, mux)
}

// newStore returns the configured rate limiter store and a release function.
func newStore(ctx context.Context, cfg appConfig, log *slog.Logger) (ratelimiter.Store, func(), error) {
	if cfg.UseRedis {
		client, err := ratelimiter.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		store := ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix(cfg.Redis.Prefix))
		return store, func() { _ = client.Close() }, nil
	}

	store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreLogger(log))
	go func() {
		if err := store.Run(ctx)(); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("rate limiter cleanup failed", logger.Error(err))
		}
	}()
	return store, func() {}, nil
}
