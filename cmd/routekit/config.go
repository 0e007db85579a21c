package main

import (
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/routekit/core/config"
	"github.com/dmitrymomot/routekit/core/logger"
	"github.com/dmitrymomot/routekit/core/router"
	"github.com/dmitrymomot/routekit/core/server"
	"github.com/dmitrymomot/routekit/middleware"
	"github.com/dmitrymomot/routekit/pkg/ratelimiter"
)

type appConfig struct {
	Router    router.Config
	Server    server.Config
	RateLimit ratelimiter.Config
	Redis     ratelimiter.RedisConfig
	BasicAuth middleware.BasicAuthConfig

	UseRedis bool   `env:"RATELIMIT_USE_REDIS" envDefault:"false"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"false"`
}

func loadConfig() (appConfig, error) {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg appConfig) (*slog.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := []logger.Option{logger.WithLevel(level), logger.WithAttrs(logger.Component("routekit"))}
	if cfg.LogJSON {
		opts = append(opts, logger.WithJSON())
	}
	return logger.New(opts...), nil
}
