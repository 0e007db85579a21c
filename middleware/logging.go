package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/routekit/core/logger"
	"github.com/dmitrymomot/routekit/core/pipeline"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	Skip Skipper
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// LogLevel is used for successful requests (default: info).
	LogLevel slog.Level
	// LogHeaders adds request headers, with SensitiveHeaders redacted.
	LogHeaders       bool
	SensitiveHeaders []string
	// SlowRequestThreshold raises fast-path logs to warn (default: 5s).
	SlowRequestThreshold time.Duration
	Component            string
}

// Logging logs one line per dispatched request.
func Logging() pipeline.NewMiddleware {
	return LoggingWithConfig(LoggingConfig{})
}

// LoggingWithLogger logs through log.
func LoggingWithLogger(log *slog.Logger) pipeline.NewMiddleware {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

// LoggingWithConfig logs the request after the rest of the chain ran.
// Level is error for 5xx, warn for 4xx and slow requests, LogLevel otherwise.
func LoggingWithConfig(cfg LoggingConfig) pipeline.NewMiddleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SensitiveHeaders == nil {
		cfg.SensitiveHeaders = []string{"Authorization", "Cookie", "X-Api-Key", "X-Auth-Token", "X-Csrf-Token"}
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return pipeline.MiddlewareFunc(func(s *state.State, r *http.Request, next pipeline.Next) (*response.Response, error) {
		if cfg.Skip.skip(s, r) {
			return next(s, r)
		}

		start := time.Now()
		resp, err := next(s, r)
		elapsed := time.Since(start)

		status := dispatchStatus(resp, err)
		var size int
		if resp != nil {
			size = len(resp.Body)
		}

		attrs := []slog.Attr{
			logger.Component(cfg.Component),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.Route(state.RoutePatternFrom(s)),
			logger.StatusCode(status),
			logger.BytesOut(int64(size)),
			logger.Duration(elapsed),
		}
		if id := state.RequestIDFrom(s); id != "" {
			attrs = append(attrs, logger.RequestID(id))
		}
		if ip, ok := GetClientIP(s); ok {
			attrs = append(attrs, logger.ClientIP(ip))
		}
		if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
			attrs = append(attrs, logger.TraceID(sc.TraceID().String()))
		}
		if cfg.LogHeaders {
			attrs = append(attrs, headerAttr(r.Header, cfg.SensitiveHeaders))
		}

		level := cfg.LogLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
			if err != nil {
				attrs = append(attrs, logger.Error(err))
			}
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		case elapsed > cfg.SlowRequestThreshold:
			level = slog.LevelWarn
			attrs = append(attrs, slog.Bool("slow_request", true))
		}

		cfg.Logger.LogAttrs(r.Context(), level, "request completed", attrs...)
		return resp, err
	})
}

func headerAttr(h http.Header, sensitive []string) slog.Attr {
	attrs := make([]any, 0, len(h))
	for name, values := range h {
		if slices.ContainsFunc(sensitive, func(s string) bool { return http.CanonicalHeaderKey(s) == name }) {
			attrs = append(attrs, slog.String(name, "[REDACTED]"))
			continue
		}
		attrs = append(attrs, slog.Any(name, values))
	}
	return slog.Group("request_headers", attrs...)
}
