package router

import (
	"log/slog"

	"github.com/dmitrymomot/routekit/core/handler"
)

// Option configures a Router during Build.
type Option func(*options)

type options struct {
	errorHandler     handler.ErrorHandler
	logger           *slog.Logger
	normalizeUnicode bool
	requestIDHeader  string
}

// WithErrorHandler sets the handler that turns errors into responses.
func WithErrorHandler(h handler.ErrorHandler) Option {
	return func(o *options) {
		if h != nil {
			o.errorHandler = h
		}
	}
}

// WithLogger sets the logger used for build decisions and recovered panics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithUnicodeNormalization enables NFC normalization of path segments and
// static pattern segments.
func WithUnicodeNormalization(enabled bool) Option {
	return func(o *options) {
		o.normalizeUnicode = enabled
	}
}

// WithRequestIDHeader sets the header the request id is read from and
// echoed in. An empty name disables the echo.
func WithRequestIDHeader(name string) Option {
	return func(o *options) {
		o.requestIDHeader = name
	}
}

// WithConfig applies values loaded from the environment.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.normalizeUnicode = cfg.NormalizeUnicode
		if cfg.RequestIDHeader != "" {
			o.requestIDHeader = cfg.RequestIDHeader
		}
	}
}
