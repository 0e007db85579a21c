package middleware

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/routekit/core/pipeline"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// TracerName is the instrumentation scope of spans started by Tracing.
const TracerName = "github.com/dmitrymomot/routekit/middleware"

// TracingConfig configures the tracing middleware.
type TracingConfig struct {
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
	// Propagator defaults to the global text map propagator.
	Propagator propagation.TextMapPropagator
	Skip       Skipper
}

// Tracing starts a server span per request with the global provider.
func Tracing() pipeline.NewMiddleware {
	return TracingWithConfig(TracingConfig{})
}

// TracingWithConfig continues the trace found in the request headers and
// passes a request carrying the span context down the chain. The span is
// named "METHOD /route/:pattern" and marked as error for 5xx results.
func TracingWithConfig(cfg TracingConfig) pipeline.NewMiddleware {
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	if cfg.Propagator == nil {
		cfg.Propagator = otel.GetTextMapPropagator()
	}
	tracer := cfg.TracerProvider.Tracer(TracerName)

	return pipeline.MiddlewareFunc(func(s *state.State, r *http.Request, next pipeline.Next) (*response.Response, error) {
		if cfg.Skip.skip(s, r) {
			return next(s, r)
		}

		route := routeLabel(s)
		ctx := cfg.Propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, fmt.Sprintf("%s %s", r.Method, route),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("url.path", r.URL.Path),
			),
		)
		defer span.End()

		if id := state.RequestIDFrom(s); id != "" {
			span.SetAttributes(attribute.String("request.id", id))
		}

		resp, err := next(s, r.WithContext(ctx))

		status := dispatchStatus(resp, err)
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if err != nil {
			span.RecordError(err)
		}
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		return resp, err
	})
}
