package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/routekit/core/pipeline"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	Skip Skipper
	// Generator creates new request IDs (default: UUID v4).
	Generator func() string
	// HeaderName is read from the request and echoed on the response (default: "X-Request-ID").
	HeaderName string
	// UseExisting keeps an id sent by the client or already present in State.
	UseExisting bool
}

// RequestID keeps incoming request ids and generates UUIDs for the rest.
func RequestID() pipeline.NewMiddleware {
	return RequestIDWithConfig(RequestIDConfig{UseExisting: true})
}

// RequestIDWithConfig stores the request id in State as state.RequestID
// and sets it on the response header.
func RequestIDWithConfig(cfg RequestIDConfig) pipeline.NewMiddleware {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = uuid.NewString
	}

	return pipeline.MiddlewareFunc(func(s *state.State, r *http.Request, next pipeline.Next) (*response.Response, error) {
		if cfg.Skip.skip(s, r) {
			return next(s, r)
		}

		var id string
		if cfg.UseExisting {
			id = r.Header.Get(cfg.HeaderName)
			if id == "" {
				id = state.RequestIDFrom(s)
			}
		}
		if id == "" {
			id = cfg.Generator()
		}
		state.Put(s, state.RequestID(id))

		resp, err := next(s, r)
		if resp != nil {
			resp.WithHeader(cfg.HeaderName, id)
		}
		return resp, err
	})
}
