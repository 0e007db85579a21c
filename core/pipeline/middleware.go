package pipeline

import (
	"net/http"

	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// Next continues the chain: the next middleware, the next pipeline or,
// at the end, the route handler.
type Next func(s *state.State, r *http.Request) (*response.Response, error)

// Middleware processes a request as one step of a pipeline.
// Calling next continues the chain; returning without calling next
// short-circuits it, so later middleware, later pipelines and the handler
// never run.
type Middleware interface {
	Call(s *state.State, r *http.Request, next Next) (*response.Response, error)
}

// NewMiddleware creates the Middleware instance used for one request.
type NewMiddleware interface {
	NewMiddleware() (Middleware, error)
}

// MiddlewareFunc adapts an ordinary function to Middleware and
// NewMiddleware. It is stateless and returns itself from NewMiddleware.
type MiddlewareFunc func(s *state.State, r *http.Request, next Next) (*response.Response, error)

// Call calls f(s, r, next).
func (f MiddlewareFunc) Call(s *state.State, r *http.Request, next Next) (*response.Response, error) {
	return f(s, r, next)
}

// NewMiddleware returns f.
func (f MiddlewareFunc) NewMiddleware() (Middleware, error) {
	return f, nil
}

// NewMiddlewareFunc adapts a factory function to NewMiddleware.
type NewMiddlewareFunc func() (Middleware, error)

// NewMiddleware calls f().
func (f NewMiddlewareFunc) NewMiddleware() (Middleware, error) {
	return f()
}
