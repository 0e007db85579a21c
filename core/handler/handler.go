package handler

import (
	"net/http"

	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// Handler produces the response for a matched route.
// It receives the request State populated by extractors and pipelines.
type Handler interface {
	Handle(s *state.State, r *http.Request) (*response.Response, error)
}

// NewHandler creates a Handler for a single request.
// Routes store a NewHandler so that stateful handlers get a fresh instance
// per request.
type NewHandler interface {
	NewHandler() (Handler, error)
}

// HandlerFunc adapts an ordinary function to Handler and NewHandler.
// A HandlerFunc is stateless, so NewHandler returns the function itself.
type HandlerFunc func(s *state.State, r *http.Request) (*response.Response, error)

// Handle calls f(s, r).
func (f HandlerFunc) Handle(s *state.State, r *http.Request) (*response.Response, error) {
	return f(s, r)
}

// NewHandler returns f.
func (f HandlerFunc) NewHandler() (Handler, error) {
	return f, nil
}

// NewHandlerFunc adapts a factory function to NewHandler.
type NewHandlerFunc func() (Handler, error)

// NewHandler calls f().
func (f NewHandlerFunc) NewHandler() (Handler, error) {
	return f()
}

// ErrorHandler turns an error returned from a handler or middleware into
// a response.
type ErrorHandler func(s *state.State, r *http.Request, err error) *response.Response
