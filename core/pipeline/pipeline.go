package pipeline

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// Builder collects middleware in execution order.
type Builder struct {
	name        string
	middlewares []NewMiddleware
	err         error
}

// New starts a pipeline definition.
func New() *Builder {
	return &Builder{}
}

// Named sets the pipeline name used in logs and metrics.
func (b *Builder) Named(name string) *Builder {
	b.name = name
	return b
}

// Add appends middleware. They run in the order they are added.
func (b *Builder) Add(middlewares ...NewMiddleware) *Builder {
	for _, m := range middlewares {
		if m == nil {
			b.err = fmt.Errorf("%w: position %d", ErrNilMiddleware, len(b.middlewares))
			continue
		}
		b.middlewares = append(b.middlewares, m)
	}
	return b
}

// Build finalizes the pipeline. The result is immutable.
func (b *Builder) Build() (*Pipeline, error) {
	if b.err != nil {
		return nil, b.err
	}
	mws := make([]NewMiddleware, len(b.middlewares))
	copy(mws, b.middlewares)
	return &Pipeline{name: b.name, middlewares: mws}, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Pipeline {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}

// Pipeline is an ordered, immutable sequence of middleware factories.
type Pipeline struct {
	name        string
	middlewares []NewMiddleware
}

// Name returns the pipeline name, or an empty string.
func (p *Pipeline) Name() string {
	return p.name
}

// Len returns the number of middleware in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}

// Call runs the pipeline for one request and then next.
// Middleware instances are created for this request only.
func (p *Pipeline) Call(s *state.State, r *http.Request, next Next) (*response.Response, error) {
	instances := make([]Middleware, len(p.middlewares))
	for i, nm := range p.middlewares {
		m, err := nm.NewMiddleware()
		if err != nil {
			return nil, fmt.Errorf("%w: pipeline %q position %d: %w", ErrMiddlewareInit, p.name, i, err)
		}
		instances[i] = m
	}

	return chain(instances, next)(s, r)
}

// chain builds a single Next from a middleware stack and endpoint.
func chain(middlewares []Middleware, endpoint Next) Next {
	h := endpoint

	// Wrap in reverse order so the first middleware runs first
	for i := len(middlewares) - 1; i >= 0; i-- {
		m, next := middlewares[i], h
		h = func(s *state.State, r *http.Request) (*response.Response, error) {
			return m.Call(s, r, next)
		}
	}

	return h
}
