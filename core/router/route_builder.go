package router

import (
	"fmt"
	"slices"

	"github.com/dmitrymomot/routekit/core/extractor"
	"github.com/dmitrymomot/routekit/core/handler"
	"github.com/dmitrymomot/routekit/core/pipeline"
)

// RouteBuilder configures one route. Every With method returns a new
// value, so a partially configured builder can be reused.
type RouteBuilder struct {
	builder        *Builder
	node           *NodeBuilder
	pattern        string
	methods        *MethodMatcher
	extra          []RouteMatcher
	pathExtractor  extractor.PathExtractor
	queryExtractor extractor.QueryStringExtractor
	err            error
}

func newRouteBuilder(b *Builder, node *NodeBuilder, pattern string, methods []string, err error) RouteBuilder {
	if err == nil && (len(methods) == 0 || slices.Contains(methods, "")) {
		err = fmt.Errorf("%w: %q %s", ErrNoMethods, methods, pattern)
	}
	return RouteBuilder{
		builder:        b,
		node:           node,
		pattern:        pattern,
		methods:        Methods(methods...),
		pathExtractor:  extractor.NoopPath{},
		queryExtractor: extractor.NoopQuery{},
		err:            err,
	}
}

// WithMatcher adds a matcher that must accept the request in addition to
// the method matcher.
func (rb RouteBuilder) WithMatcher(m RouteMatcher) RouteBuilder {
	rb.extra = append(slices.Clone(rb.extra), m)
	return rb
}

// WithPathExtractor sets the extractor for dynamic path segments.
func (rb RouteBuilder) WithPathExtractor(pe extractor.PathExtractor) RouteBuilder {
	rb.pathExtractor = pe
	return rb
}

// WithQueryStringExtractor sets the extractor for the query string.
func (rb RouteBuilder) WithQueryStringExtractor(qe extractor.QueryStringExtractor) RouteBuilder {
	rb.queryExtractor = qe
	return rb
}

// To terminates the route with a handler function.
func (rb RouteBuilder) To(h handler.HandlerFunc) {
	if h == nil {
		rb.ToNewHandler(nil)
		return
	}
	rb.ToNewHandler(h)
}

// ToNewHandler terminates the route with a handler factory. A new handler
// is created for every dispatched request.
func (rb RouteBuilder) ToNewHandler(h handler.NewHandler) {
	ctx := rb.builder.ctx
	if rb.err != nil {
		ctx.fail(rb.err)
		return
	}
	if h == nil {
		ctx.fail(fmt.Errorf("%w: %v %s", ErrNilHandler, rb.methods.AllowedMethods(), rb.pattern))
		return
	}
	if rb.pathExtractor == nil || rb.queryExtractor == nil {
		ctx.fail(fmt.Errorf("%w: %s", ErrNilExtractor, rb.pattern))
		return
	}

	d, err := NewDispatcher(h, ctx.set, rb.builder.chain)
	if err != nil {
		ctx.fail(fmt.Errorf("%s: %w", rb.pattern, err))
		return
	}

	var matcher RouteMatcher = rb.methods
	if len(rb.extra) > 0 {
		matcher = AllOf(append([]RouteMatcher{rb.methods}, rb.extra...)...)
	}

	rb.builder.addRoute(rb.node, NewRoute(matcher, d, rb.pathExtractor, rb.queryExtractor, Internal, rb.pattern))
}

// DelegateBuilder configures a delegating route.
type DelegateBuilder struct {
	builder *Builder
	node    *NodeBuilder
	pattern string
	chain   pipeline.Chain
	err     error
}

// ToRouter terminates the delegation. Requests under the prefix reach r
// with the prefix removed from their path.
func (d DelegateBuilder) ToRouter(r *Router) {
	ctx := d.builder.ctx
	if d.err != nil {
		ctx.fail(d.err)
		return
	}
	if r == nil {
		ctx.fail(fmt.Errorf("%w: delegation %s", ErrNilRouter, d.pattern))
		return
	}

	disp, err := NewDispatcher(r, ctx.set, d.chain)
	if err != nil {
		ctx.fail(fmt.Errorf("%s: %w", d.pattern, err))
		return
	}

	d.builder.addRoute(d.node, NewRoute(AnyMatcher{}, disp, nil, nil, External, d.pattern))
}
