package router

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/text/unicode/norm"

	"github.com/dmitrymomot/routekit/core/extractor"
	"github.com/dmitrymomot/routekit/core/logger"
	"github.com/dmitrymomot/routekit/core/pipeline"
)

// Build creates a Router. routes is called once with the root builder;
// the pipeline chain applies to every route unless a scope replaces it.
// All registration errors are collected and returned joined, in which case
// no router is produced.
//
//	r, err := router.Build(pipeline.NewChain(web), set, func(b *router.Builder) {
//		b.Get("/").To(index)
//		b.Get("/hello/:name").WithPathExtractor(extractor.Path[helloPath]()).To(hello)
//		b.Scope("/api", func(b *router.Builder) {
//			b.Post("/submit").To(submit)
//		})
//	})
func Build(chain pipeline.Chain, set *pipeline.Set, routes func(b *Builder), opts ...Option) (*Router, error) {
	o := options{
		errorHandler:    defaultErrorHandler,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
		requestIDHeader: "X-Request-ID",
	}
	for _, opt := range opts {
		opt(&o)
	}

	if set == nil {
		return nil, ErrNilPipelineSet
	}
	if _, err := set.Resolve(chain); err != nil {
		return nil, err
	}

	tree := NewTreeBuilder()
	ctx := &buildContext{
		set:       set,
		finalizer: NewFinalizerBuilder(),
		logger:    o.logger.With(logger.Component("router")),
		normalize: o.normalizeUnicode,
	}

	if routes != nil {
		routes(&Builder{
			ctx:    ctx,
			node:   tree.Root(),
			prefix: "/",
			chain:  pipeline.NewChain(chain...),
		})
	}

	if err := errors.Join(ctx.errs...); err != nil {
		return nil, err
	}

	return &Router{
		tree:             tree.Finalize(),
		finalizer:        ctx.finalizer.Finalize(),
		errorHandler:     o.errorHandler,
		logger:           o.logger,
		normalizeUnicode: o.normalizeUnicode,
		requestIDHeader:  o.requestIDHeader,
	}, nil
}

// MustBuild is like Build but panics on error.
func MustBuild(chain pipeline.Chain, set *pipeline.Set, routes func(b *Builder), opts ...Option) *Router {
	r, err := Build(chain, set, routes, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// buildContext is shared by every builder of one Build call.
type buildContext struct {
	set       *pipeline.Set
	finalizer *FinalizerBuilder
	logger    *slog.Logger
	normalize bool
	errs      []error
}

func (c *buildContext) fail(err error) {
	c.errs = append(c.errs, err)
}

// Builder registers routes relative to a tree node. Scopes get their own
// Builder pointing at a deeper node or carrying a different chain.
type Builder struct {
	ctx    *buildContext
	node   *NodeBuilder
	prefix string
	chain  pipeline.Chain
}

// Get routes GET and HEAD requests for path.
func (b *Builder) Get(path string) RouteBuilder {
	return b.Request([]string{http.MethodGet, http.MethodHead}, path)
}

// Head routes HEAD requests for path.
func (b *Builder) Head(path string) RouteBuilder {
	return b.Request([]string{http.MethodHead}, path)
}

// Post routes POST requests for path.
func (b *Builder) Post(path string) RouteBuilder {
	return b.Request([]string{http.MethodPost}, path)
}

// Put routes PUT requests for path.
func (b *Builder) Put(path string) RouteBuilder {
	return b.Request([]string{http.MethodPut}, path)
}

// Patch routes PATCH requests for path.
func (b *Builder) Patch(path string) RouteBuilder {
	return b.Request([]string{http.MethodPatch}, path)
}

// Delete routes DELETE requests for path.
func (b *Builder) Delete(path string) RouteBuilder {
	return b.Request([]string{http.MethodDelete}, path)
}

// Options routes OPTIONS requests for path.
func (b *Builder) Options(path string) RouteBuilder {
	return b.Request([]string{http.MethodOptions}, path)
}

// Request routes requests with any of methods for path. An empty method
// list fails the build with ErrNoMethods.
func (b *Builder) Request(methods []string, path string) RouteBuilder {
	node, pattern, err := b.descend(path)
	return newRouteBuilder(b, node, pattern, methods, err)
}

// Scope registers the routes added by fn under prefix.
func (b *Builder) Scope(prefix string, fn func(b *Builder)) {
	node, pattern, err := b.descend(prefix)
	if err != nil {
		b.ctx.fail(err)
		return
	}
	fn(&Builder{ctx: b.ctx, node: node, prefix: pattern, chain: b.chain})
}

// WithPipelineChain registers the routes added by fn with chain instead of
// the inherited one.
func (b *Builder) WithPipelineChain(chain pipeline.Chain, fn func(b *Builder)) {
	if _, err := b.ctx.set.Resolve(chain); err != nil {
		b.ctx.fail(fmt.Errorf("scope %s: %w", b.prefix, err))
		return
	}
	fn(&Builder{ctx: b.ctx, node: b.node, prefix: b.prefix, chain: pipeline.NewChain(chain...)})
}

// Associate registers several routes on the same path.
//
//	b.Associate("/items/:id", func(a *router.AssociatedBuilder) {
//		a.Get().To(showItem)
//		a.Delete().To(deleteItem)
//	})
func (b *Builder) Associate(path string, fn func(a *AssociatedBuilder)) {
	node, pattern, err := b.descend(path)
	if err != nil {
		b.ctx.fail(err)
		return
	}
	fn(&AssociatedBuilder{builder: b, node: node, pattern: pattern})
}

// Delegate hands every request under prefix to another router, running the
// current pipeline chain first.
func (b *Builder) Delegate(prefix string) DelegateBuilder {
	node, pattern, err := b.descend(prefix)
	return DelegateBuilder{builder: b, node: node, pattern: pattern, chain: b.chain, err: err}
}

// DelegateWithoutPipelines is like Delegate but runs no pipelines.
func (b *Builder) DelegateWithoutPipelines(prefix string) DelegateBuilder {
	d := b.Delegate(prefix)
	d.chain = nil
	return d
}

// AddStatusExtender registers ext for every response with status.
func (b *Builder) AddStatusExtender(status int, ext extractor.ResponseExtender) {
	b.ctx.finalizer.AddStatus(status, ext)
}

// descend walks from the builder node along path, creating missing nodes.
func (b *Builder) descend(path string) (*NodeBuilder, string, error) {
	segments, err := parsePattern(path)
	if err != nil {
		return nil, "", err
	}

	node := b.node
	for _, seg := range segments {
		value := seg.value
		if seg.segmentType == Static && b.ctx.normalize {
			value = norm.NFC.String(value)
		}

		child := node.BorrowChild(value, seg.segmentType)
		if child == nil {
			b.ctx.logger.Debug("descending into new segment",
				slog.String("segment", value),
				slog.String("type", seg.segmentType.String()),
			)
			child = NewNodeBuilder(value, seg.segmentType)
			if err := node.AddChild(child); err != nil {
				return nil, "", fmt.Errorf("%s: %w", joinPattern(b.prefix, path), err)
			}
		}
		node = child
	}

	return node, joinPattern(b.prefix, path), nil
}

func (b *Builder) addRoute(node *NodeBuilder, rt *Route) {
	if err := node.AddRoute(rt); err != nil {
		b.ctx.fail(err)
		return
	}

	for _, ex := range []any{rt.pathExtractor, rt.queryExtractor} {
		if ext, ok := ex.(extractor.ResponseExtender); ok {
			b.ctx.finalizer.AddExtractor(ex, ext)
		}
	}

	b.ctx.logger.Debug("route added",
		logger.Route(rt.pattern),
		slog.Any("methods", rt.Methods()),
		slog.String("delegation", rt.delegation.String()),
		logger.Pipelines(rt.dispatcher.Pipelines()),
	)
}

// AssociatedBuilder registers routes sharing one path.
type AssociatedBuilder struct {
	builder *Builder
	node    *NodeBuilder
	pattern string
}

// Get routes GET and HEAD requests.
func (a *AssociatedBuilder) Get() RouteBuilder {
	return a.Request(http.MethodGet, http.MethodHead)
}

// Head routes HEAD requests.
func (a *AssociatedBuilder) Head() RouteBuilder { return a.Request(http.MethodHead) }

// Post routes POST requests.
func (a *AssociatedBuilder) Post() RouteBuilder { return a.Request(http.MethodPost) }

// Put routes PUT requests.
func (a *AssociatedBuilder) Put() RouteBuilder { return a.Request(http.MethodPut) }

// Patch routes PATCH requests.
func (a *AssociatedBuilder) Patch() RouteBuilder { return a.Request(http.MethodPatch) }

// Delete routes DELETE requests.
func (a *AssociatedBuilder) Delete() RouteBuilder { return a.Request(http.MethodDelete) }

// Options routes OPTIONS requests.
func (a *AssociatedBuilder) Options() RouteBuilder { return a.Request(http.MethodOptions) }

// Request routes requests with any of methods.
func (a *AssociatedBuilder) Request(methods ...string) RouteBuilder {
	return newRouteBuilder(a.builder, a.node, a.pattern, methods, nil)
}
