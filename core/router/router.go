package router

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/routekit/core/handler"
	"github.com/dmitrymomot/routekit/core/logger"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// Router dispatches requests to the routes of a frozen segment tree.
// It is immutable and safe for concurrent use.
type Router struct {
	tree             *Tree
	finalizer        *ResponseFinalizer
	errorHandler     handler.ErrorHandler
	logger           *slog.Logger
	normalizeUnicode bool
	requestIDHeader  string
}

// RouteInfo describes a registered route.
type RouteInfo struct {
	Methods   []string
	Pattern   string
	Pipelines []string
	Delegated bool
}

// ServeHTTP implements http.Handler. It creates the request State, routes
// the request and writes the finalized response.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := state.New()

	var id string
	if rt.requestIDHeader != "" {
		id = r.Header.Get(rt.requestIDHeader)
	}
	if id == "" {
		id = uuid.NewString()
	}
	state.Put(s, state.RequestID(id))

	resp := rt.handle(s, r)
	if rt.requestIDHeader != "" && resp.Header.Get(rt.requestIDHeader) == "" {
		resp.Header.Set(rt.requestIDHeader, id)
	}

	if err := resp.Write(w, r); err != nil {
		rt.logger.Debug("failed to write response",
			logger.Error(err),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.RequestID(id),
		)
	}
}

// Handle implements handler.Handler. A delegating route calls it with the
// State of the outer router and a request whose path was stripped of the
// delegation prefix.
func (rt *Router) Handle(s *state.State, r *http.Request) (*response.Response, error) {
	return rt.handle(s, r), nil
}

// NewHandler implements handler.NewHandler. The router is stateless, so it
// returns itself.
func (rt *Router) NewHandler() (handler.Handler, error) {
	return rt, nil
}

// Routes lists the registered routes, including those of delegated routers
// under their prefix.
func (rt *Router) Routes() []RouteInfo {
	var infos []RouteInfo
	for _, route := range rt.tree.Routes() {
		info := RouteInfo{
			Methods:   route.Methods(),
			Pattern:   route.Pattern(),
			Pipelines: route.dispatcher.Pipelines(),
			Delegated: route.Delegation() == External,
		}
		infos = append(infos, info)

		nested, ok := route.dispatcher.newHandler.(*Router)
		if !ok || !info.Delegated {
			continue
		}
		for _, sub := range nested.Routes() {
			sub.Pattern = joinPattern(info.Pattern, sub.Pattern)
			sub.Pipelines = append(append([]string(nil), info.Pipelines...), sub.Pipelines...)
			sub.Delegated = true
			infos = append(infos, sub)
		}
	}
	return infos
}

func (rt *Router) handle(s *state.State, r *http.Request) *response.Response {
	resp, err := rt.route(s, r)
	if err != nil {
		resp = rt.errorResponse(s, r, err)
	}
	if resp == nil {
		resp = rt.errorResponse(s, r, ErrNilResponse)
	}
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}

	rt.finalizer.Finalize(s, resp)
	return resp
}

// route resolves and runs the request. Panics raised while extracting,
// dispatching or delegating become a *panicError.
func (rt *Router) route(s *state.State, r *http.Request) (resp *response.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			perr := &panicError{value: p, stack: debug.Stack()}
			rt.logger.Error("panic recovered",
				logger.Error(perr),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.Route(state.RoutePatternFrom(s)),
				logger.RequestID(state.RequestIDFrom(s)),
				slog.String("stack", string(perr.stack)),
			)
			resp, err = nil, perr
		}
	}()

	path, err := splitPath(r.URL.EscapedPath(), rt.normalizeUnicode)
	if err != nil {
		return nil, withStatus(http.StatusBadRequest, err)
	}

	res := rt.tree.Match(r, path.segments)
	switch res.Status {
	case NotMatch:
		return nil, withStatus(http.StatusNotFound, ErrNotFound)
	case MethodNotAllowed:
		resp := rt.errorResponse(s, r, withStatus(http.StatusMethodNotAllowed, ErrMethodNotAllowed))
		if len(res.Allowed) > 0 {
			resp.Header.Set("Allow", strings.Join(res.Allowed, ", "))
		}
		return resp, nil
	}

	route := res.Route
	if route.Delegation() == External {
		return rt.dispatch(s, delegatedRequest(r, path, res.Consumed), route)
	}

	if err := route.ExtractPath(s, res.Mapping); err != nil {
		return rt.extractionFailure(s, r, route.pathExtractor, err), nil
	}
	if err := route.ExtractQuery(s, r.URL.RawQuery); err != nil {
		return rt.extractionFailure(s, r, route.queryExtractor, err), nil
	}

	return rt.dispatch(s, r, route)
}

// dispatch puts the route pattern into s and runs the route.
func (rt *Router) dispatch(s *state.State, r *http.Request, route *Route) (*response.Response, error) {
	pattern := route.Pattern()
	if outer, ok := state.TryBorrow[state.RoutePattern](s); ok {
		pattern = joinPattern(string(outer), pattern)
	}
	state.Put(s, state.RoutePattern(pattern))

	return route.Dispatch(s, r)
}

func (rt *Router) extractionFailure(s *state.State, r *http.Request, failed any, err error) *response.Response {
	rt.logger.Debug("request extraction failed",
		logger.Error(err),
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.RequestID(state.RequestIDFrom(s)),
	)

	resp := rt.errorResponse(s, r, err)
	rt.finalizer.ExtendFailure(failed, s, resp)
	return resp
}

func (rt *Router) errorResponse(s *state.State, r *http.Request, err error) *response.Response {
	resp := rt.errorHandler(s, r, err)
	if resp == nil {
		resp = defaultErrorHandler(s, r, err)
	}
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	return resp
}

// defaultErrorHandler renders errors as plain text. Statuses come from a
// StatusCode() int method, panics always produce 500.
func defaultErrorHandler(_ *state.State, _ *http.Request, err error) *response.Response {
	var perr PanicError
	if errors.As(err, &perr) {
		return response.StringWithStatus(http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
	return response.Error(err)
}

// delegatedRequest clones r with the path that remains after the first
// consumed segments.
func delegatedRequest(r *http.Request, path requestPath, consumed int) *http.Request {
	r2 := r.Clone(r.Context())
	r2.URL.Path, r2.URL.RawPath = path.remainder(consumed)
	if r2.URL.RawPath == r2.URL.Path {
		r2.URL.RawPath = ""
	}
	return r2
}
