package router

import (
	"net/http"

	"github.com/dmitrymomot/routekit/core/extractor"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// Delegation tells whether a route handles the request itself or passes
// the rest of the path to another router.
type Delegation int

const (
	// Internal routes are dispatched to their own handler.
	Internal Delegation = iota
	// External routes match a path prefix and hand the remainder to a
	// nested router.
	External
)

// String implements fmt.Stringer.
func (d Delegation) String() string {
	if d == External {
		return "external"
	}
	return "internal"
}

// Route is a single routing target attached to a tree node.
type Route struct {
	matcher        RouteMatcher
	dispatcher     *Dispatcher
	pathExtractor  extractor.PathExtractor
	queryExtractor extractor.QueryStringExtractor
	delegation     Delegation
	pattern        string
}

// NewRoute creates a route. Nil extractors fall back to the noop ones and a
// nil matcher accepts every request.
func NewRoute(
	matcher RouteMatcher,
	dispatcher *Dispatcher,
	pathExtractor extractor.PathExtractor,
	queryExtractor extractor.QueryStringExtractor,
	delegation Delegation,
	pattern string,
) *Route {
	if matcher == nil {
		matcher = AnyMatcher{}
	}
	if pathExtractor == nil {
		pathExtractor = extractor.NoopPath{}
	}
	if queryExtractor == nil {
		queryExtractor = extractor.NoopQuery{}
	}
	return &Route{
		matcher:        matcher,
		dispatcher:     dispatcher,
		pathExtractor:  pathExtractor,
		queryExtractor: queryExtractor,
		delegation:     delegation,
		pattern:        pattern,
	}
}

// IsMatch reports whether the route accepts r.
func (rt *Route) IsMatch(r *http.Request) MatchStatus {
	return rt.matcher.IsMatch(r)
}

// Delegation returns the delegation mode of the route.
func (rt *Route) Delegation() Delegation {
	return rt.delegation
}

// Pattern returns the path pattern the route was registered with.
func (rt *Route) Pattern() string {
	return rt.pattern
}

// Methods returns the methods the route accepts, or nil when its matcher
// does not restrict methods.
func (rt *Route) Methods() []string {
	return allowedMethods(rt.matcher)
}

// Dispatch runs the route's pipelines and handler.
func (rt *Route) Dispatch(s *state.State, r *http.Request) (*response.Response, error) {
	return rt.dispatcher.Dispatch(s, r)
}

// ExtractPath runs the path extractor over the bound segments.
func (rt *Route) ExtractPath(s *state.State, segments extractor.SegmentMapping) error {
	return rt.pathExtractor.ExtractPath(s, segments)
}

// ExtractQuery runs the query-string extractor over the raw query.
func (rt *Route) ExtractQuery(s *state.State, rawQuery string) error {
	return rt.queryExtractor.ExtractQuery(s, rawQuery)
}

// methodOnly returns the matcher as *MethodMatcher when it restricts
// nothing but the method.
func (rt *Route) methodOnly() (*MethodMatcher, bool) {
	m, ok := rt.matcher.(*MethodMatcher)
	return m, ok
}
