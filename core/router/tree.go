package router

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dmitrymomot/routekit/core/extractor"
)

// MatchResult is the outcome of a tree lookup.
type MatchResult struct {
	// Route is the matched route, nil unless Status is Matched.
	Route *Route
	// Mapping holds the segments bound to dynamic nodes on the matched branch.
	Mapping extractor.SegmentMapping
	// Status is the best status found over all branches.
	Status MatchStatus
	// Consumed is the number of path segments used to reach the route.
	// For delegating routes the remaining segments belong to the nested router.
	Consumed int
	// Allowed lists the methods of routes that matched the path but not
	// the method. Set when Status is MethodNotAllowed.
	Allowed []string
}

// TreeBuilder builds the segment tree while routes are registered.
type TreeBuilder struct {
	root *NodeBuilder
}

// NewTreeBuilder creates a builder with an empty root node.
func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{root: NewNodeBuilder("/", Static)}
}

// Root returns the root node, which matches the empty path.
func (t *TreeBuilder) Root() *NodeBuilder {
	return t.root
}

// Finalize freezes the tree. The builder must not be used afterwards.
func (t *TreeBuilder) Finalize() *Tree {
	return &Tree{root: t.root.freeze()}
}

// Tree is an immutable segment tree. It is safe for concurrent use.
type Tree struct {
	root *Node
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Match finds the route for r given its decoded path segments.
func (t *Tree) Match(r *http.Request, segments []string) MatchResult {
	mapping := make(extractor.SegmentMapping)
	res := t.root.match(r, segments, 0, mapping)

	switch res.Status {
	case Matched:
		res.Mapping = mapping
	case MethodNotAllowed:
		slices.Sort(res.Allowed)
		res.Allowed = slices.Compact(res.Allowed)
	}
	return res
}

// Routes returns every route of the tree. Static branches are visited in
// lexical order, then the dynamic branch.
func (t *Tree) Routes() []*Route {
	var routes []*Route
	t.root.walk(func(rt *Route) {
		routes = append(routes, rt)
	})
	return routes
}

// requestPath holds the segments of a request path in decoded and in
// escaped form.
type requestPath struct {
	segments []string
	escaped  []string
}

// splitPath splits an escaped URL path into segments. Empty segments are
// dropped, each segment is percent-decoded and optionally NFC-normalized.
func splitPath(escapedPath string, normalize bool) (requestPath, error) {
	var p requestPath
	for raw := range strings.SplitSeq(escapedPath, "/") {
		if raw == "" {
			continue
		}
		seg, err := url.PathUnescape(raw)
		if err != nil {
			return requestPath{}, fmt.Errorf("%w: %q", ErrInvalidPath, raw)
		}
		if normalize {
			seg = norm.NFC.String(seg)
		}
		p.segments = append(p.segments, seg)
		p.escaped = append(p.escaped, raw)
	}
	return p, nil
}

// remainder returns the decoded and escaped path after the first n segments.
func (p requestPath) remainder(n int) (path, rawPath string) {
	if n >= len(p.segments) {
		return "/", "/"
	}
	return "/" + strings.Join(p.segments[n:], "/"), "/" + strings.Join(p.escaped[n:], "/")
}

// patternSegment is one parsed segment of a route pattern.
type patternSegment struct {
	value       string
	segmentType SegmentType
}

// parsePattern splits a route pattern such as "/users/:id" into segments.
func parsePattern(pattern string) ([]patternSegment, error) {
	var out []patternSegment
	for seg := range strings.SplitSeq(pattern, "/") {
		switch {
		case seg == "":
			continue
		case strings.HasPrefix(seg, ":"):
			name := seg[1:]
			if name == "" || strings.ContainsAny(name, ":*{}") {
				return nil, fmt.Errorf("%w: bad dynamic segment %q in %q", ErrInvalidPattern, seg, pattern)
			}
			out = append(out, patternSegment{value: name, segmentType: Dynamic})
		case strings.ContainsAny(seg, "*{}"):
			return nil, fmt.Errorf("%w: unsupported segment %q in %q", ErrInvalidPattern, seg, pattern)
		default:
			out = append(out, patternSegment{value: seg, segmentType: Static})
		}
	}
	return out, nil
}

// joinPattern joins a scope prefix and a route path into a normalized pattern.
func joinPattern(prefix, path string) string {
	joined := strings.Trim(prefix, "/") + "/" + strings.Trim(path, "/")
	joined = "/" + strings.Trim(joined, "/")
	return joined
}
