package router

import (
	"fmt"
	"maps"
	"net/http"
	"slices"

	"github.com/dmitrymomot/routekit/core/extractor"
)

// SegmentType tells how a tree node matches a path segment.
type SegmentType int

const (
	// Static nodes match their segment literally.
	Static SegmentType = iota
	// Dynamic nodes match any single segment and bind it under their name.
	Dynamic
)

// String implements fmt.Stringer.
func (t SegmentType) String() string {
	if t == Dynamic {
		return "dynamic"
	}
	return "static"
}

// NodeBuilder is a mutable tree node used while routes are registered.
type NodeBuilder struct {
	segment     string
	segmentType SegmentType
	static      map[string]*NodeBuilder
	dynamic     *NodeBuilder
	routes      []*Route
}

// NewNodeBuilder creates a node for segment.
func NewNodeBuilder(segment string, segmentType SegmentType) *NodeBuilder {
	return &NodeBuilder{
		segment:     segment,
		segmentType: segmentType,
		static:      make(map[string]*NodeBuilder),
	}
}

// Segment returns the node segment. For dynamic nodes it is the binding name.
func (n *NodeBuilder) Segment() string {
	return n.segment
}

// AddChild attaches child. A node holds at most one dynamic child, and a
// (segment, type) pair at most once. A delegating node takes no children.
func (n *NodeBuilder) AddChild(child *NodeBuilder) error {
	if n.delegates() {
		return fmt.Errorf("%w: segment %q is shadowed by delegation", ErrDuplicateRoute, child.segment)
	}
	switch child.segmentType {
	case Dynamic:
		if n.dynamic != nil {
			if n.dynamic.segment == child.segment {
				return fmt.Errorf("%w: dynamic segment %q already exists", ErrDuplicateSegment, child.segment)
			}
			return fmt.Errorf("%w: %q conflicts with %q", ErrConflictingDynamicSegment, child.segment, n.dynamic.segment)
		}
		n.dynamic = child
	default:
		if _, ok := n.static[child.segment]; ok {
			return fmt.Errorf("%w: static segment %q already exists", ErrDuplicateSegment, child.segment)
		}
		n.static[child.segment] = child
	}
	return nil
}

// HasChild reports whether a child with the segment and type exists.
func (n *NodeBuilder) HasChild(segment string, segmentType SegmentType) bool {
	return n.BorrowChild(segment, segmentType) != nil
}

// BorrowChild returns the child with the segment and type, or nil.
func (n *NodeBuilder) BorrowChild(segment string, segmentType SegmentType) *NodeBuilder {
	if segmentType == Dynamic {
		if n.dynamic != nil && n.dynamic.segment == segment {
			return n.dynamic
		}
		return nil
	}
	return n.static[segment]
}

// AddRoute appends rt to the node. Routes are tried in the order they are
// added. Two routes that only restrict overlapping methods are rejected.
// A delegation must be the only route of a node without children.
func (n *NodeBuilder) AddRoute(rt *Route) error {
	switch {
	case rt.delegation == External && len(n.routes) > 0:
		return fmt.Errorf("%w: delegation %s shares its path with other routes", ErrDuplicateRoute, rt.pattern)
	case rt.delegation == External && (len(n.static) > 0 || n.dynamic != nil):
		return fmt.Errorf("%w: delegation %s shadows nested routes", ErrDuplicateRoute, rt.pattern)
	case rt.delegation == Internal && n.delegates():
		return fmt.Errorf("%w: %s is shadowed by delegation", ErrDuplicateRoute, rt.pattern)
	}
	if m, ok := rt.methodOnly(); ok {
		for _, existing := range n.routes {
			em, ok := existing.methodOnly()
			if ok && existing.delegation == rt.delegation && em.overlaps(m) {
				return fmt.Errorf("%w: %v %s", ErrDuplicateRoute, m.AllowedMethods(), rt.pattern)
			}
		}
	}
	n.routes = append(n.routes, rt)
	return nil
}

func (n *NodeBuilder) delegates() bool {
	for _, rt := range n.routes {
		if rt.delegation == External {
			return true
		}
	}
	return false
}

// IsRoutable reports whether the node has routes.
func (n *NodeBuilder) IsRoutable() bool {
	return len(n.routes) > 0
}

func (n *NodeBuilder) freeze() *Node {
	node := &Node{
		segment:     n.segment,
		segmentType: n.segmentType,
		static:      make(map[string]*Node, len(n.static)),
		routes:      slices.Clone(n.routes),
	}
	for seg, child := range n.static {
		node.static[seg] = child.freeze()
	}
	if n.dynamic != nil {
		node.dynamic = n.dynamic.freeze()
	}
	for _, rt := range n.routes {
		if rt.delegation == External {
			node.delegating = true
			break
		}
	}
	return node
}

// Node is an immutable tree node.
type Node struct {
	segment     string
	segmentType SegmentType
	static      map[string]*Node
	dynamic     *Node
	routes      []*Route
	delegating  bool
}

// Segment returns the node segment.
func (n *Node) Segment() string {
	return n.segment
}

// SegmentType returns how the node matches.
func (n *Node) SegmentType() SegmentType {
	return n.segmentType
}

// match walks the subtree depth first: the static child before the dynamic
// one, backtracking when a branch does not produce a match.
// A delegating node matches as a prefix before its children are tried.
func (n *Node) match(r *http.Request, segments []string, depth int, mapping extractor.SegmentMapping) MatchResult {
	var best MatchResult

	if n.delegating {
		res := n.matchRoutes(r, External)
		if res.Status == Matched {
			res.Consumed = depth
			return res
		}
		best = res
	}

	if depth == len(segments) {
		res := n.matchRoutes(r, Internal)
		if res.Status == Matched {
			res.Consumed = depth
			return res
		}
		return prefer(best, res)
	}

	segment := segments[depth]

	if child, ok := n.static[segment]; ok {
		res := child.match(r, segments, depth+1, mapping)
		if res.Status == Matched {
			return res
		}
		best = prefer(best, res)
	}

	if n.dynamic != nil {
		name := n.dynamic.segment
		mapping.Add(name, segment)
		res := n.dynamic.match(r, segments, depth+1, mapping)
		if res.Status == Matched {
			return res
		}
		popSegment(mapping, name)
		best = prefer(best, res)
	}

	return best
}

// matchRoutes scans the node routes of one delegation kind in order.
func (n *Node) matchRoutes(r *http.Request, d Delegation) MatchResult {
	var res MatchResult
	for _, rt := range n.routes {
		if rt.delegation != d {
			continue
		}
		switch rt.IsMatch(r) {
		case Matched:
			return MatchResult{Route: rt, Status: Matched}
		case MethodNotAllowed:
			res.Status = MethodNotAllowed
			res.Allowed = append(res.Allowed, rt.Methods()...)
		}
	}
	return res
}

func (n *Node) walk(fn func(*Route)) {
	for _, rt := range n.routes {
		fn(rt)
	}
	for _, seg := range slices.Sorted(maps.Keys(n.static)) {
		n.static[seg].walk(fn)
	}
	if n.dynamic != nil {
		n.dynamic.walk(fn)
	}
}

// prefer returns the better of two results:
// Matched over MethodNotAllowed over NotMatch. Allowed methods of two
// MethodNotAllowed results are merged.
func prefer(a, b MatchResult) MatchResult {
	switch {
	case b.Status > a.Status:
		return b
	case a.Status == MethodNotAllowed && b.Status == MethodNotAllowed:
		a.Allowed = append(slices.Clone(a.Allowed), b.Allowed...)
		return a
	default:
		return a
	}
}

func popSegment(m extractor.SegmentMapping, name string) {
	values := m[name]
	if len(values) <= 1 {
		delete(m, name)
		return
	}
	m[name] = values[:len(values)-1]
}
