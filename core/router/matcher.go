package router

import (
	"mime"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// MatchStatus is the outcome of matching a request against a route.
type MatchStatus int

const (
	// NotMatch means the route does not apply to the request.
	NotMatch MatchStatus = iota
	// MethodNotAllowed means the route applies to the path but not to the method.
	MethodNotAllowed
	// Matched means the route accepts the request.
	Matched
)

// String implements fmt.Stringer.
func (s MatchStatus) String() string {
	switch s {
	case Matched:
		return "matched"
	case MethodNotAllowed:
		return "method_not_allowed"
	default:
		return "not_match"
	}
}

// RouteMatcher decides whether a route accepts a request.
// Implementations must be pure: the same request always gives the same status.
type RouteMatcher interface {
	IsMatch(r *http.Request) MatchStatus
}

// MethodLister is implemented by matchers that restrict the request method.
// The router uses it to fill the Allow header of 405 responses.
type MethodLister interface {
	AllowedMethods() []string
}

// MethodMatcher accepts requests whose method is one of a fixed set.
// Method names are compared case-sensitively.
type MethodMatcher struct {
	methods []string
}

// Methods creates a MethodMatcher. Duplicates are removed and the
// remaining methods are kept sorted.
func Methods(methods ...string) *MethodMatcher {
	ms := slices.Clone(methods)
	slices.Sort(ms)
	return &MethodMatcher{methods: slices.Compact(ms)}
}

// IsMatch implements RouteMatcher.
func (m *MethodMatcher) IsMatch(r *http.Request) MatchStatus {
	if _, ok := slices.BinarySearch(m.methods, r.Method); ok {
		return Matched
	}
	return MethodNotAllowed
}

// AllowedMethods implements MethodLister.
func (m *MethodMatcher) AllowedMethods() []string {
	return slices.Clone(m.methods)
}

// overlaps reports whether m and other share a method.
func (m *MethodMatcher) overlaps(other *MethodMatcher) bool {
	for _, method := range other.methods {
		if _, ok := slices.BinarySearch(m.methods, method); ok {
			return true
		}
	}
	return false
}

// HeaderMatcher accepts requests carrying a header, optionally with an
// exact value.
type HeaderMatcher struct {
	name  string
	value string
}

// Header creates a HeaderMatcher. An empty value only requires the header
// to be present.
func Header(name, value string) *HeaderMatcher {
	return &HeaderMatcher{name: http.CanonicalHeaderKey(name), value: value}
}

// IsMatch implements RouteMatcher.
func (m *HeaderMatcher) IsMatch(r *http.Request) MatchStatus {
	values, ok := r.Header[m.name]
	if !ok {
		return NotMatch
	}
	if m.value == "" || slices.Contains(values, m.value) {
		return Matched
	}
	return NotMatch
}

// AcceptMatcher accepts requests whose Accept header allows one of the
// supported media types. A missing Accept header accepts anything.
type AcceptMatcher struct {
	types []string
}

// Accept creates an AcceptMatcher for the given media types, e.g.
// "application/json".
func Accept(mediaTypes ...string) *AcceptMatcher {
	types := make([]string, 0, len(mediaTypes))
	for _, t := range mediaTypes {
		types = append(types, strings.ToLower(strings.TrimSpace(t)))
	}
	return &AcceptMatcher{types: types}
}

// IsMatch implements RouteMatcher.
func (m *AcceptMatcher) IsMatch(r *http.Request) MatchStatus {
	header := r.Header.Values("Accept")
	if len(header) == 0 {
		return Matched
	}

	for _, line := range header {
		for part := range strings.SplitSeq(line, ",") {
			accepted, params, err := mime.ParseMediaType(strings.TrimSpace(part))
			if err != nil {
				continue
			}
			if q, ok := params["q"]; ok {
				if weight, err := strconv.ParseFloat(q, 64); err == nil && weight == 0 {
					continue
				}
			}
			for _, t := range m.types {
				if mediaTypeMatches(accepted, t) {
					return Matched
				}
			}
		}
	}
	return NotMatch
}

func mediaTypeMatches(accepted, supported string) bool {
	if accepted == "*/*" || accepted == supported {
		return true
	}
	prefix, ok := strings.CutSuffix(accepted, "/*")
	return ok && strings.HasPrefix(supported, prefix+"/")
}

// AndMatcher accepts a request only if all of its matchers do.
type AndMatcher struct {
	matchers []RouteMatcher
}

// AllOf combines matchers. The first status other than Matched wins.
func AllOf(matchers ...RouteMatcher) *AndMatcher {
	ms := make([]RouteMatcher, 0, len(matchers))
	for _, m := range matchers {
		if m != nil {
			ms = append(ms, m)
		}
	}
	return &AndMatcher{matchers: ms}
}

// IsMatch implements RouteMatcher.
func (m *AndMatcher) IsMatch(r *http.Request) MatchStatus {
	for _, matcher := range m.matchers {
		if status := matcher.IsMatch(r); status != Matched {
			return status
		}
	}
	return Matched
}

// AllowedMethods implements MethodLister, returning the methods of the
// first method-restricting matcher.
func (m *AndMatcher) AllowedMethods() []string {
	for _, matcher := range m.matchers {
		if ml, ok := matcher.(MethodLister); ok {
			return ml.AllowedMethods()
		}
	}
	return nil
}

// AnyMatcher accepts every request.
type AnyMatcher struct{}

// IsMatch implements RouteMatcher.
func (AnyMatcher) IsMatch(*http.Request) MatchStatus { return Matched }

func allowedMethods(m RouteMatcher) []string {
	if ml, ok := m.(MethodLister); ok {
		return ml.AllowedMethods()
	}
	return nil
}
