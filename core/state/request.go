package state

// RequestID identifies the request a State belongs to.
// The router puts it into every State it creates.
type RequestID string

// RequestIDFrom returns the request id stored in s, or an empty string.
func RequestIDFrom(s *State) string {
	id, _ := TryBorrow[RequestID](s)
	return string(id)
}

// RoutePattern is the registered pattern of the route handling the request,
// for example "/users/:id". Delegated routers extend the outer pattern.
type RoutePattern string

// RoutePatternFrom returns the route pattern stored in s, or an empty string.
func RoutePatternFrom(s *State) string {
	p, _ := TryBorrow[RoutePattern](s)
	return string(p)
}
