package middleware

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// Skipper reports whether a middleware should pass the request through untouched.
type Skipper func(s *state.State, r *http.Request) bool

func (sk Skipper) skip(s *state.State, r *http.Request) bool {
	return sk != nil && sk(s, r)
}

// SkipPaths skips requests whose URL path equals one of paths.
func SkipPaths(paths ...string) Skipper {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(_ *state.State, r *http.Request) bool {
		_, ok := set[r.URL.Path]
		return ok
	}
}

// dispatchStatus returns the status the router will write for a dispatch result.
// A nil response without an error becomes 500.
func dispatchStatus(resp *response.Response, err error) int {
	switch {
	case resp != nil:
		return statusOf(resp.Status, err)
	case err == nil:
		return http.StatusInternalServerError
	}
	return statusOf(0, err)
}

type statusCoder interface {
	StatusCode() int
}

// statusOf prefers the status carried by err over status.
func statusOf(status int, err error) int {
	if err != nil {
		var sc statusCoder
		if errors.As(err, &sc) {
			return sc.StatusCode()
		}
		return http.StatusInternalServerError
	}
	if status == 0 {
		return http.StatusOK
	}
	return status
}

func routeLabel(s *state.State) string {
	if p := state.RoutePatternFrom(s); p != "" {
		return p
	}
	return "unmatched"
}
