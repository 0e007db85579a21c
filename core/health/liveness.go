package health

import (
	"net/http"

	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// Liveness always answers "ALIVE" without checking dependencies.
func Liveness(*state.State, *http.Request) (*response.Response, error) {
	return response.String("ALIVE"), nil
}

// NoContent answers 204 for high-frequency probes.
func NoContent(*state.State, *http.Request) (*response.Response, error) {
	return response.Empty(http.StatusNoContent), nil
}
