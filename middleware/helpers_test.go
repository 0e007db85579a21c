package middleware_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/core/pipeline"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// run passes r through a pipeline holding mws, ending in endpoint.
func run(t *testing.T, s *state.State, r *http.Request, endpoint pipeline.Next, mws ...pipeline.NewMiddleware) (*response.Response, error) {
	t.Helper()
	p, err := pipeline.New().Add(mws...).Build()
	require.NoError(t, err)
	return p.Call(s, r, endpoint)
}

func okEndpoint(body string) pipeline.Next {
	return func(*state.State, *http.Request) (*response.Response, error) {
		return response.String(body), nil
	}
}

func unreachable(t *testing.T) pipeline.Next {
	return func(*state.State, *http.Request) (*response.Response, error) {
		t.Fatal("endpoint must not run")
		return nil, nil
	}
}
