package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/routekit/core/health"
	"github.com/dmitrymomot/routekit/core/pipeline"
	"github.com/dmitrymomot/routekit/core/router"
)

func TestProbes(t *testing.T) {
	t.Parallel()

	var calls int
	ok := func(context.Context) error { calls++; return nil }
	failing := func(context.Context) error { return errors.New("redis down") }

	r := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
		b.Get("/live").To(health.Liveness)
		b.Get("/ping").To(health.NoContent)
		b.Get("/ready").To(health.Readiness(nil, ok))
		b.Get("/degraded").To(health.Readiness(nil, ok, failing))
	})

	tests := []struct {
		target string
		status int
		body   string
	}{
		{"/live", http.StatusOK, "ALIVE"},
		{"/ping", http.StatusNoContent, ""},
		{"/ready", http.StatusOK, "READY"},
		{"/degraded", http.StatusServiceUnavailable, "Service Unavailable"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))
		assert.Equal(t, tt.status, w.Code, tt.target)
		assert.Equal(t, tt.body, w.Body.String(), tt.target)
	}
	assert.Equal(t, 2, calls)
}
