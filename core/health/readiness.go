package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/routekit/core/handler"
	"github.com/dmitrymomot/routekit/core/logger"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Readiness answers "READY" when every check passes and 503 otherwise.
// Failures are logged, never exposed to the caller.
func Readiness(log *slog.Logger, checks ...Check) handler.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(s *state.State, r *http.Request) (*response.Response, error) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					logger.Error(err),
					logger.RequestID(state.RequestIDFrom(s)),
				)
				return response.Error(response.ErrServiceUnavailable), nil
			}
		}
		return response.String("READY"), nil
	}
}
