package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/routekit/core/pipeline"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
	"github.com/dmitrymomot/routekit/pkg/clientip"
	"github.com/dmitrymomot/routekit/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	Skip Skipper
	// Limiter decides per key. Required.
	Limiter ratelimiter.RateLimiter
	// KeyExtractor picks the bucket key (default: ClientAddr from State, then pkg/clientip).
	KeyExtractor func(s *state.State, r *http.Request) string
	// OnLimit builds the rejection (default: 429 Too Many Requests).
	OnLimit func(s *state.State, r *http.Request, res *ratelimiter.Result) *response.Response
	// SetHeaders adds X-RateLimit-* headers to every response.
	SetHeaders bool
}

// RateLimit short-circuits requests whose key ran out of tokens.
// A nil Limiter makes every instantiation fail.
func RateLimit(cfg RateLimitConfig) pipeline.NewMiddleware {
	if cfg.Limiter == nil {
		return pipeline.NewMiddlewareFunc(func() (pipeline.Middleware, error) {
			return nil, fmt.Errorf("%w: rate limiter is nil", ErrInvalidConfig)
		})
	}

	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = func(s *state.State, r *http.Request) string {
			if ip, ok := GetClientIP(s); ok {
				return ip
			}
			return clientip.GetIP(r)
		}
	}

	if cfg.OnLimit == nil {
		cfg.OnLimit = func(_ *state.State, _ *http.Request, res *ratelimiter.Result) *response.Response {
			err := response.ErrTooManyRequests
			if retry := res.RetryAfter(); retry > 0 {
				err = err.WithDetails(map[string]any{
					"retry_after": fmt.Sprintf("%.0f", retry.Seconds()),
				})
			}
			return response.JSONError(err)
		}
	}

	return pipeline.MiddlewareFunc(func(s *state.State, r *http.Request, next pipeline.Next) (*response.Response, error) {
		if cfg.Skip.skip(s, r) {
			return next(s, r)
		}

		res, err := cfg.Limiter.Allow(r.Context(), cfg.KeyExtractor(s, r))
		if err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}

		if !res.Allowed() {
			resp := cfg.OnLimit(s, r, res)
			setRateLimitHeaders(resp, res, true)
			return resp, nil
		}

		resp, err := next(s, r)
		if resp != nil && cfg.SetHeaders {
			setRateLimitHeaders(resp, res, false)
		}
		return resp, err
	})
}

func setRateLimitHeaders(resp *response.Response, res *ratelimiter.Result, denied bool) {
	if resp == nil {
		return
	}
	resp.WithHeader("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	resp.WithHeader("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
	resp.WithHeader("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
	if denied {
		resp.WithHeader("Retry-After", strconv.Itoa(int(res.RetryAfter().Seconds())))
	}
}
