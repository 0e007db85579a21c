package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/routekit/core/extractor"
	"github.com/dmitrymomot/routekit/core/health"
	"github.com/dmitrymomot/routekit/core/pipeline"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/router"
	"github.com/dmitrymomot/routekit/core/state"
	"github.com/dmitrymomot/routekit/middleware"
	"github.com/dmitrymomot/routekit/pkg/ratelimiter"
)

type helloPath struct {
	Name string `path:"name,required"`
}

type addQuery struct {
	X int `query:"x,required"`
	Y int `query:"y,required"`
}

type deps struct {
	cfg     appConfig
	logger  *slog.Logger
	limiter ratelimiter.RateLimiter
	metrics *middleware.Metrics
	checks  []health.Check
}

// newApp builds the demo router. Every route runs the "default" pipeline,
// /api adds rate and body limits, /admin is a delegated router behind
// basic auth and is mounted only when users are configured.
func newApp(d deps) (*router.Router, error) {
	sb := pipeline.NewSetBuilder()

	defaults := []pipeline.NewMiddleware{
		middleware.RequestID(),
		middleware.Tracing(),
	}
	if d.metrics != nil {
		defaults = append(defaults, d.metrics.Middleware())
	}
	defaults = append(defaults,
		middleware.LoggingWithLogger(d.logger),
		middleware.ClientIP(),
		middleware.SecurityHeaders(),
	)
	defaultPipe, err := pipeline.New().Named("default").Add(defaults...).Build()
	if err != nil {
		return nil, err
	}
	base := sb.Add(defaultPipe)

	apiPipe, err := pipeline.New().Named("api").Add(
		middleware.RateLimit(middleware.RateLimitConfig{Limiter: d.limiter, SetHeaders: true}),
		middleware.BodyLimit(middleware.MB),
	).Build()
	if err != nil {
		return nil, err
	}
	api := sb.Add(apiPipe)

	var admin pipeline.Handle
	withAdmin := len(d.cfg.BasicAuth.Users) > 0
	if withAdmin {
		adminPipe, err := pipeline.New().Named("admin").Add(middleware.BasicAuth(d.cfg.BasicAuth)).Build()
		if err != nil {
			return nil, err
		}
		admin = sb.Add(adminPipe)
	}
	set := sb.Freeze()

	opts := []router.Option{router.WithConfig(d.cfg.Router), router.WithLogger(d.logger)}
	chain := pipeline.NewChain(base)

	var adminRouter *router.Router
	if withAdmin {
		adminRouter, err = router.Build(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.Get("/whoami").To(whoami)
		}, opts...)
		if err != nil {
			return nil, fmt.Errorf("admin router: %w", err)
		}
	}

	return router.Build(chain, set, func(b *router.Builder) {
		b.Get("/").To(index)
		b.Scope("/health", func(b *router.Builder) {
			b.Get("/live").To(health.Liveness)
			b.Get("/ready").To(health.Readiness(d.logger, d.checks...))
		})
		b.Get("/hello/:name").WithPathExtractor(extractor.Path[helloPath]()).To(hello)
		b.Get("/add").WithQueryStringExtractor(extractor.Query[addQuery]()).To(add)

		b.WithPipelineChain(chain.Append(api), func(b *router.Builder) {
			b.Scope("/api", func(b *router.Builder) {
				b.Post("/submit").To(submit)
			})
		})

		if adminRouter != nil {
			b.WithPipelineChain(chain.Append(admin), func(b *router.Builder) {
				b.Delegate("/admin").ToRouter(adminRouter)
			})
		}
	}, opts...)
}

func index(*state.State, *http.Request) (*response.Response, error) {
	return response.String("routekit"), nil
}

func submit(*state.State, *http.Request) (*response.Response, error) {
	return response.JSONWithStatus(map[string]string{"status": "accepted"}, http.StatusAccepted)
}

func hello(s *state.State, _ *http.Request) (*response.Response, error) {
	p, err := state.Take[helloPath](s)
	if err != nil {
		return nil, err
	}
	return response.String(fmt.Sprintf("Hello, %s!", p.Name)), nil
}

func add(s *state.State, _ *http.Request) (*response.Response, error) {
	q, err := state.Take[addQuery](s)
	if err != nil {
		return nil, err
	}
	return response.String(fmt.Sprintf("%d + %d = %d", q.X, q.Y, q.X+q.Y)), nil
}

func whoami(s *state.State, _ *http.Request) (*response.Response, error) {
	user, _ := middleware.GetAuthUser(s)
	return response.String(user), nil
}
