// Package middleware provides pipeline middleware for routekit routers.
//
// Every constructor returns a pipeline.NewMiddleware, so middleware are
// added to pipelines and instantiated once per request:
//
//	metrics := middleware.NewMetrics(middleware.MetricsConfig{Registry: reg})
//
//	p := pipeline.New().Named("api").Add(
//		middleware.RequestID(),
//		middleware.Tracing(),
//		metrics.Middleware(),
//		middleware.Logging(),
//		middleware.ClientIP(),
//		middleware.RateLimit(middleware.RateLimitConfig{Limiter: limiter}),
//	).MustBuild()
//
// Middleware store what they learn in the request State: RequestID puts
// state.RequestID, ClientIP puts ClientAddr, BasicAuth puts AuthUser.
// Short-circuiting middleware (BasicAuth, RateLimit, BodyLimit, ClientIP
// validation) return a response or an error without calling next.
//
// Metrics and Tracing label requests by state.RoutePattern, which the
// router sets before the pipelines run.
//
// Every config accepts a Skip function. SkipPaths builds one from exact paths.
//
// Misconfigured RateLimit and BasicAuth fail at instantiation, which the
// pipeline reports as pipeline.ErrMiddlewareInit for each request.
package middleware
