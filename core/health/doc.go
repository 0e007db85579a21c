// Package health provides probe handlers for routekit routers.
//
//	b.Get("/health/live").To(health.Liveness)
//	b.Get("/health/ready").To(health.Readiness(log, store.Healthcheck))
//	b.Get("/ping").To(health.NoContent)
//
// Readiness checks have the func(context.Context) error signature and run
// in order with the request context.
package health
