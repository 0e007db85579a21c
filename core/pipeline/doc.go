// Package pipeline composes request middleware into reusable pipelines.
//
// A Pipeline is an ordered list of middleware factories. Pipelines are
// registered once in a SetBuilder, which issues an opaque Handle for each,
// and frozen into an immutable Set. Routes refer to pipelines through a
// Chain of handles that is resolved against the Set when the router is
// built:
//
//	sb := pipeline.NewSetBuilder()
//	web := sb.Add(pipeline.New().Named("web").Add(middleware.RequestID()).MustBuild())
//	api := sb.Add(pipeline.New().Named("api").Add(middleware.BasicAuth(users)).MustBuild())
//	set := sb.Freeze()
//
//	resolved, err := set.Resolve(pipeline.NewChain(web, api))
//
// For each request a fresh middleware instance is created from every
// factory. The first pipeline of a chain wraps the second, which wraps the
// handler. A middleware that returns without calling next short-circuits
// the rest of the chain; this is a normal response, not an error.
package pipeline
