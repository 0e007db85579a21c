// Package router matches requests against a segment tree and dispatches
// them through pipeline chains to handlers.
//
// # Features
//
//   - Segment tree with static and dynamic (":name") segments
//   - Static segments are tried before the dynamic one, with backtracking
//   - 404 and 405 responses, with an Allow header for the latter
//   - Per-route matchers for methods, headers and Accept negotiation
//   - Typed path and query extraction into the request State
//   - Shared pipelines referenced by handle, composed per scope
//   - Delegation of a path prefix to a nested Router
//   - Response extenders run by the failed extractor or keyed by status code
//
// # Basic Usage
//
//	sb := pipeline.NewSetBuilder()
//	web := sb.Add(pipeline.New().Named("web").Add(middleware.RequestID()).MustBuild())
//	set := sb.Freeze()
//
//	r, err := router.Build(pipeline.NewChain(web), set, func(b *router.Builder) {
//		b.Get("/").To(index)
//		b.Get("/hello/:name").
//			WithPathExtractor(extractor.Path[helloPath]()).
//			To(hello)
//		b.Get("/add").
//			WithQueryStringExtractor(extractor.Query[addQuery]()).
//			To(add)
//		b.Scope("/api", func(b *router.Builder) {
//			b.Post("/submit").To(submit)
//		})
//	})
//	if err != nil {
//		return err
//	}
//	http.ListenAndServe(":8080", r)
//
// Get registers GET and HEAD. Routes on the same path are tried in
// registration order and the first one whose matcher accepts the request
// wins. When the path matches but no route accepts the method the router
// answers 405 with the union of allowed methods.
//
// # Paths
//
// Leading and trailing slashes and empty segments are ignored, so "/a/b/",
// "a//b" and "/a/b" are the same path. Segments are percent-decoded before
// matching; WithUnicodeNormalization also applies NFC normalization.
//
// # Pipelines
//
// Every route carries a pipeline chain. Scopes inherit the chain of their
// parent and WithPipelineChain replaces it:
//
//	b.WithPipelineChain(pipeline.NewChain(web, api), func(b *router.Builder) {
//		b.Get("/status").To(status)
//	})
//
// Extraction runs before any pipeline. A request that fails extraction gets
// a 400 response and never reaches middleware or the handler.
//
// # Delegation
//
// Delegate hands every request under a prefix to another Router, which sees
// the remaining path and shares the State of the outer request:
//
//	b.Delegate("/admin").ToRouter(adminRouter)
//
// A delegated prefix belongs to the nested Router alone: registering another
// route on it or below it fails the build with ErrDuplicateRoute.
//
// # Errors
//
// Build collects every registration error (conflicting dynamic segments,
// duplicate routes, invalid patterns, nil handlers) and returns them joined.
// At request time handler errors go through the ErrorHandler, which maps
// errors with a StatusCode() int method to that status and everything else
// to 500. Panics are recovered and passed to the ErrorHandler as PanicError.
package router
