// Package handler defines the application handler contract used by the
// router.
//
// A handler receives the per-request State and the incoming request and
// returns a response or an error:
//
//	func hello(s *state.State, r *http.Request) (*response.Response, error) {
//		params, err := state.Take[HelloParams](s)
//		if err != nil {
//			return nil, err
//		}
//		return response.String("Hello, " + params.Name + "!"), nil
//	}
//
//	b.Get("/hello/:name").
//		WithPathExtractor(extractor.Path[HelloParams]()).
//		To(hello)
//
// Returned errors are converted into responses by the router's
// ErrorHandler; errors that implement StatusCode() int keep their status.
//
// # Handler factories
//
// Routes hold a NewHandler rather than a Handler. HandlerFunc implements
// both and returns itself, which is what most routes need. Handlers with
// per-request fields implement NewHandler to hand out a fresh value:
//
//	type uploadHandler struct {
//		store Store
//		seen  int
//	}
//
//	b.Post("/upload").ToNewHandler(handler.NewHandlerFunc(func() (handler.Handler, error) {
//		return &uploadHandler{store: store}, nil
//	}))
package handler
