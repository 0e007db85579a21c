// Package extractor turns request path segments and query strings into
// typed values stored in the per-request State.
//
// The router binds dynamic path segments into a SegmentMapping and hands
// the raw query string to the route's QueryStringExtractor. Both run before
// any pipeline, so a handler only ever sees requests whose parameters were
// extracted successfully. Failures are *Error values and produce a
// 400 Bad Request.
//
// Path and Query build extractors for tagged structs:
//
//	type helloPath struct {
//		Name string `path:"name,required"`
//	}
//
//	type addQuery struct {
//		X int `query:"x,required"`
//		Y int `query:"y,required"`
//	}
//
//	func add(s *state.State, r *http.Request) (*response.Response, error) {
//		q := state.MustTake[addQuery](s)
//		return response.String(fmt.Sprintf("%d + %d = %d", q.X, q.Y, q.X+q.Y)), nil
//	}
//
// Supported field types are strings, signed and unsigned integers, floats,
// bools, slices and pointers of those, and any type whose pointer
// implements encoding.TextUnmarshaler. Fields bind to the lowercased field
// name unless tagged; "-" skips a field and the "required" option rejects
// requests without a value.
//
// An extractor that also implements ResponseExtender is called to adjust
// the 400 response when its extraction fails.
package extractor
