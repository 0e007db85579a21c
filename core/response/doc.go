// Package response provides the response value produced by handlers and
// pipeline middleware, plus helpers for common content types and errors.
//
// A Response is plain data (status, headers, body) so that middleware and
// the router's finalizer can inspect and rewrite it after the handler ran:
//
//	func hello(s *state.State, r *http.Request) (*response.Response, error) {
//		return response.String("Hello, world!"), nil
//	}
//
//	func user(s *state.State, r *http.Request) (*response.Response, error) {
//		return response.JSONWithStatus(u, http.StatusCreated)
//	}
//
// # Errors
//
// HTTPError carries a status, a machine readable code and a message.
// FromError maps arbitrary errors to an HTTPError using a StatusCode() int
// method when present. Error and JSONError render the result as text or
// JSON:
//
//	return response.Error(response.ErrForbidden), nil
//
// The router writes a Response with Write, which omits bodies for HEAD
// requests and for 1xx, 204 and 304 statuses.
package response
