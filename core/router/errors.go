package router

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Routing errors
	ErrNotFound         = errors.New("not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrInvalidPath      = errors.New("invalid request path encoding")
	ErrNilResponse      = errors.New("nil response")
	ErrHandlerInit      = errors.New("failed to create handler")

	// Build errors
	ErrInvalidPattern            = errors.New("invalid route path pattern")
	ErrConflictingDynamicSegment = errors.New("conflicting dynamic segment")
	ErrDuplicateSegment          = errors.New("duplicate segment")
	ErrDuplicateRoute            = errors.New("duplicate route")
	ErrNoMethods                 = errors.New("route accepts no methods")
	ErrNilHandler                = errors.New("nil handler")
	ErrNilRouter                 = errors.New("nil router")
	ErrNilExtractor              = errors.New("nil extractor")
	ErrNilPipelineSet            = errors.New("nil pipeline set")
)

// statusError attaches an HTTP status to a routing error.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string   { return e.err.Error() }
func (e *statusError) Unwrap() error   { return e.err }
func (e *statusError) StatusCode() int { return e.status }

func withStatus(status int, err error) error {
	return &statusError{status: status, err: err}
}

// PanicError is passed to the error handler when a handler or middleware
// panics. It gives access to the panic value and the stack trace.
type PanicError interface {
	error
	// Value returns the original panic value.
	Value() any
	// Stack returns the stack trace captured at the panic point.
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap allows errors.Is/As to see a panicked error value.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}

// StatusCode returns http.StatusInternalServerError.
func (e *panicError) StatusCode() int {
	return http.StatusInternalServerError
}
