package pipeline

import "errors"

var (
	// ErrUnknownHandle is returned when a handle does not belong to the set.
	ErrUnknownHandle = errors.New("unknown pipeline handle")
	// ErrNilMiddleware is returned when a nil middleware is added to a pipeline.
	ErrNilMiddleware = errors.New("nil middleware")
	// ErrMiddlewareInit wraps failures of NewMiddleware factories.
	ErrMiddlewareInit = errors.New("failed to create middleware")
	// ErrSetFrozen is returned when adding to a set builder after Freeze.
	ErrSetFrozen = errors.New("pipeline set is frozen")
)
