package extractor

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
)

var (
	// ErrMissingValue indicates a required field had no value.
	ErrMissingValue = errors.New("missing required value")
	// ErrInvalidValue indicates a value could not be converted to the field type.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidTarget indicates the target type is not a struct.
	ErrInvalidTarget = errors.New("extraction target must be a struct")
)

// Source names where an extractor reads from.
type Source string

const (
	SourcePath  Source = "path"
	SourceQuery Source = "query"
)

// Error is returned when a request cannot be turned into the extractor's type.
// It maps to 400 Bad Request.
type Error struct {
	Source Source
	Type   reflect.Type
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	name := "<nil>"
	if e.Type != nil {
		name = e.Type.String()
	}
	return fmt.Sprintf("invalid %s for %s: %v", e.Source, name, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns http.StatusBadRequest.
func (e *Error) StatusCode() int {
	return http.StatusBadRequest
}
