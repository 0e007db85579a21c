package state

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotFound is returned when the requested type was never put into the
// State or has already been taken.
var ErrNotFound = errors.New("value not found in state")

// State is a per-request store holding at most one value per type.
// It is created for a single request and must not be shared across requests.
type State struct {
	data map[reflect.Type]any
}

// New creates an empty State.
func New() *State {
	return &State{data: make(map[reflect.Type]any)}
}

// Put stores v, replacing any value of the same type. A nil interface or
// pointer value is stored and reads back as the zero value of T.
func Put[T any](s *State, v T) {
	s.data[keyOf[T]()] = v
}

// Has reports whether a value of type T is present.
func Has[T any](s *State) bool {
	_, ok := s.data[keyOf[T]()]
	return ok
}

// Borrow returns the stored value of type T, leaving it in place.
func Borrow[T any](s *State) (T, error) {
	v, ok := TryBorrow[T](s)
	if !ok {
		return v, fmt.Errorf("%w: %s", ErrNotFound, keyOf[T]())
	}
	return v, nil
}

// TryBorrow is like Borrow but reports absence with ok=false.
func TryBorrow[T any](s *State) (T, bool) {
	raw, ok := s.data[keyOf[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	v, _ := raw.(T)
	return v, true
}

// MustBorrow is like Borrow but panics when the value is absent.
func MustBorrow[T any](s *State) T {
	v, err := Borrow[T](s)
	if err != nil {
		panic(err)
	}
	return v
}

// Take removes and returns the stored value of type T.
// A second Take of the same type fails until the value is put again.
func Take[T any](s *State) (T, error) {
	v, ok := TryTake[T](s)
	if !ok {
		return v, fmt.Errorf("%w: %s", ErrNotFound, keyOf[T]())
	}
	return v, nil
}

// TryTake is like Take but reports absence with ok=false.
func TryTake[T any](s *State) (T, bool) {
	key := keyOf[T]()
	raw, ok := s.data[key]
	if !ok {
		var zero T
		return zero, false
	}
	delete(s.data, key)
	v, _ := raw.(T)
	return v, true
}

// MustTake is like Take but panics when the value is absent.
func MustTake[T any](s *State) T {
	v, err := Take[T](s)
	if err != nil {
		panic(err)
	}
	return v
}

// Len returns the number of stored values.
func (s *State) Len() int {
	return len(s.data)
}

func keyOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
