// Package state provides the per-request typed value store that flows
// through pipelines, extractors and handlers.
//
// A State maps a Go type to exactly one value of that type. Values are
// stored and retrieved with generic helpers:
//
//	s := state.New()
//	state.Put(s, HelloParams{Name: "world"})
//
//	// Borrow leaves the value in place.
//	p, err := state.Borrow[HelloParams](s)
//
//	// Take removes it; a second Take fails with ErrNotFound.
//	p, err = state.Take[HelloParams](s)
//
// Put overwrites any value of the same type. Named types are distinct keys,
// so define a dedicated type for each piece of request data instead of
// storing bare strings or ints.
//
// A State belongs to one request and is not safe for concurrent use.
package state
