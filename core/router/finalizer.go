package router

import (
	"reflect"

	"github.com/dmitrymomot/routekit/core/extractor"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// FinalizerBuilder collects response extenders.
type FinalizerBuilder struct {
	byType   map[reflect.Type]extractor.ResponseExtender
	byStatus map[int][]extractor.ResponseExtender
}

// NewFinalizerBuilder creates an empty builder.
func NewFinalizerBuilder() *FinalizerBuilder {
	return &FinalizerBuilder{
		byType:   make(map[reflect.Type]extractor.ResponseExtender),
		byStatus: make(map[int][]extractor.ResponseExtender),
	}
}

// AddExtractor registers the extender used when an extractor of the same
// dynamic type as key fails. Registering a type twice keeps the first one.
func (b *FinalizerBuilder) AddExtractor(key any, ext extractor.ResponseExtender) {
	if key == nil || ext == nil {
		return
	}
	t := reflect.TypeOf(key)
	if _, ok := b.byType[t]; ok {
		return
	}
	b.byType[t] = ext
}

// AddStatus registers an extender run for every response with status.
// Extenders for the same status run in registration order.
func (b *FinalizerBuilder) AddStatus(status int, ext extractor.ResponseExtender) {
	if ext == nil {
		return
	}
	b.byStatus[status] = append(b.byStatus[status], ext)
}

// Finalize returns the immutable finalizer.
func (b *FinalizerBuilder) Finalize() *ResponseFinalizer {
	f := &ResponseFinalizer{
		byType:   make(map[reflect.Type]extractor.ResponseExtender, len(b.byType)),
		byStatus: make(map[int][]extractor.ResponseExtender, len(b.byStatus)),
	}
	for k, v := range b.byType {
		f.byType[k] = v
	}
	for k, v := range b.byStatus {
		f.byStatus[k] = append([]extractor.ResponseExtender(nil), v...)
	}
	return f
}

// ResponseFinalizer applies registered extenders to outgoing responses.
type ResponseFinalizer struct {
	byType   map[reflect.Type]extractor.ResponseExtender
	byStatus map[int][]extractor.ResponseExtender
}

// ExtendFailure rewrites the response of a failed extraction. An extractor
// that implements ResponseExtender extends its own failure; otherwise the
// extender registered for its type runs, if any.
func (f *ResponseFinalizer) ExtendFailure(failed any, s *state.State, resp *response.Response) {
	if failed == nil {
		return
	}
	if ext, ok := failed.(extractor.ResponseExtender); ok {
		ext.ExtendResponse(s, resp)
		return
	}
	if ext, ok := f.byType[reflect.TypeOf(failed)]; ok {
		ext.ExtendResponse(s, resp)
	}
}

// Finalize runs the extenders registered for the response status.
func (f *ResponseFinalizer) Finalize(s *state.State, resp *response.Response) {
	for _, ext := range f.byStatus[resp.Status] {
		ext.ExtendResponse(s, resp)
	}
}
