package extractor

import (
	"reflect"

	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// PathOf binds the segment mapping into a struct of type T and puts the
// result into State.
//
//	type userPath struct {
//		ID int64 `path:"id,required"`
//	}
//
//	r.Get("/users/:id").WithPathExtractor(extractor.Path[userPath]()).To(showUser)
//
// If T (or *T) implements ResponseExtender it is called on the failure
// response, unless an extender was set with WithExtender.
type PathOf[T any] struct {
	extender ResponseExtender
}

// Path returns a path extractor for T.
func Path[T any]() *PathOf[T] {
	return &PathOf[T]{}
}

// WithExtender returns a copy of the extractor that uses ext on failure.
func (p *PathOf[T]) WithExtender(ext ResponseExtender) *PathOf[T] {
	return &PathOf[T]{extender: ext}
}

// ExtractPath implements PathExtractor.
func (p *PathOf[T]) ExtractPath(s *state.State, segments SegmentMapping) error {
	v, err := bind[T](SourcePath, "path", segments)
	if err != nil {
		return err
	}
	state.Put(s, v)
	return nil
}

// ExtendResponse implements ResponseExtender.
func (p *PathOf[T]) ExtendResponse(s *state.State, resp *response.Response) {
	extend[T](p.extender, s, resp)
}

// QueryOf binds the decoded query string into a struct of type T and puts
// the result into State. It behaves like PathOf for extenders.
//
//	type addQuery struct {
//		X int `query:"x,required"`
//		Y int `query:"y,required"`
//	}
type QueryOf[T any] struct {
	extender ResponseExtender
}

// Query returns a query-string extractor for T.
func Query[T any]() *QueryOf[T] {
	return &QueryOf[T]{}
}

// WithExtender returns a copy of the extractor that uses ext on failure.
func (q *QueryOf[T]) WithExtender(ext ResponseExtender) *QueryOf[T] {
	return &QueryOf[T]{extender: ext}
}

// ExtractQuery implements QueryStringExtractor.
func (q *QueryOf[T]) ExtractQuery(s *state.State, rawQuery string) error {
	v, err := bind[T](SourceQuery, "query", SplitQuery(rawQuery))
	if err != nil {
		return err
	}
	state.Put(s, v)
	return nil
}

// ExtendResponse implements ResponseExtender.
func (q *QueryOf[T]) ExtendResponse(s *state.State, resp *response.Response) {
	extend[T](q.extender, s, resp)
}

func bind[T any](source Source, tag string, values map[string][]string) (T, error) {
	var v T
	rv := reflect.ValueOf(&v).Elem()
	if rv.Kind() != reflect.Struct {
		return v, &Error{Source: source, Type: rv.Type(), Err: ErrInvalidTarget}
	}
	if err := bindStruct(rv, tag, values); err != nil {
		return v, &Error{Source: source, Type: rv.Type(), Err: err}
	}
	return v, nil
}

func extend[T any](ext ResponseExtender, s *state.State, resp *response.Response) {
	if ext != nil {
		ext.ExtendResponse(s, resp)
		return
	}
	var v T
	if e, ok := any(v).(ResponseExtender); ok {
		e.ExtendResponse(s, resp)
		return
	}
	if e, ok := any(&v).(ResponseExtender); ok {
		e.ExtendResponse(s, resp)
	}
}
