package extractor

import (
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// PathExtractor turns the segments bound by the router into typed values
// stored in State.
type PathExtractor interface {
	ExtractPath(s *state.State, segments SegmentMapping) error
}

// QueryStringExtractor turns the raw query string into typed values stored
// in State. Use SplitQuery to decode it.
type QueryStringExtractor interface {
	ExtractQuery(s *state.State, rawQuery string) error
}

// ResponseExtender adjusts a response before it is written.
// Extractors implementing it are called when their extraction fails.
type ResponseExtender interface {
	ExtendResponse(s *state.State, resp *response.Response)
}

// ResponseExtenderFunc adapts a function to ResponseExtender.
type ResponseExtenderFunc func(s *state.State, resp *response.Response)

// ExtendResponse calls f(s, resp).
func (f ResponseExtenderFunc) ExtendResponse(s *state.State, resp *response.Response) {
	f(s, resp)
}

// PathExtractorFunc adapts a function to PathExtractor.
type PathExtractorFunc func(s *state.State, segments SegmentMapping) error

// ExtractPath calls f(s, segments).
func (f PathExtractorFunc) ExtractPath(s *state.State, segments SegmentMapping) error {
	return f(s, segments)
}

// QueryStringExtractorFunc adapts a function to QueryStringExtractor.
type QueryStringExtractorFunc func(s *state.State, rawQuery string) error

// ExtractQuery calls f(s, rawQuery).
func (f QueryStringExtractorFunc) ExtractQuery(s *state.State, rawQuery string) error {
	return f(s, rawQuery)
}

// NoopPath ignores the path. It is the default path extractor of a route.
type NoopPath struct{}

// ExtractPath does nothing.
func (NoopPath) ExtractPath(*state.State, SegmentMapping) error { return nil }

// NoopQuery ignores the query string. It is the default query extractor of a route.
type NoopQuery struct{}

// ExtractQuery does nothing.
func (NoopQuery) ExtractQuery(*state.State, string) error { return nil }
