package extractor

import (
	"net/url"
	"strings"
)

// SegmentMapping holds the path segments bound to dynamic route segments.
// A name may carry several values when a route binds it more than once.
type SegmentMapping map[string][]string

// Add appends value to the values bound under name.
func (m SegmentMapping) Add(name, value string) {
	m[name] = append(m[name], value)
}

// Get returns the first value bound under name.
func (m SegmentMapping) Get(name string) (string, bool) {
	values := m[name]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Clone returns a deep copy of m.
func (m SegmentMapping) Clone() SegmentMapping {
	out := make(SegmentMapping, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// QueryMapping holds decoded query-string pairs, in arrival order per key.
type QueryMapping map[string][]string

// Get returns the first value for key.
func (m QueryMapping) Get(key string) (string, bool) {
	values := m[key]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// SplitQuery decodes a raw query string into a QueryMapping.
// Keys and values are form-url-decoded ('+' is a space). A pair without '='
// gets an empty value. Pairs that fail to decode are dropped.
func SplitQuery(raw string) QueryMapping {
	m := make(QueryMapping)
	for pair := range strings.SplitSeq(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")

		key, err := url.QueryUnescape(k)
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			continue
		}
		m[key] = append(m[key], value)
	}
	return m
}
