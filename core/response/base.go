package response

import (
	"net/http"
	"strconv"
)

// Response is the value produced by handlers and middleware.
// It stays mutable until the router writes it, so finalizers and
// middleware can adjust status, headers and body after the handler ran.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// New creates an empty response with the given status code.
func New(status int) *Response {
	if status == 0 {
		status = http.StatusOK
	}
	return &Response{
		Status: status,
		Header: make(http.Header),
	}
}

// Empty creates a response without a body.
func Empty(status int) *Response {
	return New(status)
}

// String creates a text/plain response with 200 OK status.
func String(content string) *Response {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus creates a text/plain response with custom status code.
func StringWithStatus(content string, status int) *Response {
	return Bytes([]byte(content), "text/plain; charset=utf-8", status)
}

// HTML creates a text/html response with 200 OK status.
// The content is written as is; no templating is involved.
func HTML(content string) *Response {
	return Bytes([]byte(content), "text/html; charset=utf-8", http.StatusOK)
}

// Bytes creates a response with custom content type and status code.
func Bytes(content []byte, contentType string, status int) *Response {
	resp := New(status)
	if contentType != "" {
		resp.Header.Set("Content-Type", contentType)
	}
	resp.Body = content
	return resp
}

// SetBody replaces the body and content type of the response.
func (r *Response) SetBody(content []byte, contentType string) *Response {
	r.Body = content
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

// WithHeader sets a header value and returns the response for chaining.
func (r *Response) WithHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set(key, value)
	return r
}

// Write renders the response to w. HEAD requests and bodiless statuses
// get headers only.
func (r *Response) Write(w http.ResponseWriter, req *http.Request) error {
	for key, values := range r.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}

	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}

	if !bodyAllowed(status) {
		w.WriteHeader(status)
		return nil
	}

	w.Header().Set("Content-Length", strconv.Itoa(len(r.Body)))
	w.WriteHeader(status)

	if req != nil && req.Method == http.MethodHead {
		return nil
	}
	if len(r.Body) == 0 {
		return nil
	}
	_, err := w.Write(r.Body)
	return err
}

func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status < 200:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}
