package response

import (
	"fmt"
	"net/http"
	"time"
)

// WithHeaders sets the given headers on resp.
func WithHeaders(resp *Response, headers map[string]string) *Response {
	if resp == nil {
		return nil
	}
	for k, v := range headers {
		resp.WithHeader(k, v)
	}
	return resp
}

// WithCache sets cache control headers on resp.
// If maxAge > 0, sets Cache-Control and Expires headers for caching.
// If maxAge <= 0, sets headers to prevent caching.
func WithCache(resp *Response, maxAge time.Duration) *Response {
	if resp == nil {
		return nil
	}
	if maxAge > 0 {
		seconds := int(maxAge.Seconds())
		resp.WithHeader("Cache-Control", fmt.Sprintf("public, max-age=%d", seconds))
		resp.WithHeader("Expires", time.Now().Add(maxAge).Format(http.TimeFormat))
		return resp
	}
	resp.WithHeader("Cache-Control", "no-cache, no-store, must-revalidate")
	resp.WithHeader("Pragma", "no-cache")
	resp.WithHeader("Expires", "0")
	return resp
}

// Redirect creates a redirect response to url with the given 3xx status.
// A zero status becomes 302 Found.
func Redirect(url string, status int) *Response {
	if status == 0 {
		status = http.StatusFound
	}
	return New(status).WithHeader("Location", url)
}
