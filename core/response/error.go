package response

import (
	"encoding/json"
	"errors"
	"net/http"
)

// statusCode is an interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// FromError converts any error to an HTTPError.
// HTTPError values pass through unchanged, errors implementing
// StatusCode() int are mapped to the matching predefined error with the
// original message attached as cause, everything else becomes a 500.
func FromError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	base, ok := httpErrorsByStatus[status]
	if !ok {
		base = HTTPError{
			Status:  status,
			Code:    "error",
			Message: http.StatusText(status),
		}
	}

	return base.WithError(err)
}

// Error renders err as a text/plain response.
// Client errors (4xx) expose the error message, server errors only the
// status text.
func Error(err error) *Response {
	httpErr := FromError(err)
	message := httpErr.Message
	if httpErr.Status < http.StatusInternalServerError {
		if cause, ok := httpErr.Details["cause"].(string); ok && cause != "" {
			message = cause
		}
	}
	return StringWithStatus(message, httpErr.Status)
}

// JSONError renders err as an application/json response with the
// structured HTTPError body.
func JSONError(err error) *Response {
	httpErr := FromError(err)
	if httpErr.Status >= http.StatusInternalServerError {
		httpErr.Details = nil
	}

	body, mErr := json.Marshal(httpErr)
	if mErr != nil {
		return StringWithStatus(http.StatusText(httpErr.Status), httpErr.Status)
	}
	return Bytes(append(body, '\n'), "application/json; charset=utf-8", httpErr.Status)
}
