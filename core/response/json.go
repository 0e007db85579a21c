package response

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// JSON creates an application/json response with 200 OK status.
func JSON(v any) (*Response, error) {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus creates an application/json response with custom status code.
// A zero status becomes 204 for nil data and 200 otherwise.
func JSONWithStatus(v any, status int) (*Response, error) {
	if status == 0 {
		if v == nil {
			status = http.StatusNoContent
		} else {
			status = http.StatusOK
		}
	}

	resp := New(status)
	resp.Header.Set("Content-Type", "application/json; charset=utf-8")

	// No body for 204 or 304
	if !bodyAllowed(status) {
		return resp, nil
	}

	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json response: %w", err)
	}
	resp.Body = append(body, '\n')
	return resp, nil
}
