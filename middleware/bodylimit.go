package middleware

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/dmitrymomot/routekit/core/pipeline"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

const (
	KB int64 = 1024
	MB       = 1024 * KB
)

// BodyLimitConfig configures the request body size limit.
type BodyLimitConfig struct {
	Skip Skipper
	// MaxSize is the default limit in bytes (default: 4 MB).
	MaxSize int64
	// ContentTypeLimit overrides MaxSize per media type.
	ContentTypeLimit map[string]int64
}

// BodyLimit limits request bodies to maxSize bytes.
func BodyLimit(maxSize int64) pipeline.NewMiddleware {
	return BodyLimitWithConfig(BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig answers 413 when Content-Length exceeds the limit and
// caps the body reader for requests that do not declare a length.
func BodyLimitWithConfig(cfg BodyLimitConfig) pipeline.NewMiddleware {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 4 * MB
	}

	return pipeline.MiddlewareFunc(func(s *state.State, r *http.Request, next pipeline.Next) (*response.Response, error) {
		if cfg.Skip.skip(s, r) {
			return next(s, r)
		}

		limit := cfg.MaxSize
		if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
			if l, ok := cfg.ContentTypeLimit[mediaType]; ok {
				limit = l
			}
		}

		if r.ContentLength > limit {
			return bodyTooLarge(r.ContentLength, limit), nil
		}
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(nil, r.Body, limit)
		}
		return next(s, r)
	})
}

func bodyTooLarge(size, limit int64) *response.Response {
	err := response.HTTPError{
		Status:  http.StatusRequestEntityTooLarge,
		Code:    "request_entity_too_large",
		Message: fmt.Sprintf("request body of %d bytes exceeds limit of %d bytes", size, limit),
	}
	return response.JSONError(err.WithError(ErrBodyTooLarge))
}
