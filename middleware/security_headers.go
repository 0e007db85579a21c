package middleware

import (
	"maps"
	"net/http"

	"github.com/dmitrymomot/routekit/core/pipeline"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// SecurityHeadersConfig lists the headers set on every response.
// Empty fields are left out.
type SecurityHeadersConfig struct {
	Skip Skipper

	ContentTypeOptions      string
	FrameOptions            string
	StrictTransportSecurity string
	ContentSecurityPolicy   string
	ReferrerPolicy          string
	CrossOriginOpenerPolicy string
	CustomHeaders           map[string]string
}

// BalancedSecurity suits most server-rendered applications.
var BalancedSecurity = SecurityHeadersConfig{
	ContentTypeOptions:      "nosniff",
	FrameOptions:            "SAMEORIGIN",
	StrictTransportSecurity: "max-age=31536000; includeSubDomains",
	ContentSecurityPolicy:   "default-src 'self'",
	ReferrerPolicy:          "strict-origin-when-cross-origin",
	CrossOriginOpenerPolicy: "same-origin",
}

// SecurityHeaders applies BalancedSecurity.
func SecurityHeaders() pipeline.NewMiddleware {
	return SecurityHeadersWithConfig(BalancedSecurity)
}

// SecurityHeadersWithConfig sets cfg headers on responses, including
// responses produced by later middleware short-circuits.
func SecurityHeadersWithConfig(cfg SecurityHeadersConfig) pipeline.NewMiddleware {
	headers := make(map[string]string)
	for name, value := range map[string]string{
		"X-Content-Type-Options":     cfg.ContentTypeOptions,
		"X-Frame-Options":            cfg.FrameOptions,
		"Strict-Transport-Security":  cfg.StrictTransportSecurity,
		"Content-Security-Policy":    cfg.ContentSecurityPolicy,
		"Referrer-Policy":            cfg.ReferrerPolicy,
		"Cross-Origin-Opener-Policy": cfg.CrossOriginOpenerPolicy,
	} {
		if value != "" {
			headers[name] = value
		}
	}
	maps.Copy(headers, cfg.CustomHeaders)

	return pipeline.MiddlewareFunc(func(s *state.State, r *http.Request, next pipeline.Next) (*response.Response, error) {
		if cfg.Skip.skip(s, r) {
			return next(s, r)
		}

		resp, err := next(s, r)
		if resp != nil {
			for name, value := range headers {
				resp.WithHeader(name, value)
			}
		}
		return resp, err
	})
}
