package middleware

import (
	"net/http"

	"github.com/dmitrymomot/routekit/core/pipeline"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
	"github.com/dmitrymomot/routekit/pkg/clientip"
)

// ClientAddr is the client address stored in State by ClientIP.
type ClientAddr string

// ClientIPConfig configures the client IP middleware.
type ClientIPConfig struct {
	Skip Skipper
	// HeaderName is the response header carrying the address (default: "X-Client-IP").
	HeaderName string
	// StoreInHeader echoes the address on the response.
	StoreInHeader bool
	// Validate may reject the address; a non-nil error short-circuits with 403.
	Validate func(s *state.State, ip string) error
}

// ClientIP stores the client address in State.
func ClientIP() pipeline.NewMiddleware {
	return ClientIPWithConfig(ClientIPConfig{})
}

// ClientIPWithConfig resolves the client address with pkg/clientip and
// stores it as ClientAddr.
func ClientIPWithConfig(cfg ClientIPConfig) pipeline.NewMiddleware {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Client-IP"
	}

	return pipeline.MiddlewareFunc(func(s *state.State, r *http.Request, next pipeline.Next) (*response.Response, error) {
		if cfg.Skip.skip(s, r) {
			return next(s, r)
		}

		ip := clientip.GetIP(r)
		state.Put(s, ClientAddr(ip))

		if cfg.Validate != nil {
			if err := cfg.Validate(s, ip); err != nil {
				return nil, response.ErrForbidden.WithError(err)
			}
		}

		resp, err := next(s, r)
		if resp != nil && cfg.StoreInHeader {
			resp.WithHeader(cfg.HeaderName, ip)
		}
		return resp, err
	})
}

// GetClientIP returns the address stored by ClientIP.
func GetClientIP(s *state.State) (string, bool) {
	ip, ok := state.TryBorrow[ClientAddr](s)
	return string(ip), ok
}
