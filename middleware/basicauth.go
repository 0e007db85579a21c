package middleware

import (
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/routekit/core/pipeline"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// AuthUser is the user name stored in State after successful basic auth.
type AuthUser string

// BasicAuthConfig configures HTTP basic authentication.
// Users maps user names to bcrypt hashes, e.g. BASIC_AUTH_USERS="admin:$2a$10$...".
type BasicAuthConfig struct {
	Realm string            `env:"BASIC_AUTH_REALM" envDefault:"Restricted"`
	Users map[string]string `env:"BASIC_AUTH_USERS"`
	Skip  Skipper           `env:"-"`
}

// BasicAuth rejects requests without valid credentials with 401 and a
// WWW-Authenticate challenge. An empty user list makes every
// instantiation fail.
func BasicAuth(cfg BasicAuthConfig) pipeline.NewMiddleware {
	if len(cfg.Users) == 0 {
		return pipeline.NewMiddlewareFunc(func() (pipeline.Middleware, error) {
			return nil, fmt.Errorf("%w: basic auth needs at least one user", ErrInvalidConfig)
		})
	}
	if cfg.Realm == "" {
		cfg.Realm = "Restricted"
	}

	// Unknown users are checked against this hash so they cost as much as known ones.
	decoy, err := bcrypt.GenerateFromPassword([]byte("routekit-decoy"), bcrypt.MinCost)
	if err != nil {
		return pipeline.NewMiddlewareFunc(func() (pipeline.Middleware, error) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		})
	}
	challenge := fmt.Sprintf("Basic realm=%q, charset=\"UTF-8\"", cfg.Realm)

	return pipeline.MiddlewareFunc(func(s *state.State, r *http.Request, next pipeline.Next) (*response.Response, error) {
		if cfg.Skip.skip(s, r) {
			return next(s, r)
		}

		user, pass, ok := r.BasicAuth()
		if !ok || !checkPassword(cfg.Users, decoy, user, pass) {
			resp := response.Error(response.ErrUnauthorized.WithError(ErrInvalidCredentials))
			resp.WithHeader("WWW-Authenticate", challenge)
			return resp, nil
		}

		state.Put(s, AuthUser(user))
		return next(s, r)
	})
}

// HashPassword returns a bcrypt hash suitable for BasicAuthConfig.Users.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// GetAuthUser returns the user authenticated by BasicAuth.
func GetAuthUser(s *state.State) (string, bool) {
	u, ok := state.TryBorrow[AuthUser](s)
	return string(u), ok
}

func checkPassword(users map[string]string, decoy []byte, user, pass string) bool {
	hash, known := users[user]
	if !known {
		_ = bcrypt.CompareHashAndPassword(decoy, []byte(pass))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass)) == nil
}
