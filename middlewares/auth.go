package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/dmitrymomot/webkernel/internal"
)

const (
	// DefaultAuthHeader is the request header carrying the access token.
	DefaultAuthHeader = "X-Auth-Token"

	// DefaultAuthToken is the token accepted when none is configured.
	DefaultAuthToken = "secret"

	authRealm   = `Bearer realm="Protected Area"`
	authMessage = "Unauthorized. Missing or invalid X-Auth-Token."
)

// AuthConfig configures the auth middleware.
type AuthConfig struct {
	Header string // Request header to read the token from
	Token  string // Expected token value
}

// AuthOption configures AuthConfig.
type AuthOption func(*AuthConfig)

// WithAuthToken sets the expected token. Empty values are ignored.
func WithAuthToken(token string) AuthOption {
	return func(cfg *AuthConfig) {
		if token != "" {
			cfg.Token = token
		}
	}
}

// WithAuthHeader sets the request header carrying the token.
func WithAuthHeader(header string) AuthOption {
	return func(cfg *AuthConfig) {
		if header != "" {
			cfg.Header = header
		}
	}
}

// Auth returns middleware that requires a shared token in the X-Auth-Token
// header. Requests without a matching token get a 401 text response and
// never reach the rest of the chain.
func Auth(opts ...AuthOption) internal.Middleware {
	cfg := &AuthConfig{
		Header: DefaultAuthHeader,
		Token:  DefaultAuthToken,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	want := []byte(cfg.Token)

	return internal.MiddlewareFunc(func(r *http.Request, next internal.Handler) (internal.Response, error) {
		got := r.Header.Get(cfg.Header)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			return internal.Text(http.StatusUnauthorized, authMessage).
				WithHeader("WWW-Authenticate", authRealm), nil
		}
		return next.Handle(r)
	})
}
