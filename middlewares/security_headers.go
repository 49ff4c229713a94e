package middlewares

import (
	"net/http"

	"github.com/dmitrymomot/webkernel/internal"
)

// DefaultSecurityHeaders are added to every successful response.
var DefaultSecurityHeaders = map[string]string{
	"X-Content-Type-Options": "nosniff",
	"X-Frame-Options":        "DENY",
	"Referrer-Policy":        "strict-origin-when-cross-origin",
}

// SecurityHeaders returns middleware that adds hardening headers to outgoing
// responses. Headers already set downstream are kept.
func SecurityHeaders() internal.Middleware {
	return internal.MiddlewareFunc(func(r *http.Request, next internal.Handler) (internal.Response, error) {
		resp, err := next.Handle(r)
		if err != nil {
			return resp, err
		}
		for name, value := range DefaultSecurityHeaders {
			if resp.Header(name) == "" {
				resp = resp.WithHeader(name, value)
			}
		}
		return resp, nil
	})
}

// SecurityHeadersHandler sets DefaultSecurityHeaders on every response at the
// transport boundary, including error pages rendered by the kernel.
// Headers set later by the response itself win.
func SecurityHeadersHandler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for name, value := range DefaultSecurityHeaders {
				h.Set(name, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
