package middlewares

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/webkernel/internal"
)

// TrailingSlash returns middleware that redirects paths ending in "/" to
// their canonical form with a 301. The query string is preserved; the root
// path "/" is left alone. The target always starts with a single slash, so
// it never leaves the current host.
//
//	/about/         -> /about
//	/hello/x/?a=1   -> /hello/x?a=1
//	///             -> /
//	//evil.example/ -> /evil.example
func TrailingSlash() internal.Middleware {
	return internal.MiddlewareFunc(func(r *http.Request, next internal.Handler) (internal.Response, error) {
		path := r.URL.Path
		if len(path) <= 1 || !strings.HasSuffix(path, "/") {
			return next.Handle(r)
		}

		location := "/" + strings.Trim(path, "/")
		if r.URL.RawQuery != "" {
			location += "?" + r.URL.RawQuery
		}
		return internal.Redirect(http.StatusMovedPermanently, location), nil
	})
}
