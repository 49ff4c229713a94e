package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/webkernel/internal"
	"github.com/dmitrymomot/webkernel/pkg/logger"
)

// Logging returns middleware that logs each request on the way in and its
// response on the way out. Errors are logged and returned unmodified.
// If l is nil, logging is disabled.
func Logging(l *slog.Logger) internal.Middleware {
	if l == nil {
		l = logger.NewNope()
	}

	return internal.MiddlewareFunc(func(r *http.Request, next internal.Handler) (internal.Response, error) {
		ctx := r.Context()
		start := time.Now()

		l.InfoContext(ctx, "incoming request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
		)

		resp, err := next.Handle(r)
		if err != nil {
			l.ErrorContext(ctx, "request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Duration("duration", time.Since(start)),
				slog.String("error", err.Error()),
			)
			return resp, err
		}

		l.InfoContext(ctx, "outgoing response",
			slog.Int("status", resp.Status()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)),
		)
		return resp, nil
	})
}
