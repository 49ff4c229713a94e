package internal

import "log/slog"

// Option configures the kernel.
type Option func(*Kernel)

// WithGlobalMiddleware sets the ids of middleware run for every request,
// before dispatch, in the order given.
//
// Example:
//
//	webkernel.New(table, registry,
//	    webkernel.WithGlobalMiddleware("request_id", "security_headers", "trailing_slash"),
//	)
func WithGlobalMiddleware(ids ...string) Option {
	return func(k *Kernel) {
		k.globalIDs = append(k.globalIDs, ids...)
	}
}

// WithLogger sets the kernel logger.
// If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(k *Kernel) {
		if l != nil {
			k.logger = l
		}
	}
}

// WithErrorInterceptor sets the interceptor that converts errors into
// responses. Defaults to an interceptor without a renderer, which
// produces inline error pages.
func WithErrorInterceptor(i *ErrorInterceptor) Option {
	return func(k *Kernel) {
		if i != nil {
			k.interceptor = i
		}
	}
}

// WithStackSize sets the maximum size in bytes of stack traces captured
// from recovered panics. Defaults to 4096.
func WithStackSize(n int) Option {
	return func(k *Kernel) {
		if n > 0 {
			k.stackSize = n
		}
	}
}
