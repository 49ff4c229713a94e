package middlewares

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/webkernel/internal"
	"github.com/dmitrymomot/webkernel/pkg/logger"
)

// requestIDKey is the context key for storing the request ID.
type requestIDKey struct{}

// DefaultRequestIDHeaders are the headers checked (in order) for an existing request ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	Generator      func() string // ID generator function
	ResponseHeader string        // Response header name
	Headers        []string      // Headers to check for existing ID (in order)
}

// RequestIDOption configures RequestIDConfig.
type RequestIDOption func(*RequestIDConfig)

// WithRequestIDHeaders sets the headers to check for existing request IDs.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Headers = headers
	}
}

// WithRequestIDGenerator sets a custom ID generator function.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		if gen != nil {
			cfg.Generator = gen
		}
	}
}

// WithRequestIDResponseHeader sets the response header name.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.ResponseHeader = header
	}
}

// RequestID returns middleware that assigns a unique ID to each request.
// An ID already in the context (seeded by RequestIDHandler) or an upstream ID
// from the configured headers is reused; otherwise a UUID is generated. The
// ID is stored in the request context passed downstream and set on the
// outgoing response. Errors pass through untouched.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := newRequestIDConfig(opts)

	return internal.MiddlewareFunc(func(r *http.Request, next internal.Handler) (internal.Response, error) {
		reqID := cfg.resolve(r)
		resp, err := next.Handle(r.WithContext(WithRequestID(r.Context(), reqID)))
		if err != nil {
			return resp, err
		}
		return resp.WithHeader(cfg.ResponseHeader, reqID), nil
	})
}

// RequestIDHandler is the transport-level counterpart of RequestID. It seeds
// the request context and the response header before the kernel runs, so
// error pages and the error log carry the same ID.
func RequestIDHandler(opts ...RequestIDOption) func(http.Handler) http.Handler {
	cfg := newRequestIDConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := cfg.resolve(r)
			if cfg.ResponseHeader != "" {
				w.Header().Set(cfg.ResponseHeader, reqID)
			}
			next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), reqID)))
		})
	}
}

func newRequestIDConfig(opts []RequestIDOption) *RequestIDConfig {
	cfg := &RequestIDConfig{
		Headers:        DefaultRequestIDHeaders,
		Generator:      uuid.NewString,
		ResponseHeader: "X-Request-ID",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// resolve returns the ID for r: context first, then headers in order
// (first match wins to preserve upstream tracing IDs), then a new one.
func (cfg *RequestIDConfig) resolve(r *http.Request) string {
	if id := GetRequestID(r.Context()); id != "" {
		return id
	}
	for _, header := range cfg.Headers {
		if v := r.Header.Get(header); v != "" {
			return v
		}
	}
	return cfg.Generator()
}

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID extracts the request ID from the context.
// Returns an empty string if no request ID is set.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// RequestIDExtractor returns a ContextExtractor for use with logger.New.
// Automatically adds "request_id" to all log entries.
func RequestIDExtractor() logger.ContextExtractor {
	return logger.StringExtractor("request_id", requestIDKey{})
}
