// Package middlewares provides HTTP middleware for the webkernel pipeline.
//
// Every middleware is an internal.Middleware and is registered in the kernel
// registry under an id referenced by the route table:
//
//	registry.RegisterMiddleware("request_id", middlewares.RequestID())
//	registry.RegisterMiddleware("security_headers", middlewares.SecurityHeaders())
//	registry.RegisterMiddleware("trailing_slash", middlewares.TrailingSlash())
//	registry.RegisterMiddleware("auth", middlewares.Auth(middlewares.WithAuthToken(cfg.AuthToken)))
//	registry.RegisterMiddleware("logging", middlewares.Logging(log))
//
// # Request ID
//
// RequestID reuses X-Request-ID or X-Correlation-ID from the request, or
// generates a UUID. Use RequestIDExtractor with the logger to add request_id
// to all log entries written with the request context.
//
// Errors skip the post-processing of the global chain, so error pages never
// get the headers added on the way out. Wrap the kernel with the transport
// handlers to cover them:
//
//	h := middlewares.RequestIDHandler()(middlewares.SecurityHeadersHandler()(kernel))
//
// # Auth
//
// Auth compares the X-Auth-Token header with the configured token in constant
// time and answers 401 without calling the rest of the chain on mismatch.
//
// # Trailing Slash
//
// TrailingSlash redirects /about/ to /about with a 301, keeping the query.
//
// # Logging
//
// Logging writes "incoming request" and "outgoing response" entries, or
// "request failed" when the chain returns an error.
//
// # Security Headers
//
// SecurityHeaders adds nosniff, frame denial and a referrer policy to
// successful responses.
package middlewares
