// Package internal provides the core types and implementation of webkernel.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/webkernel" instead, which re-exports the public API.
//
// # Request Flow
//
//	Kernel.ServeHTTP
//	  -> global middleware (composed once at boot)
//	  -> dispatch (RouteTable)
//	  -> route middleware
//	  -> controller action
//
// The Response travels back out through both chains, so every middleware can
// post-process it. Any error returned, or panic raised, anywhere in the flow is
// converted into an error page exactly once, by the ErrorInterceptor, at the
// ServeHTTP boundary.
//
// # Core Types
//
//   - RouteTable: ordered, immutable routes compiled with chi patterns
//   - Registry: maps route table ids to Middleware and Action values
//   - Handler / Middleware: the request pipeline contract
//   - Response: immutable response value with copy-on-write modifiers
//   - Kernel: front controller implementing http.Handler
//   - ErrorInterceptor: classifies, logs and renders failures
//   - Runtime: HTTP server with graceful shutdown
//
// # Routing
//
// Routes are tried in registration order and the first route matching both
// path and method wins. A path matched only under other methods yields 405
// with an Allow header; no match at all yields 404.
//
//	table, err := internal.NewRouteTable(
//	    internal.Route{Method: "GET", Pattern: "/", Handler: "home.index"},
//	    internal.Route{Method: "GET", Pattern: "/user/{id:\\d+}", Handler: "home.user_detail"},
//	    internal.Route{Method: "GET", Pattern: "/admin", Handler: "home.admin", Middleware: []string{"auth"}},
//	)
//
// # Errors
//
// Actions report failures by returning errors. HTTPError carries a status code
// and a user-facing message. Messages of 4xx errors are shown to users; 5xx
// errors, panics and fatal errors show a generic message unless the
// interceptor runs in debug mode.
package internal
