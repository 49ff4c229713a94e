package webkernel

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/webkernel/internal"
	"github.com/dmitrymomot/webkernel/pkg/logger"
)

// Type aliases - public API
type (
	// Kernel is the front controller. It implements http.Handler.
	Kernel = internal.Kernel

	// Option configures the kernel.
	Option = internal.Option

	// Handler produces a Response for a request.
	Handler = internal.Handler

	// HandlerFunc adapts a function to the Handler interface.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps the rest of the chain.
	Middleware = internal.Middleware

	// MiddlewareFunc adapts a function to the Middleware interface.
	MiddlewareFunc = internal.MiddlewareFunc

	// Action is a controller action returning the page body.
	Action = internal.Action

	// Controller exposes named actions.
	Controller = internal.Controller

	// Vars holds matched path variables.
	Vars = internal.Vars

	// Response is an immutable HTTP response value.
	Response = internal.Response

	// Route declares a single endpoint.
	Route = internal.Route

	// RouteTable is an ordered, immutable list of routes.
	RouteTable = internal.RouteTable

	// RouteConfig is the on-disk shape of a route file.
	RouteConfig = internal.RouteConfig

	// MatchResult describes how a request maps onto the route table.
	MatchResult = internal.MatchResult

	// MatchKind is the outcome of dispatching a request.
	MatchKind = internal.MatchKind

	// Registry maps route table ids to middleware and actions.
	Registry = internal.Registry

	// Renderer renders named templates for error pages.
	Renderer = internal.Renderer

	// ErrorInterceptor converts errors into rendered error responses.
	ErrorInterceptor = internal.ErrorInterceptor

	// InterceptorOption configures an ErrorInterceptor.
	InterceptorOption = internal.InterceptorOption

	// HTTPError represents an HTTP error with all data needed for rendering.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// MethodNotAllowedError reports a path served under other methods only.
	MethodNotAllowedError = internal.MethodNotAllowedError

	// ConfigurationError reports an unresolvable route table id.
	ConfigurationError = internal.ConfigurationError

	// PanicError wraps a recovered panic.
	PanicError = internal.PanicError

	// FatalError marks an unrecoverable condition.
	FatalError = internal.FatalError

	// Runtime runs the HTTP server with graceful shutdown.
	Runtime = internal.Runtime

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor
)

// Match kinds.
const (
	Found            = internal.Found
	NotFound         = internal.NotFound
	MethodNotAllowed = internal.MethodNotAllowed
)

// Route table and registry errors.
var (
	ErrEmptyMethod    = internal.ErrEmptyMethod
	ErrInvalidPattern = internal.ErrInvalidPattern
	ErrDuplicateRoute = internal.ErrDuplicateRoute
	ErrEmptyHandler   = internal.ErrEmptyHandler
	ErrEmptyID        = internal.ErrEmptyID
	ErrDuplicateID    = internal.ErrDuplicateID
	ErrNilEntry       = internal.ErrNilEntry
	ErrNilRouteTable  = internal.ErrNilRouteTable
)

// Constructors

// New creates a kernel for table, resolving every id through registry.
// It fails if any referenced id is unknown.
//
// Example:
//
//	routes, err := webkernel.LoadRoutes(f)
//	table, err := routes.Table()
//	k, err := webkernel.New(table, registry,
//	    webkernel.WithGlobalMiddleware(routes.GlobalMiddleware...),
//	    webkernel.WithErrorInterceptor(interceptor),
//	)
func New(table *RouteTable, registry *Registry, opts ...Option) (*Kernel, error) {
	return internal.New(table, registry, opts...)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return internal.NewRegistry()
}

// NewRouteTable validates and compiles routes.
func NewRouteTable(routes ...Route) (*RouteTable, error) {
	return internal.NewRouteTable(routes...)
}

// LoadRoutes parses a YAML route file.
func LoadRoutes(r io.Reader) (*RouteConfig, error) {
	return internal.LoadRoutes(r)
}

// NewErrorInterceptor creates an error interceptor rendering through renderer.
func NewErrorInterceptor(renderer Renderer, opts ...InterceptorOption) *ErrorInterceptor {
	return internal.NewErrorInterceptor(renderer, opts...)
}

// Chain composes middleware around terminal, first middleware outermost.
func Chain(terminal Handler, mw ...Middleware) Handler {
	return internal.Chain(terminal, mw...)
}

// PathVars returns the path variables matched for r.
func PathVars(r *http.Request) Vars {
	return internal.PathVars(r)
}

// Responses

// NewResponse creates a response with the given status code and body.
func NewResponse(status int, body []byte) Response {
	return internal.NewResponse(status, body)
}

// HTML creates a text/html response.
func HTML(status int, body string) Response {
	return internal.HTML(status, body)
}

// Text creates a text/plain response.
func Text(status int, body string) Response {
	return internal.Text(status, body)
}

// Redirect creates a redirect response.
func Redirect(status int, location string) Response {
	return internal.Redirect(status, location)
}

// Kernel options

// WithGlobalMiddleware sets the ids of middleware run for every request.
func WithGlobalMiddleware(ids ...string) Option {
	return internal.WithGlobalMiddleware(ids...)
}

// WithLogger sets the kernel logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithErrorInterceptor sets the interceptor converting errors into responses.
func WithErrorInterceptor(i *ErrorInterceptor) Option {
	return internal.WithErrorInterceptor(i)
}

// WithStackSize sets the maximum captured panic stack size in bytes.
func WithStackSize(n int) Option {
	return internal.WithStackSize(n)
}

// Interceptor options

// WithDebug exposes real error messages and stack traces in error pages.
func WithDebug(debug bool) InterceptorOption {
	return internal.WithDebug(debug)
}

// WithInterceptorLogger sets the logger used for error reports.
func WithInterceptorLogger(l *slog.Logger) InterceptorOption {
	return internal.WithInterceptorLogger(l)
}

// WithErrorTemplate sets the template rendered for error pages.
func WithErrorTemplate(name string) InterceptorOption {
	return internal.WithErrorTemplate(name)
}

// WithFatalHandler sets the callback invoked after a fatal error page.
func WithFatalHandler(fn func(error)) InterceptorOption {
	return internal.WithFatalHandler(fn)
}

// Error constructors are function values so the location recorded in
// the error is the caller's line, not a wrapper's.
var (
	// NewHTTPError creates an HTTPError with the given status code and message.
	NewHTTPError = internal.NewHTTPError

	// ErrBadRequest creates a 400 error.
	ErrBadRequest = internal.ErrBadRequest

	// ErrUnauthorized creates a 401 error.
	ErrUnauthorized = internal.ErrUnauthorized

	// ErrForbidden creates a 403 error.
	ErrForbidden = internal.ErrForbidden

	// ErrNotFound creates a 404 error.
	ErrNotFound = internal.ErrNotFound

	// ErrInternal creates a 500 error.
	ErrInternal = internal.ErrInternal

	// ErrServiceUnavailable creates a 503 error.
	ErrServiceUnavailable = internal.ErrServiceUnavailable

	// Fatal marks err as unrecoverable.
	Fatal = internal.Fatal
)

// WithTitle sets the error title.
func WithTitle(title string) HTTPErrorOption {
	return internal.WithTitle(title)
}

// WithError sets the underlying error.
func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

// IsNotFound reports whether err signals a missing resource.
func IsNotFound(err error) bool {
	return internal.IsNotFound(err)
}

// IsHTTPError reports whether err contains an HTTPError.
func IsHTTPError(err error) bool {
	return internal.IsHTTPError(err)
}

// AsHTTPError extracts the HTTPError from err, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// Runtime

// NewRuntime creates a server runtime.
func NewRuntime(opts ...RunOption) *Runtime {
	return internal.NewRuntime(opts...)
}

// Run serves handler until SIGINT/SIGTERM or ctx cancellation.
func Run(ctx context.Context, handler http.Handler, opts ...RunOption) error {
	return internal.Run(ctx, handler, opts...)
}

// Address sets the HTTP server address.
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the runtime logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function run before serving.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function run during shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}
