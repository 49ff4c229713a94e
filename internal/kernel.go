package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/dmitrymomot/webkernel/pkg/logger"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// ErrNilRouteTable is returned by New when no route table is given.
var ErrNilRouteTable = errors.New("kernel: nil route table")

// boundRoute is a route with its action and middleware resolved at boot.
type boundRoute struct {
	action     Action
	middleware []Middleware
}

// Kernel is the front controller: it runs the global middleware, dispatches
// the request to a route, runs the route middleware and the action, and
// converts any failure into an error page.
//
// A Kernel is immutable after New and safe for concurrent use.
type Kernel struct {
	table       *RouteTable
	interceptor *ErrorInterceptor
	logger      *slog.Logger
	global      Handler
	bound       map[string]boundRoute
	globalIDs   []string
	stackSize   int
}

// New creates a kernel for table, resolving every id through registry.
// It fails if any global middleware, route handler or route middleware id
// is unknown.
func New(table *RouteTable, registry *Registry, opts ...Option) (*Kernel, error) {
	if table == nil {
		return nil, ErrNilRouteTable
	}
	if registry == nil {
		registry = NewRegistry()
	}

	k := &Kernel{
		table:     table,
		logger:    logger.NewNope(),
		stackSize: DefaultStackSize,
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.interceptor == nil {
		k.interceptor = NewErrorInterceptor(nil, WithInterceptorLogger(k.logger))
	}

	if err := registry.Validate(table, k.globalIDs); err != nil {
		return nil, err
	}

	global, err := registry.Chain(k.globalIDs, HandlerFunc(k.dispatch))
	if err != nil {
		return nil, err
	}
	k.global = global

	k.bound = make(map[string]boundRoute, table.Len())
	for _, route := range table.routes {
		action, err := registry.Action(route.Handler)
		if err != nil {
			return nil, err
		}
		mws, err := registry.Resolve(route.Middleware)
		if err != nil {
			return nil, err
		}
		k.bound[route.String()] = boundRoute{action: action, middleware: mws}
	}

	k.logger.Debug("kernel ready",
		slog.Int("routes", table.Len()),
		slog.Any("global_middleware", k.globalIDs),
	)
	return k, nil
}

// Handle runs the request through the global middleware and the matched
// route. Errors are returned as-is; ServeHTTP converts them.
func (k *Kernel) Handle(r *http.Request) (Response, error) {
	return k.global.Handle(r)
}

// dispatch is the terminal of the global chain.
func (k *Kernel) dispatch(r *http.Request) (Response, error) {
	if d, ok := r.Context().Value(downstreamKey{}).(*downstream); ok {
		d.r = r
	}
	match := k.table.Dispatch(r.Method, r.URL.Path)

	switch match.Kind {
	case Found:
		bound := k.bound[match.Route.String()]
		r = r.WithContext(WithPathVars(r.Context(), match.Vars))
		terminal := controllerHandler{action: bound.action, vars: match.Vars}
		return Chain(terminal, bound.middleware...).Handle(r)

	case MethodNotAllowed:
		return k.interceptor.Intercept(r, &MethodNotAllowedError{
			Method:  r.Method,
			Path:    r.URL.Path,
			Allowed: match.Allowed,
		}), nil

	default:
		return Response{}, ErrNotFound("Page Not Found")
	}
}

// downstreamKey carries the request as seen by the route phase, so errors
// are reported with the context built by the global middleware.
type downstreamKey struct{}

type downstream struct {
	r *http.Request
}

// ServeHTTP implements http.Handler.
// Panics are recovered into a PanicError; every error is rendered by the
// error interceptor with the innermost request the kernel saw.
func (k *Kernel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d := &downstream{r: r}
	resp, err := k.safeHandle(r.WithContext(context.WithValue(r.Context(), downstreamKey{}, d)))
	if err != nil {
		resp = k.interceptor.Intercept(d.r, err)
	}
	if err := resp.WriteTo(w); err != nil {
		k.logger.DebugContext(r.Context(), "failed to write response", slog.String("error", err.Error()))
	}
}

func (k *Kernel) safeHandle(r *http.Request) (resp Response, err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if rec == http.ErrAbortHandler {
			panic(rec)
		}
		stack := make([]byte, k.stackSize)
		stack = stack[:runtime.Stack(stack, false)]
		err = &PanicError{
			Value:    rec,
			Stack:    string(stack),
			Location: panicLocation(3),
		}
	}()
	return k.Handle(r)
}

// controllerHandler invokes an action and wraps its body in a 200 response.
type controllerHandler struct {
	action Action
	vars   Vars
}

func (h controllerHandler) Handle(r *http.Request) (Response, error) {
	body, err := h.action(r.Context(), h.vars)
	if err != nil {
		return Response{}, err
	}
	return HTML(http.StatusOK, body), nil
}
