// Package web assembles the application's front controller.
package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/webkernel"
	"github.com/dmitrymomot/webkernel/app"
	"github.com/dmitrymomot/webkernel/app/handlers"
	"github.com/dmitrymomot/webkernel/app/notify"
	"github.com/dmitrymomot/webkernel/app/repository"
	"github.com/dmitrymomot/webkernel/middlewares"
	"github.com/dmitrymomot/webkernel/pkg/logger"
)

// ErrBuildKernel is returned when the kernel cannot be assembled.
var ErrBuildKernel = errors.New("web: failed to build kernel")

// Deps are the collaborators the kernel needs.
type Deps struct {
	Users    repository.UserStore
	Notifier notify.Notifier
	Views    handlers.Renderer
	Logger   *slog.Logger

	// OnFatal is called after a fatal error page has been produced.
	OnFatal func(error)

	AppName   string
	AuthToken string
	Debug     bool
}

// NewRegistry registers the application middleware and controllers.
func NewRegistry(d Deps) (*webkernel.Registry, error) {
	log := d.Logger
	if log == nil {
		log = logger.NewNope()
	}

	reg := webkernel.NewRegistry()
	errs := []error{
		reg.RegisterMiddleware("request_id", middlewares.RequestID()),
		reg.RegisterMiddleware("security_headers", middlewares.SecurityHeaders()),
		reg.RegisterMiddleware("trailing_slash", middlewares.TrailingSlash()),
		reg.RegisterMiddleware("auth", middlewares.Auth(middlewares.WithAuthToken(d.AuthToken))),
		reg.RegisterMiddleware("logging", middlewares.Logging(log)),
		reg.RegisterController("home", handlers.NewHome(d.Users, d.Notifier, d.Views,
			handlers.WithLogger(log),
			handlers.WithAppName(d.AppName),
		)),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return reg, nil
}

// NewKernel loads the embedded route table and builds the kernel.
func NewKernel(d Deps) (*webkernel.Kernel, error) {
	log := d.Logger
	if log == nil {
		log = logger.NewNope()
	}

	routes, err := webkernel.LoadRoutes(bytes.NewReader(app.Routes))
	if err != nil {
		return nil, errors.Join(ErrBuildKernel, err)
	}
	table, err := routes.Table()
	if err != nil {
		return nil, errors.Join(ErrBuildKernel, err)
	}

	reg, err := NewRegistry(d)
	if err != nil {
		return nil, errors.Join(ErrBuildKernel, err)
	}

	opts := []webkernel.InterceptorOption{
		webkernel.WithDebug(d.Debug),
		webkernel.WithInterceptorLogger(log),
	}
	if d.OnFatal != nil {
		opts = append(opts, webkernel.WithFatalHandler(d.OnFatal))
	}

	k, err := webkernel.New(table, reg,
		webkernel.WithGlobalMiddleware(routes.GlobalMiddleware...),
		webkernel.WithLogger(log),
		webkernel.WithErrorInterceptor(webkernel.NewErrorInterceptor(d.Views, opts...)),
	)
	if err != nil {
		return nil, errors.Join(ErrBuildKernel, err)
	}
	return k, nil
}

// NewHandler builds the kernel and wraps it with the transport-level request
// ID and security headers, so error pages carry them too.
func NewHandler(d Deps) (http.Handler, error) {
	k, err := NewKernel(d)
	if err != nil {
		return nil, err
	}
	return middlewares.RequestIDHandler()(middlewares.SecurityHeadersHandler()(k)), nil
}
