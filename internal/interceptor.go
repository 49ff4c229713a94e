package internal

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/webkernel/pkg/logger"
)

const (
	defaultErrorTemplate = "error"

	msgUnexpected = "An unexpected error occurred."
	msgCritical   = "A critical error occurred that prevented the application from running."
)

// Renderer renders a named template into a string.
type Renderer interface {
	Render(ctx context.Context, name string, data map[string]any) (string, error)
}

// InterceptorOption configures an ErrorInterceptor.
type InterceptorOption func(*ErrorInterceptor)

// WithDebug exposes real error messages and stack traces in error pages.
// The flag is fixed for the lifetime of the interceptor.
func WithDebug(debug bool) InterceptorOption {
	return func(i *ErrorInterceptor) {
		i.debug = debug
	}
}

// WithInterceptorLogger sets the logger used for error reports.
func WithInterceptorLogger(l *slog.Logger) InterceptorOption {
	return func(i *ErrorInterceptor) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithErrorTemplate sets the template rendered for error pages.
// Defaults to "error".
func WithErrorTemplate(name string) InterceptorOption {
	return func(i *ErrorInterceptor) {
		if name != "" {
			i.template = name
		}
	}
}

// WithFatalHandler sets the callback invoked after a fatal error page is
// produced. The server runtime uses it to stop the process.
func WithFatalHandler(fn func(error)) InterceptorOption {
	return func(i *ErrorInterceptor) {
		i.onFatal = fn
	}
}

// ErrorInterceptor converts errors into rendered error responses.
// It is the only place in the request flow where errors become responses.
type ErrorInterceptor struct {
	renderer Renderer
	logger   *slog.Logger
	onFatal  func(error)
	template string
	debug    bool
}

// NewErrorInterceptor creates an interceptor rendering through renderer.
// A nil renderer always produces the inline fallback page.
func NewErrorInterceptor(renderer Renderer, opts ...InterceptorOption) *ErrorInterceptor {
	i := &ErrorInterceptor{
		renderer: renderer,
		logger:   logger.NewNope(),
		template: defaultErrorTemplate,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Debug reports whether diagnostic detail is exposed.
func (i *ErrorInterceptor) Debug() bool {
	return i.debug
}

// failure is a classified error.
type failure struct {
	err      error
	public   string
	location string
	stack    string
	allowed  string
	status   int
	level    slog.Level
	fatal    bool
}

func classify(err error) failure {
	f := failure{err: err, status: http.StatusInternalServerError, public: msgUnexpected, level: slog.LevelError}

	var (
		panicErr *PanicError
		fatalErr *FatalError
		mnaErr   *MethodNotAllowedError
		coder    StatusCoder
	)

	switch {
	case errors.As(err, &fatalErr):
		f.public = msgCritical
		f.level = logger.LevelCritical
		f.location = fatalErr.Location
		f.fatal = true
	case errors.As(err, &panicErr):
		f.level = logger.LevelCritical
		f.location = panicErr.Location
		f.stack = panicErr.Stack
	case errors.As(err, &mnaErr):
		f.status = http.StatusMethodNotAllowed
		f.public = http.StatusText(http.StatusMethodNotAllowed)
		f.allowed = mnaErr.AllowHeader()
		f.level = slog.LevelWarn
	case IsNotFound(err):
		f.status = http.StatusNotFound
		f.public = http.StatusText(http.StatusNotFound)
		f.level = slog.LevelWarn
	case errors.As(err, &coder) && coder.StatusCode() >= 400 && coder.StatusCode() < 600:
		f.status = coder.StatusCode()
		if f.status < 500 {
			f.public = http.StatusText(f.status)
			f.level = slog.LevelWarn
		}
	}

	if httpErr := AsHTTPError(err); httpErr != nil {
		if f.location == "" {
			f.location = httpErr.Location
		}
		if f.status < 500 && httpErr.Message != "" {
			f.public = httpErr.Message
		}
	}
	return f
}

// Intercept logs err and converts it into an error page response.
// Fatal errors trigger the fatal handler once the page is produced.
func (i *ErrorInterceptor) Intercept(r *http.Request, err error) Response {
	f := classify(err)
	ctx := r.Context()

	attrs := []slog.Attr{
		slog.String("error", err.Error()),
		slog.String("location", f.location),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", f.status),
	}
	if f.stack != "" {
		attrs = append(attrs, slog.String("stack", f.stack))
	}
	i.logger.LogAttrs(ctx, f.level, logMessage(f), attrs...)

	resp := i.render(ctx, f)
	if f.allowed != "" {
		resp = resp.WithHeader("Allow", f.allowed)
	}

	if f.fatal && i.onFatal != nil {
		i.onFatal(err)
	}
	return resp
}

func logMessage(f failure) string {
	switch {
	case f.fatal:
		return "fatal error"
	case f.stack != "":
		return "uncaught panic"
	case f.status >= 500:
		return "request error"
	default:
		return "client error"
	}
}

func (i *ErrorInterceptor) render(ctx context.Context, f failure) Response {
	errorMessage, errorTrace := f.public, ""
	if i.debug {
		errorMessage, errorTrace = f.err.Error(), f.stack
	}

	if i.renderer != nil {
		body, err := i.renderer.Render(ctx, i.template, map[string]any{
			"statusCode":    f.status,
			"publicMessage": f.public,
			"errorMessage":  errorMessage,
			"errorTrace":    errorTrace,
			"debugMode":     i.debug,
		})
		if err == nil {
			return HTML(f.status, body)
		}
		i.logger.ErrorContext(ctx, "failed to render error page",
			slog.String("template", i.template),
			slog.String("error", err.Error()),
		)
	}

	return HTML(f.status, i.fallback(f))
}

// fallback renders a minimal page without the template engine.
func (i *ErrorInterceptor) fallback(f failure) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>Error %d</h1>", f.status)
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(f.public))
	if i.debug {
		fmt.Fprintf(&b, "<p>Detailed error: %s</p>", html.EscapeString(f.err.Error()))
		if f.stack != "" {
			fmt.Fprintf(&b, "<pre>%s</pre>", html.EscapeString(f.stack))
		}
	}
	return b.String()
}
