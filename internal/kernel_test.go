package internal_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webkernel/internal"
	"github.com/dmitrymomot/webkernel/pkg/logger"
)

func headerMiddleware(name, value string) internal.Middleware {
	return internal.MiddlewareFunc(func(r *http.Request, next internal.Handler) (internal.Response, error) {
		resp, err := next.Handle(r)
		if err != nil {
			return resp, err
		}
		return resp.WithAddedHeader(name, value), nil
	})
}

func newTestKernel(t *testing.T, debug bool, opts ...internal.Option) *internal.Kernel {
	t.Helper()

	reg := internal.NewRegistry()
	require.NoError(t, reg.RegisterMiddleware("g1", headerMiddleware("X-Trace", "g1")))
	require.NoError(t, reg.RegisterMiddleware("g2", headerMiddleware("X-Trace", "g2")))
	require.NoError(t, reg.RegisterMiddleware("r1", headerMiddleware("X-Trace", "r1")))
	require.NoError(t, reg.RegisterMiddleware("vars", internal.MiddlewareFunc(
		func(r *http.Request, next internal.Handler) (internal.Response, error) {
			resp, err := next.Handle(r)
			return resp.WithHeader("X-Name", internal.PathVars(r)["name"]), err
		})))
	require.NoError(t, reg.RegisterMiddleware("deny", internal.MiddlewareFunc(
		func(*http.Request, internal.Handler) (internal.Response, error) {
			return internal.Text(http.StatusUnauthorized, "denied"), nil
		})))

	require.NoError(t, reg.RegisterController("test", stubController{
		"index": okAction("<p>home</p>"),
		"hello": func(_ context.Context, vars internal.Vars) (string, error) {
			return "Hello, " + vars.Get("name", "Guest"), nil
		},
		"missing": func(context.Context, internal.Vars) (string, error) {
			return "", internal.ErrNotFound("User with ID 9 not found.")
		},
		"panic": func(context.Context, internal.Vars) (string, error) {
			var m map[string]int
			m["x"] = 1
			return "", nil
		},
		"fail": func(context.Context, internal.Vars) (string, error) {
			return "", errors.New("db password is hunter2")
		},
	}))

	table := mustTable(t,
		internal.Route{Method: "GET", Pattern: "/", Handler: "test.index"},
		internal.Route{Method: "POST", Pattern: "/", Handler: "test.index"},
		internal.Route{Method: "GET", Pattern: "/hello/{name}", Handler: "test.hello", Middleware: []string{"r1", "vars"}},
		internal.Route{Method: "GET", Pattern: `/user/{id:\d+}`, Handler: "test.missing"},
		internal.Route{Method: "GET", Pattern: "/panic", Handler: "test.panic"},
		internal.Route{Method: "GET", Pattern: "/fail", Handler: "test.fail"},
		internal.Route{Method: "GET", Pattern: "/admin", Handler: "test.index", Middleware: []string{"deny"}},
	)

	interceptor := internal.NewErrorInterceptor(&fakeRenderer{}, internal.WithDebug(debug))
	opts = append([]internal.Option{
		internal.WithGlobalMiddleware("g1", "g2"),
		internal.WithErrorInterceptor(interceptor),
	}, opts...)

	k, err := internal.New(table, reg, opts...)
	require.NoError(t, err)
	return k
}

func serve(k http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	k.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestKernel_Found(t *testing.T) {
	t.Parallel()
	k := newTestKernel(t, false)

	rec := serve(k, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "<p>home</p>", rec.Body.String())
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestKernel_MiddlewareOrder(t *testing.T) {
	t.Parallel()
	k := newTestKernel(t, false)

	rec := serve(k, http.MethodGet, "/hello/world")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Hello, world", rec.Body.String())
	// Headers are added on the way out: innermost first.
	require.Equal(t, []string{"r1", "g2", "g1"}, rec.Header().Values("X-Trace"))
	require.Equal(t, "world", rec.Header().Get("X-Name"))
}

func TestKernel_RouteMiddlewareShortCircuit(t *testing.T) {
	t.Parallel()
	k := newTestKernel(t, false)

	rec := serve(k, http.MethodGet, "/admin")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "denied", rec.Body.String())
	require.Equal(t, []string{"g2", "g1"}, rec.Header().Values("X-Trace"))
}

func TestKernel_NotFound(t *testing.T) {
	t.Parallel()
	k := newTestKernel(t, false)

	rec := serve(k, http.MethodGet, "/nowhere")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "public=Page Not Found")

	_, err := k.Handle(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.True(t, internal.IsNotFound(err))
}

func TestKernel_ActionNotFound(t *testing.T) {
	t.Parallel()
	k := newTestKernel(t, false)

	rec := serve(k, http.MethodGet, "/user/9")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "User with ID 9 not found.")
}

func TestKernel_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	k := newTestKernel(t, false)

	rec := serve(k, http.MethodDelete, "/")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "GET, POST", rec.Header().Get("Allow"))
	require.Contains(t, rec.Body.String(), "status=405")
	// The 405 response passes back through the global chain.
	require.Equal(t, []string{"g2", "g1"}, rec.Header().Values("X-Trace"))
}

func TestKernel_Panic(t *testing.T) {
	t.Parallel()

	t.Run("debug off", func(t *testing.T) {
		t.Parallel()
		k := newTestKernel(t, false)

		rec := serve(k, http.MethodGet, "/panic")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.NotContains(t, rec.Body.String(), "nil map")

		// The kernel keeps serving.
		require.Equal(t, http.StatusOK, serve(k, http.MethodGet, "/").Code)
	})

	t.Run("debug on", func(t *testing.T) {
		t.Parallel()
		k := newTestKernel(t, true)

		rec := serve(k, http.MethodGet, "/panic")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "nil map")
		require.Contains(t, rec.Body.String(), "kernel_test.go")
	})
}

func TestKernel_ErrorDoesNotLeak(t *testing.T) {
	t.Parallel()

	rec := serve(newTestKernel(t, false), http.MethodGet, "/fail")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "hunter2")

	rec = serve(newTestKernel(t, true), http.MethodGet, "/fail")
	require.Contains(t, rec.Body.String(), "hunter2")
}

func TestKernel_BootValidation(t *testing.T) {
	t.Parallel()

	reg := internal.NewRegistry()
	require.NoError(t, reg.RegisterAction("home.index", okAction("")))

	t.Run("unknown route middleware", func(t *testing.T) {
		t.Parallel()
		table := mustTable(t, internal.Route{Method: "GET", Pattern: "/", Handler: "home.index", Middleware: []string{"auth"}})
		_, err := internal.New(table, reg)
		var cfgErr *internal.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		require.Equal(t, "auth", cfgErr.ID)
	})

	t.Run("unknown global middleware", func(t *testing.T) {
		t.Parallel()
		table := mustTable(t, internal.Route{Method: "GET", Pattern: "/", Handler: "home.index"})
		_, err := internal.New(table, reg, internal.WithGlobalMiddleware("request_id"))
		var cfgErr *internal.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		require.Equal(t, "request_id", cfgErr.ID)
	})

	t.Run("unknown handler", func(t *testing.T) {
		t.Parallel()
		table := mustTable(t, internal.Route{Method: "GET", Pattern: "/", Handler: "home.missing"})
		_, err := internal.New(table, reg)
		var cfgErr *internal.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		require.Equal(t, "handler", cfgErr.Kind)
	})

	t.Run("nil table", func(t *testing.T) {
		t.Parallel()
		_, err := internal.New(nil, reg)
		require.ErrorIs(t, err, internal.ErrNilRouteTable)
	})
}

func TestKernel_Concurrent(t *testing.T) {
	t.Parallel()
	k := newTestKernel(t, false)

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("user%d", i)
			rec := serve(k, http.MethodGet, "/hello/"+name)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, "Hello, "+name, rec.Body.String())
			require.Equal(t, name, rec.Header().Get("X-Name"))
			require.Equal(t, []string{"r1", "g2", "g1"}, rec.Header().Values("X-Trace"))
		}(i)
	}
	wg.Wait()
}

func TestKernel_HeadFallsBackToGet(t *testing.T) {
	t.Parallel()
	k := newTestKernel(t, false)

	rec := serve(k, http.MethodHead, "/hello/world")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "world", rec.Header().Get("X-Name"))

	rec = serve(k, http.MethodHead, "/nowhere")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

type traceKey struct{}

func TestKernel_ErrorLogUsesDownstreamContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(logger.NewLogHandlerDecorator(slog.NewJSONHandler(&buf, nil),
		logger.StringExtractor("request_id", traceKey{})))

	reg := internal.NewRegistry()
	require.NoError(t, reg.RegisterMiddleware("trace", internal.MiddlewareFunc(
		func(r *http.Request, next internal.Handler) (internal.Response, error) {
			return next.Handle(r.WithContext(context.WithValue(r.Context(), traceKey{}, "abc-123")))
		})))
	require.NoError(t, reg.RegisterController("test", stubController{"index": okAction("ok")}))

	k, err := internal.New(mustTable(t, internal.Route{Method: "GET", Pattern: "/", Handler: "test.index"}), reg,
		internal.WithGlobalMiddleware("trace"),
		internal.WithErrorInterceptor(internal.NewErrorInterceptor(nil, internal.WithInterceptorLogger(log))),
	)
	require.NoError(t, err)

	rec := serve(k, http.MethodGet, "/nonexistent")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, buf.String(), `"msg":"client error"`)
	require.Contains(t, buf.String(), `"request_id":"abc-123"`)
}
