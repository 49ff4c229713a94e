package internal_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webkernel/internal"
	"github.com/dmitrymomot/webkernel/pkg/logger"
)

// fakeRenderer records the data it was given and renders it as plain text.
type fakeRenderer struct {
	mu   sync.Mutex
	data map[string]any
	name string
	err  error
}

func (f *fakeRenderer) Render(_ context.Context, name string, data map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name, f.data = name, data
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("status=%v public=%v message=%v trace=%v debug=%v",
		data["statusCode"], data["publicMessage"], data["errorMessage"], data["errorTrace"], data["debugMode"]), nil
}

func intercept(t *testing.T, i *internal.ErrorInterceptor, err error) internal.Response {
	t.Helper()
	return i.Intercept(httptest.NewRequest(http.MethodGet, "/page", nil), err)
}

func TestErrorInterceptor_Classification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		public string
	}{
		{"not found", internal.ErrNotFound("User with ID 7 not found."), 404, "User with ID 7 not found."},
		{"wrapped not found", fmt.Errorf("repo: %w", internal.ErrNotFound("gone")), 404, "gone"},
		{"coded 4xx", internal.ErrForbidden("nope"), 403, "nope"},
		{"coded 5xx hides message", internal.ErrServiceUnavailable("db password wrong"), 503, "An unexpected error occurred."},
		{"plain error", errors.New("secret detail"), 500, "An unexpected error occurred."},
		{"panic", &internal.PanicError{Value: "boom", Stack: "trace"}, 500, "An unexpected error occurred."},
		{"configuration", &internal.ConfigurationError{ID: "csrf", Kind: "middleware", Reason: "not registered"}, 500, "An unexpected error occurred."},
		{"fatal", internal.Fatal(errors.New("disk")), 500, "A critical error occurred that prevented the application from running."},
		{"method not allowed", &internal.MethodNotAllowedError{Allowed: []string{"GET"}}, 405, "Method Not Allowed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := &fakeRenderer{}
			resp := intercept(t, internal.NewErrorInterceptor(r), tc.err)

			require.Equal(t, tc.status, resp.Status())
			require.Equal(t, "text/html; charset=utf-8", resp.Header("Content-Type"))
			require.Equal(t, "error", r.name)
			require.Equal(t, tc.status, r.data["statusCode"])
			require.Equal(t, tc.public, r.data["publicMessage"])
			require.Equal(t, tc.public, r.data["errorMessage"])
			require.Equal(t, "", r.data["errorTrace"])
			require.Equal(t, false, r.data["debugMode"])
		})
	}
}

func TestErrorInterceptor_AllowHeader(t *testing.T) {
	t.Parallel()

	resp := intercept(t, internal.NewErrorInterceptor(&fakeRenderer{}),
		&internal.MethodNotAllowedError{Allowed: []string{"GET", "POST"}})
	require.Equal(t, "GET, POST", resp.Header("Allow"))
}

func TestErrorInterceptor_Debug(t *testing.T) {
	t.Parallel()

	t.Run("off hides raw message", func(t *testing.T) {
		t.Parallel()
		resp := intercept(t, internal.NewErrorInterceptor(&fakeRenderer{}), errors.New("db password wrong"))
		require.NotContains(t, string(resp.Body()), "db password wrong")
	})

	t.Run("on exposes message and trace", func(t *testing.T) {
		t.Parallel()
		r := &fakeRenderer{}
		i := internal.NewErrorInterceptor(r, internal.WithDebug(true))
		require.True(t, i.Debug())

		intercept(t, i, &internal.PanicError{Value: "integer divide by zero", Stack: "goroutine 1"})
		require.Equal(t, "integer divide by zero", r.data["errorMessage"])
		require.Equal(t, "goroutine 1", r.data["errorTrace"])
		require.Equal(t, true, r.data["debugMode"])
		require.Equal(t, "An unexpected error occurred.", r.data["publicMessage"])
	})
}

func TestErrorInterceptor_Fallback(t *testing.T) {
	t.Parallel()

	t.Run("render failure", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		i := internal.NewErrorInterceptor(
			&fakeRenderer{err: errors.New("template missing")},
			internal.WithInterceptorLogger(logger.NewWriter(&buf)),
		)

		resp := intercept(t, i, internal.ErrNotFound("<b>Page Not Found</b>"))
		require.Equal(t, 404, resp.Status())
		require.Equal(t, "<h1>Error 404</h1><p>&lt;b&gt;Page Not Found&lt;/b&gt;</p>", string(resp.Body()))
		require.Contains(t, buf.String(), "failed to render error page")
		require.Contains(t, buf.String(), "template missing")
	})

	t.Run("render failure in debug mode", func(t *testing.T) {
		t.Parallel()
		i := internal.NewErrorInterceptor(&fakeRenderer{err: errors.New("x")}, internal.WithDebug(true))
		resp := intercept(t, i, &internal.PanicError{Value: "boom", Stack: "stack here"})
		body := string(resp.Body())
		require.Contains(t, body, "<h1>Error 500</h1>")
		require.Contains(t, body, "Detailed error: boom")
		require.Contains(t, body, "<pre>stack here</pre>")
	})

	t.Run("nil renderer", func(t *testing.T) {
		t.Parallel()
		resp := intercept(t, internal.NewErrorInterceptor(nil), errors.New("x"))
		require.Equal(t, "<h1>Error 500</h1><p>An unexpected error occurred.</p>", string(resp.Body()))
	})
}

func TestErrorInterceptor_Logging(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		err   error
		level string
	}{
		{"client error", internal.ErrNotFound("x"), `"level":"WARN"`},
		{"server error", errors.New("x"), `"level":"ERROR"`},
		{"panic", &internal.PanicError{Value: "x", Stack: "trace", Location: "home.go:10"}, `"level":"CRITICAL"`},
		{"fatal", internal.Fatal(errors.New("x")), `"level":"CRITICAL"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			i := internal.NewErrorInterceptor(&fakeRenderer{}, internal.WithInterceptorLogger(logger.NewWriter(&buf)))
			intercept(t, i, tc.err)

			out := buf.String()
			require.Contains(t, out, tc.level)
			require.Contains(t, out, `"method":"GET"`)
			require.Contains(t, out, `"path":"/page"`)
			require.Contains(t, out, `"location":`)
		})
	}

	t.Run("panic logs stack", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		i := internal.NewErrorInterceptor(&fakeRenderer{}, internal.WithInterceptorLogger(logger.NewWriter(&buf)))
		intercept(t, i, &internal.PanicError{Value: "x", Stack: "goroutine 7 [running]", Location: "home.go:10"})
		require.Contains(t, buf.String(), "goroutine 7 [running]")
		require.Contains(t, buf.String(), `"location":"home.go:10"`)
	})

	t.Run("http error location", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		i := internal.NewErrorInterceptor(&fakeRenderer{}, internal.WithInterceptorLogger(logger.NewWriter(&buf)))
		intercept(t, i, internal.ErrNotFound("x"))
		require.True(t, strings.Contains(buf.String(), "interceptor_test.go:"), buf.String())
	})
}

func TestErrorInterceptor_FatalHandler(t *testing.T) {
	t.Parallel()

	var got error
	i := internal.NewErrorInterceptor(&fakeRenderer{}, internal.WithFatalHandler(func(err error) { got = err }))

	intercept(t, i, errors.New("recoverable"))
	require.Nil(t, got)

	cause := errors.New("unrecoverable")
	resp := intercept(t, i, internal.Fatal(cause))
	require.Equal(t, 500, resp.Status())
	require.ErrorIs(t, got, cause)
}

func TestErrorInterceptor_CustomTemplate(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{}
	intercept(t, internal.NewErrorInterceptor(r, internal.WithErrorTemplate("errors/page")), errors.New("x"))
	require.Equal(t, "errors/page", r.name)
}
