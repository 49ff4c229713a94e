package web_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webkernel/app"
	"github.com/dmitrymomot/webkernel/app/model"
	"github.com/dmitrymomot/webkernel/app/notify"
	"github.com/dmitrymomot/webkernel/app/repository"
	"github.com/dmitrymomot/webkernel/app/web"
	"github.com/dmitrymomot/webkernel/middlewares"
	"github.com/dmitrymomot/webkernel/pkg/logger"
	"github.com/dmitrymomot/webkernel/pkg/views"
)

const token = "test-token"

type memoryStore struct {
	mu    sync.Mutex
	users map[int64]model.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[int64]model.User{
		1: {ID: 1, Name: "Alice Johnson", Email: "alice@example.com"},
		2: {ID: 2, Name: "Bob Smith", Email: "bob@example.com"},
	}}
}

func (s *memoryStore) Find(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *memoryStore) FindAll(context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for id := int64(1); id <= int64(len(s.users)); id++ {
		out = append(out, s.users[id])
	}
	return out, nil
}

func (s *memoryStore) Save(context.Context, *model.User) error { return nil }
func (s *memoryStore) Delete(context.Context, int64) error     { return nil }

type fixture struct {
	kernel http.Handler
	sent   []string
	mu     sync.Mutex
}

func newFixture(t *testing.T, debug bool, notifyErr error) *fixture {
	t.Helper()

	engine, err := views.New(app.Views())
	require.NoError(t, err)

	f := &fixture{}
	k, err := web.NewKernel(web.Deps{
		Users: newMemoryStore(),
		Notifier: notify.Func(func(_ context.Context, email, username string) error {
			f.mu.Lock()
			f.sent = append(f.sent, email+"/"+username)
			f.mu.Unlock()
			return notifyErr
		}),
		Views:     engine,
		AuthToken: token,
		Debug:     debug,
	})
	require.NoError(t, err)
	f.kernel = k
	return f
}

func (f *fixture) do(method, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	f.kernel.ServeHTTP(rec, req)
	return rec
}

func TestHome(t *testing.T) {
	t.Parallel()

	t.Run("index lists users and sends welcome", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false, nil)

		rec := f.do(http.MethodGet, "/")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		require.Contains(t, body, "Welcome to My App!")
		require.Contains(t, body, "Welcome email status: successfully sent.")
		require.Contains(t, body, "Alice Johnson")
		require.Contains(t, body, "Bob Smith")
		require.Equal(t, []string{"test@example.com/JohnDoe"}, f.sent)

		require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("index reports notification failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false, errors.New("smtp down"))

		rec := f.do(http.MethodGet, "/")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Welcome email status: failed to send.")
	})

	t.Run("about renders markdown", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, false, nil).do(http.MethodGet, "/about")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "<strong>global middleware</strong>")
		require.Contains(t, rec.Body.String(), "Powered by WebKernel.")
	})

	t.Run("hello upper-cases the name", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, false, nil).do(http.MethodGet, "/hello/world")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Hello, World!")
	})

	t.Run("hello bad-user is not found", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, false, nil).do(http.MethodGet, "/hello/bad-user")
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "could not be found.")
	})

	t.Run("user detail", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, false, nil).do(http.MethodGet, "/user/1")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "alice@example.com")
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, false, nil).do(http.MethodGet, "/user/99")
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "User with ID 99 not found.")
	})

	t.Run("non numeric id does not match", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, false, nil).do(http.MethodGet, "/user/abc")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestErrors(t *testing.T) {
	t.Parallel()

	t.Run("runtime fault hides details", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, false, nil).do(http.MethodGet, "/hello/error-user")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "An unexpected error occurred.")
		require.NotContains(t, rec.Body.String(), "divide by zero")
		require.NotContains(t, rec.Body.String(), "Detailed error:")
	})

	t.Run("runtime fault in debug mode", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, true, nil).do(http.MethodGet, "/hello/error-user")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "Detailed error:")
		require.Contains(t, rec.Body.String(), "integer divide by zero")
	})

	t.Run("unknown path", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, false, nil).do(http.MethodGet, "/nope")
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "Error 404")
	})

	t.Run("wrong method", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, false, nil).do(http.MethodPost, "/about")
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		require.Equal(t, "GET", rec.Header().Get("Allow"))
	})

	t.Run("trailing slash stays on host", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, false, nil).do(http.MethodGet, "//evil.example/")
		require.Equal(t, http.StatusMovedPermanently, rec.Code)
		require.Equal(t, "/evil.example", rec.Header().Get("Location"))
	})

	t.Run("head falls back to get", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, false, nil).do(http.MethodHead, "/about")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("trailing slash redirects", func(t *testing.T) {
		t.Parallel()
		rec := newFixture(t, false, nil).do(http.MethodGet, "/about/?x=1")
		require.Equal(t, http.StatusMovedPermanently, rec.Code)
		require.Equal(t, "/about?x=1", rec.Header().Get("Location"))
	})
}

func TestProtected(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false, nil)

	for _, path := range []string{"/admin", "/secret-report"} {
		t.Run(path+" without token", func(t *testing.T) {
			t.Parallel()
			rec := f.do(http.MethodGet, path)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Contains(t, rec.Body.String(), "Unauthorized")
		})
	}

	t.Run("admin with token", func(t *testing.T) {
		t.Parallel()
		rec := f.do(http.MethodGet, "/admin", "X-Auth-Token", token)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Welcome to the protected admin area!")
	})

	t.Run("secret report with token", func(t *testing.T) {
		t.Parallel()
		rec := f.do(http.MethodGet, "/secret-report", "X-Auth-Token", token)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Highly confidential report data from the database.")
	})
}

func TestNewKernel_FallbackWithoutRenderer(t *testing.T) {
	t.Parallel()

	k, err := web.NewKernel(web.Deps{Users: newMemoryStore(), Notifier: notify.Func(func(context.Context, string, string) error { return nil })})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	k.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "<h1>Error 404</h1>")
}

func TestNewHandler_ErrorPagesCarryRequestContext(t *testing.T) {
	t.Parallel()

	engine, err := views.New(app.Views())
	require.NoError(t, err)

	var buf bytes.Buffer
	log := slog.New(logger.NewLogHandlerDecorator(slog.NewJSONHandler(&buf, nil), middlewares.RequestIDExtractor()))

	h, err := web.NewHandler(web.Deps{
		Users:    newMemoryStore(),
		Notifier: notify.Func(func(context.Context, string, string) error { return nil }),
		Views:    engine,
		Logger:   log,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Contains(t, buf.String(), `"msg":"client error"`)
	require.Contains(t, buf.String(), `"request_id":"abc-123"`)
}
