package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webkernel/internal"
)

func TestResponse_Immutable(t *testing.T) {
	t.Parallel()

	base := internal.HTML(http.StatusOK, "hello")

	t.Run("with header returns copy", func(t *testing.T) {
		t.Parallel()
		mod := base.WithHeader("X-Test", "1")
		require.Equal(t, "1", mod.Header("X-Test"))
		require.Empty(t, base.Header("X-Test"))
	})

	t.Run("with status returns copy", func(t *testing.T) {
		t.Parallel()
		mod := base.WithStatus(http.StatusCreated)
		require.Equal(t, http.StatusCreated, mod.Status())
		require.Equal(t, http.StatusOK, base.Status())
	})

	t.Run("body is copied", func(t *testing.T) {
		t.Parallel()
		body := base.Body()
		body[0] = 'J'
		require.Equal(t, "hello", string(base.Body()))
	})

	t.Run("headers map is copied", func(t *testing.T) {
		t.Parallel()
		h := base.Headers()
		h.Set("Content-Type", "application/json")
		require.Equal(t, "text/html; charset=utf-8", base.Header("Content-Type"))
	})
}

func TestResponse_Headers(t *testing.T) {
	t.Parallel()

	t.Run("case-insensitive names", func(t *testing.T) {
		t.Parallel()
		resp := internal.Text(http.StatusOK, "x").WithHeader("x-custom", "a")
		require.Equal(t, "a", resp.Header("X-CUSTOM"))
	})

	t.Run("added values keep order", func(t *testing.T) {
		t.Parallel()
		resp := internal.NewResponse(http.StatusOK, nil).
			WithAddedHeader("Vary", "Accept").
			WithAddedHeader("Vary", "Cookie")
		require.Equal(t, []string{"Accept", "Cookie"}, resp.Values("Vary"))
	})

	t.Run("without header", func(t *testing.T) {
		t.Parallel()
		resp := internal.Text(http.StatusOK, "x").WithoutHeader("Content-Type")
		require.Empty(t, resp.Header("Content-Type"))
	})

	t.Run("zero value", func(t *testing.T) {
		t.Parallel()
		var resp internal.Response
		require.Equal(t, http.StatusOK, resp.Status())
		require.Empty(t, resp.Header("Anything"))
		require.Equal(t, "v", resp.WithHeader("A", "v").Header("A"))
	})
}

func TestResponse_WriteTo(t *testing.T) {
	t.Parallel()

	t.Run("writes status, headers and body", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		resp := internal.HTML(http.StatusTeapot, "<b>tea</b>").WithHeader("X-Test", "1")

		require.NoError(t, resp.WriteTo(rec))
		require.Equal(t, http.StatusTeapot, rec.Code)
		require.Equal(t, "1", rec.Header().Get("X-Test"))
		require.Equal(t, "10", rec.Header().Get("Content-Length"))
		require.Equal(t, "<b>tea</b>", rec.Body.String())
	})

	t.Run("redirect has no body", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, internal.Redirect(http.StatusMovedPermanently, "/about").WriteTo(rec))
		require.Equal(t, http.StatusMovedPermanently, rec.Code)
		require.Equal(t, "/about", rec.Header().Get("Location"))
		require.Empty(t, rec.Body.String())
	})
}
