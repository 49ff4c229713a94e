package internal_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webkernel/internal"
)

func TestNewRouteTable(t *testing.T) {
	t.Parallel()

	t.Run("normalizes method", func(t *testing.T) {
		t.Parallel()
		table, err := internal.NewRouteTable(internal.Route{Method: "get", Pattern: "/", Handler: "home.index"})
		require.NoError(t, err)
		require.Equal(t, "GET", table.Routes()[0].Method)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		t.Parallel()
		_, err := internal.NewRouteTable(
			internal.Route{Method: "GET", Pattern: "/a", Handler: "x.a"},
			internal.Route{Method: "get", Pattern: "/a", Handler: "x.b"},
		)
		require.ErrorIs(t, err, internal.ErrDuplicateRoute)
	})

	t.Run("same pattern different methods", func(t *testing.T) {
		t.Parallel()
		table, err := internal.NewRouteTable(
			internal.Route{Method: "GET", Pattern: "/a", Handler: "x.a"},
			internal.Route{Method: "POST", Pattern: "/a", Handler: "x.b"},
		)
		require.NoError(t, err)
		require.Equal(t, 2, table.Len())
	})

	t.Run("rejects empty method", func(t *testing.T) {
		t.Parallel()
		_, err := internal.NewRouteTable(internal.Route{Pattern: "/", Handler: "x"})
		require.ErrorIs(t, err, internal.ErrEmptyMethod)
	})

	t.Run("rejects empty handler", func(t *testing.T) {
		t.Parallel()
		_, err := internal.NewRouteTable(internal.Route{Method: "GET", Pattern: "/"})
		require.ErrorIs(t, err, internal.ErrEmptyHandler)
	})

	t.Run("rejects relative pattern", func(t *testing.T) {
		t.Parallel()
		_, err := internal.NewRouteTable(internal.Route{Method: "GET", Pattern: "about", Handler: "x"})
		require.ErrorIs(t, err, internal.ErrInvalidPattern)
	})

	t.Run("rejects malformed placeholder", func(t *testing.T) {
		t.Parallel()
		_, err := internal.NewRouteTable(internal.Route{Method: "GET", Pattern: "/user/{id", Handler: "x"})
		require.ErrorIs(t, err, internal.ErrInvalidPattern)
	})

	t.Run("routes returns a copy", func(t *testing.T) {
		t.Parallel()
		table, err := internal.NewRouteTable(internal.Route{
			Method: "GET", Pattern: "/admin", Handler: "home.admin", Middleware: []string{"auth"},
		})
		require.NoError(t, err)

		routes := table.Routes()
		routes[0].Middleware[0] = "changed"
		routes[0].Pattern = "/changed"
		require.Equal(t, "auth", table.Routes()[0].Middleware[0])
		require.Equal(t, "/admin", table.Routes()[0].Pattern)
	})
}

func TestLoadRoutes(t *testing.T) {
	t.Parallel()

	const src = `
global_middleware: [request_id, trailing_slash]
routes:
  - method: GET
    pattern: /
    handler: home.index
  - method: GET
    pattern: '/user/{id:\d+}'
    handler: home.user_detail
  - method: GET
    pattern: /secret-report
    handler: home.secret_report
    middleware: [auth, logging]
`

	cfg, err := internal.LoadRoutes(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, []string{"request_id", "trailing_slash"}, cfg.GlobalMiddleware)
	require.Len(t, cfg.Routes, 3)
	require.Equal(t, `/user/{id:\d+}`, cfg.Routes[1].Pattern)
	require.Equal(t, []string{"auth", "logging"}, cfg.Routes[2].Middleware)

	table, err := cfg.Table()
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		_, err := internal.LoadRoutes(strings.NewReader("routez: []"))
		require.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()
		cfg, err := internal.LoadRoutes(strings.NewReader(""))
		require.NoError(t, err)
		require.Empty(t, cfg.Routes)
	})
}
