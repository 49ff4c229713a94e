package internal_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webkernel/internal"
)

func mustTable(t *testing.T, routes ...internal.Route) *internal.RouteTable {
	t.Helper()
	table, err := internal.NewRouteTable(routes...)
	require.NoError(t, err)
	return table
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	table := mustTable(t,
		internal.Route{Method: "GET", Pattern: "/", Handler: "home.index"},
		internal.Route{Method: "GET", Pattern: "/hello/{name}", Handler: "home.hello"},
		internal.Route{Method: "GET", Pattern: `/user/{id:\d+}`, Handler: "home.user_detail"},
		internal.Route{Method: "POST", Pattern: "/form", Handler: "form.submit"},
		internal.Route{Method: "GET", Pattern: "/form", Handler: "form.show"},
		internal.Route{Method: "GET", Pattern: "/files/*", Handler: "files.show"},
	)

	t.Run("static route", func(t *testing.T) {
		t.Parallel()
		m := table.Dispatch("GET", "/")
		require.Equal(t, internal.Found, m.Kind)
		require.Equal(t, "home.index", m.Route.Handler)
		require.Empty(t, m.Vars)
	})

	t.Run("placeholder", func(t *testing.T) {
		t.Parallel()
		m := table.Dispatch("GET", "/hello/world")
		require.Equal(t, internal.Found, m.Kind)
		require.Equal(t, internal.Vars{"name": "world"}, m.Vars)
	})

	t.Run("constrained placeholder", func(t *testing.T) {
		t.Parallel()
		m := table.Dispatch("GET", "/user/42")
		require.Equal(t, internal.Found, m.Kind)
		require.Equal(t, "42", m.Vars["id"])

		require.Equal(t, internal.NotFound, table.Dispatch("GET", "/user/abc").Kind)
	})

	t.Run("wildcard", func(t *testing.T) {
		t.Parallel()
		m := table.Dispatch("GET", "/files/a/b.txt")
		require.Equal(t, internal.Found, m.Kind)
		require.Equal(t, "a/b.txt", m.Vars["*"])
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, internal.NotFound, table.Dispatch("GET", "/missing").Kind)
	})

	t.Run("method not allowed lists methods in registration order", func(t *testing.T) {
		t.Parallel()
		m := table.Dispatch("DELETE", "/form")
		require.Equal(t, internal.MethodNotAllowed, m.Kind)
		require.Equal(t, []string{"POST", "GET"}, m.Allowed)
	})

	t.Run("no side effects", func(t *testing.T) {
		t.Parallel()
		first := table.Dispatch("GET", "/hello/x")
		second := table.Dispatch("GET", "/hello/x")
		require.Equal(t, first, second)
	})
}

func TestDispatch_HeadFallback(t *testing.T) {
	t.Parallel()

	table := mustTable(t,
		internal.Route{Method: "POST", Pattern: "/form", Handler: "form.submit"},
		internal.Route{Method: "GET", Pattern: "/form", Handler: "form.show"},
		internal.Route{Method: "HEAD", Pattern: "/form", Handler: "form.head"},
		internal.Route{Method: "GET", Pattern: "/hello/{name}", Handler: "home.hello"},
		internal.Route{Method: "POST", Pattern: "/submit", Handler: "form.post"},
	)

	t.Run("uses get route", func(t *testing.T) {
		t.Parallel()
		m := table.Dispatch("HEAD", "/hello/world")
		require.Equal(t, internal.Found, m.Kind)
		require.Equal(t, "home.hello", m.Route.Handler)
		require.Equal(t, "world", m.Vars["name"])
	})

	t.Run("explicit head route wins", func(t *testing.T) {
		t.Parallel()
		m := table.Dispatch("HEAD", "/form")
		require.Equal(t, internal.Found, m.Kind)
		require.Equal(t, "form.head", m.Route.Handler)
	})

	t.Run("no get route", func(t *testing.T) {
		t.Parallel()
		m := table.Dispatch("HEAD", "/submit")
		require.Equal(t, internal.MethodNotAllowed, m.Kind)
		require.Equal(t, []string{"POST"}, m.Allowed)
	})
}

func TestDispatch_FirstRegisteredWins(t *testing.T) {
	t.Parallel()

	table := mustTable(t,
		internal.Route{Method: "GET", Pattern: "/user/{name}", Handler: "user.by_name"},
		internal.Route{Method: "GET", Pattern: "/user/me", Handler: "user.me"},
	)

	m := table.Dispatch("GET", "/user/me")
	require.Equal(t, internal.Found, m.Kind)
	require.Equal(t, "user.by_name", m.Route.Handler)
}

func TestDispatch_AllowedDeduplicated(t *testing.T) {
	t.Parallel()

	table := mustTable(t,
		internal.Route{Method: "GET", Pattern: "/x", Handler: "a"},
		internal.Route{Method: "GET", Pattern: "/{any}", Handler: "b"},
		internal.Route{Method: "PUT", Pattern: "/{any}", Handler: "c"},
	)

	m := table.Dispatch("PATCH", "/x")
	require.Equal(t, internal.MethodNotAllowed, m.Kind)
	require.Equal(t, []string{"GET", "PUT"}, m.Allowed)
}

func TestDispatch_Concurrent(t *testing.T) {
	t.Parallel()

	table := mustTable(t,
		internal.Route{Method: "GET", Pattern: `/user/{id:\d+}`, Handler: "home.user_detail"},
	)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m := table.Dispatch("GET", fmt.Sprintf("/user/%d", i))
			require.Equal(t, internal.Found, m.Kind)
			require.Equal(t, fmt.Sprint(i), m.Vars["id"])
		}(i)
	}
	wg.Wait()
}

func TestVars_Get(t *testing.T) {
	t.Parallel()

	vars := internal.Vars{"name": "john", "empty": ""}
	require.Equal(t, "john", vars.Get("name", "Guest"))
	require.Equal(t, "Guest", vars.Get("missing", "Guest"))
	require.Equal(t, "Guest", vars.Get("empty", "Guest"))
}
