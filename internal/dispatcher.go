package internal

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
)

// MatchKind is the outcome of dispatching a request.
type MatchKind int

const (
	NotFound MatchKind = iota
	Found
	MethodNotAllowed
)

func (k MatchKind) String() string {
	switch k {
	case Found:
		return "found"
	case MethodNotAllowed:
		return "method_not_allowed"
	default:
		return "not_found"
	}
}

// MatchResult describes how a request maps onto the route table.
// Route and Vars are set for Found, Allowed for MethodNotAllowed.
type MatchResult struct {
	Route   Route
	Vars    Vars
	Allowed []string
	Kind    MatchKind
}

// matcher decides whether a path fits one pattern.
// Each pattern gets its own chi tree so routes can be tried in
// registration order instead of chi's specificity order.
type matcher struct {
	mux     *chi.Mux
	pattern string
}

var noop = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

func compileMatcher(pattern string) (m *matcher, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()

	mux := chi.NewMux()
	mux.Handle(pattern, noop)
	return &matcher{mux: mux, pattern: pattern}, nil
}

// match returns the bound placeholders and whether path fits the pattern.
func (m *matcher) match(path string) (Vars, bool) {
	rctx := chi.NewRouteContext()
	if m.mux.Find(rctx, http.MethodGet, path) == "" {
		return nil, false
	}
	vars := make(Vars, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if key == "" {
			continue
		}
		vars[key] = rctx.URLParams.Values[i]
	}
	return vars, true
}

// Dispatch matches method and path against the table.
// The first route matching both wins. A HEAD request with no HEAD route
// falls back to the first matching GET route. When the path matches but no
// method does, the result lists the allowed methods in registration order.
// Dispatch has no side effects and is safe for concurrent use.
func (t *RouteTable) Dispatch(method, path string) MatchResult {
	var (
		allowed  []string
		fallback *MatchResult
	)
	for i, route := range t.routes {
		vars, ok := t.matchers[i].match(path)
		if !ok {
			continue
		}
		if route.Method == method {
			return MatchResult{Kind: Found, Route: route, Vars: vars}
		}
		if method == http.MethodHead && route.Method == http.MethodGet && fallback == nil {
			fallback = &MatchResult{Kind: Found, Route: route, Vars: vars}
		}
		if !slices.Contains(allowed, route.Method) {
			allowed = append(allowed, route.Method)
		}
	}
	if fallback != nil {
		return *fallback
	}
	if len(allowed) > 0 {
		return MatchResult{Kind: MethodNotAllowed, Allowed: allowed}
	}
	return MatchResult{Kind: NotFound}
}
