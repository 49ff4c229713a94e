package internal

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Route table errors.
var (
	ErrEmptyMethod    = errors.New("route: empty method")
	ErrInvalidPattern = errors.New("route: invalid pattern")
	ErrDuplicateRoute = errors.New("route: duplicate method and pattern")
	ErrEmptyHandler   = errors.New("route: empty handler id")
)

// Route declares a single endpoint.
// Pattern uses chi syntax: literal segments, {name}, {name:regexp}, trailing *.
type Route struct {
	Method     string   `yaml:"method"`
	Pattern    string   `yaml:"pattern"`
	Handler    string   `yaml:"handler"`
	Middleware []string `yaml:"middleware"`
}

func (r Route) String() string {
	return r.Method + " " + r.Pattern
}

// RouteTable is an ordered, immutable list of routes.
// Registration order decides which route wins when several match.
type RouteTable struct {
	routes   []Route
	matchers []*matcher
}

// NewRouteTable validates and compiles routes.
// Methods are upper-cased. Duplicate (method, pattern) pairs are rejected.
func NewRouteTable(routes ...Route) (*RouteTable, error) {
	t := &RouteTable{
		routes:   make([]Route, 0, len(routes)),
		matchers: make([]*matcher, 0, len(routes)),
	}

	compiled := make(map[string]*matcher, len(routes))
	seen := make(map[string]struct{}, len(routes))
	var errs []error

	for _, r := range routes {
		r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
		r.Middleware = slices.Clone(r.Middleware)

		switch {
		case r.Method == "":
			errs = append(errs, fmt.Errorf("%w: %q", ErrEmptyMethod, r.Pattern))
			continue
		case !strings.HasPrefix(r.Pattern, "/"):
			errs = append(errs, fmt.Errorf("%w: %q must start with /", ErrInvalidPattern, r.Pattern))
			continue
		case r.Handler == "":
			errs = append(errs, fmt.Errorf("%w: %s", ErrEmptyHandler, r))
			continue
		}

		key := r.String()
		if _, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateRoute, key))
			continue
		}
		seen[key] = struct{}{}

		m, ok := compiled[r.Pattern]
		if !ok {
			var err error
			m, err = compileMatcher(r.Pattern)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, r.Pattern, err))
				continue
			}
			compiled[r.Pattern] = m
		}

		t.routes = append(t.routes, r)
		t.matchers = append(t.matchers, m)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

// Routes returns a copy of the table in registration order.
func (t *RouteTable) Routes() []Route {
	out := make([]Route, len(t.routes))
	for i, r := range t.routes {
		r.Middleware = slices.Clone(r.Middleware)
		out[i] = r
	}
	return out
}

// Len returns the number of routes.
func (t *RouteTable) Len() int {
	return len(t.routes)
}

// RouteConfig is the on-disk shape of a route file.
//
// Example:
//
//	global_middleware: [request_id, trailing_slash]
//	routes:
//	  - method: GET
//	    pattern: /user/{id:\d+}
//	    handler: home.user_detail
//	  - method: GET
//	    pattern: /admin
//	    handler: home.admin
//	    middleware: [auth]
type RouteConfig struct {
	GlobalMiddleware []string `yaml:"global_middleware"`
	Routes           []Route  `yaml:"routes"`
}

// LoadRoutes parses a YAML route file.
func LoadRoutes(r io.Reader) (*RouteConfig, error) {
	var cfg RouteConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("route: parse config: %w", err)
	}
	return &cfg, nil
}

// Table builds a RouteTable from the config's routes.
func (c *RouteConfig) Table() (*RouteTable, error) {
	return NewRouteTable(c.Routes...)
}
