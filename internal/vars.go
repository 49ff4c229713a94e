package internal

import (
	"context"
	"net/http"
)

// Vars holds path placeholders bound to their matched strings.
// Values are never coerced; actions parse them as needed.
type Vars map[string]string

// Get returns the value bound to name, or fallback when absent or empty.
func (v Vars) Get(name, fallback string) string {
	if s, ok := v[name]; ok && s != "" {
		return s
	}
	return fallback
}

type varsKey struct{}

// WithPathVars returns a copy of ctx carrying vars.
func WithPathVars(ctx context.Context, vars Vars) context.Context {
	return context.WithValue(ctx, varsKey{}, vars)
}

// PathVars returns the path variables matched for r.
// Returns an empty Vars before dispatch.
func PathVars(r *http.Request) Vars {
	if v, ok := r.Context().Value(varsKey{}).(Vars); ok {
		return v
	}
	return Vars{}
}
