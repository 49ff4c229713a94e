package internal

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry errors.
var (
	ErrEmptyID     = errors.New("registry: empty id")
	ErrDuplicateID = errors.New("registry: duplicate id")
	ErrNilEntry    = errors.New("registry: nil entry")
)

const (
	kindMiddleware = "middleware"
	kindHandler    = "handler"
)

// Registry maps string ids from the route table to middleware and actions.
// Everything is registered during startup; lookups are safe for
// concurrent use afterwards.
type Registry struct {
	mu          sync.RWMutex
	middlewares map[string]Middleware
	actions     map[string]Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		middlewares: make(map[string]Middleware),
		actions:     make(map[string]Action),
	}
}

// RegisterMiddleware binds id to a middleware.
func (r *Registry) RegisterMiddleware(id string, mw Middleware) error {
	if id == "" {
		return ErrEmptyID
	}
	if mw == nil {
		return fmt.Errorf("%w: middleware %q", ErrNilEntry, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.middlewares[id]; ok {
		return fmt.Errorf("%w: middleware %q", ErrDuplicateID, id)
	}
	r.middlewares[id] = mw
	return nil
}

// RegisterAction binds id to a controller action.
func (r *Registry) RegisterAction(id string, action Action) error {
	if id == "" {
		return ErrEmptyID
	}
	if action == nil {
		return fmt.Errorf("%w: action %q", ErrNilEntry, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.actions[id]; ok {
		return fmt.Errorf("%w: action %q", ErrDuplicateID, id)
	}
	r.actions[id] = action
	return nil
}

// RegisterController registers every action of c as "<prefix>.<name>".
// Actions are registered in name order; the first failure stops registration.
func (r *Registry) RegisterController(prefix string, c Controller) error {
	if prefix == "" {
		return ErrEmptyID
	}
	if c == nil {
		return fmt.Errorf("%w: controller %q", ErrNilEntry, prefix)
	}

	actions := c.Actions()
	for _, name := range slices.Sorted(maps.Keys(actions)) {
		if err := r.RegisterAction(prefix+"."+name, actions[name]); err != nil {
			return err
		}
	}
	return nil
}

// Middleware returns the middleware registered under id.
func (r *Registry) Middleware(id string) (Middleware, error) {
	r.mu.RLock()
	mw, ok := r.middlewares[id]
	r.mu.RUnlock()
	if !ok {
		return nil, &ConfigurationError{ID: id, Kind: kindMiddleware, Reason: "not registered"}
	}
	return mw, nil
}

// Action returns the action registered under id.
func (r *Registry) Action(id string) (Action, error) {
	r.mu.RLock()
	action, ok := r.actions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, &ConfigurationError{ID: id, Kind: kindHandler, Reason: "not registered"}
	}
	return action, nil
}

// Resolve looks up middleware for each id, preserving order.
// Every unknown id is reported.
func (r *Registry) Resolve(ids []string) ([]Middleware, error) {
	out := make([]Middleware, 0, len(ids))
	var errs []error
	for _, id := range ids {
		mw, err := r.Middleware(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, mw)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Chain resolves ids and composes them around terminal.
func (r *Registry) Chain(ids []string, terminal Handler) (Handler, error) {
	mws, err := r.Resolve(ids)
	if err != nil {
		return nil, err
	}
	return Chain(terminal, mws...), nil
}

// Validate checks that every id referenced by the table and the global
// list resolves. All failures are joined into one error.
func (r *Registry) Validate(table *RouteTable, global []string) error {
	var errs []error
	if _, err := r.Resolve(global); err != nil {
		errs = append(errs, err)
	}
	for _, route := range table.routes {
		if _, err := r.Action(route.Handler); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", route, err))
		}
		if _, err := r.Resolve(route.Middleware); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", route, err))
		}
	}
	return errors.Join(errs...)
}
