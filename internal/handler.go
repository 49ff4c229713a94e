package internal

import (
	"context"
	"net/http"
)

// Handler produces a Response for a request.
// A non-nil error propagates unmodified to the kernel boundary where the
// ErrorInterceptor converts it into a response.
type Handler interface {
	Handle(r *http.Request) (Response, error)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(r *http.Request) (Response, error)

// Handle calls f(r).
func (f HandlerFunc) Handle(r *http.Request) (Response, error) {
	return f(r)
}

// Middleware inspects a request and either delegates to next or returns its
// own response, short-circuiting the rest of the chain.
//
// Requests are immutable: pass a copy (r.WithContext, r.Clone) downstream
// instead of modifying r.
//
// Example:
//
//	func Auth(token string) internal.Middleware {
//	    return internal.MiddlewareFunc(func(r *http.Request, next internal.Handler) (internal.Response, error) {
//	        if r.Header.Get("X-Auth-Token") != token {
//	            return internal.Text(http.StatusUnauthorized, "Unauthorized"), nil
//	        }
//	        return next.Handle(r)
//	    })
//	}
type Middleware interface {
	Process(r *http.Request, next Handler) (Response, error)
}

// MiddlewareFunc adapts an ordinary function to the Middleware interface.
type MiddlewareFunc func(r *http.Request, next Handler) (Response, error)

// Process calls f(r, next).
func (f MiddlewareFunc) Process(r *http.Request, next Handler) (Response, error) {
	return f(r, next)
}

// Action is a controller action bound to a route.
// It receives the matched path variables and returns the page body.
// Actions never set status codes or headers; failures are signaled by
// returning an error such as ErrNotFound.
type Action func(ctx context.Context, vars Vars) (string, error)

// Controller exposes a set of named actions.
// Actions are registered under "<prefix>.<name>" by Registry.RegisterController.
//
// Example:
//
//	func (h *Home) Actions() map[string]internal.Action {
//	    return map[string]internal.Action{
//	        "index": h.index,
//	        "about": h.about,
//	    }
//	}
type Controller interface {
	Actions() map[string]Action
}
