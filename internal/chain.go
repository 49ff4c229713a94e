package internal

import "net/http"

// link binds one middleware to the rest of the chain.
type link struct {
	middleware Middleware
	next       Handler
}

func (l link) Handle(r *http.Request) (Response, error) {
	return l.middleware.Process(r, l.next)
}

// Chain composes middleware around terminal.
// Chain(h, A, B, C) produces A(B(C(h))): on the way in A runs first,
// on the way out A sees the response last.
//
// The returned handler holds no traversal state, so it can be shared
// between concurrent requests.
func Chain(terminal Handler, mw ...Middleware) Handler {
	h := terminal
	for i := len(mw) - 1; i >= 0; i-- {
		h = link{middleware: mw[i], next: h}
	}
	return h
}
