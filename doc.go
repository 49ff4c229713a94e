// Package webkernel provides a small front-controller kernel for server-side
// web applications.
//
// A request flows through a fixed pipeline:
//
//	global middleware -> route dispatch -> route middleware -> controller action
//
// and the resulting Response flows back out through both chains. Routes, their
// handlers and their middleware are declared by string id in a route table and
// resolved through a Registry when the kernel boots, so a misspelled id fails
// startup instead of a request.
//
// # Quick Start
//
//	registry := webkernel.NewRegistry()
//	registry.RegisterMiddleware("auth", middlewares.Auth())
//	registry.RegisterController("home", handlers.NewHome(users, notifier, views, handlers.WithLogger(log)))
//
//	table, err := webkernel.NewRouteTable(
//	    webkernel.Route{Method: "GET", Pattern: "/", Handler: "home.index"},
//	    webkernel.Route{Method: "GET", Pattern: "/admin", Handler: "home.admin", Middleware: []string{"auth"}},
//	)
//
//	k, err := webkernel.New(table, registry,
//	    webkernel.WithErrorInterceptor(webkernel.NewErrorInterceptor(views, webkernel.WithDebug(cfg.Debug()))),
//	)
//
//	err = webkernel.Run(ctx, k, webkernel.Address(":8080"))
//
// # Actions
//
// Actions receive the matched path variables and return the page body. They
// never set status codes; failures are returned as errors:
//
//	func (h *Home) userDetail(ctx context.Context, vars webkernel.Vars) (string, error) {
//	    user, err := h.users.Find(ctx, id)
//	    if errors.Is(err, repository.ErrNotFound) {
//	        return "", webkernel.ErrNotFound(fmt.Sprintf("User with ID %d not found.", id))
//	    }
//	    ...
//	}
//
// # Middleware
//
// Middleware receives the request and the rest of the chain. It can return
// early, or call next and post-process the immutable Response:
//
//	func SecurityHeaders() webkernel.Middleware {
//	    return webkernel.MiddlewareFunc(func(r *http.Request, next webkernel.Handler) (webkernel.Response, error) {
//	        resp, err := next.Handle(r)
//	        if err != nil {
//	            return resp, err
//	        }
//	        return resp.WithHeader("X-Frame-Options", "DENY"), nil
//	    })
//	}
//
// # Errors
//
// Errors and panics are converted into error pages once, by the
// ErrorInterceptor, at the kernel's ServeHTTP boundary. In debug mode the page
// includes the real error message and stack trace.
package webkernel
