package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrymomot/webkernel/pkg/logger"
)

// Runtime runs an HTTP server until a signal, a context cancellation or an
// explicit Shutdown call, then shuts it down gracefully.
type Runtime struct {
	cfg  runConfig
	stop chan error
	once sync.Once
}

// NewRuntime creates a runtime with the given options.
func NewRuntime(opts ...RunOption) *Runtime {
	cfg := runConfig{
		address:         defaultAddress,
		logger:          logger.NewNope(),
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Runtime{cfg: cfg, stop: make(chan error, 1)}
}

// Shutdown asks a running server to stop. A non-nil cause is returned
// from Run once shutdown completes. Only the first call has an effect.
// It is safe to call from any goroutine, including request handlers.
func (rt *Runtime) Shutdown(cause error) {
	rt.once.Do(func() {
		rt.stop <- cause
	})
}

// Run starts a single HTTP server serving handler and blocks until shutdown.
//
// Example:
//
//	err := webkernel.Run(ctx, kernel,
//	    webkernel.Address(cfg.HTTPAddress),
//	    webkernel.Logger(log),
//	    webkernel.ShutdownHook(db.Shutdown(pool)),
//	)
func Run(ctx context.Context, handler http.Handler, opts ...RunOption) error {
	return NewRuntime(opts...).Run(ctx, handler)
}

// Run serves handler and blocks until shutdown.
func (rt *Runtime) Run(ctx context.Context, handler http.Handler) error {
	cfg := rt.cfg
	log := cfg.logger

	server := &http.Server{
		Addr:              cfg.address,
		Handler:           handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, hook := range cfg.startupHooks {
		if err := hook(ctx); err != nil {
			return errors.Join(err, rt.runShutdownHooks(cfg))
		}
	}

	// Listen first to get actual address
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return errors.Join(err, rt.runShutdownHooks(cfg))
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var cause error
	select {
	case err := <-errCh:
		if err != nil {
			return errors.Join(err, rt.runShutdownHooks(cfg))
		}
	case cause = <-rt.stop:
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer shutdownCancel()

	var errs []error
	if cause != nil {
		errs = append(errs, cause)
	}

	// 1. Stop HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	// 2. Run shutdown hooks (close DB, etc.)
	for _, hook := range cfg.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
			log.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		log.Error("shutdown completed with errors", slog.Any("error", errors.Join(errs...)))
		return errors.Join(errs...)
	}

	log.Info("shutdown completed")
	return nil
}

func (rt *Runtime) runShutdownHooks(cfg runConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer cancel()

	var errs []error
	for _, hook := range cfg.shutdownHooks {
		if err := hook(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
