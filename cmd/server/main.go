package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/webkernel"
	"github.com/dmitrymomot/webkernel/app"
	"github.com/dmitrymomot/webkernel/app/config"
	"github.com/dmitrymomot/webkernel/app/jobs"
	"github.com/dmitrymomot/webkernel/app/model"
	"github.com/dmitrymomot/webkernel/app/notify"
	"github.com/dmitrymomot/webkernel/app/repository"
	"github.com/dmitrymomot/webkernel/app/web"
	"github.com/dmitrymomot/webkernel/middlewares"
	"github.com/dmitrymomot/webkernel/pkg/cache"
	"github.com/dmitrymomot/webkernel/pkg/db"
	"github.com/dmitrymomot/webkernel/pkg/health"
	"github.com/dmitrymomot/webkernel/pkg/job"
	"github.com/dmitrymomot/webkernel/pkg/logger"
	"github.com/dmitrymomot/webkernel/pkg/mailer"
	"github.com/dmitrymomot/webkernel/pkg/mailer/resend"
	"github.com/dmitrymomot/webkernel/pkg/redis"
	"github.com/dmitrymomot/webkernel/pkg/views"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, logCloser, err := logger.NewFromConfig(cfg.Log, middlewares.RequestIDExtractor())
	if err != nil {
		return err
	}
	defer logCloser.Close()

	pages, err := views.New(app.Views())
	if err != nil {
		return err
	}
	emails, err := mailer.NewRenderer(app.Emails())
	if err != nil {
		return err
	}

	var (
		startup  []func(context.Context) error
		shutdown []func(context.Context) error // Run in reverse order.
	)
	cleanup := func() {
		for i := len(shutdown) - 1; i >= 0; i-- {
			_ = shutdown[i](context.Background())
		}
	}

	// Database
	conn, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	shutdown = append(shutdown, db.Shutdown(conn))
	if err := db.Migrate(ctx, conn, app.Migrations(), "", log); err != nil {
		cleanup()
		return err
	}
	checks := health.Checks{"db": db.Healthcheck(conn)}

	// Cache
	userCache, redisClient, err := newUserCache(ctx, cfg)
	if err != nil {
		cleanup()
		return err
	}
	if redisClient != nil {
		shutdown = append(shutdown, redis.Shutdown(redisClient))
		checks["redis"] = redis.Healthcheck(redisClient)
	}
	users := repository.NewCached(repository.NewUsers(conn), userCache, cfg.CacheTTL, log)

	// Mail
	var sender mailer.Sender = mailer.NewLogSender(log)
	if cfg.Resend.Enabled() {
		sender = resend.New(cfg.Resend)
	}
	var notifier notify.Notifier = notify.NewMail(mailer.New(sender, emails, cfg.Mailer, mailer.WithLogger(log)), log)

	// Background jobs
	switch {
	case cfg.JobsEnabled && conn.Pool != nil:
		if err := job.Migrate(ctx, conn.Pool); err != nil {
			cleanup()
			return err
		}
		manager, err := job.NewManager(conn.Pool, jobs.Options(notifier, users, log)...)
		if err != nil {
			cleanup()
			return err
		}
		notifier = jobs.NewQueue(manager)
		checks["jobs"] = job.Healthcheck(manager)
		startup = append(startup, manager.StartHook())
		shutdown = append(shutdown, manager.ShutdownHook())
	case cfg.JobsEnabled:
		log.Warn("background jobs require postgres, sending mail inline", slog.String("driver", conn.Driver))
	}

	runOpts := []webkernel.RunOption{
		webkernel.Address(cfg.Address),
		webkernel.Logger(log),
		webkernel.ShutdownTimeout(cfg.ShutdownTimeout),
	}
	for _, hook := range startup {
		runOpts = append(runOpts, webkernel.StartupHook(hook))
	}
	for i := len(shutdown) - 1; i >= 0; i-- {
		runOpts = append(runOpts, webkernel.ShutdownHook(shutdown[i]))
	}
	rt := webkernel.NewRuntime(runOpts...)

	kernel, err := web.NewHandler(web.Deps{
		Users:     users,
		Notifier:  notifier,
		Views:     pages,
		Logger:    log,
		OnFatal:   rt.Shutdown,
		AuthToken: cfg.AuthToken,
		Debug:     cfg.Debug(),
	})
	if err != nil {
		cleanup()
		return err
	}

	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(checks,
		health.WithTimeout(5*time.Second),
		health.WithLogger(log),
	))
	r.Mount("/", kernel)

	return rt.Run(ctx, r)
}

// newUserCache returns a redis-backed cache when REDIS_URL is set and an
// in-process one otherwise. The client is nil for the in-process cache.
func newUserCache(ctx context.Context, cfg config.Config) (cache.Cache[model.User], goredis.UniversalClient, error) {
	opts := []cache.Option{
		cache.WithPrefix("users"),
		cache.WithDefaultTTL(cfg.CacheTTL),
	}
	if !cfg.Redis.Enabled() {
		return cache.NewMemory[model.User](append(opts, cache.WithMaxEntries(10_000))...), nil, nil
	}

	client, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedis[model.User](client, nil, opts...), client, nil
}
