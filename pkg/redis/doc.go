// Package redis opens and supervises a [github.com/redis/go-redis/v9] client.
//
// Connection settings come from [Config], which is populated from the
// environment by the application config loader:
//
//	client, err := redis.Open(ctx, cfg.Redis)
//	if err != nil {
//	    return err
//	}
//
// [Healthcheck] plugs into the readiness probe and [Shutdown] into the
// server runtime's shutdown hooks:
//
//	checks["redis"] = redis.Healthcheck(client)
//	webkernel.Run(ctx, h, webkernel.ShutdownHook(redis.Shutdown(client)))
//
// Errors wrap one of [ErrEmptyConnectionURL], [ErrFailedToParseURL],
// [ErrConnectionFailed] or [ErrHealthcheckFailed] via [errors.Join].
package redis
