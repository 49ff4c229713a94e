// Package health serves liveness and readiness probes.
//
// [LivenessHandler] always answers OK. [ReadinessHandler] runs a set of
// named [Checks] concurrently and answers 503 when any of them fails:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "db":    db.Healthcheck(conn),
//	    "redis": redis.Healthcheck(client),
//	}, health.WithLogger(log)))
//
// Responses are plain text by default. Send Accept: application/json or
// ?format=json to receive the full [Report].
package health
