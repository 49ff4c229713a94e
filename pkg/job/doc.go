// Package job runs background tasks on [github.com/riverqueue/river] over a
// Postgres pool.
//
// Tasks are typed: the payload type is inferred from Handle and carried as
// JSON inside a single river job kind.
//
//	m, err := job.NewManager(pool,
//	    job.WithTask[jobs.WelcomePayload](jobs.NewSendWelcome(direct)),
//	    job.WithScheduledTask(jobs.NewUsersReport(repo, log)),
//	    job.WithLogger(log),
//	)
//	err = m.Enqueue(ctx, "send_welcome", jobs.WelcomePayload{Email: "test@example.com"})
//
// Scheduled tasks use 5-field cron expressions parsed by
// [github.com/robfig/cron/v3]. [Migrate] applies river's own schema.
package job
