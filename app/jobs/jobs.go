// Package jobs defines the application's background tasks.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/webkernel/app/notify"
	"github.com/dmitrymomot/webkernel/app/repository"
	"github.com/dmitrymomot/webkernel/pkg/job"
)

// Task names.
const (
	TaskSendWelcome = "send_welcome"
	TaskUsersReport = "users_report"
)

// WelcomePayload is the payload of TaskSendWelcome.
type WelcomePayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// SendWelcome delivers the welcome email in the background.
type SendWelcome struct {
	notifier notify.Notifier
}

// NewSendWelcome creates the task around a synchronous notifier.
func NewSendWelcome(n notify.Notifier) *SendWelcome {
	return &SendWelcome{notifier: n}
}

func (t *SendWelcome) Name() string { return TaskSendWelcome }

func (t *SendWelcome) Handle(ctx context.Context, p WelcomePayload) error {
	return t.notifier.SendWelcome(ctx, p.Email, p.Username)
}

// UsersReport logs the number of registered users every hour.
type UsersReport struct {
	users  repository.UserStore
	logger *slog.Logger
}

// NewUsersReport creates the report task.
func NewUsersReport(users repository.UserStore, l *slog.Logger) *UsersReport {
	return &UsersReport{users: users, logger: l}
}

func (t *UsersReport) Name() string     { return TaskUsersReport }
func (t *UsersReport) Schedule() string { return "0 * * * *" }

func (t *UsersReport) Handle(ctx context.Context) error {
	users, err := t.users.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("jobs: users report: %w", err)
	}
	t.logger.InfoContext(ctx, "users report", slog.Int("users", len(users)))
	return nil
}

// Enqueuer is the part of job.Manager the queue notifier needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, task string, payload any, opts ...job.EnqueueOption) error
}

// Queue is a Notifier that defers delivery to the job runner.
// A welcome email is sent at most once per address per day.
type Queue struct {
	jobs Enqueuer
}

// NewQueue creates a queueing notifier.
func NewQueue(e Enqueuer) *Queue {
	return &Queue{jobs: e}
}

func (q *Queue) SendWelcome(ctx context.Context, email, username string) error {
	return q.jobs.Enqueue(ctx, TaskSendWelcome,
		WelcomePayload{Email: email, Username: username},
		job.MaxAttempts(5),
		job.UniqueFor(24*time.Hour),
	)
}

// Options returns the manager options registering every task.
func Options(direct notify.Notifier, users repository.UserStore, l *slog.Logger) []job.Option {
	return []job.Option{
		job.WithTask[WelcomePayload](NewSendWelcome(direct)),
		job.WithScheduledTask(NewUsersReport(users, l)),
		job.WithLogger(l),
	}
}

var (
	_ notify.Notifier          = (*Queue)(nil)
	_ job.Task[WelcomePayload] = (*SendWelcome)(nil)
	_ job.ScheduledTask        = (*UsersReport)(nil)
)
