package job

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
)

// Task is a typed job handler. Payloads are decoded from JSON into P.
//
//	type SendWelcome struct{ notify notify.Notifier }
//
//	func (t *SendWelcome) Name() string { return "send_welcome" }
//	func (t *SendWelcome) Handle(ctx context.Context, p WelcomePayload) error { ... }
type Task[P any] interface {
	Name() string
	Handle(ctx context.Context, payload P) error
}

// ScheduledTask runs on a cron schedule (5 fields: min hour dom month dow).
type ScheduledTask interface {
	Name() string
	Schedule() string
	Handle(ctx context.Context) error
}

// executor runs a task from its JSON payload.
type executor func(ctx context.Context, payload json.RawMessage) error

func typed[P any](task Task[P]) executor {
	return func(ctx context.Context, raw json.RawMessage) error {
		var payload P
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return errors.Join(ErrInvalidPayload, err)
			}
		}
		return task.Handle(ctx, payload)
	}
}

func scheduled(task ScheduledTask) executor {
	return func(ctx context.Context, _ json.RawMessage) error {
		return task.Handle(ctx)
	}
}

// registry is filled during construction and read-only afterwards.
type registry map[string]executor

func (r registry) names() []string {
	return slices.Sorted(maps.Keys(r))
}
