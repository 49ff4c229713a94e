package job

import (
	"log/slog"
	"time"

	"github.com/riverqueue/river"
)

type config struct {
	registry   registry
	queues     map[string]int
	logger     *slog.Logger
	schedules  []ScheduledTask
	maxWorkers int
}

// Option configures the Manager.
type Option func(*config)

// WithTask registers a typed task.
func WithTask[P any](task Task[P]) Option {
	return func(c *config) {
		c.registry[task.Name()] = typed(task)
	}
}

// WithScheduledTask registers a periodic task.
func WithScheduledTask(task ScheduledTask) Option {
	return func(c *config) {
		c.registry[task.Name()] = scheduled(task)
		c.schedules = append(c.schedules, task)
	}
}

// WithQueue adds a named queue with its own worker limit.
func WithQueue(name string, workers int) Option {
	return func(c *config) {
		if name != "" && workers > 0 {
			c.queues[name] = workers
		}
	}
}

// WithLogger sets the logger for the manager and the river client.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxWorkers sets the worker limit of the default queue. Default: 10.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

type enqueueConfig struct {
	queue       string
	delay       time.Duration
	maxAttempts int
	uniqueFor   time.Duration
}

// EnqueueOption configures one enqueued job.
type EnqueueOption func(*enqueueConfig)

// InQueue routes the job to a named queue.
func InQueue(name string) EnqueueOption {
	return func(c *enqueueConfig) {
		if name != "" {
			c.queue = name
		}
	}
}

// ScheduledIn delays the job by d.
func ScheduledIn(d time.Duration) EnqueueOption {
	return func(c *enqueueConfig) {
		c.delay = d
	}
}

// MaxAttempts caps retries. Default: river's default (25).
func MaxAttempts(n int) EnqueueOption {
	return func(c *enqueueConfig) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// UniqueFor drops duplicates of the same task and payload within d.
func UniqueFor(d time.Duration) EnqueueOption {
	return func(c *enqueueConfig) {
		c.uniqueFor = d
	}
}

func (c *enqueueConfig) insertOpts(now time.Time) *river.InsertOpts {
	opts := &river.InsertOpts{
		Queue:       c.queue,
		MaxAttempts: c.maxAttempts,
	}
	if c.delay > 0 {
		opts.ScheduledAt = now.Add(c.delay)
	}
	if c.uniqueFor > 0 {
		opts.UniqueOpts = river.UniqueOpts{ByArgs: true, ByPeriod: c.uniqueFor}
	}
	return opts
}
