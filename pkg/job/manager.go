package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"

	"github.com/dmitrymomot/webkernel/pkg/logger"
)

const defaultMaxWorkers = 10

// taskArgs carries every task through one river job kind.
type taskArgs struct {
	Task    string          `json:"task"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (taskArgs) Kind() string { return "webkernel:task" }

// Manager runs tasks on river over a Postgres pool.
// Jobs may be enqueued before Start; they run once workers start.
type Manager struct {
	pool     *pgxpool.Pool
	client   *river.Client[pgx.Tx]
	registry registry
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
}

// Migrate applies river's schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return ErrPoolRequired
	}
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("job: create migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return fmt.Errorf("job: migrate: %w", err)
	}
	return nil
}

// NewManager creates the river client with all registered tasks.
func NewManager(pool *pgxpool.Pool, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	cfg := &config{
		registry:   registry{},
		queues:     map[string]int{},
		logger:     logger.NewNope(),
		maxWorkers: defaultMaxWorkers,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	queues := map[string]river.QueueConfig{river.QueueDefault: {MaxWorkers: cfg.maxWorkers}}
	for name, n := range cfg.queues {
		queues[name] = river.QueueConfig{MaxWorkers: n}
	}

	periodic := make([]*river.PeriodicJob, 0, len(cfg.schedules))
	for _, task := range cfg.schedules {
		schedule, err := parseSchedule(task.Schedule())
		if err != nil {
			return nil, err
		}
		name := task.Name()
		periodic = append(periodic, river.NewPeriodicJob(schedule,
			func() (river.JobArgs, *river.InsertOpts) { return taskArgs{Task: name}, nil },
			&river.PeriodicJobOpts{},
		))
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &worker{registry: cfg.registry, logger: cfg.logger})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues:       queues,
		Workers:      workers,
		PeriodicJobs: periodic,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}

	return &Manager{
		pool:     pool,
		client:   client,
		registry: cfg.registry,
		logger:   cfg.logger,
	}, nil
}

// Enqueue inserts a job for a registered task.
func (m *Manager) Enqueue(ctx context.Context, task string, payload any, opts ...EnqueueOption) error {
	args, insertOpts, err := m.build(task, payload, opts)
	if err != nil {
		return err
	}
	if _, err := m.client.Insert(ctx, args, insertOpts); err != nil {
		return fmt.Errorf("job: enqueue %s: %w", task, err)
	}
	return nil
}

// EnqueueTx inserts a job that becomes visible when tx commits.
func (m *Manager) EnqueueTx(ctx context.Context, tx pgx.Tx, task string, payload any, opts ...EnqueueOption) error {
	args, insertOpts, err := m.build(task, payload, opts)
	if err != nil {
		return err
	}
	if _, err := m.client.InsertTx(ctx, tx, args, insertOpts); err != nil {
		return fmt.Errorf("job: enqueue %s: %w", task, err)
	}
	return nil
}

func (m *Manager) build(task string, payload any, opts []EnqueueOption) (taskArgs, *river.InsertOpts, error) {
	return buildArgs(m.registry, task, payload, opts)
}

func buildArgs(reg registry, task string, payload any, opts []EnqueueOption) (taskArgs, *river.InsertOpts, error) {
	if _, ok := reg[task]; !ok {
		return taskArgs{}, nil, fmt.Errorf("%w: %s", ErrUnknownTask, task)
	}

	args := taskArgs{Task: task}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return taskArgs{}, nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		args.Payload = raw
	}

	cfg := &enqueueConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return args, cfg.insertOpts(time.Now()), nil
}

// Start begins working jobs.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if err := m.client.Start(ctx); err != nil {
		return fmt.Errorf("job: start: %w", err)
	}
	m.started = true
	m.logger.InfoContext(ctx, "job manager started", slog.Any("tasks", m.registry.names()))
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if err := m.client.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop: %w", err)
	}
	m.started = false
	m.logger.InfoContext(ctx, "job manager stopped")
	return nil
}

type worker struct {
	river.WorkerDefaults[taskArgs]
	registry registry
	logger   *slog.Logger
}

func (w *worker) Work(ctx context.Context, job *river.Job[taskArgs]) error {
	return w.run(ctx, job.Args, job.ID, job.Attempt)
}

func (w *worker) run(ctx context.Context, args taskArgs, id int64, attempt int) error {
	exec, ok := w.registry[args.Task]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, args.Task)
	}

	attrs := []any{slog.String("task", args.Task), slog.Int64("job_id", id), slog.Int("attempt", attempt)}
	if err := exec(ctx, args.Payload); err != nil {
		w.logger.ErrorContext(ctx, "task failed", append(attrs, slog.String("error", err.Error()))...)
		return err
	}
	w.logger.DebugContext(ctx, "task completed", attrs...)
	return nil
}
