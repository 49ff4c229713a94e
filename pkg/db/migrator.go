package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

// Migrator applies goose migrations for the active driver.
// Migrations live in one directory per driver inside fsys:
//
//	migrations/postgres/00001_create_users.sql
//	migrations/mysql/00001_create_users.sql
//	migrations/sqlite3/00001_create_users.sql
type Migrator struct {
	db    *DB
	fsys  fs.FS
	log   *slog.Logger
	table string
}

// NewMigrator creates a migrator reading the per-driver directory of fsys.
func NewMigrator(d *DB, fsys fs.FS, table string, log *slog.Logger) (*Migrator, error) {
	sub, err := fs.Sub(fsys, d.Driver)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrApplyMigrations, err)
	}
	if table == "" {
		table = "schema_migrations"
	}
	return &Migrator{db: d, fsys: sub, log: log, table: table}, nil
}

// gooseMu guards goose's package-level configuration.
var gooseMu sync.Mutex

// setup configures goose's package-level state for this migrator.
// Callers must hold gooseMu.
func (m *Migrator) setup() error {
	goose.SetBaseFS(m.fsys)
	goose.SetLogger(&gooseLoggerAdapter{m.log})
	goose.SetTableName(m.table)

	if err := goose.SetDialect(m.db.Driver); err != nil {
		return errors.Join(ErrSetDialect, err)
	}
	return nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := m.setup(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, m.db.SQL, "."); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}
	return nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := m.setup(); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, m.db.SQL, "."); err != nil {
		return errors.Join(ErrRollbackMigration, err)
	}
	return nil
}

// Status logs the applied state of every migration.
func (m *Migrator) Status(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := m.setup(); err != nil {
		return err
	}
	if err := goose.StatusContext(ctx, m.db.SQL, "."); err != nil {
		return errors.Join(ErrMigrationStatus, err)
	}
	return nil
}

// Migrate applies all pending migrations for d from fsys.
func Migrate(ctx context.Context, d *DB, fsys fs.FS, table string, log *slog.Logger) error {
	m, err := NewMigrator(d, fsys, table, log)
	if err != nil {
		return err
	}
	return m.Up(ctx)
}

type gooseLoggerAdapter struct {
	log *slog.Logger
}

func (g *gooseLoggerAdapter) Printf(format string, args ...any) {
	if g.log == nil {
		return
	}
	g.log.Info(fmt.Sprintf(format, args...))
}

func (g *gooseLoggerAdapter) Fatalf(format string, args ...any) {
	// Log at error level only; goose returns an error that propagates up.
	if g.log == nil {
		return
	}
	g.log.Error(fmt.Sprintf(format, args...))
}

var _ goose.Logger = (*gooseLoggerAdapter)(nil)
