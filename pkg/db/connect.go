package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	// Registers the sqlite3 driver; mysql registers via config.go.
	_ "github.com/mattn/go-sqlite3"
)

// DB is an open database handle for one of the supported drivers.
type DB struct {
	// SQL is the database/sql handle used by repositories and migrations.
	SQL *sql.DB

	// Pool is the native pgx pool, set only for the postgres driver.
	// Background workers use it directly.
	Pool *pgxpool.Pool

	// Driver is the name of the active driver.
	Driver string
}

// Open connects to the database described by cfg with retry logic.
// Postgres connections go through a pgx pool bridged to database/sql.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	if cfg.Driver == DriverPostgres {
		pool, err := Connect(ctx, dsn, cfg)
		if err != nil {
			return nil, err
		}
		return &DB{SQL: stdlib.OpenDBFromPool(pool), Pool: pool, Driver: cfg.Driver}, nil
	}

	if cfg.Driver == DriverSQLite && cfg.URL == "" && cfg.SQLitePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, errors.Join(ErrFailedToOpenDBConnection, err)
		}
	}

	sqlDB, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	sqlDB.SetMaxOpenConns(int(cfg.MaxOpenConns))
	sqlDB.SetMaxIdleConns(int(cfg.MinConns))
	sqlDB.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
	sqlDB.SetConnMaxLifetime(cfg.MaxConnLifetime)
	if cfg.Driver == DriverSQLite {
		// SQLite serializes writers, and an in-memory database lives only as
		// long as its single connection.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxIdleTime(0)
		sqlDB.SetConnMaxLifetime(0)
	}

	if err := retry(ctx, cfg, sqlDB.PingContext); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &DB{SQL: sqlDB, Driver: cfg.Driver}, nil
}

// Connect establishes a PostgreSQL connection pool with retry logic.
// Uses linear backoff to handle transient network issues during startup.
func Connect(ctx context.Context, dsn string, cfg Config) (*pgxpool.Pool, error) {
	connConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	connConfig.MaxConns = cfg.MaxOpenConns
	connConfig.MinConns = cfg.MinConns
	connConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	connConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	connConfig.MaxConnLifetime = cfg.MaxConnLifetime

	var pool *pgxpool.Pool
	err = retry(ctx, cfg, func(ctx context.Context) error {
		conn, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err != nil {
			return err
		}
		// Verify with a real ping to catch authentication and permission issues.
		if err := conn.Ping(ctx); err != nil {
			conn.Close()
			return err
		}
		pool = conn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// retry runs fn up to cfg.RetryAttempts times.
// Attempt 1 waits RetryInterval, attempt 2 waits 2x, and so on.
func retry(ctx context.Context, cfg Config, fn func(context.Context) error) error {
	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for i := range attempts {
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}
	return errors.Join(ErrFailedToOpenDBConnection, lastErr)
}
