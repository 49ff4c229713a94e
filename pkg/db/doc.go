// Package db provides relational database utilities for PostgreSQL, MySQL and SQLite.
//
// Postgres connections use a [github.com/jackc/pgx/v5/pgxpool] pool bridged to
// database/sql, so repositories work against *sql.DB for every driver while
// background workers can still use the native pool. MySQL uses
// [github.com/go-sql-driver/mysql] and SQLite uses [github.com/mattn/go-sqlite3].
//
// # Features
//
//   - One Config for all drivers, loaded from environment variables
//   - Retry with linear backoff during startup
//   - Health check closure compatible with pkg/health
//   - Per-driver migrations using [github.com/pressly/goose/v3]
//
// # Configuration
//
//	DB_DRIVER       - postgres, mysql or sqlite3 (default: sqlite3)
//	DB_URL          - full connection string; overrides the fields below
//	DB_HOST         - host (default: 127.0.0.1)
//	DB_PORT         - port (default: 5432 / 3306)
//	DB_NAME         - database name (default: app)
//	DB_USER         - user
//	DB_PASS         - password
//	DB_SQLITE_PATH  - sqlite file (default: var/data/app.db)
//	DB_RETRY_ATTEMPTS, DB_RETRY_INTERVAL, DB_MAX_OPEN_CONNS, DB_MIN_CONNS
//
// # Usage
//
//	conn, err := db.Open(ctx, cfg.DB)
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	//go:embed migrations
//	var migrations embed.FS
//	sub, _ := fs.Sub(migrations, "migrations")
//	if err := db.Migrate(ctx, conn, sub, cfg.DB.MigrationsTable, log); err != nil {
//		return err
//	}
//
// # Health Checks
//
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"db": db.Healthcheck(conn),
//	}))
package db
