package db

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite3"
)

// Config holds database connection parameters.
// All fields are populated from environment variables for deployment convenience.
type Config struct {
	// Driver selects the dialect: postgres, mysql or sqlite3.
	Driver string `env:"DB_DRIVER" envDefault:"sqlite3"`

	// URL is a full connection string. When set, the discrete fields below are ignored.
	URL string `env:"DB_URL"`

	Host string `env:"DB_HOST" envDefault:"127.0.0.1"`
	Port int    `env:"DB_PORT"`
	Name string `env:"DB_NAME" envDefault:"app"`
	User string `env:"DB_USER"`
	Pass string `env:"DB_PASS"`

	// SQLitePath is the database file for the sqlite3 driver (":memory:" for tests).
	SQLitePath string `env:"DB_SQLITE_PATH" envDefault:"var/data/app.db"`

	// Migration bookkeeping table.
	MigrationsTable string `env:"DB_MIGRATIONS_TABLE" envDefault:"schema_migrations"`

	// Force connection refresh to prevent stale connections behind load balancers.
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"30m"`

	// Postgres pool health check frequency.
	HealthCheckPeriod time.Duration `env:"DB_HEALTHCHECK_PERIOD" envDefault:"1m"`

	// Retry configuration for transient network issues during startup.
	RetryAttempts int           `env:"DB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"DB_RETRY_INTERVAL" envDefault:"2s"`

	MaxOpenConns int32 `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MinConns     int32 `env:"DB_MIN_CONNS" envDefault:"2"`
}

// DSN returns the driver-specific connection string.
func (c Config) DSN() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}

	switch c.Driver {
	case DriverPostgres:
		u := url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.portOr(5432))),
			Path:   "/" + c.Name,
		}
		if c.User != "" {
			u.User = url.UserPassword(c.User, c.Pass)
		}
		return u.String(), nil

	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.portOr(3306)))
		mc.DBName = c.Name
		mc.User = c.User
		mc.Passwd = c.Pass
		mc.ParseTime = true
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN(), nil

	case DriverSQLite:
		if c.SQLitePath == ":memory:" {
			return "file::memory:?_foreign_keys=on", nil
		}
		return "file:" + c.SQLitePath + "?_foreign_keys=on&_busy_timeout=5000", nil

	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Driver)
	}
}

func (c Config) portOr(def int) int {
	if c.Port > 0 {
		return c.Port
	}
	return def
}
