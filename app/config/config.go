// Package config loads application settings from the environment.
package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/webkernel/pkg/db"
	"github.com/dmitrymomot/webkernel/pkg/logger"
	"github.com/dmitrymomot/webkernel/pkg/mailer"
	"github.com/dmitrymomot/webkernel/pkg/mailer/resend"
	"github.com/dmitrymomot/webkernel/pkg/redis"
)

// ErrLoadConfig wraps every failure of Load.
var ErrLoadConfig = errors.New("config: failed to load")

const envDevelopment = "development"

// Config is the full application configuration.
type Config struct {
	Env             string        `env:"APP_ENV" envDefault:"production"`
	Address         string        `env:"HTTP_ADDRESS" envDefault:":8080"`
	AuthToken       string        `env:"AUTH_TOKEN" envDefault:"secret"`
	TrustProxy      bool          `env:"TRUST_PROXY" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	JobsEnabled     bool          `env:"JOBS_ENABLED" envDefault:"false"`

	Log    logger.Config
	DB     db.Config
	Redis  redis.Config
	Mailer mailer.Config
	Resend resend.Config
}

// Debug reports whether error pages expose diagnostics.
func (c Config) Debug() bool {
	return c.Env == envDevelopment
}

// Load reads the given dotenv files, if present, then parses the environment.
// Variables already set in the environment win over dotenv values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Join(ErrLoadConfig, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errors.Join(ErrLoadConfig, err)
	}
	return cfg, nil
}
