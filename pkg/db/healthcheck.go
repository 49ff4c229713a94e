package db

import (
	"context"
	"errors"
)

// Healthcheck returns a readiness check that pings the database.
//
//	health.Checks{"db": db.Healthcheck(conn)}
func Healthcheck(d *DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := d.SQL.PingContext(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
