package db

import "context"

// Shutdown returns a function that closes the database handle and, for
// postgres, the underlying pool.
// Use with webkernel.ShutdownHook().
//
// Example:
//
//	webkernel.Run(ctx, kernel,
//	    webkernel.ShutdownHook(db.Shutdown(conn)),
//	)
func Shutdown(d *DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return d.Close()
	}
}

// Close releases the handle.
func (d *DB) Close() error {
	err := d.SQL.Close()
	if d.Pool != nil {
		d.Pool.Close()
	}
	return err
}
