package job

import (
	"context"
	"errors"
)

// StartHook adapts Start to a server startup hook.
func (m *Manager) StartHook() func(context.Context) error {
	return m.Start
}

// ShutdownHook adapts Stop to a server shutdown hook.
func (m *Manager) ShutdownHook() func(context.Context) error {
	return m.Stop
}

// Healthcheck reports whether the manager is running and its pool answers.
func Healthcheck(m *Manager) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if m == nil {
			return ErrHealthcheckFailed
		}

		m.mu.Lock()
		started := m.started
		m.mu.Unlock()
		if !started {
			return errors.Join(ErrHealthcheckFailed, ErrNotStarted)
		}

		if err := m.pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
