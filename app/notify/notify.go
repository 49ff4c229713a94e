// Package notify sends user-facing notifications.
package notify

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/webkernel/pkg/logger"
	"github.com/dmitrymomot/webkernel/pkg/mailer"
)

const welcomeTemplate = "welcome.md"

// Notifier sends the welcome notification for a new account.
type Notifier interface {
	SendWelcome(ctx context.Context, email, username string) error
}

// Mail delivers notifications synchronously through a Mailer.
type Mail struct {
	mailer *mailer.Mailer
	logger *slog.Logger
}

// NewMail creates a Mail notifier.
func NewMail(m *mailer.Mailer, l *slog.Logger) *Mail {
	if l == nil {
		l = logger.NewNope()
	}
	return &Mail{mailer: m, logger: l}
}

func (n *Mail) SendWelcome(ctx context.Context, email, username string) error {
	n.logger.InfoContext(ctx, "sending welcome email",
		slog.String("email", email),
		slog.String("username", username),
	)
	return n.mailer.Send(ctx, mailer.SendParams{
		To:       mailer.Recipient(username, email),
		Template: welcomeTemplate,
		Data:     map[string]any{"Email": email, "Username": username},
		Tags:     map[string]string{"category": "welcome"},
	})
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, email, username string) error

func (f Func) SendWelcome(ctx context.Context, email, username string) error {
	return f(ctx, email, username)
}
