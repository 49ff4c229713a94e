package mailer

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/webkernel/pkg/logger"
)

// Mailer renders templates and hands the result to a Sender.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	logger   *slog.Logger
	config   Config
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithLogger sets the logger for delivery reports.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mailer) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Mailer.
func New(sender Sender, renderer *Renderer, cfg Config, opts ...Option) *Mailer {
	m := &Mailer{
		sender:   sender,
		renderer: renderer,
		logger:   logger.NewNope(),
		config:   cfg,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SendParams describes a templated email.
type SendParams struct {
	Data     any
	Tags     map[string]string
	To       string
	Template string // e.g. "welcome.md"
	Subject  string // overrides the template subject
	Layout   string // overrides Config.Layout
	ReplyTo  string
}

// Send renders params.Template and delivers it.
// Subject resolution: params.Subject, then template frontmatter, then Config.FallbackSubject.
func (m *Mailer) Send(ctx context.Context, params SendParams) error {
	if params.To == "" {
		return ErrNoRecipient
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.Layout
	}

	out, err := m.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		return err
	}

	subject := params.Subject
	if subject == "" {
		subject = out.Subject
	}
	if subject == "" {
		subject = m.config.FallbackSubject
	}

	return m.SendRaw(ctx, &Email{
		To:      []string{params.To},
		From:    m.config.From,
		ReplyTo: params.ReplyTo,
		Subject: subject,
		HTML:    out.HTML,
		Text:    out.Text,
		Tags:    params.Tags,
	})
}

// SendRaw delivers a pre-built email.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	if err := email.Validate(); err != nil {
		return err
	}

	to := strings.Join(email.To, ", ")
	if err := m.sender.Send(ctx, email); err != nil {
		m.logger.ErrorContext(ctx, "failed to send email",
			slog.String("to", to),
			slog.String("error", err.Error()),
		)
		return errors.Join(ErrSendFailed, err)
	}

	m.logger.InfoContext(ctx, "email sent", slog.String("to", to), slog.String("subject", email.Subject))
	return nil
}
