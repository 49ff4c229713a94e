// Package handlers holds the application's controllers.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/webkernel"
	"github.com/dmitrymomot/webkernel/app"
	"github.com/dmitrymomot/webkernel/app/notify"
	"github.com/dmitrymomot/webkernel/app/repository"
	"github.com/dmitrymomot/webkernel/pkg/logger"
	"github.com/dmitrymomot/webkernel/pkg/views"
)

const (
	defaultAppName = "WebKernel"
	guestName      = "Guest"

	welcomeEmail    = "test@example.com"
	welcomeUsername = "JohnDoe"
)

// Renderer renders a named page.
type Renderer interface {
	Render(ctx context.Context, name string, data map[string]any) (string, error)
}

// Option configures the Home controller.
type Option func(*Home)

// WithLogger sets the controller logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Home) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithAppName sets the application name shown on the about page.
func WithAppName(name string) Option {
	return func(h *Home) {
		if name != "" {
			h.appName = name
		}
	}
}

// WithContent sets the filesystem holding markdown pages.
func WithContent(fsys fs.FS) Option {
	return func(h *Home) {
		if fsys != nil {
			h.content = fsys
		}
	}
}

// Home serves the public pages and the protected admin area.
type Home struct {
	users    repository.UserStore
	notifier notify.Notifier
	views    Renderer
	content  fs.FS
	logger   *slog.Logger
	appName  string
}

// NewHome creates the controller.
func NewHome(users repository.UserStore, n notify.Notifier, v Renderer, opts ...Option) *Home {
	h := &Home{
		users:    users,
		notifier: n,
		views:    v,
		content:  app.Content(),
		logger:   logger.NewNope(),
		appName:  defaultAppName,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Actions implements webkernel.Controller.
func (h *Home) Actions() map[string]webkernel.Action {
	return map[string]webkernel.Action{
		"index":         h.index,
		"about":         h.about,
		"hello":         h.hello,
		"user_detail":   h.userDetail,
		"admin":         h.admin,
		"secret_report": h.secretReport,
	}
}

func (h *Home) index(ctx context.Context, _ webkernel.Vars) (string, error) {
	status := "successfully sent"
	if err := h.notifier.SendWelcome(ctx, welcomeEmail, welcomeUsername); err != nil {
		h.logger.ErrorContext(ctx, "failed to send welcome email",
			slog.String("email", welcomeEmail),
			slog.String("error", err.Error()),
		)
		status = "failed to send"
	}

	users, err := h.users.FindAll(ctx)
	if err != nil {
		return "", fmt.Errorf("handlers: list users: %w", err)
	}

	return h.views.Render(ctx, "home", map[string]any{
		"pageTitle": "Welcome to My App!",
		"message":   fmt.Sprintf("This is the homepage. Welcome email status: %s.", status),
		"users":     users,
	})
}

func (h *Home) about(ctx context.Context, _ webkernel.Vars) (string, error) {
	src, err := fs.ReadFile(h.content, "about.md")
	if err != nil {
		return "", fmt.Errorf("handlers: read about page: %w", err)
	}
	content, err := views.Markdown(src)
	if err != nil {
		return "", err
	}

	return h.views.Render(ctx, "about", map[string]any{
		"pageTitle": "About Us",
		"appName":   h.appName,
		"content":   content,
	})
}

func (h *Home) hello(ctx context.Context, vars webkernel.Vars) (string, error) {
	name := vars.Get("name", guestName)

	switch name {
	case "bad-user":
		return "", webkernel.ErrNotFound(fmt.Sprintf("The user '%s' could not be found.", name))
	case "error-user":
		h.logger.WarnContext(ctx, "simulating a runtime fault", slog.String("name", name))
		var divisor int
		return strconv.Itoa(100 / divisor), nil
	}

	return h.views.Render(ctx, "hello", map[string]any{
		"pageTitle": "Hello",
		"name":      upperFirst(name),
	})
}

func (h *Home) userDetail(ctx context.Context, vars webkernel.Vars) (string, error) {
	id, err := strconv.ParseInt(vars.Get("id", ""), 10, 64)
	if err != nil {
		return "", webkernel.ErrBadRequest("Invalid user ID.", webkernel.WithError(err))
	}

	user, err := h.users.Find(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "", webkernel.ErrNotFound(fmt.Sprintf("User with ID %d not found.", id))
	}
	if err != nil {
		return "", fmt.Errorf("handlers: find user %d: %w", id, err)
	}

	return h.views.Render(ctx, "user_detail", map[string]any{
		"pageTitle": user.Name,
		"user":      user,
	})
}

func (h *Home) admin(ctx context.Context, _ webkernel.Vars) (string, error) {
	return h.views.Render(ctx, "admin_panel", map[string]any{
		"pageTitle": "Admin Panel",
		"message":   "Welcome to the protected admin area!",
	})
}

func (h *Home) secretReport(ctx context.Context, _ webkernel.Vars) (string, error) {
	return h.views.Render(ctx, "secret_report", map[string]any{
		"pageTitle":  "Secret Report",
		"reportData": "Highly confidential report data from the database.",
	})
}

// upperFirst upper-cases the first letter of s and keeps the rest as is.
func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(language.Und).String(string(r)) + s[size:]
}

var _ webkernel.Controller = (*Home)(nil)
