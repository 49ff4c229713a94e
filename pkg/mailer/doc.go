// Package mailer renders markdown email templates and delivers them through
// a pluggable [Sender].
//
// Templates are markdown files with optional YAML frontmatter. The body and
// the Subject field are Go text templates:
//
//	---
//	Subject: Welcome, {{.Username}}!
//	---
//	Hello **{{.Username}}**, thanks for signing up.
//
// [Renderer] converts the markdown with [github.com/yuin/goldmark] and wraps
// it in an html/template layout from "layouts/". [Mailer] combines a
// renderer with a sender:
//
//	r, err := mailer.NewRenderer(emails.FS)
//	m := mailer.New(resend.New(cfg.Resend), r, cfg.Mailer)
//	err = m.Send(ctx, mailer.SendParams{
//	    To:       "user@example.com",
//	    Template: "welcome.md",
//	    Data:     map[string]any{"Username": "JohnDoe"},
//	})
//
// [LogSender] logs messages instead of delivering them and is used when no
// provider is configured. Package [github.com/dmitrymomot/webkernel/pkg/mailer/resend]
// provides the Resend provider.
package mailer
