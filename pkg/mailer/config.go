package mailer

// Config holds mailer configuration.
type Config struct {
	FallbackSubject string `env:"MAILER_FALLBACK_SUBJECT" envDefault:"Notification"`
	Layout          string `env:"MAILER_LAYOUT" envDefault:"base.html"`
	From            string `env:"MAILER_FROM" envDefault:"WebKernel <no-reply@example.com>"`
}
