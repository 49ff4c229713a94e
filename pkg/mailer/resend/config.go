package resend

// Config holds Resend provider settings.
// An empty APIKey means the provider is not configured.
type Config struct {
	APIKey      string `env:"RESEND_API_KEY"`
	SenderEmail string `env:"RESEND_FROM_EMAIL"`
	SenderName  string `env:"RESEND_FROM_NAME"`
}

// Enabled reports whether an API key is set.
func (c Config) Enabled() bool {
	return c.APIKey != ""
}

// From returns the default sender address.
func (c Config) From() string {
	if c.SenderName == "" {
		return c.SenderEmail
	}
	return c.SenderName + " <" + c.SenderEmail + ">"
}
