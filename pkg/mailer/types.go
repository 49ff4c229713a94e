package mailer

import "fmt"

// Recipient formats a name and address as "Name <email>".
// Returns the bare address when name is empty.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Email is a fully-prepared message ready for a Sender.
type Email struct {
	Headers map[string]string
	Tags    map[string]string // provider tags, e.g. {"category": "welcome"}
	Subject string
	HTML    string
	Text    string // plain text alternative
	From    string // empty = provider default
	ReplyTo string
	To      []string
}

// Validate reports the first missing required field.
func (e *Email) Validate() error {
	switch {
	case len(e.To) == 0:
		return ErrNoRecipient
	case e.Subject == "":
		return ErrNoSubject
	case e.HTML == "":
		return ErrNoContent
	}
	return nil
}
