package core

import "net/mail"

type (
	// EmailMessage is a plain-text notification, such as a password reset
	// link.
	EmailMessage struct {
		To      []mail.Address
		Subject string
		Body    string
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages without blocking the caller.
		SendMessages(messages ...*EmailMessage)
	}
)

// Deliverable reports whether the message has anyone to go to and anything
// to say. Senders drop undeliverable messages silently.
func (m *EmailMessage) Deliverable() bool {
	return len(m.To) > 0 && m.Body != ""
}
