package email

import (
	"context"
	"errors"
)

// Message is a single outbound email.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
	ReplyTo  string
	// From overrides the sender configured on the client.
	From string
}

// EmailSender provides a testable abstraction over SES delivery.
type EmailSender interface {
	Send(ctx context.Context, msg Message) error
}

// ErrNotConfigured is returned when no delivery provider is set up.
var ErrNotConfigured = errors.New("envio de e-mail não configurado")

type disabledSender struct{}

// Disabled returns a sender that always fails with ErrNotConfigured.
func Disabled() EmailSender { return disabledSender{} }

func (disabledSender) Send(context.Context, Message) error { return ErrNotConfigured }
