package mail

import "context"

// Message is a single plaintext email to one recipient
type Message struct {
	From     string // defaults to the mailer's account address
	FromName string
	To       string
	Subject  string
	Body     string
}

// Mailer is the interface for sending emails
type Mailer interface {
	// Verify confirms the transport is reachable and accepts our credentials
	Verify(ctx context.Context) error
	// Send delivers the given message
	Send(ctx context.Context, msg *Message) error
}
