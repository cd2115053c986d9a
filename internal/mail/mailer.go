// Package mail is the delivery collaborator for registration codes and group
// broadcasts. The SMTP backend is used in production; the console backend
// echoes messages to the log for local runs.
package mail

import "context"

// Message is one outgoing email.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Mailer delivers messages. Send blocks until the transport accepts or
// rejects the message; callers fold the outcome into their own reply, so a
// user is never told a message was sent when it was not.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
