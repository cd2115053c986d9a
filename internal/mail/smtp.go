package mail

import (
	"context"
	"errors"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/teanus/college-schedule-bot/internal/config"
)

// SMTPMailer delivers messages through an authenticated SMTP relay.
type SMTPMailer struct {
	cfg config.Mail
}

// NewSMTPMailer builds a mailer from the mail configuration section.
func NewSMTPMailer(cfg config.Mail) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers the message. Each call dials a fresh session; the bot sends
// mail rarely enough that connection reuse is not worth the state.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("mail: message has no recipients")
	}

	message := gomail.NewMsg()
	if err := message.From(m.cfg.From); err != nil {
		return fmt.Errorf("mail: from %q: %w", m.cfg.From, err)
	}
	if err := message.To(msg.To...); err != nil {
		return fmt.Errorf("mail: recipients: %w", err)
	}
	message.Subject(msg.Subject)
	message.SetBodyString(gomail.TypeTextPlain, msg.Body)

	client, err := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("mail: client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}
