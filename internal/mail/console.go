package mail

import (
	"context"
	"log/slog"
)

// ConsoleMailer logs messages instead of delivering them. It backs local runs
// where no SMTP host is configured.
type ConsoleMailer struct {
	logger *slog.Logger
}

// NewConsoleMailer builds a console mailer.
func NewConsoleMailer(logger *slog.Logger) *ConsoleMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleMailer{logger: logger}
}

// Send logs the message and reports success.
func (m *ConsoleMailer) Send(ctx context.Context, msg Message) error {
	m.logger.InfoContext(ctx, "console mailer: message not delivered",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
