package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/teanus/college-schedule-bot/internal/mail"
	"github.com/teanus/college-schedule-bot/internal/persistence"
)

// BroadcastService mails announcements to a group's roster.
type BroadcastService struct {
	schedules persistence.ScheduleRepository
	mailer    mail.Mailer
	logger    *slog.Logger
}

// NewBroadcastService wires dependencies for broadcast operations.
func NewBroadcastService(schedules persistence.ScheduleRepository, mailer mail.Mailer, logger *slog.Logger) *BroadcastService {
	return &BroadcastService{
		schedules: schedules,
		mailer:    mailer,
		logger:    defaultLogger(logger),
	}
}

// Broadcast sends the message to every address on the group's roster and
// returns the recipient count. An empty roster returns zero without touching
// the mail transport. ErrGroupNotFound for an unknown group; a transport
// failure wraps ErrMailDelivery.
func (s *BroadcastService) Broadcast(ctx context.Context, groupName, subject, body string) (int, error) {
	logger := serviceLogger(ctx, s.logger, "broadcast", "broadcast", "group", groupName)

	emails, err := s.schedules.ListEmailsByGroup(ctx, groupName)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return 0, ErrGroupNotFound
		}
		logger.ErrorContext(ctx, "roster query failed", "error", err, "error_kind", ErrorKind(err))
		return 0, fmt.Errorf("list emails: %w", err)
	}
	if len(emails) == 0 {
		logger.InfoContext(ctx, "broadcast skipped, empty roster")
		return 0, nil
	}

	msg := mail.Message{
		To:      emails,
		Subject: subject,
		Body:    body,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.ErrorContext(ctx, "broadcast delivery failed", "error", err)
		return 0, fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	logger.InfoContext(ctx, "broadcast sent", "recipients", len(emails))
	return len(emails), nil
}
