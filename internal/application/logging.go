package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/teanus/college-schedule-bot/internal/logging"
	"github.com/teanus/college-schedule-bot/internal/persistence"
	"github.com/teanus/college-schedule-bot/internal/workbook"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrGroupNotFound):
		return "group_not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrMailDelivery):
		return "mail_delivery"
	case errors.Is(err, persistence.ErrNotFound):
		return "not_found"
	case errors.Is(err, persistence.ErrConstraintViolation):
		return "constraint_violation"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	var missing *workbook.MissingColumnError
	var badTime *workbook.MalformedTimeError
	var badDay *workbook.UnknownDayError
	var badRow *workbook.RowError
	if errors.As(err, &missing) || errors.As(err, &badTime) || errors.As(err, &badDay) || errors.As(err, &badRow) {
		return "workbook"
	}

	return "unexpected"
}
