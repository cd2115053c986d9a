package application

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/teanus/college-schedule-bot/internal/mail"
	"github.com/teanus/college-schedule-bot/internal/persistence"
)

// DefaultCodeTTL is the verification window for issued codes.
const DefaultCodeTTL = 180 * time.Second

const codeLength = 6

// RegistrationService issues short-lived email verification codes and checks
// submitted values against them.
type RegistrationService struct {
	codes        persistence.RegistrationCodeRepository
	mailer       mail.Mailer
	validate     *validator.Validate
	generateCode func() (string, error)
	now          func() time.Time
	ttl          time.Duration
	logger       *slog.Logger
}

// NewRegistrationService wires dependencies for registration operations.
// generateCode and now default to the production implementations when nil; ttl
// defaults to DefaultCodeTTL when non-positive.
func NewRegistrationService(codes persistence.RegistrationCodeRepository, mailer mail.Mailer, generateCode func() (string, error), now func() time.Time, ttl time.Duration, logger *slog.Logger) *RegistrationService {
	if generateCode == nil {
		generateCode = randomCode
	}
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &RegistrationService{
		codes:        codes,
		mailer:       mailer,
		validate:     validator.New(),
		generateCode: generateCode,
		now:          now,
		ttl:          ttl,
		logger:       defaultLogger(logger),
	}
}

// RequestCode issues a fresh code for the address, replacing any pending one,
// and mails it out. The code is persisted before delivery is attempted: on a
// delivery failure the returned error wraps ErrMailDelivery and the caller must
// tell the user the message did not go out, but the stored code stays valid.
func (s *RegistrationService) RequestCode(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	logger := serviceLogger(ctx, s.logger, "registration", "request_code", "email", email)

	if err := s.validate.Var(email, "required,email"); err != nil {
		vErr := &ValidationError{}
		vErr.add("email", "malformed address")
		return "", vErr
	}

	code, err := s.generateCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	record := persistence.RegistrationCode{
		Email:    email,
		Code:     code,
		IssuedAt: s.now(),
	}
	if err := s.codes.SaveCode(ctx, record); err != nil {
		logger.ErrorContext(ctx, "code persistence failed", "error", err, "error_kind", ErrorKind(err))
		return "", fmt.Errorf("save code: %w", err)
	}

	msg := mail.Message{
		To:      []string{email},
		Subject: "Код подтверждения",
		Body:    fmt.Sprintf("Ваш код подтверждения: %s\nКод действует %d секунд.", code, int(s.ttl.Seconds())),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.ErrorContext(ctx, "code delivery failed", "error", err)
		return code, fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	logger.InfoContext(ctx, "verification code sent")
	return code, nil
}

// VerifyCode reports whether the submitted code matches the pending one and is
// still inside the validity window. A missing record, a wrong code and an
// expired code all report false without distinction. A successful check
// consumes the code: repeating it returns false.
func (s *RegistrationService) VerifyCode(ctx context.Context, email, submitted string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	logger := serviceLogger(ctx, s.logger, "registration", "verify_code", "email", email)

	record, err := s.codes.GetCode(ctx, email)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return false, nil
		}
		logger.ErrorContext(ctx, "code lookup failed", "error", err, "error_kind", ErrorKind(err))
		return false, fmt.Errorf("get code: %w", err)
	}

	submitted = strings.TrimSpace(submitted)
	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(submitted)) != 1 {
		return false, nil
	}
	if s.now().Sub(record.IssuedAt) > s.ttl {
		return false, nil
	}

	if err := s.codes.DeleteCode(ctx, email); err != nil {
		logger.ErrorContext(ctx, "code consumption failed", "error", err, "error_kind", ErrorKind(err))
		return false, fmt.Errorf("delete code: %w", err)
	}

	logger.InfoContext(ctx, "code verified")
	return true, nil
}

// randomCode draws a fixed-length lowercase hex code from crypto/rand.
// Collisions across addresses are acceptable; codes are keyed by email.
func randomCode() (string, error) {
	buf := make([]byte, codeLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
