package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/teanus/college-schedule-bot/internal/config"
	"github.com/teanus/college-schedule-bot/internal/persistence"
)

// BootstrapSource reads the elevation settings. Implementations re-read the
// configuration file on every call so operators can flip the switch without a
// restart.
type BootstrapSource interface {
	ReadBootstrap() (config.Bootstrap, error)
}

// AdminService tracks privileged chat identities and handles the secret-gated
// elevation flow.
type AdminService struct {
	admins    persistence.AdminRepository
	bootstrap BootstrapSource
	logger    *slog.Logger
}

// NewAdminService wires dependencies for admin operations.
func NewAdminService(admins persistence.AdminRepository, bootstrap BootstrapSource, logger *slog.Logger) *AdminService {
	return &AdminService{
		admins:    admins,
		bootstrap: bootstrap,
		logger:    defaultLogger(logger),
	}
}

// IsAdmin reports whether the user holds admin privileges.
func (s *AdminService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	ok, err := s.admins.IsAdmin(ctx, userID)
	if err != nil {
		serviceLogger(ctx, s.logger, "admin", "is_admin", "user_id", userID).
			ErrorContext(ctx, "membership check failed", "error", err, "error_kind", ErrorKind(err))
		return false, fmt.Errorf("is admin: %w", err)
	}
	return ok, nil
}

// Seed grants admin rights to the configured identities. Already-privileged
// identities are left as is.
func (s *AdminService) Seed(ctx context.Context, userIDs []int64) error {
	logger := serviceLogger(ctx, s.logger, "admin", "seed")
	for _, id := range userIDs {
		if err := s.admins.AddAdmin(ctx, id); err != nil {
			logger.ErrorContext(ctx, "seeding failed", "user_id", id, "error", err, "error_kind", ErrorKind(err))
			return fmt.Errorf("seed admin %d: %w", id, err)
		}
	}
	if len(userIDs) > 0 {
		logger.InfoContext(ctx, "admins seeded", "count", len(userIDs))
	}
	return nil
}

// Elevate grants admin rights to the user when the elevation switch is on and
// the presented secret matches the configured hash. Any other outcome is
// ErrUnauthorized; a disabled switch and a wrong secret are not distinguished.
func (s *AdminService) Elevate(ctx context.Context, userID int64, secret string) error {
	logger := serviceLogger(ctx, s.logger, "admin", "elevate", "user_id", userID)

	bootstrap, err := s.bootstrap.ReadBootstrap()
	if err != nil {
		logger.ErrorContext(ctx, "bootstrap read failed", "error", err)
		return fmt.Errorf("read bootstrap: %w", err)
	}
	if !bootstrap.Enabled() {
		return ErrUnauthorized
	}

	if err := VerifyBootstrapSecret(bootstrap.CodeHash, secret); err != nil {
		if errors.Is(err, ErrSecretMismatch) {
			logger.WarnContext(ctx, "elevation rejected")
			return ErrUnauthorized
		}
		logger.ErrorContext(ctx, "secret verification failed", "error", err)
		return fmt.Errorf("verify secret: %w", err)
	}

	if err := s.admins.AddAdmin(ctx, userID); err != nil {
		logger.ErrorContext(ctx, "elevation persistence failed", "error", err, "error_kind", ErrorKind(err))
		return fmt.Errorf("add admin: %w", err)
	}

	logger.InfoContext(ctx, "admin elevated")
	return nil
}
