package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teanus/college-schedule-bot/internal/persistence"
)

// RegistrationCodeRepository implements persistence.RegistrationCodeRepository
// on SQLite. Timestamps are stored as RFC3339 UTC text.
type RegistrationCodeRepository struct {
	pool *ConnectionPool
}

// NewRegistrationCodeRepository creates a SQLite-backed code repository.
func NewRegistrationCodeRepository(pool *ConnectionPool) *RegistrationCodeRepository {
	return &RegistrationCodeRepository{pool: pool}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SaveCode upserts the pending code for the email, superseding any prior one.
func (r *RegistrationCodeRepository) SaveCode(ctx context.Context, code persistence.RegistrationCode) error {
	email := normalizeEmail(code.Email)
	if email == "" || code.Code == "" {
		return fmt.Errorf("%w: email and code are required", persistence.ErrConstraintViolation)
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO registration_codes (email, code, timestamp) VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET code = excluded.code, timestamp = excluded.timestamp`,
		email, code.Code, code.IssuedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("sqlite: save registration code: %w", mapError(err))
	}
	return nil
}

// GetCode returns the pending code for the email, or persistence.ErrNotFound.
func (r *RegistrationCodeRepository) GetCode(ctx context.Context, email string) (persistence.RegistrationCode, error) {
	var (
		record    persistence.RegistrationCode
		timestamp string
	)
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT email, code, timestamp FROM registration_codes WHERE email = ?`,
		normalizeEmail(email)).Scan(&record.Email, &record.Code, &timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.RegistrationCode{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.RegistrationCode{}, fmt.Errorf("sqlite: get registration code: %w", err)
	}

	record.IssuedAt, err = time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return persistence.RegistrationCode{}, fmt.Errorf("sqlite: stored code timestamp: %w", err)
	}
	return record, nil
}

// DeleteCode removes the pending code; deleting an absent code is a no-op.
func (r *RegistrationCodeRepository) DeleteCode(ctx context.Context, email string) error {
	_, err := r.pool.db.ExecContext(ctx,
		`DELETE FROM registration_codes WHERE email = ?`, normalizeEmail(email))
	if err != nil {
		return fmt.Errorf("sqlite: delete registration code: %w", err)
	}
	return nil
}
