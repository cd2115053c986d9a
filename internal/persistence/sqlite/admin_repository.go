package sqlite

import (
	"context"
	"fmt"
	"time"
)

// AdminRepository implements persistence.AdminRepository on SQLite.
type AdminRepository struct {
	pool *ConnectionPool
}

// NewAdminRepository creates a SQLite-backed admin repository.
func NewAdminRepository(pool *ConnectionPool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// IsAdmin reports whether the user id is in the admin set.
func (r *AdminRepository) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	var exists int
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM admins WHERE user_id = ?)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite: admin lookup: %w", err)
	}
	return exists == 1, nil
}

// AddAdmin records the user id; adding an existing admin changes nothing.
func (r *AdminRepository) AddAdmin(ctx context.Context, userID int64) error {
	_, err := r.pool.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO admins (user_id, added_at) VALUES (?, ?)`,
		userID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("sqlite: add admin: %w", err)
	}
	return nil
}
