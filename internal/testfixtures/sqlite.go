package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/teanus/college-schedule-bot/internal/persistence"
	"github.com/teanus/college-schedule-bot/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style tests.
type SQLiteHarness struct {
	Schedules persistence.ScheduleRepository
	Codes     persistence.RegistrationCodeRepository
	Admins    persistence.AdminRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a harness over a migrated temporary database.
// Cleanup is registered with the provided testing.TB; calling Close early is
// also fine.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	pool, err := sqlite.Open(filepath.Join(dir, "collegebot.db"))
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	if err := pool.Migrate(context.Background()); err != nil {
		pool.Close()
		tb.Fatalf("migrate sqlite: %v", err)
	}

	harness := &SQLiteHarness{
		Schedules: sqlite.NewScheduleRepository(pool),
		Codes:     sqlite.NewRegistrationCodeRepository(pool),
		Admins:    sqlite.NewAdminRepository(pool),
		cleanup: func() {
			pool.Close()
		},
	}
	tb.Cleanup(harness.Close)
	return harness
}
