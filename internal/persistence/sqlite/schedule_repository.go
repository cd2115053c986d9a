package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/teanus/college-schedule-bot/internal/persistence"
	"github.com/teanus/college-schedule-bot/internal/timetable"
)

// ScheduleRepository implements persistence.ScheduleRepository on SQLite.
type ScheduleRepository struct {
	pool *ConnectionPool
}

// NewScheduleRepository creates a SQLite-backed schedule repository.
func NewScheduleRepository(pool *ConnectionPool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

// normalizeGroupName lower-cases and trims a group name; this is the form
// persisted and matched against.
func normalizeGroupName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ReplaceAll wipes the schedule dataset and repopulates it from the sheets
// inside one transaction. Either the whole import lands or the previous data
// survives untouched.
func (r *ScheduleRepository) ReplaceAll(ctx context.Context, sheets []persistence.ImportSheet) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		// Children before parents; foreign keys are enforced.
		for _, table := range []string{"Subjects", "Schedule", "Emails", "Groups"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, mapError(err))
			}
		}

		for _, sheet := range sheets {
			name := normalizeGroupName(sheet.Group)
			if name == "" {
				return fmt.Errorf("%w: empty group name", persistence.ErrConstraintViolation)
			}

			res, err := tx.ExecContext(ctx,
				`INSERT INTO Groups (group_name) VALUES (?)`, name)
			if err != nil {
				return fmt.Errorf("insert group %q: %w", name, mapError(err))
			}
			groupID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("group id for %q: %w", name, err)
			}

			for _, row := range sheet.Rows {
				if err := r.insertRow(ctx, tx, groupID, row); err != nil {
					return fmt.Errorf("group %q: %w", name, err)
				}
			}
		}
		return nil
	})
}

// insertRow stores one import row: a schedule entry for the row's day (a new
// entry even when one already exists for that day), its subject, and the
// roster record when the row carries an email.
func (r *ScheduleRepository) insertRow(ctx context.Context, tx *sql.Tx, groupID int64, row persistence.ImportRow) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO Schedule (group_id, day_of_week) VALUES (?, ?)`,
		groupID, int(row.Day))
	if err != nil {
		return fmt.Errorf("insert schedule entry: %w", mapError(err))
	}
	scheduleID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("schedule entry id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO Subjects (schedule_id, subject_name, start_time, end_time, location)
		 VALUES (?, ?, ?, ?, ?)`,
		scheduleID, row.SubjectName, row.Start.String(), row.End.String(), row.Location); err != nil {
		return fmt.Errorf("insert subject %q: %w", row.SubjectName, mapError(err))
	}

	if strings.TrimSpace(row.Email) != "" {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO Emails (group_id, email, last_name, first_name) VALUES (?, ?, ?, ?)`,
			groupID, strings.TrimSpace(row.Email), row.LastName, row.FirstName); err != nil {
			return fmt.Errorf("insert email %q: %w", row.Email, mapError(err))
		}
	}
	return nil
}

// GetGroupByName resolves a group by case-insensitive name.
func (r *ScheduleRepository) GetGroupByName(ctx context.Context, name string) (persistence.Group, error) {
	var group persistence.Group
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT group_id, group_name FROM Groups WHERE group_name = ?`,
		normalizeGroupName(name)).Scan(&group.ID, &group.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Group{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Group{}, fmt.Errorf("sqlite: get group %q: %w", name, err)
	}
	return group, nil
}

// ListGroups returns every group ordered by name.
func (r *ScheduleRepository) ListGroups(ctx context.Context) ([]persistence.Group, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT group_id, group_name FROM Groups ORDER BY group_name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list groups: %w", err)
	}
	defer rows.Close()

	var groups []persistence.Group
	for rows.Next() {
		var group persistence.Group
		if err := rows.Scan(&group.ID, &group.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scan group: %w", err)
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

// ListWeek returns the group's lessons ordered by day then start time.
func (r *ScheduleRepository) ListWeek(ctx context.Context, groupName string) ([]persistence.LessonRecord, error) {
	group, err := r.GetGroupByName(ctx, groupName)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT s.day_of_week, sub.subject_name, sub.start_time, sub.end_time, sub.location
		FROM Schedule s
		JOIN Subjects sub ON sub.schedule_id = s.schedule_id
		WHERE s.group_id = ?
		ORDER BY s.day_of_week, sub.start_time`, group.ID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list week for %q: %w", groupName, err)
	}
	defer rows.Close()

	var lessons []persistence.LessonRecord
	for rows.Next() {
		var (
			day        int
			record     persistence.LessonRecord
			start, end string
		)
		if err := rows.Scan(&day, &record.Subject, &start, &end, &record.Location); err != nil {
			return nil, fmt.Errorf("sqlite: scan lesson: %w", err)
		}
		record.Day = timetable.Day(day)
		if record.Start, err = timetable.ParseTimeOfDay(start); err != nil {
			return nil, fmt.Errorf("sqlite: stored start time: %w", err)
		}
		if record.End, err = timetable.ParseTimeOfDay(end); err != nil {
			return nil, fmt.Errorf("sqlite: stored end time: %w", err)
		}
		lessons = append(lessons, record)
	}
	return lessons, rows.Err()
}

// ListEmailsByGroup returns the roster addresses for the group. The group must
// exist; an existing group with no roster yields an empty list.
func (r *ScheduleRepository) ListEmailsByGroup(ctx context.Context, groupName string) ([]string, error) {
	group, err := r.GetGroupByName(ctx, groupName)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT email FROM Emails WHERE group_id = ? ORDER BY email_id`, group.ID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list emails for %q: %w", groupName, err)
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("sqlite: scan email: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
