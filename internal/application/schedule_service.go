package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/teanus/college-schedule-bot/internal/persistence"
	"github.com/teanus/college-schedule-bot/internal/timetable"
	"github.com/teanus/college-schedule-bot/internal/workbook"
)

// ImportSummary reports what a completed import wrote to the store.
type ImportSummary struct {
	Groups        int
	Lessons       int
	RosterRecords int
}

// ScheduleService orchestrates workbook import and schedule queries.
type ScheduleService struct {
	schedules persistence.ScheduleRepository
	logger    *slog.Logger

	// importMu serializes imports. The clear-then-repopulate transaction must
	// not interleave with another import's.
	importMu sync.Mutex
}

// NewScheduleService wires dependencies for schedule operations.
func NewScheduleService(schedules persistence.ScheduleRepository, logger *slog.Logger) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		logger:    defaultLogger(logger),
	}
}

// Import parses an uploaded workbook and replaces the entire stored timetable
// with its contents. Parsing and validation complete before any mutation: a
// workbook error leaves the previous dataset untouched.
func (s *ScheduleService) Import(ctx context.Context, data []byte) (ImportSummary, error) {
	logger := serviceLogger(ctx, s.logger, "schedule", "import")

	sheets, err := workbook.Parse(data)
	if err != nil {
		logger.WarnContext(ctx, "workbook rejected", "error", err, "error_kind", ErrorKind(err))
		return ImportSummary{}, err
	}

	s.importMu.Lock()
	defer s.importMu.Unlock()

	if err := s.schedules.ReplaceAll(ctx, sheets); err != nil {
		logger.ErrorContext(ctx, "import failed", "error", err, "error_kind", ErrorKind(err))
		return ImportSummary{}, fmt.Errorf("replace schedule: %w", err)
	}

	summary := summarize(sheets)
	logger.InfoContext(ctx, "schedule imported",
		"groups", summary.Groups,
		"lessons", summary.Lessons,
		"roster_records", summary.RosterRecords,
	)
	return summary, nil
}

// Week returns the group's weekly view, days in Monday-first order and lessons
// sorted by start time. Returns ErrGroupNotFound for an unknown group.
func (s *ScheduleService) Week(ctx context.Context, groupName string) ([]timetable.DaySchedule, error) {
	logger := serviceLogger(ctx, s.logger, "schedule", "week", "group", groupName)

	records, err := s.schedules.ListWeek(ctx, groupName)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		logger.ErrorContext(ctx, "weekly view query failed", "error", err, "error_kind", ErrorKind(err))
		return nil, fmt.Errorf("list week: %w", err)
	}

	entries := make([]timetable.Entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, timetable.Entry{
			Day: record.Day,
			Lesson: timetable.Lesson{
				Subject:  record.Subject,
				Start:    record.Start,
				End:      record.End,
				Location: record.Location,
			},
		})
	}
	return timetable.BuildWeek(entries), nil
}

// Groups lists every known group name, sorted alphabetically.
func (s *ScheduleService) Groups(ctx context.Context) ([]string, error) {
	logger := serviceLogger(ctx, s.logger, "schedule", "groups")

	groups, err := s.schedules.ListGroups(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "group listing failed", "error", err, "error_kind", ErrorKind(err))
		return nil, fmt.Errorf("list groups: %w", err)
	}

	names := make([]string, 0, len(groups))
	for _, group := range groups {
		names = append(names, group.Name)
	}
	return names, nil
}

// Roster returns the group's email addresses. The list is empty when the group
// has no roster; ErrGroupNotFound when the group does not exist.
func (s *ScheduleService) Roster(ctx context.Context, groupName string) ([]string, error) {
	logger := serviceLogger(ctx, s.logger, "schedule", "roster", "group", groupName)

	emails, err := s.schedules.ListEmailsByGroup(ctx, groupName)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		logger.ErrorContext(ctx, "roster query failed", "error", err, "error_kind", ErrorKind(err))
		return nil, fmt.Errorf("list emails: %w", err)
	}
	return emails, nil
}

func summarize(sheets []persistence.ImportSheet) ImportSummary {
	summary := ImportSummary{Groups: len(sheets)}
	for _, sheet := range sheets {
		summary.Lessons += len(sheet.Rows)
		for _, row := range sheet.Rows {
			if row.Email != "" {
				summary.RosterRecords++
			}
		}
	}
	return summary
}
