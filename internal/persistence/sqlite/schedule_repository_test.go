package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/teanus/college-schedule-bot/internal/persistence"
	"github.com/teanus/college-schedule-bot/internal/timetable"
)

func mustTime(t *testing.T, value string) timetable.TimeOfDay {
	t.Helper()
	parsed, err := timetable.ParseTimeOfDay(value)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q): %v", value, err)
	}
	return parsed
}

func sampleSheet(t *testing.T) persistence.ImportSheet {
	t.Helper()
	return persistence.ImportSheet{
		Group: "PO214",
		Rows: []persistence.ImportRow{
			{
				Day:         timetable.Monday,
				Start:       mustTime(t, "09:00:00"),
				End:         mustTime(t, "10:30:00"),
				Location:    "101",
				SubjectName: "Математика",
				Email:       "ivanov@example.ru",
				LastName:    "Иванов",
				FirstName:   "Иван",
			},
		},
	}
}

func TestScheduleRepository_ImportRoundTrip(t *testing.T) {
	t.Parallel()

	repo := NewScheduleRepository(openTestPool(t))
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, []persistence.ImportSheet{sampleSheet(t)}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	lessons, err := repo.ListWeek(ctx, "PO214")
	if err != nil {
		t.Fatalf("ListWeek: %v", err)
	}
	if len(lessons) != 1 {
		t.Fatalf("got %d lessons, want 1", len(lessons))
	}

	lesson := lessons[0]
	if lesson.Day != timetable.Monday {
		t.Errorf("day = %v, want Monday", lesson.Day)
	}
	if lesson.Subject != "Математика" || lesson.Location != "101" {
		t.Errorf("unexpected lesson: %+v", lesson)
	}
	if lesson.Start.String() != "09:00:00" || lesson.End.String() != "10:30:00" {
		t.Errorf("times not preserved: %s–%s", lesson.Start, lesson.End)
	}
	if !lesson.Start.Before(lesson.End) {
		t.Errorf("start %s is not before end %s", lesson.Start, lesson.End)
	}
}

func TestScheduleRepository_GroupLookupIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	repo := NewScheduleRepository(openTestPool(t))
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, []persistence.ImportSheet{sampleSheet(t)}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	upper, err := repo.GetGroupByName(ctx, "PO214")
	if err != nil {
		t.Fatalf("GetGroupByName(PO214): %v", err)
	}
	lower, err := repo.GetGroupByName(ctx, "po214")
	if err != nil {
		t.Fatalf("GetGroupByName(po214): %v", err)
	}
	if upper.ID != lower.ID {
		t.Fatalf("ids differ: %d vs %d", upper.ID, lower.ID)
	}
	if lower.Name != "po214" {
		t.Fatalf("stored name = %q, want normalized %q", lower.Name, "po214")
	}
}

func TestScheduleRepository_UnknownGroup(t *testing.T) {
	t.Parallel()

	repo := NewScheduleRepository(openTestPool(t))
	ctx := context.Background()

	if _, err := repo.GetGroupByName(ctx, "NOSUCHGROUP"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("GetGroupByName error = %v, want ErrNotFound", err)
	}
	if _, err := repo.ListWeek(ctx, "NOSUCHGROUP"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("ListWeek error = %v, want ErrNotFound", err)
	}
	if _, err := repo.ListEmailsByGroup(ctx, "NOSUCHGROUP"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("ListEmailsByGroup error = %v, want ErrNotFound", err)
	}
}

func TestScheduleRepository_EmptyRosterIsNotAnError(t *testing.T) {
	t.Parallel()

	repo := NewScheduleRepository(openTestPool(t))
	ctx := context.Background()

	sheet := sampleSheet(t)
	sheet.Rows[0].Email = ""
	if err := repo.ReplaceAll(ctx, []persistence.ImportSheet{sheet}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	emails, err := repo.ListEmailsByGroup(ctx, "po214")
	if err != nil {
		t.Fatalf("ListEmailsByGroup: %v", err)
	}
	if len(emails) != 0 {
		t.Fatalf("got %d emails, want 0", len(emails))
	}
}

func TestScheduleRepository_ReimportReplacesEverything(t *testing.T) {
	t.Parallel()

	repo := NewScheduleRepository(openTestPool(t))
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, []persistence.ImportSheet{sampleSheet(t)}); err != nil {
		t.Fatalf("first ReplaceAll: %v", err)
	}

	second := persistence.ImportSheet{
		Group: "EK101",
		Rows: []persistence.ImportRow{{
			Day:         timetable.Tuesday,
			Start:       mustTime(t, "11:00:00"),
			End:         mustTime(t, "12:30:00"),
			SubjectName: "Экономика",
		}},
	}
	if err := repo.ReplaceAll(ctx, []persistence.ImportSheet{second}); err != nil {
		t.Fatalf("second ReplaceAll: %v", err)
	}

	if _, err := repo.GetGroupByName(ctx, "po214"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("old group survived re-import: %v", err)
	}
	groups, err := repo.ListGroups(ctx)
	if err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "ek101" {
		t.Fatalf("unexpected groups after re-import: %+v", groups)
	}
}

func TestScheduleRepository_FailedImportKeepsPreviousData(t *testing.T) {
	t.Parallel()

	repo := NewScheduleRepository(openTestPool(t))
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, []persistence.ImportSheet{sampleSheet(t)}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	// An empty group name violates the import contract partway through the
	// transaction; the original dataset must survive the rollback.
	bad := []persistence.ImportSheet{
		{Group: "EK101", Rows: nil},
		{Group: "   ", Rows: nil},
	}
	if err := repo.ReplaceAll(ctx, bad); !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("ReplaceAll error = %v, want ErrConstraintViolation", err)
	}

	if _, err := repo.GetGroupByName(ctx, "PO214"); err != nil {
		t.Fatalf("previous dataset lost after failed import: %v", err)
	}
	if _, err := repo.GetGroupByName(ctx, "EK101"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("partial import leaked through rollback: %v", err)
	}
}

func TestScheduleRepository_DuplicateDayRowsAreKept(t *testing.T) {
	t.Parallel()

	repo := NewScheduleRepository(openTestPool(t))
	ctx := context.Background()

	sheet := sampleSheet(t)
	extra := sheet.Rows[0]
	extra.SubjectName = "Физика"
	extra.Start = mustTime(t, "10:40:00")
	extra.End = mustTime(t, "12:10:00")
	extra.Email = ""
	sheet.Rows = append(sheet.Rows, extra)

	if err := repo.ReplaceAll(ctx, []persistence.ImportSheet{sheet}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	lessons, err := repo.ListWeek(ctx, "po214")
	if err != nil {
		t.Fatalf("ListWeek: %v", err)
	}
	if len(lessons) != 2 {
		t.Fatalf("got %d lessons, want 2 (duplicate day rows must not merge)", len(lessons))
	}
	if lessons[0].Subject != "Математика" || lessons[1].Subject != "Физика" {
		t.Fatalf("lessons not ordered by start time: %+v", lessons)
	}
}
