package persistence

import (
	"time"

	"github.com/teanus/college-schedule-bot/internal/timetable"
)

// Group is a named student cohort sharing one schedule and one email roster.
// Names are persisted lower-cased; lookups normalize the same way.
type Group struct {
	ID   int64
	Name string
}

// ScheduleEntry associates a group with a day of week. Several entries may
// exist for the same (group, day) pair; each uploaded row produces its own
// entry and they are never merged.
type ScheduleEntry struct {
	ID      int64
	GroupID int64
	Day     timetable.Day
}

// Subject is one timed class session under a schedule entry.
type Subject struct {
	ID         int64
	ScheduleID int64
	Name       string
	Start      timetable.TimeOfDay
	End        timetable.TimeOfDay
	Location   string
}

// EmailRecord is a student contact attached to a group roster.
type EmailRecord struct {
	ID        int64
	GroupID   int64
	Email     string
	LastName  string
	FirstName string
}

// RegistrationCode is a pending email-verification challenge. The email is the
// unique key: issuing a new code for the same address replaces the old row.
type RegistrationCode struct {
	Email    string
	Code     string
	IssuedAt time.Time
}

// ImportRow is one validated workbook row destined for the store. Every row
// yields a schedule entry with one subject; rows with a non-empty email also
// yield a roster record.
type ImportRow struct {
	Day         timetable.Day
	Start       timetable.TimeOfDay
	End         timetable.TimeOfDay
	Location    string
	SubjectName string
	Email       string
	LastName    string
	FirstName   string
}

// ImportSheet is one workbook sheet: a group name plus its rows.
type ImportSheet struct {
	Group string
	Rows  []ImportRow
}

// LessonRecord is a flattened weekly-view row joined across a group's schedule
// entries and subjects.
type LessonRecord struct {
	Day      timetable.Day
	Subject  string
	Start    timetable.TimeOfDay
	End      timetable.TimeOfDay
	Location string
}
