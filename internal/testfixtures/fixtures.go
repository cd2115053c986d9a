package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/teanus/college-schedule-bot/internal/persistence"
	"github.com/teanus/college-schedule-bot/internal/timetable"
)

var (
	groupCounter uint64
	emailCounter uint64
)

var referenceTime = time.Date(2024, time.September, 2, 8, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// SheetOption configures a generated import sheet.
type SheetOption func(*persistence.ImportSheet)

// WithGroup overrides the sheet's group name.
func WithGroup(name string) SheetOption {
	return func(sheet *persistence.ImportSheet) {
		sheet.Group = name
	}
}

// WithRows replaces the sheet's rows.
func WithRows(rows ...persistence.ImportRow) SheetOption {
	return func(sheet *persistence.ImportSheet) {
		sheet.Rows = rows
	}
}

// NewImportSheet returns a deterministic single-row import sheet. Each call
// yields a distinct group name and roster address unless overridden.
func NewImportSheet(opts ...SheetOption) persistence.ImportSheet {
	idx := atomic.AddUint64(&groupCounter, 1)
	sheet := persistence.ImportSheet{
		Group: fmt.Sprintf("gr-%03d", idx),
		Rows:  []persistence.ImportRow{NewImportRow()},
	}
	for _, opt := range opts {
		opt(&sheet)
	}
	return sheet
}

// NewImportRow returns a deterministic Monday-morning lesson row with a
// distinct roster address.
func NewImportRow() persistence.ImportRow {
	idx := atomic.AddUint64(&emailCounter, 1)
	return persistence.ImportRow{
		Day:         timetable.Monday,
		Start:       startOfLesson(1),
		End:         startOfLesson(1) + timetable.TimeOfDay(90*60),
		Location:    "101",
		SubjectName: "Математика",
		Email:       fmt.Sprintf("student-%03d@example.ru", idx),
		LastName:    "Иванов",
		FirstName:   "Иван",
	}
}

// NewRegistrationCode returns a pending code issued at the reference time.
func NewRegistrationCode(email, code string) persistence.RegistrationCode {
	return persistence.RegistrationCode{
		Email:    email,
		Code:     code,
		IssuedAt: referenceTime,
	}
}

// startOfLesson maps a 1-based lesson slot to its start time: slot one begins
// at 08:30 and slots run back to back for 90 minutes each.
func startOfLesson(slot int) timetable.TimeOfDay {
	base := 8*3600 + 30*60
	return timetable.TimeOfDay(base + (slot-1)*90*60)
}
