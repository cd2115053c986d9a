package workbook

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSheets indicates a workbook without any usable sheet.
var ErrNoSheets = errors.New("workbook: no sheets")

// MissingColumnError reports required columns absent from a sheet's header
// row. The whole import is rejected before any data is touched.
type MissingColumnError struct {
	Sheet   string
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("workbook: sheet %q is missing required columns: %s", e.Sheet, strings.Join(e.Columns, ", "))
}

// MalformedTimeError reports a start/end cell that is not HH:MM:SS.
type MalformedTimeError struct {
	Sheet  string
	Row    int // 1-based workbook row number
	Column string
	Value  string
	err    error
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("workbook: sheet %q row %d: column %s has malformed time %q", e.Sheet, e.Row, e.Column, e.Value)
}

func (e *MalformedTimeError) Unwrap() error { return e.err }

// UnknownDayError reports a day_of_week cell outside Monday–Saturday.
type UnknownDayError struct {
	Sheet string
	Row   int
	Value string
	err   error
}

func (e *UnknownDayError) Error() string {
	return fmt.Sprintf("workbook: sheet %q row %d: unknown day of week %q", e.Sheet, e.Row, e.Value)
}

func (e *UnknownDayError) Unwrap() error { return e.err }

// RowError reports any other per-row validation failure, such as an empty
// subject or an inverted time range.
type RowError struct {
	Sheet  string
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("workbook: sheet %q row %d: %s", e.Sheet, e.Row, e.Reason)
}
