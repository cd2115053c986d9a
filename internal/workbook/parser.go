// Package workbook parses uploaded xlsx timetables into validated import
// sheets. Every sheet and every row is validated here, before the store is
// asked to replace anything: a workbook that fails validation never causes a
// destructive import.
package workbook

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/teanus/college-schedule-bot/internal/persistence"
	"github.com/teanus/college-schedule-bot/internal/timetable"
)

// MIMEType is the content type of xlsx documents as reported by the chat
// transport.
const MIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Column names expected in each sheet's header row.
const (
	ColumnDay       = "day_of_week"
	ColumnStart     = "start_time"
	ColumnEnd       = "end_time"
	ColumnLocation  = "location"
	ColumnSubject   = "subject_name"
	ColumnEmail     = "email"
	ColumnLastName  = "last_name"
	ColumnFirstName = "first_name"
)

var requiredColumns = []string{
	ColumnDay, ColumnStart, ColumnEnd, ColumnLocation,
	ColumnSubject, ColumnEmail, ColumnLastName, ColumnFirstName,
}

// Parse reads an xlsx workbook where each sheet is a group timetable.
//
// Sheet names become group names. Blank rows are skipped. The first error in
// any sheet aborts the whole parse.
func Parse(data []byte) ([]persistence.ImportSheet, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("workbook: open: %w", err)
	}
	defer file.Close()

	sheetNames := file.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, ErrNoSheets
	}

	sheets := make([]persistence.ImportSheet, 0, len(sheetNames))
	for _, name := range sheetNames {
		sheet, err := parseSheet(file, name)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

func parseSheet(file *excelize.File, name string) (persistence.ImportSheet, error) {
	rows, err := file.GetRows(name)
	if err != nil {
		return persistence.ImportSheet{}, fmt.Errorf("workbook: sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return persistence.ImportSheet{}, &MissingColumnError{Sheet: name, Columns: requiredColumns}
	}

	columns, err := mapHeader(name, rows[0])
	if err != nil {
		return persistence.ImportSheet{}, err
	}

	sheet := persistence.ImportSheet{Group: name}
	for i, cells := range rows[1:] {
		rowNumber := i + 2 // 1-based, after the header
		if blankRow(cells) {
			continue
		}
		row, err := parseRow(name, rowNumber, columns, cells)
		if err != nil {
			return persistence.ImportSheet{}, err
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// mapHeader resolves column positions from the header row, matching names
// case-insensitively.
func mapHeader(sheet string, header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, cell := range header {
		columns[strings.ToLower(strings.TrimSpace(cell))] = i
	}

	var missing []string
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Sheet: sheet, Columns: missing}
	}
	return columns, nil
}

func parseRow(sheet string, rowNumber int, columns map[string]int, cells []string) (persistence.ImportRow, error) {
	cell := func(column string) string {
		idx := columns[column]
		if idx >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[idx])
	}

	day, err := timetable.ParseDay(cell(ColumnDay))
	if err != nil {
		return persistence.ImportRow{}, &UnknownDayError{Sheet: sheet, Row: rowNumber, Value: cell(ColumnDay), err: err}
	}

	start, err := timetable.ParseTimeOfDay(cell(ColumnStart))
	if err != nil {
		return persistence.ImportRow{}, &MalformedTimeError{Sheet: sheet, Row: rowNumber, Column: ColumnStart, Value: cell(ColumnStart), err: err}
	}
	end, err := timetable.ParseTimeOfDay(cell(ColumnEnd))
	if err != nil {
		return persistence.ImportRow{}, &MalformedTimeError{Sheet: sheet, Row: rowNumber, Column: ColumnEnd, Value: cell(ColumnEnd), err: err}
	}
	if end.Before(start) {
		return persistence.ImportRow{}, &RowError{Sheet: sheet, Row: rowNumber, Reason: fmt.Sprintf("start time %s is after end time %s", start, end)}
	}

	subject := cell(ColumnSubject)
	if subject == "" {
		return persistence.ImportRow{}, &RowError{Sheet: sheet, Row: rowNumber, Reason: "empty subject_name"}
	}

	return persistence.ImportRow{
		Day:         day,
		Start:       start,
		End:         end,
		Location:    cell(ColumnLocation),
		SubjectName: subject,
		Email:       cell(ColumnEmail),
		LastName:    cell(ColumnLastName),
		FirstName:   cell(ColumnFirstName),
	}, nil
}

func blankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
