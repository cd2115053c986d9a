package timetable

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Day enumerates the six teaching days of the college week, Monday through
// Saturday. Sunday never carries classes and is not representable.
type Day int

const (
	// DayUnspecified indicates the day has not been set.
	DayUnspecified Day = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// ErrUnknownDay indicates a day-of-week value outside the Monday–Saturday range.
var ErrUnknownDay = errors.New("timetable: unknown day of week")

// ErrMalformedTime indicates a time-of-day value that is not HH:MM:SS.
var ErrMalformedTime = errors.New("timetable: malformed time of day")

var dayNames = map[Day]string{
	Monday:    "Понедельник",
	Tuesday:   "Вторник",
	Wednesday: "Среда",
	Thursday:  "Четверг",
	Friday:    "Пятница",
	Saturday:  "Суббота",
}

var daysByName = map[string]Day{
	"понедельник": Monday,
	"вторник":     Tuesday,
	"среда":       Wednesday,
	"четверг":     Thursday,
	"пятница":     Friday,
	"суббота":     Saturday,
	"monday":      Monday,
	"tuesday":     Tuesday,
	"wednesday":   Wednesday,
	"thursday":    Thursday,
	"friday":      Friday,
	"saturday":    Saturday,
}

// Days returns the teaching days in their fixed weekly order.
func Days() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// String returns the Russian display name of the day, as rendered to students.
func (d Day) String() string {
	if name, ok := dayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Day(%d)", int(d))
}

// Valid reports whether the day is one of the six teaching days.
func (d Day) Valid() bool {
	_, ok := dayNames[d]
	return ok
}

// ParseDay resolves a day-of-week cell value to a Day. Uploaded workbooks carry
// Russian day names; English names are accepted as well. Matching ignores case
// and surrounding whitespace.
func ParseDay(value string) (Day, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if day, ok := daysByName[normalized]; ok {
		return day, nil
	}
	return DayUnspecified, fmt.Errorf("%w: %q", ErrUnknownDay, value)
}

// TimeOfDay is a wall-clock instant within a single day, stored as seconds
// since midnight. The zero value is midnight.
type TimeOfDay int

// ParseTimeOfDay parses an HH:MM:SS cell value.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}

	numbers := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
		}
		numbers[i] = n
	}

	hour, minute, second := numbers[0], numbers[1], numbers[2]
	if hour > 23 || minute > 59 || second > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}

	return TimeOfDay(hour*3600 + minute*60 + second), nil
}

// String renders the time back to HH:MM:SS.
func (t TimeOfDay) String() string {
	seconds := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}

// Before reports whether t is earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t < other
}

// Lesson is one timed class session within a day.
type Lesson struct {
	Subject  string
	Start    TimeOfDay
	End      TimeOfDay
	Location string
}

// Entry pairs a lesson with the day it occurs on. Entries are the raw rows
// the weekly view is assembled from.
type Entry struct {
	Day    Day
	Lesson Lesson
}

// DaySchedule holds one day's lessons sorted by start time.
type DaySchedule struct {
	Day     Day
	Lessons []Lesson
}

// BuildWeek assembles raw entries into an ordered weekly view.
//
// Days appear in the fixed Monday→Saturday order, days without lessons are
// omitted, and lessons within a day are sorted by start time ascending. Entries
// on an invalid day are dropped rather than surfaced; validation happens at
// import time, long before a weekly view is built.
func BuildWeek(entries []Entry) []DaySchedule {
	byDay := make(map[Day][]Lesson, len(dayNames))
	for _, entry := range entries {
		if !entry.Day.Valid() {
			continue
		}
		byDay[entry.Day] = append(byDay[entry.Day], entry.Lesson)
	}

	week := make([]DaySchedule, 0, len(byDay))
	for _, day := range Days() {
		lessons, ok := byDay[day]
		if !ok {
			continue
		}
		sort.SliceStable(lessons, func(i, j int) bool {
			return lessons[i].Start.Before(lessons[j].Start)
		})
		week = append(week, DaySchedule{Day: day, Lessons: lessons})
	}
	return week
}
