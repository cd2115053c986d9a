package telegram

import (
	"fmt"
	"strings"

	"github.com/teanus/college-schedule-bot/internal/timetable"
)

// renderWeek formats a weekly view as plain text, one block per day.
func renderWeek(group string, week []timetable.DaySchedule) string {
	if len(week) == 0 {
		return fmt.Sprintf(msgEmptySchedule, group)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Расписание группы %s:\n", group)
	for _, day := range week {
		b.WriteString("\n")
		b.WriteString(day.Day.String())
		b.WriteString(":\n")
		for _, lesson := range day.Lessons {
			fmt.Fprintf(&b, "%s – %s  %s", shortTime(lesson.Start), shortTime(lesson.End), lesson.Subject)
			if lesson.Location != "" {
				fmt.Fprintf(&b, " (ауд. %s)", lesson.Location)
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// shortTime drops the seconds from an HH:MM:SS rendering.
func shortTime(t timetable.TimeOfDay) string {
	return t.String()[:5]
}
