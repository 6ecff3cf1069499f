// Package dateutil provides date parsing and roster calendar arithmetic.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
	ErrOutsideRoster     = errors.New("date is outside the roster")
)

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DayNames are the short column headings of a roster week, Monday first.
var DayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// ParseDate parses a date string in YYYY-MM-DD format.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now().UTC()), nil
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (monday, sunday time.Time) {
	t = TruncateToDay(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday becomes day 7 in ISO week
	}
	monday = t.AddDate(0, 0, -(weekday - 1))
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": returns relativeTo date
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//   - Keywords: "tomorrow", "yesterday"
//   - Weekday names: "monday" through "sunday" (next occurrence)
//   - Next prefixed: "next-monday" through "next-sunday", "next-week"
//
// All inputs are case-insensitive. Past dates are allowed: rosters are
// often corrected after the fact.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "next-week":
		return today.AddDate(0, 0, 7), nil
	}

	if name, ok := strings.CutPrefix(input, "next-"); ok {
		if targetDay, ok := weekdayMap[name]; ok {
			return nextWeekday(today, targetDay), nil
		}
		return time.Time{}, ErrInvalidDateFormat
	}

	if targetDay, ok := weekdayMap[input]; ok {
		return nextWeekday(today, targetDay), nil
	}

	result, err := time.Parse("2006-01-02", input)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return result, nil
}

// nextWeekday returns the next occurrence of the given weekday after today.
// If today is the target weekday, returns one week from today.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	daysUntil := int(target) - int(today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}

// Calendar maps roster cells to dates. Week 0 starts on Start, which is
// always a Monday.
type Calendar struct {
	Start time.Time
	Weeks int
}

// NewCalendar builds a calendar whose week 0 is the ISO week containing
// start. An empty start means the current week.
func NewCalendar(start string, weeks int) (Calendar, error) {
	t, err := ParseDate(start)
	if err != nil {
		return Calendar{}, err
	}
	monday, _ := WeekRange(t)
	if weeks <= 0 {
		weeks = 4
	}
	return Calendar{Start: monday, Weeks: weeks}, nil
}

// DateForCell returns the date of the given week and day.
func (c Calendar) DateForCell(week, day int) time.Time {
	return c.Start.AddDate(0, 0, week*7+day)
}

// CellForDate returns the week and day holding date.
// Returns ErrOutsideRoster when date falls before the start or after the
// last week.
func (c Calendar) CellForDate(date time.Time) (week, day int, err error) {
	d := utcDay(date)
	start := utcDay(c.Start)
	days := int(d.Sub(start).Hours() / 24)
	if d.Before(start) || days >= c.Weeks*7 {
		return 0, 0, fmt.Errorf("%s: %w", d.Format("2006-01-02"), ErrOutsideRoster)
	}
	return days / 7, days % 7, nil
}

// utcDay drops the clock and zone so that day differences are exact.
func utcDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekLabel returns "Week N (Mon 02 Jan)" for a zero-based week index.
func (c Calendar) WeekLabel(week int) string {
	return fmt.Sprintf("Week %d (%s)", week+1, c.DateForCell(week, 0).Format("Mon 02 Jan"))
}
