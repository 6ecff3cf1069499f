// Package shift defines the core domain types for rota.
package shift

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Layouts used for the wall-clock fields of a shift.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Validation errors.
var (
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrInvalidType       = errors.New("type must be one of base, day_call, night_call, teaching, supervision")
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
)

// Domain errors.
var (
	ErrNotFound = errors.New("shift not found")
)

// Type is the duty category of a shift.
type Type string

const (
	TypeBase        Type = "base"
	TypeDayCall     Type = "day_call"
	TypeNightCall   Type = "night_call"
	TypeTeaching    Type = "teaching"
	TypeSupervision Type = "supervision"
)

// Types lists every shift type in display order.
func Types() []Type {
	return []Type{TypeBase, TypeNightCall, TypeDayCall, TypeTeaching, TypeSupervision}
}

var typeLabels = map[Type]string{
	TypeBase:        "Base/Day Shift",
	TypeNightCall:   "Night Call",
	TypeDayCall:     "Day Call",
	TypeTeaching:    "Teaching",
	TypeSupervision: "Supervision",
}

// Label returns the human-readable name of the type.
func (t Type) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Valid returns true if the type is a known value.
func (t Type) Valid() bool {
	_, ok := typeLabels[t]
	return ok
}

// ParseType accepts either the stored value ("night_call") or the label
// form used in spreadsheets ("Night Call"), case-insensitively.
func ParseType(s string) (Type, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "-", "_")
	norm = strings.Join(strings.Fields(norm), "_")
	switch norm {
	case "base", "base/day_shift", "day_shift", "day":
		return TypeBase, nil
	case "night_call", "night":
		return TypeNightCall, nil
	case "day_call":
		return TypeDayCall, nil
	case "teaching":
		return TypeTeaching, nil
	case "supervision":
		return TypeSupervision, nil
	}
	return "", ErrInvalidType
}

// Cell addresses one (week, day) position of the roster grid.
type Cell struct {
	Week int
	Day  int
}

// String returns the cell as "w<week>d<day>".
func (c Cell) String() string {
	return fmt.Sprintf("w%dd%d", c.Week, c.Day)
}

// Shift is a single duty assignment placed on the roster grid.
type Shift struct {
	ID        string
	Name      string // assignee or post label
	Post      string // optional post title
	StartDate string // "YYYY-MM-DD"
	StartTime string // "HH:MM"
	EndDate   string // "YYYY-MM-DD"
	EndTime   string // "HH:MM"
	WeekIndex int
	DayIndex  int
	Type      Type
	CreatedAt time.Time
}

// NewID mints a fresh shift identity.
func NewID() string {
	return uuid.NewString()
}

// Cell returns the grid position of the shift.
func (s *Shift) Cell() Cell {
	return Cell{Week: s.WeekIndex, Day: s.DayIndex}
}

// MoveTo places the shift in the given cell.
func (s *Shift) MoveTo(c Cell) {
	s.WeekIndex = c.Week
	s.DayIndex = c.Day
}

// Clone returns a shallow copy of the shift.
func (s *Shift) Clone() *Shift {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// TimeRange returns "HH:MM-HH:MM" for display.
func (s *Shift) TimeRange() string {
	return s.StartTime + "-" + s.EndTime
}

// Span combines the date and time fields into start and end instants.
// Instants are built in UTC so that the difference is the wall-clock
// difference regardless of daylight saving transitions.
func (s *Shift) Span() (start, end time.Time, err error) {
	start, err = Instant(s.StartDate, s.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	end, err = Instant(s.EndDate, s.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
	}
	return start, end, nil
}

// Instant parses a date and a wall-clock time into a UTC instant.
func Instant(date, clock string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	clock = strings.TrimSpace(clock)
	if len(clock) != 5 {
		return time.Time{}, ErrInvalidTimeFormat
	}
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return time.Time{}, ErrInvalidTimeFormat
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// SanitizeName trims the name, drops control characters and collapses
// internal whitespace.
func SanitizeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)
	return strings.Join(strings.Fields(cleaned), " ")
}
