package importer

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/rota/internal/dateutil"
	"github.com/javiermolinar/rota/internal/shift"
)

// Default shift hours used when a record has no start or end time.
const (
	DefaultStartTime = "09:00"
	DefaultEndTime   = "17:00"
)

// ExportHeader is the column layout written by export and understood by ToShifts.
var ExportHeader = []string{"Staff", "Post", "Date", "Start Time", "End Date", "End Time", "Type"}

// MapOptions controls how records become shifts.
type MapOptions struct {
	Calendar         dateutil.Calendar
	DefaultType      shift.Type
	IdentityKeywords []string
	// Check, when set, rejects converted shifts. A rejected record is
	// skipped like one that could not be converted.
	Check func(*shift.Shift) error
}

// ToShifts converts imported records into new shifts. Records that cannot
// be converted are reported as *Error values and skipped.
func ToShifts(records []Record, opts MapOptions) ([]*shift.Shift, []error) {
	if !opts.DefaultType.Valid() {
		opts.DefaultType = shift.TypeBase
	}

	var (
		shifts []*shift.Shift
		errs   []error
	)
	for i, rec := range records {
		s, err := toShift(rec, i, opts)
		if err == nil && opts.Check != nil {
			err = opts.Check(s)
		}
		if err != nil {
			// Line 1 is the header.
			errs = append(errs, &Error{Line: i + 2, Err: err})
			continue
		}
		shifts = append(shifts, s)
	}
	return shifts, errs
}

func toShift(rec Record, idx int, opts MapOptions) (*shift.Shift, error) {
	name := identityValue(rec, opts.IdentityKeywords)
	if shift.SanitizeName(name) == "" {
		return nil, shift.ErrEmptyName
	}

	var cell shift.Cell
	startDate, _ := rec.Get("Date", "Start Date")
	if startDate == "" {
		cell = shift.Cell{Week: 0, Day: idx % 7}
		startDate = opts.Calendar.DateForCell(cell.Week, cell.Day).Format(shift.DateLayout)
	} else {
		d, err := dateutil.ParseDate(startDate)
		if err != nil {
			return nil, fmt.Errorf("date %q: %w", startDate, err)
		}
		week, day, err := opts.Calendar.CellForDate(d)
		if err != nil {
			return nil, err
		}
		cell = shift.Cell{Week: week, Day: day}
		startDate = d.Format(shift.DateLayout)
	}

	startTime := valueOr(rec, DefaultStartTime, "Start Time", "Start")
	endTime := valueOr(rec, DefaultEndTime, "End Time", "End")
	endDate, _ := rec.Get("End Date")

	typ := opts.DefaultType
	if raw, ok := rec.Get("Type", "Shift Type"); ok && raw != "" {
		if t, err := shift.ParseType(raw); err == nil {
			typ = t
		}
	}
	post, _ := rec.Get("Post")

	s, err := shift.New(shift.Draft{
		Name:      name,
		Post:      post,
		StartDate: startDate,
		StartTime: startTime,
		EndDate:   endDate,
		EndTime:   endTime,
		Type:      string(typ),
	}, cell)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// identityValue returns the value of the first identity column in the record.
func identityValue(rec Record, keywords []string) string {
	for _, want := range []string{"Staff", "User", "Name", "Doctor"} {
		if v, ok := rec.Get(want); ok {
			return v
		}
	}
	// Map order is random, so take the smallest matching header.
	var best string
	for h := range rec {
		if _, ok := IdentityColumn([]string{h}, keywords); ok && (best == "" || h < best) {
			best = h
		}
	}
	if best == "" {
		return ""
	}
	return rec[best]
}

func valueOr(rec Record, def string, names ...string) string {
	if v, ok := rec.Get(names...); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// Row renders a shift in ExportHeader column order.
func Row(s *shift.Shift) []string {
	return []string{s.Name, s.Post, s.StartDate, s.StartTime, s.EndDate, s.EndTime, string(s.Type)}
}

// FormatCSV renders shifts as CSV text with ExportHeader as the first line.
func FormatCSV(shifts []*shift.Shift) string {
	var b strings.Builder
	b.WriteString(FormatLine(ExportHeader))
	b.WriteByte('\n')
	for _, s := range shifts {
		b.WriteString(FormatLine(Row(s)))
		b.WriteByte('\n')
	}
	return b.String()
}
