package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/rota/internal/compliance"
	"github.com/javiermolinar/rota/internal/shift"
)

// Stats holds aggregated hours for a set of shifts.
type Stats struct {
	Minutes      int
	TypeMinutes  map[shift.Type]int
	StaffMinutes map[string]int
	Shifts       int
	Flagged      int // shifts with at least one finding
}

// BusiestStaff returns the assignee with the most rostered minutes.
// Ties go to the alphabetically first name.
func (s Stats) BusiestStaff() (name string, minutes int) {
	for n, m := range s.StaffMinutes {
		if m > minutes || (m == minutes && n < name) {
			name, minutes = n, m
		}
	}
	return name, minutes
}

// PrintOpts configures shift printing behavior.
type PrintOpts struct {
	Verbose      bool // Show post and full names
	ShowID       bool // Show shift IDs
	MaxNameWidth int  // Maximum name width (0 = auto)
}

// CalcMaxNameWidth calculates the maximum name width based on options.
func (o PrintOpts) CalcMaxNameWidth(defaultWidth int) int {
	if o.MaxNameWidth > 0 {
		return o.MaxNameWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// "    HH:MM-HH:MM  " plus the type label
	available := termWidth() - 36
	if o.ShowID {
		available -= 38
	}
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintShiftRow prints a single shift row with consistent formatting.
func PrintShiftRow(w io.Writer, s *shift.Shift, res compliance.Result, opts PrintOpts, maxNameWidth int) {
	marker := " "
	if worst, ok := res.Worst(); ok {
		marker = severityColors[worst].Sprint("!")
	}

	name := s.Name
	if opts.Verbose && s.Post != "" {
		name += " (" + s.Post + ")"
	}
	name = ansi.Truncate(name, maxNameWidth, "...")

	id := ""
	if opts.ShowID {
		id = formatMuted(s.ID) + "  "
	}
	fmt.Fprintf(w, "  %s %s%s-%s  %-*s  %s\n",
		marker, id, s.StartTime, s.EndTime, maxNameWidth, name, formatType(s.Type))
}

// AccumulateStats updates stats with one shift and its compliance result.
func AccumulateStats(stats *Stats, s *shift.Shift, res compliance.Result) {
	if stats.TypeMinutes == nil {
		stats.TypeMinutes = make(map[shift.Type]int)
	}
	if stats.StaffMinutes == nil {
		stats.StaffMinutes = make(map[string]int)
	}
	stats.Shifts++
	if len(res.Findings) > 0 {
		stats.Flagged++
	}
	minutes := ShiftMinutes(s)
	stats.Minutes += minutes
	stats.TypeMinutes[s.Type] += minutes
	stats.StaffMinutes[s.Name] += minutes
}

// PrintStats prints the stats summary.
func PrintStats(w io.Writer, stats Stats) {
	fmt.Fprintf(w, "Total: %s in %d shifts", formatStats(FormatDuration(stats.Minutes)), stats.Shifts)
	if stats.Flagged > 0 {
		fmt.Fprintf(w, "  |  %s", severityColors[compliance.SeverityWarning].Sprintf("%d flagged", stats.Flagged))
	}
	fmt.Fprintln(w)

	types := make([]string, 0, len(stats.TypeMinutes))
	for _, t := range shift.Types() {
		if m := stats.TypeMinutes[t]; m > 0 {
			types = append(types, fmt.Sprintf("%s %s", formatType(t), FormatDuration(m)))
		}
	}
	if len(types) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(types, "  |  "))
	}
	if name, m := stats.BusiestStaff(); name != "" {
		fmt.Fprintf(w, "  Most hours: %s (%s)\n", name, formatStats(FormatDuration(m)))
	}
}

// PrintFindings prints every finding of res, one per line.
func PrintFindings(w io.Writer, res compliance.Result) {
	if len(res.Findings) == 0 {
		fmt.Fprintln(w, formatMuted("  no issues found"))
		return
	}
	for _, f := range res.Findings {
		fmt.Fprintf(w, "  %s: %s\n", formatSeverity(f.Severity), f.Message)
	}
}

// PrintShiftDetail prints every field of s followed by its findings.
func PrintShiftDetail(w io.Writer, s *shift.Shift, cellLabel string, res compliance.Result) {
	fmt.Fprintf(w, "%s  %s\n", formatHeader(s.Name), formatType(s.Type))
	fmt.Fprintf(w, "  ID:    %s\n", s.ID)
	if s.Post != "" {
		fmt.Fprintf(w, "  Post:  %s\n", s.Post)
	}
	fmt.Fprintf(w, "  Start: %s %s\n", s.StartDate, s.StartTime)
	fmt.Fprintf(w, "  End:   %s %s\n", s.EndDate, s.EndTime)
	fmt.Fprintf(w, "  Cell:  %s\n", cellLabel)
	fmt.Fprintf(w, "  Hours: %s\n", FormatDuration(ShiftMinutes(s)))
	fmt.Fprintln(w, formatHeader("Compliance"))
	PrintFindings(w, res)
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// ShiftMinutes returns the length of s in minutes, or 0 when its times do
// not parse or are inverted.
func ShiftMinutes(s *shift.Shift) int {
	start, end, err := s.Span()
	if err != nil || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Minutes())
}

// sortShifts orders shifts by start instant, then name.
func sortShifts(shifts []*shift.Shift) {
	sort.SliceStable(shifts, func(i, j int) bool {
		a, b := shifts[i], shifts[j]
		if a.StartDate != b.StartDate {
			return a.StartDate < b.StartDate
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.Name < b.Name
	})
}
