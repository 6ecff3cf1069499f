package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/rota/internal/compliance"
	"github.com/javiermolinar/rota/internal/shift"
)

// Color definitions for consistent styling across the UI.
var (
	// Shift types, matching the TUI chip colours where the terminal allows
	typeColors = map[shift.Type]*color.Color{
		shift.TypeBase:        color.New(color.FgGreen),
		shift.TypeNightCall:   color.New(color.FgBlue, color.Bold),
		shift.TypeDayCall:     color.New(color.FgYellow),
		shift.TypeTeaching:    color.New(color.FgCyan),
		shift.TypeSupervision: color.New(color.FgMagenta),
	}

	severityColors = map[compliance.Severity]*color.Color{
		compliance.SeverityInfo:    color.New(color.FgCyan),
		compliance.SeverityWarning: color.New(color.FgYellow, color.Bold),
		compliance.SeverityError:   color.New(color.FgRed, color.Bold),
	}

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for positive metrics
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// formatType formats a type label in its colour.
func formatType(t shift.Type) string {
	if c, ok := typeColors[t]; ok {
		return c.Sprint(t.Label())
	}
	return t.Label()
}

func formatSeverity(s compliance.Severity) string {
	if c, ok := severityColors[s]; ok {
		return c.Sprint(s.String())
	}
	return s.String()
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
