package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/rota/internal/shift"
)

// Grid geometry limits.
const (
	WeekLabelWidth = 8
	MinColWidth    = 6
	MinRowLines    = 2
	MaxRowLines    = 6
)

// GridLayout is the on-screen geometry of the roster grid. Each week is a
// band of RowLines lines followed by one rule line; each day is a column
// of ColW cells preceded by one separator column.
type GridLayout struct {
	Top      int // first terminal line of week 0
	Weeks    int
	Days     int
	ColW     int
	RowLines int
}

// NewGridLayout fits weeks x days into a width x height area starting at
// line top.
func NewGridLayout(top, width, height, weeks, days int) GridLayout {
	l := GridLayout{Top: top, Weeks: weeks, Days: days}
	if days > 0 {
		l.ColW = (width - WeekLabelWidth - days) / days
	}
	if l.ColW < MinColWidth {
		l.ColW = MinColWidth
	}
	if weeks > 0 {
		l.RowLines = (height - weeks) / weeks
	}
	l.RowLines = min(max(l.RowLines, MinRowLines), MaxRowLines)
	return l
}

// Height returns the number of terminal lines the week bands occupy.
func (l GridLayout) Height() int {
	return l.Weeks * (l.RowLines + 1)
}

// ColStart returns the first terminal column of day.
func (l GridLayout) ColStart(day int) int {
	return WeekLabelWidth + day*(l.ColW+1) + 1
}

// CellAt maps a terminal position to a grid cell. line is the line within
// the cell's band, or -1 on the rule below it. Separator columns belong to
// the day on their right.
func (l GridLayout) CellAt(x, y int) (cell shift.Cell, line int, ok bool) {
	if x < WeekLabelWidth || y < l.Top || l.ColW <= 0 {
		return shift.Cell{}, 0, false
	}
	day := (x - WeekLabelWidth) / (l.ColW + 1)
	rel := y - l.Top
	week := rel / (l.RowLines + 1)
	if day >= l.Days || week >= l.Weeks {
		return shift.Cell{}, 0, false
	}
	line = rel % (l.RowLines + 1)
	if line == l.RowLines {
		line = -1
	}
	return shift.Cell{Week: week, Day: day}, line, true
}

// CellLine is one pre-styled line of a grid cell.
type CellLine struct {
	Text  string
	Style lipgloss.Style
}

// GridViewState holds data needed to render the roster grid.
type GridViewState struct {
	Layout     GridLayout
	DayNames   []string
	WeekLabels [][2]string // label and date per week
	// Cells returns the lines of a cell; missing lines render empty.
	Cells       func(c shift.Cell) []CellLine
	HeaderStyle lipgloss.Style
	LabelStyle  lipgloss.Style
	DateStyle   lipgloss.Style
	RuleStyle   lipgloss.Style
	EmptyStyle  func(c shift.Cell) lipgloss.Style
	Bg          lipgloss.Color
}

// RenderHeader renders the day-name row.
func RenderHeader(state GridViewState) string {
	l := state.Layout
	sep := lipgloss.NewStyle().Background(state.Bg).Render(" ")
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Background(state.Bg).Render(strings.Repeat(" ", WeekLabelWidth)))
	for d := 0; d < l.Days; d++ {
		name := ""
		if d < len(state.DayNames) {
			name = state.DayNames[d]
		}
		b.WriteString(sep)
		b.WriteString(state.HeaderStyle.Width(l.ColW).Render(Fit(name, l.ColW)))
	}
	return b.String()
}

// RenderGrid renders every week band, rule lines included.
func RenderGrid(state GridViewState) string {
	l := state.Layout
	sep := lipgloss.NewStyle().Background(state.Bg).Render(" ")
	rule := state.RuleStyle.Render(strings.Repeat("─", WeekLabelWidth+l.Days*(l.ColW+1)))

	lines := make([]string, 0, l.Height())
	for w := 0; w < l.Weeks; w++ {
		cells := make([][]CellLine, l.Days)
		for d := 0; d < l.Days; d++ {
			if state.Cells != nil {
				cells[d] = state.Cells(shift.Cell{Week: w, Day: d})
			}
		}
		for i := 0; i < l.RowLines; i++ {
			var b strings.Builder
			b.WriteString(weekLabelLine(state, w, i))
			for d := 0; d < l.Days; d++ {
				b.WriteString(sep)
				c := shift.Cell{Week: w, Day: d}
				if i < len(cells[d]) {
					cl := cells[d][i]
					b.WriteString(cl.Style.Width(l.ColW).Render(Fit(cl.Text, l.ColW)))
					continue
				}
				empty := lipgloss.NewStyle().Background(state.Bg)
				if state.EmptyStyle != nil {
					empty = state.EmptyStyle(c)
				}
				b.WriteString(empty.Render(strings.Repeat(" ", l.ColW)))
			}
			lines = append(lines, b.String())
		}
		lines = append(lines, rule)
	}
	return strings.Join(lines, "\n")
}

func weekLabelLine(state GridViewState, week, line int) string {
	text, style := "", state.LabelStyle
	if week < len(state.WeekLabels) {
		switch line {
		case 0:
			text = state.WeekLabels[week][0]
		case 1:
			text, style = state.WeekLabels[week][1], state.DateStyle
		}
	}
	return style.Width(WeekLabelWidth).Render(Fit(text, WeekLabelWidth))
}

// Fit truncates s to width terminal cells with an ellipsis.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
