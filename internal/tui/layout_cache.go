package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/rota/internal/tui/view"
)

// Lines above the grid: title and day header.
const gridTop = 2

// LayoutCache stores layout dimensions and styles derived from the window size.
type LayoutCache struct {
	InnerW int
	InnerH int

	Grid view.GridLayout

	LegendStyle lipgloss.Style
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
}

func (m Model) buildLayoutCache(width, height int) LayoutCache {
	styles := m.styles
	appH, appV := styles.AppStyle.GetFrameSize()
	innerW := max(0, width-appH)
	innerH := max(0, height-appV)

	gridH := innerH - gridTop - view.FooterHeight
	footerStyle := lipgloss.NewStyle().Width(innerW).Background(styles.colorBg)

	return LayoutCache{
		InnerW:      innerW,
		InnerH:      innerH,
		Grid:        view.NewGridLayout(gridTop, innerW, gridH, m.weeks(), m.days()),
		LegendStyle: styles.LegendStyle.Inherit(footerStyle),
		StatusStyle: styles.StatusStyle.Inherit(footerStyle),
		HelpStyle:   styles.HelpStyle.Inherit(footerStyle),
	}
}
