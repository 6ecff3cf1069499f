package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterHeight is the number of lines the footer occupies.
const FooterHeight = 3

// FooterModel contains content and styles for rendering the footer.
type FooterModel struct {
	InnerW      int
	LegendText  string
	StatusText  string
	HelpText    string
	LegendStyle lipgloss.Style
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	Bg          lipgloss.Color
}

// RenderFooter renders the legend, status and help lines.
func RenderFooter(model FooterModel) string {
	s := footerLine(model.InnerW, model.LegendStyle, model.LegendText) + "\n" +
		footerLine(model.InnerW, model.StatusStyle, model.StatusText) + "\n" +
		footerLine(model.InnerW, model.HelpStyle, model.HelpText)
	return PlaceBox(model.InnerW, FooterHeight, lipgloss.Bottom, s, model.Bg)
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := width - frameW
	if contentWidth < 0 {
		contentWidth = 0
	}
	style = style.Width(contentWidth)
	if contentWidth > 0 {
		content = ansi.Truncate(content, contentWidth, "")
	}
	return style.Render(content)
}
