package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FormField is one labelled input of the shift form. Value is the
// already rendered input view.
type FormField struct {
	Label   string
	Value   string
	Focused bool
}

// ShiftFormModel contains the fields needed to render the shift form body.
type ShiftFormModel struct {
	Fields      []FormField
	TypeOptions []string
	ActiveType  int
	TypeFocused bool
	// Findings are the live compliance results of the current values.
	Findings []FindingLine
	Errors   []string
}

// ShiftFormStyles groups styles for the shift form body.
type ShiftFormStyles struct {
	BodyStyle         lipgloss.Style
	SectionTitleStyle lipgloss.Style
	InputStyle        lipgloss.Style
	InputFocusedStyle lipgloss.Style
	TypeActive        lipgloss.Style
	TypeInactive      lipgloss.Style
	HintStyle         lipgloss.Style
	ErrorStyle        lipgloss.Style
}

// RenderShiftFormBody renders the modal body for the shift form.
func RenderShiftFormBody(model ShiftFormModel, styles ShiftFormStyles) string {
	var body strings.Builder
	sep := styles.BodyStyle.Render(" ")

	for _, f := range model.Fields {
		body.WriteString(styles.SectionTitleStyle.Render(strings.ToUpper(f.Label)) + "\n")
		style := styles.InputStyle
		if f.Focused {
			style = styles.InputFocusedStyle
		}
		body.WriteString(style.Render(f.Value) + "\n\n")
	}

	body.WriteString(styles.SectionTitleStyle.Render("TYPE") + "\n")
	parts := make([]string, 0, len(model.TypeOptions))
	for i, label := range model.TypeOptions {
		if i == model.ActiveType {
			parts = append(parts, styles.TypeActive.Render(label))
		} else {
			parts = append(parts, styles.TypeInactive.Render(label))
		}
	}
	body.WriteString(strings.Join(parts, sep))
	if model.TypeFocused {
		body.WriteString(sep + styles.HintStyle.Render("Use left/right"))
	}

	if len(model.Findings) > 0 {
		body.WriteString("\n")
		for _, f := range model.Findings {
			body.WriteString("\n" + f.Style.Render(f.Label) + sep + styles.BodyStyle.Render(f.Message))
		}
	}

	if len(model.Errors) > 0 {
		body.WriteString("\n")
		for _, e := range model.Errors {
			body.WriteString("\n" + styles.ErrorStyle.Render(e))
		}
	}
	return body.String()
}
