package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FindingLine is one styled compliance finding.
type FindingLine struct {
	Label   string
	Message string
	Style   lipgloss.Style
}

// ShiftDetailModel contains the fields needed to render the shift detail body.
type ShiftDetailModel struct {
	Name      string
	TypeLabel string
	Post      string
	TimeRange string
	DateLabel string
	CellLabel string
	Findings  []FindingLine
}

// ShiftDetailStyles groups styles for the shift detail body.
type ShiftDetailStyles struct {
	BodyStyle         lipgloss.Style
	LabelStyle        lipgloss.Style
	TagStyle          lipgloss.Style
	SectionTitleStyle lipgloss.Style
	HintStyle         lipgloss.Style
}

// RenderShiftDetailBody renders the modal body for shift details.
func RenderShiftDetailBody(model ShiftDetailModel, styles ShiftDetailStyles) string {
	var body strings.Builder
	sep := styles.BodyStyle.Render(" ")

	body.WriteString(styles.TagStyle.Render(model.TypeLabel) + sep + styles.TagStyle.Render(model.CellLabel) + "\n\n")
	body.WriteString(styles.LabelStyle.Render("Staff: ") + styles.BodyStyle.Render(model.Name) + "\n")
	if model.Post != "" {
		body.WriteString(styles.LabelStyle.Render("Post:  ") + styles.BodyStyle.Render(model.Post) + "\n")
	}
	body.WriteString(styles.LabelStyle.Render("Date:  ") + styles.BodyStyle.Render(model.DateLabel) + "\n")
	body.WriteString(styles.LabelStyle.Render("Time:  ") + styles.BodyStyle.Render(model.TimeRange) + "\n\n")

	body.WriteString(styles.SectionTitleStyle.Render("COMPLIANCE") + "\n")
	if len(model.Findings) == 0 {
		body.WriteString(styles.HintStyle.Render("No issues found."))
		return body.String()
	}
	lines := make([]string, 0, len(model.Findings))
	for _, f := range model.Findings {
		lines = append(lines, f.Style.Render(f.Label)+sep+styles.BodyStyle.Render(f.Message))
	}
	body.WriteString(strings.Join(lines, "\n"))
	return body.String()
}

// ConfirmDeleteModel contains the fields needed to render the confirm delete body.
type ConfirmDeleteModel struct {
	Name      string
	TimeRange string
	DateLabel string
	HasShift  bool
}

// ConfirmDeleteStyles groups styles for the confirm delete body.
type ConfirmDeleteStyles struct {
	BodyStyle lipgloss.Style
}

// RenderConfirmDeleteBody renders the modal body for the delete confirmation.
func RenderConfirmDeleteBody(model ConfirmDeleteModel, styles ConfirmDeleteStyles) string {
	var body strings.Builder

	if model.HasShift {
		body.WriteString(styles.BodyStyle.Render("\""+model.Name+"\"") + "\n")
		body.WriteString(styles.BodyStyle.Render(model.TimeRange) + "\n")
		body.WriteString(styles.BodyStyle.Render(model.DateLabel) + "\n\n")
	}
	body.WriteString(styles.BodyStyle.Render("This will remove the shift from the roster.\nAre you sure?"))

	return body.String()
}

// InitModel contains the fields needed to render the first-run body.
type InitModel struct {
	ConfigPath    string
	DBPath        string
	ConfigMissing bool
	DBMissing     bool
	Error         string
}

// RenderInitBody renders the modal body asking to create missing files.
func RenderInitBody(model InitModel, styles ShiftDetailStyles) string {
	var body strings.Builder
	body.WriteString(styles.BodyStyle.Render("rota needs to create:") + "\n\n")
	if model.ConfigMissing {
		body.WriteString(styles.LabelStyle.Render("config    ") + styles.BodyStyle.Render(model.ConfigPath) + "\n")
	}
	if model.DBMissing {
		body.WriteString(styles.LabelStyle.Render("database  ") + styles.BodyStyle.Render(model.DBPath) + "\n")
	}
	if model.Error != "" {
		body.WriteString("\n" + styles.HintStyle.Render(model.Error))
	}
	return strings.TrimRight(body.String(), "\n")
}
