package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/rota/internal/compliance"
	"github.com/javiermolinar/rota/internal/roster"
	"github.com/javiermolinar/rota/internal/shift"
	"github.com/javiermolinar/rota/internal/tui/view"
)

// Form input order. The type selector follows the text inputs.
const (
	fieldName = iota
	fieldPost
	fieldDate
	fieldStart
	fieldEnd
	fieldEndDate
	fieldCount
)

var fieldLabels = [fieldCount]string{"Staff", "Post", "Date", "Start time", "End time", "End date"}

// shiftForm is the add/edit shift modal state.
type shiftForm struct {
	inputs  []textinput.Model
	types   []shift.Type
	typeIdx int
	focus   int // 0..fieldCount, fieldCount is the type selector
	editing *shift.Shift
	errors  []string
	// findings holds the compliance result of the current values.
	findings compliance.Result
}

func newShiftForm(styles *Styles, editing *shift.Shift, date string, defaultType shift.Type) shiftForm {
	f := shiftForm{
		inputs:  make([]textinput.Model, fieldCount),
		types:   shift.Types(),
		editing: editing,
	}

	placeholders := [fieldCount]string{"Doe, Jane", "Ward or team", "YYYY-MM-DD", "HH:MM", "HH:MM", "same or next day"}
	limits := [fieldCount]int{128, 128, 10, 5, 5, 10}
	values := [fieldCount]string{"", "", date, "09:00", "17:00", ""}
	typ := defaultType
	if editing != nil {
		values = [fieldCount]string{editing.Name, editing.Post, editing.StartDate, editing.StartTime, editing.EndTime, editing.EndDate}
		// A derived end date stays blank so it follows later time edits.
		if editing.EndDate == shift.DefaultEndDate(editing.StartDate, editing.StartTime, editing.EndTime) {
			values[fieldEndDate] = ""
		}
		typ = editing.Type
	}

	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = 32
		ti.SetValue(values[i])
		ti.PlaceholderStyle = styles.ModalPlaceholderStyle
		ti.TextStyle = styles.ModalInputTextStyle
		ti.PromptStyle = styles.ModalInputTextStyle
		ti.Cursor.Style = styles.ModalInputCursorStyle
		ti.Cursor.TextStyle = styles.ModalInputTextStyle
		f.inputs[i] = ti
	}
	for i, t := range f.types {
		if t == typ {
			f.typeIdx = i
		}
	}
	f.inputs[fieldName].Focus()
	return f
}

func (f shiftForm) typeFocused() bool {
	return f.focus == fieldCount
}

func (f *shiftForm) focusNext(step int) {
	if f.focus < len(f.inputs) {
		f.inputs[f.focus].Blur()
	}
	n := len(f.inputs) + 1
	f.focus = (f.focus + step + n) % n
	if f.focus < len(f.inputs) {
		f.inputs[f.focus].Focus()
	}
}

func (f *shiftForm) cycleType(step int) {
	n := len(f.types)
	f.typeIdx = (f.typeIdx + step + n) % n
}

func (f shiftForm) update(msg tea.Msg) (shiftForm, tea.Cmd) {
	if f.focus >= len(f.inputs) {
		return f, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// draft collects the form values. A blank end date is derived from the
// times.
func (f shiftForm) draft() shift.Draft {
	return shift.Draft{
		Name:      f.inputs[fieldName].Value(),
		Post:      f.inputs[fieldPost].Value(),
		StartDate: f.inputs[fieldDate].Value(),
		StartTime: f.inputs[fieldStart].Value(),
		EndDate:   f.inputs[fieldEndDate].Value(),
		EndTime:   f.inputs[fieldEnd].Value(),
		Type:      string(f.types[f.typeIdx]),
	}
}

// check re-validates the current values. Values that do not form a shift
// yet clear the findings; saving reports those errors.
func (f *shiftForm) check(svc *roster.Service) {
	f.findings = compliance.Result{IsValid: true}
	if svc == nil {
		return
	}
	sh, err := shift.New(f.draft(), shift.Cell{})
	if err != nil {
		return
	}
	if f.editing != nil {
		sh.ID = f.editing.ID
	}
	f.findings = svc.Check(sh)
}

func (f shiftForm) viewModel(severity map[compliance.Severity]lipgloss.Style) view.ShiftFormModel {
	fields := make([]view.FormField, len(f.inputs))
	for i, in := range f.inputs {
		fields[i] = view.FormField{Label: fieldLabels[i], Value: in.View(), Focused: i == f.focus}
	}
	labels := make([]string, len(f.types))
	for i, t := range f.types {
		labels[i] = t.Label()
	}
	return view.ShiftFormModel{
		Fields:      fields,
		TypeOptions: labels,
		ActiveType:  f.typeIdx,
		TypeFocused: f.typeFocused(),
		Findings:    findingLines(f.findings, severity),
		Errors:      f.errors,
	}
}

func findingLines(res compliance.Result, severity map[compliance.Severity]lipgloss.Style) []view.FindingLine {
	lines := make([]view.FindingLine, 0, len(res.Findings))
	for _, f := range res.Findings {
		lines = append(lines, view.FindingLine{
			Label:   f.Severity.String(),
			Message: f.Message,
			Style:   severity[f.Severity],
		})
	}
	return lines
}

// openForm opens the shift form, prefilled from s when editing or with
// the focused cell's date when adding.
func (m Model) openForm(s *shift.Shift) Model {
	if m.svc == nil {
		return m
	}
	date := m.svc.Calendar().DateForCell(m.cursor.Week, m.cursor.Day).Format(shift.DateLayout)
	m.form = newShiftForm(m.styles, s, date, m.config.DefaultShiftType())
	m.form.check(m.svc)
	m.modalShift = s
	m.mode = ModeModal
	m.modalType = ModalShiftForm
	return m
}
