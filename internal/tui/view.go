package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/rota/internal/compliance"
	"github.com/javiermolinar/rota/internal/dateutil"
	"github.com/javiermolinar/rota/internal/interact"
	"github.com/javiermolinar/rota/internal/shift"
	"github.com/javiermolinar/rota/internal/tui/view"
)

// View renders the TUI using a boxed, parent-controlled layout.
func (m Model) View() string {
	return view.Render(m.viewState())
}

func (m Model) viewState() view.ViewState {
	showModal := m.mode == ModeModal && m.modalType != ModalNone
	modal := ""
	if showModal {
		modal = m.renderModal()
	}
	return view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      m.renderAppContent(),
		ModalContent:     modal,
		ShowModal:        showModal,
		ModalBg:          m.styles.ModalBgColor,
		EmptyPlaceholder: "Loading...",
	}
}

func (m Model) renderAppContent() string {
	layout := m.layoutCache
	if layout.InnerW <= 0 || layout.InnerH <= 0 {
		return "Terminal too small"
	}

	gs := m.gridViewState(layout)
	title := m.styles.TitleStyle.Width(layout.InnerW).Render(view.Fit(m.titleText(), layout.InnerW))
	gridH := max(0, layout.InnerH-gridTop-view.FooterHeight)
	gridBox := m.placeBox(layout.InnerW, gridH, lipgloss.Top, view.RenderGrid(gs))

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		view.RenderHeader(gs),
		gridBox,
		view.RenderFooter(m.footerModel(layout)),
	)
	app := m.styles.AppStyle.Render(content)
	return view.PadLinesWithBackground(app, m.width, m.height, m.styles.colorBg)
}

func (m Model) placeBox(w, h int, vAlign lipgloss.Position, content string) string {
	return view.PlaceBox(w, h, vAlign, content, m.styles.colorBg)
}

func (m Model) titleText() string {
	if m.svc == nil {
		return "rota"
	}
	cal := m.svc.Calendar()
	first := cal.DateForCell(0, 0)
	last := cal.DateForCell(cal.Weeks-1, m.days()-1)
	title := fmt.Sprintf("rota  %s - %s", first.Format("02 Jan"), last.Format("02 Jan 2006"))
	if m.loading {
		return title + "  loading..."
	}
	g := m.svc.Grid()
	title += fmt.Sprintf("  %d shifts", g.Total())
	if n := g.Excluded(); n > 0 {
		title += fmt.Sprintf(", %d outside roster", n)
	}
	return title
}

func (m Model) gridViewState(layout LayoutCache) view.GridViewState {
	weekLabels := make([][2]string, m.weeks())
	for w := range weekLabels {
		weekLabels[w][0] = fmt.Sprintf("Week %d", w+1)
		if m.svc != nil {
			weekLabels[w][1] = m.svc.Calendar().DateForCell(w, 0).Format("02 Jan")
		}
	}
	return view.GridViewState{
		Layout:      layout.Grid,
		DayNames:    dateutil.DayNames[:],
		WeekLabels:  weekLabels,
		Cells:       m.cellLines,
		HeaderStyle: m.styles.DayHeaderStyle,
		LabelStyle:  m.styles.WeekLabelStyle,
		DateStyle:   m.styles.WeekDateStyle,
		RuleStyle:   m.styles.RuleStyle,
		EmptyStyle:  m.emptyStyle,
		Bg:          m.styles.colorBg,
	}
}

// movingShift returns the shift being grabbed or dragged, if any.
func (m Model) movingShift() *shift.Shift {
	if m.ctrl == nil {
		return nil
	}
	if s := m.ctrl.Grabbed(); s != nil {
		return s
	}
	return m.ctrl.Dragging()
}

// dropTarget returns the cell a move would land on, if any.
func (m Model) dropTarget() (shift.Cell, bool) {
	if m.ctrl == nil {
		return shift.Cell{}, false
	}
	if c, ok := m.ctrl.Cursor(); ok {
		return c, true
	}
	if m.ctrl.Dragging() != nil && m.dragOver != nil {
		return *m.dragOver, true
	}
	return shift.Cell{}, false
}

func (m Model) cellLines(c shift.Cell) []view.CellLine {
	if m.svc == nil {
		return nil
	}
	shifts := m.svc.Grid().Cell(c)
	moving := m.movingShift()
	idle := m.ctrl == nil || m.ctrl.IsIdle()

	lines := make([]view.CellLine, 0, m.layoutCache.Grid.RowLines+1)
	if target, ok := m.dropTarget(); ok && moving != nil && target == c {
		lines = append(lines, view.CellLine{
			Text:  "» " + chipText(moving),
			Style: m.styles.DropPreviewStyle,
		})
	}

	start, shown := m.cellWindow(c, len(shifts))
	for i := start; i < start+shown; i++ {
		s := shifts[i]
		style := m.styles.ChipStyle(s.Type, i%2 == 1)
		switch {
		case moving != nil && s.ID == moving.ID:
			style = m.styles.GhostStyle(s.Type)
		case idle && c == m.cursor && i == m.chip:
			style = m.styles.ChipSelectedStyle
		}
		lines = append(lines, view.CellLine{Text: chipText(s), Style: style})
	}
	if hidden := len(shifts) - shown; hidden > 0 {
		lines = append(lines, view.CellLine{
			Text:  fmt.Sprintf("+%d more", hidden),
			Style: m.styles.MoreStyle,
		})
	}
	return lines
}

func chipText(s *shift.Shift) string {
	return s.StartTime + " " + s.Name
}

func (m Model) emptyStyle(c shift.Cell) lipgloss.Style {
	if target, ok := m.dropTarget(); ok && target == c {
		return m.styles.DropPreviewStyle
	}
	if c == m.cursor {
		return m.styles.CursorCellStyle
	}
	return m.styles.EmptyCellStyle
}

// cellLabel returns "Week N Mon 02 Jan" for c.
func (m Model) cellLabel(c shift.Cell) string {
	if m.svc == nil {
		return c.String()
	}
	date := m.svc.Calendar().DateForCell(c.Week, c.Day)
	return fmt.Sprintf("Week %d %s", c.Week+1, date.Format("Mon 02 Jan"))
}

func (m Model) footerModel(layout LayoutCache) view.FooterModel {
	statusStyle := layout.StatusStyle
	if m.err != nil {
		statusStyle = m.styles.ErrorStyle.Inherit(statusStyle)
	}
	return view.FooterModel{
		InnerW:      layout.InnerW,
		LegendText:  m.legendText(),
		StatusText:  m.statusText(),
		HelpText:    m.helpText(),
		LegendStyle: layout.LegendStyle,
		StatusStyle: statusStyle,
		HelpStyle:   layout.HelpStyle,
		Bg:          m.styles.colorBg,
	}
}

func (m Model) legendText() string {
	sep := m.styles.LegendStyle.Render(" ")
	parts := make([]string, 0, len(shift.Types()))
	for _, t := range shift.Types() {
		parts = append(parts, m.styles.ChipStyle(t, false).Render(" "+t.Label()+" "))
	}
	return strings.Join(parts, sep)
}

func (m Model) statusText() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}
	if m.ctrl == nil {
		return ""
	}
	switch st := m.ctrl.State().(type) {
	case interact.Grabbed:
		return fmt.Sprintf("Moving %s: %s", st.Shift.Name, m.cellLabel(st.Cursor))
	case interact.DraggingPointer:
		if m.dragOver != nil {
			return fmt.Sprintf("Dragging %s: %s", st.Shift.Name, m.cellLabel(*m.dragOver))
		}
		return fmt.Sprintf("Dragging %s: release outside the grid to cancel", st.Shift.Name)
	}
	label := m.cellLabel(m.cursor)
	if s := m.selected(); s != nil {
		res := m.svc.Check(s)
		if worst, ok := res.Worst(); ok {
			return fmt.Sprintf("%s  %s %s-%s  %d %s", label, s.Name, s.StartTime, s.EndTime, len(res.Findings), worst)
		}
		return fmt.Sprintf("%s  %s %s-%s", label, s.Name, s.StartTime, s.EndTime)
	}
	return label
}

func (m Model) helpText() string {
	if m.ctrl != nil {
		switch m.ctrl.State().(type) {
		case interact.Grabbed:
			return "arrows/hjkl move  enter drop  space/esc cancel"
		case interact.DraggingPointer:
			return "release to drop  esc cancel"
		}
	}
	return "arrows move  tab next  space grab  enter open  a add  e edit  d delete  y copy  r reload  q quit"
}

func (m Model) renderModal() string {
	ms := m.styles.modalStyles()
	switch m.modalType {
	case ModalShiftDetail:
		if m.modalShift == nil || m.svc == nil {
			return ""
		}
		return view.RenderModalFrame("Shift",
			view.RenderShiftDetailBody(m.shiftDetailModel(m.modalShift), m.detailStyles()),
			view.ShiftDetailFooter(ms), ms)

	case ModalShiftForm:
		title := "New shift"
		if m.form.editing != nil {
			title = "Edit shift"
		}
		return view.RenderModalFrame(title,
			view.RenderShiftFormBody(m.form.viewModel(m.styles.Severity), m.formStyles()),
			view.ShiftFormFooter(ms), ms)

	case ModalConfirmDelete:
		model := view.ConfirmDeleteModel{}
		if s := m.modalShift; s != nil {
			model = view.ConfirmDeleteModel{
				Name:      s.Name,
				TimeRange: s.StartTime + " - " + s.EndTime,
				DateLabel: dateLabel(s),
				HasShift:  true,
			}
		}
		return view.RenderModalFrame("Delete shift",
			view.RenderConfirmDeleteBody(model, view.ConfirmDeleteStyles{BodyStyle: m.styles.ModalBodyStyle}),
			view.ConfirmDeleteFooter(ms), ms)

	case ModalInit:
		model := view.InitModel{
			ConfigPath:    m.initState.ConfigPath,
			DBPath:        m.initState.DBPath,
			ConfigMissing: m.initState.ConfigMissing,
			DBMissing:     m.initState.DBMissing,
			Error:         m.initError,
		}
		return view.RenderModalFrame("Welcome to rota",
			view.RenderInitBody(model, m.detailStyles()),
			view.InitFooter(ms), ms)
	}
	return ""
}

func (m Model) shiftDetailModel(s *shift.Shift) view.ShiftDetailModel {
	res := m.svc.Check(s)
	findings := make([]view.FindingLine, 0, len(res.Findings))
	for _, f := range res.Findings {
		findings = append(findings, view.FindingLine{
			Label:   f.Severity.String(),
			Message: f.Message,
			Style:   m.styles.Severity[f.Severity],
		})
	}
	cellLabel := "outside roster"
	if c, ok := m.svc.Grid().Find(s.ID); ok {
		cellLabel = m.cellLabel(c)
	}
	return view.ShiftDetailModel{
		Name:      s.Name,
		TypeLabel: s.Type.Label(),
		Post:      s.Post,
		TimeRange: s.StartTime + " - " + s.EndTime,
		DateLabel: dateLabel(s),
		CellLabel: cellLabel,
		Findings:  findings,
	}
}

func dateLabel(s *shift.Shift) string {
	if s.EndDate != "" && s.EndDate != s.StartDate {
		return s.StartDate + " to " + s.EndDate
	}
	return s.StartDate
}

func (m Model) detailStyles() view.ShiftDetailStyles {
	return view.ShiftDetailStyles{
		BodyStyle:         m.styles.ModalBodyStyle,
		LabelStyle:        m.styles.ModalLabelStyle,
		TagStyle:          m.styles.ModalTagStyle,
		SectionTitleStyle: m.styles.ModalSectionTitleStyle,
		HintStyle:         m.styles.ModalHintStyle,
	}
}

func (m Model) formStyles() view.ShiftFormStyles {
	return view.ShiftFormStyles{
		BodyStyle:         m.styles.ModalBodyStyle,
		SectionTitleStyle: m.styles.ModalSectionTitleStyle,
		InputStyle:        m.styles.ModalInputStyle,
		InputFocusedStyle: m.styles.ModalInputFocusedStyle,
		TypeActive:        m.styles.ModalButtonActiveStyle,
		TypeInactive:      m.styles.ModalButtonStyle,
		HintStyle:         m.styles.ModalHintStyle,
		ErrorStyle:        m.styles.Severity[compliance.SeverityError],
	}
}
