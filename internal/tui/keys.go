package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/rota/internal/compliance"
	"github.com/javiermolinar/rota/internal/dateutil"
	"github.com/javiermolinar/rota/internal/interact"
	"github.com/javiermolinar/rota/internal/shift"
	"github.com/javiermolinar/rota/internal/tui/commands"
)

// keyDirections maps navigation keys to grid directions.
var keyDirections = map[string]interact.Direction{
	"up":    interact.Up,
	"k":     interact.Up,
	"down":  interact.Down,
	"j":     interact.Down,
	"left":  interact.Left,
	"h":     interact.Left,
	"right": interact.Right,
	"l":     interact.Right,
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.log.Debug("key press", zap.String("key", msg.String()))

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.mode == ModeModal {
		return m.handleModalKeys(msg)
	}
	if m.ctrl == nil {
		return m, nil
	}

	switch m.ctrl.State().(type) {
	case interact.Grabbed:
		return m.handleGrabKeys(msg)
	case interact.DraggingPointer:
		if msg.String() == "esc" {
			m.press = nil
			m.dragOver = nil
			m, _ = m.dispatch(interact.CancelKey{})
			return m, m.setStatus("Move cancelled")
		}
		return m, nil
	}
	return m.handleNormalKeys(msg)
}

// handleNormalKeys handles keys when no move is in progress.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if dir, ok := keyDirections[key]; ok {
		m.moveCursor(dir)
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit

	case "tab":
		if n := len(m.svc.Grid().Cell(m.cursor)); n > 0 {
			m.chip = (m.chip + 1) % n
		}
	case "shift+tab":
		if n := len(m.svc.Grid().Cell(m.cursor)); n > 0 {
			m.chip = (m.chip - 1 + n) % n
		}

	case " ":
		s := m.selected()
		if s == nil {
			return m, nil
		}
		var err error
		if m, err = m.dispatch(interact.GrabKey{Shift: s, Cell: m.cursor}); err != nil {
			return m, m.setError(err)
		}
		return m, m.setStatus(fmt.Sprintf("Moving %s", s.Name))

	case "enter":
		s := m.selected()
		if s == nil {
			return m.openForm(nil), nil
		}
		var err error
		if m, err = m.dispatch(interact.ActivateKey{Shift: s}); err != nil {
			return m, m.setError(err)
		}

	case "a", "n":
		return m.openForm(nil), nil

	case "e":
		if s := m.selected(); s != nil {
			return m.openForm(s), nil
		}

	case "d", "x":
		if s := m.selected(); s != nil {
			m.modalShift = s
			m.mode = ModeModal
			m.modalType = ModalConfirmDelete
		}

	case "y":
		return m, commands.CopyRoster(m.svc.Shifts())

	case "r":
		m.loading = true
		return m, commands.LoadShifts(m.repo)

	case "esc":
		m, _ = m.dispatch(interact.CancelKey{})
	}

	return m, nil
}

// handleGrabKeys handles keys while a shift is grabbed.
func (m Model) handleGrabKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if dir, ok := keyDirections[key]; ok {
		var err error
		if m, err = m.dispatch(interact.ArrowKey{Dir: dir}); err != nil {
			return m, m.setError(err)
		}
		return m, nil
	}

	grabbed := m.ctrl.Grabbed()
	switch key {
	case "enter":
		target, _ := m.ctrl.Cursor()
		var err error
		m, err = m.dispatch(interact.ConfirmKey{})
		if err != nil {
			return m, m.setError(err)
		}
		m.focusShift(grabbed.ID)
		return m, m.setStatus(fmt.Sprintf("Moved %s to %s", grabbed.Name, m.cellLabel(target)))

	case " ":
		origin := m.cursor
		if g, ok := m.ctrl.State().(interact.Grabbed); ok {
			origin = g.Origin
		}
		m, _ = m.dispatch(interact.GrabKey{Shift: grabbed, Cell: origin})
		return m, m.setStatus("Move cancelled")

	case "esc", "q":
		m, _ = m.dispatch(interact.CancelKey{})
		return m, m.setStatus("Move cancelled")
	}
	return m, nil
}

// handleModalKeys handles keys in modal mode.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modalType {
	case ModalShiftDetail:
		return m.handleDetailKeys(msg)
	case ModalShiftForm:
		return m.handleFormKeys(msg)
	case ModalConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	case ModalInit:
		return m.handleInitKeys(msg)
	}
	return m.closeModal(), nil
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		return m.closeModal(), nil
	case "e":
		return m.openForm(m.modalShift), nil
	case "d", "x":
		m.modalType = ModalConfirmDelete
	}
	return m, nil
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		s := m.modalShift
		m = m.closeModal()
		if s == nil {
			return m, nil
		}
		if err := m.svc.Delete(context.Background(), s.ID); err != nil {
			return m, m.setError(err)
		}
		m.clampChip()
		return m, m.setStatus(fmt.Sprintf("Deleted %s", s.Name))
	case "n", "esc", "q":
		return m.closeModal(), nil
	}
	return m, nil
}

func (m Model) handleInitKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "y":
		updated, cmd, err := m.initializeStorage()
		if err != nil {
			m.initError = err.Error()
			return m, nil
		}
		return updated, cmd
	case "esc", "q", "n":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeModal(), nil
	case "tab", "down":
		m.form.focusNext(1)
		return m, nil
	case "shift+tab", "up":
		m.form.focusNext(-1)
		return m, nil
	case "left":
		if m.form.typeFocused() {
			m.form.cycleType(-1)
			m.form.check(m.svc)
			return m, nil
		}
	case "right":
		if m.form.typeFocused() {
			m.form.cycleType(1)
			m.form.check(m.svc)
			return m, nil
		}
	case "enter":
		return m.saveForm()
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	m.form.errors = nil
	m.form.check(m.svc)
	return m, cmd
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	ctx := context.Background()
	d := m.form.draft()

	var (
		saved *shift.Shift
		res   compliance.Result
		err   error
		verb  = "Added"
	)
	if m.form.editing == nil {
		saved, res, err = m.svc.AddShift(ctx, d)
	} else {
		verb = "Updated"
		saved, res, err = m.svc.UpdateShift(ctx, m.form.editing.ID, d)
	}
	if err != nil {
		m.form.findings = res
		m.form.errors = formErrors(res, err)
		return m, nil
	}

	m = m.closeModal()
	m.focusShift(saved.ID)
	status := fmt.Sprintf("%s %s", verb, saved.Name)
	if n := len(res.Findings); n > 0 {
		status = fmt.Sprintf("%s (%d compliance findings)", status, n)
	}
	return m, m.setStatus(status)
}

// formErrors explains a failed save. Compliance findings are already
// listed in the form.
func formErrors(res compliance.Result, err error) []string {
	switch {
	case len(res.Findings) > 0:
		return []string{"fix the errors above to save"}
	case errors.Is(err, dateutil.ErrOutsideRoster):
		return []string{"date is outside the roster"}
	default:
		return []string{err.Error()}
	}
}

func (m *Model) moveCursor(dir interact.Direction) {
	switch dir {
	case interact.Up:
		m.cursor.Week--
	case interact.Down:
		m.cursor.Week++
	case interact.Left:
		m.cursor.Day--
	case interact.Right:
		m.cursor.Day++
	}
	m.cursor.Week = min(max(m.cursor.Week, 0), m.weeks()-1)
	m.cursor.Day = min(max(m.cursor.Day, 0), m.days()-1)
	m.chip = 0
}

func (m Model) openDetail(s *shift.Shift) Model {
	m.modalShift = s
	m.mode = ModeModal
	m.modalType = ModalShiftDetail
	return m
}

func (m Model) closeModal() Model {
	m.mode = ModeNormal
	m.modalType = ModalNone
	m.modalShift = nil
	return m
}
