package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/rota/internal/interact"
	"github.com/javiermolinar/rota/internal/shift"
	"github.com/javiermolinar/rota/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutCache = m.buildLayoutCache(m.width, m.height)
		return m, nil

	case commands.ShiftsLoadedMsg:
		if m.svc != nil {
			m.svc.SetShifts(msg.Shifts)
		}
		m.loading = false
		m.clampChip()
		return m, nil

	case commands.ErrMsg:
		m.loading = false
		return m, m.setError(msg.Err)

	case commands.StatusMsgCmd:
		return m, m.setStatus(msg.Msg)

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
			m.err = nil
		}
		return m, nil
	}

	// Cursor blink and other input messages for the form.
	if m.mode == ModeModal && m.modalType == ModalShiftForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}

	return m, nil
}

// dispatch feeds ev to the interaction controller. A failed move intent is
// reported as the error; a click intent opens the shift detail.
func (m Model) dispatch(ev interact.Event) (Model, error) {
	if m.ctrl == nil {
		return m, nil
	}
	m.intents.Err = nil
	m.clicks.clicked = nil

	err := m.ctrl.Dispatch(ev)
	m.log.Debug("interaction event",
		zap.String("event", fmt.Sprintf("%T", ev)),
		zap.Stringer("state", m.ctrl.State()),
		zap.Error(err),
	)
	if err != nil {
		return m, err
	}
	if m.intents.Err != nil {
		return m, m.intents.Err
	}
	if s := m.clicks.clicked; s != nil {
		m = m.openDetail(s)
	}
	return m, nil
}

// selected returns the focused shift, if any.
func (m Model) selected() *shift.Shift {
	if m.svc == nil {
		return nil
	}
	shifts := m.svc.Grid().Cell(m.cursor)
	if m.chip < 0 || m.chip >= len(shifts) {
		return nil
	}
	return shifts[m.chip]
}

// focusShift moves the cursor to the cell holding id.
func (m *Model) focusShift(id string) {
	g := m.svc.Grid()
	cell, ok := g.Find(id)
	if !ok {
		return
	}
	m.cursor = cell
	m.chip = 0
	for i, s := range g.Cell(cell) {
		if s.ID == id {
			m.chip = i
			break
		}
	}
}

func (m *Model) clampChip() {
	if m.svc == nil {
		m.chip = 0
		return
	}
	n := len(m.svc.Grid().Cell(m.cursor))
	if m.chip >= n {
		m.chip = n - 1
	}
	if m.chip < 0 {
		m.chip = 0
	}
}

func (m *Model) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.err = nil
	m.statusTime = time.Now().Add(3 * time.Second)
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

func (m *Model) setError(err error) tea.Cmd {
	m.err = err
	m.statusMsg = fmt.Sprintf("Error: %v", err)
	m.statusTime = time.Now().Add(5 * time.Second)
	m.log.Warn("tui error", zap.Error(err))
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}
