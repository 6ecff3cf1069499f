package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/rota/internal/interact"
	"github.com/javiermolinar/rota/internal/shift"
)

// handleMouseMsg turns terminal mouse reports into pointer events. A press
// on a shift followed by motion into another cell starts a drag; a release
// in the pressed cell without a drag is a click.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeModal || m.ctrl == nil {
		return m, nil
	}
	cell, line, ok := m.layoutCache.Grid.CellAt(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !ok || !m.ctrl.IsIdle() {
			return m, nil
		}
		m.cursor = cell
		m.chip = 0
		m.press = nil
		if s, idx := m.shiftAtLine(cell, line); s != nil {
			m.chip = idx
			m.press = &pointerPress{shift: s, cell: cell}
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.press == nil {
			return m, nil
		}
		if _, dragging := m.ctrl.State().(interact.DraggingPointer); !dragging {
			if ok && cell == m.press.cell {
				return m, nil
			}
			var err error
			if m, err = m.dispatch(interact.DragStart{Shift: m.press.shift}); err != nil {
				m.press = nil
				return m, m.setError(err)
			}
		}
		m.dragOver = nil
		if ok {
			over := cell
			m.dragOver = &over
		}
		return m, nil

	case tea.MouseActionRelease:
		press := m.press
		m.press = nil
		m.dragOver = nil

		if dragged := m.ctrl.Dragging(); dragged != nil {
			if !ok {
				m, _ = m.dispatch(interact.DragCancel{})
				return m, m.setStatus("Move cancelled")
			}
			var err error
			if m, err = m.dispatch(interact.Drop{Target: cell}); err != nil {
				return m, m.setError(err)
			}
			m.focusShift(dragged.ID)
			return m, m.setStatus(fmt.Sprintf("Moved %s to %s", dragged.Name, m.cellLabel(cell)))
		}

		if press != nil && ok && cell == press.cell {
			var err error
			if m, err = m.dispatch(interact.Click{Shift: press.shift}); err != nil {
				return m, m.setError(err)
			}
		}
	}
	return m, nil
}

// shiftAtLine returns the shift drawn on line of cell and its index in the
// cell, or nil for empty lines and the overflow marker.
func (m Model) shiftAtLine(cell shift.Cell, line int) (*shift.Shift, int) {
	if m.svc == nil || line < 0 {
		return nil, 0
	}
	shifts := m.svc.Grid().Cell(cell)
	start, shown := m.cellWindow(cell, len(shifts))
	if line >= shown {
		return nil, 0
	}
	return shifts[start+line], start + line
}

// cellWindow returns the first shift index drawn in cell and how many
// shifts fit. When the cell overflows, the last line is kept for the
// "+N more" marker and the window follows the focused chip.
func (m Model) cellWindow(cell shift.Cell, n int) (start, shown int) {
	rows := m.layoutCache.Grid.RowLines
	if n <= rows {
		return 0, n
	}
	shown = max(rows-1, 0)
	if cell == m.cursor && m.chip >= shown {
		start = min(m.chip-shown+1, n-shown)
	}
	return start, shown
}
