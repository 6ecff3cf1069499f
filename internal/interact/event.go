package interact

import (
	"fmt"

	"github.com/javiermolinar/rota/internal/shift"
)

// Event is an abstract input event. Front-ends translate their native
// key and mouse messages into Events and feed them to Dispatch.
type Event interface {
	isEvent()
}

type (
	// DragStart is a pointer press on a shift.
	DragStart struct{ Shift *shift.Shift }
	// Drop is a pointer release over a cell.
	Drop struct{ Target shift.Cell }
	// DragCancel is a pointer release outside any drop target.
	DragCancel struct{}
	// Click is a pointer click on a shift.
	Click struct{ Shift *shift.Shift }
	// GrabKey is the grab/toggle key pressed on a focused shift.
	GrabKey struct {
		Shift *shift.Shift
		Cell  shift.Cell
	}
	// ArrowKey is an arrow key press.
	ArrowKey struct{ Dir Direction }
	// ConfirmKey drops the grabbed shift on the cursor.
	ConfirmKey struct{}
	// CancelKey abandons the current session.
	CancelKey struct{}
	// ActivateKey opens a shift from the keyboard.
	ActivateKey struct{ Shift *shift.Shift }
)

func (DragStart) isEvent()   {}
func (Drop) isEvent()        {}
func (DragCancel) isEvent()  {}
func (Click) isEvent()       {}
func (GrabKey) isEvent()     {}
func (ArrowKey) isEvent()    {}
func (ConfirmKey) isEvent()  {}
func (CancelKey) isEvent()   {}
func (ActivateKey) isEvent() {}

// Dispatch applies ev to the controller.
func (c *Controller) Dispatch(ev Event) error {
	switch e := ev.(type) {
	case DragStart:
		return c.PointerDragStart(e.Shift)
	case Drop:
		return c.PointerDrop(e.Target)
	case DragCancel:
		c.PointerCancel()
		return nil
	case Click:
		return c.PointerClick(e.Shift)
	case GrabKey:
		return c.Grab(e.Shift, e.Cell)
	case ArrowKey:
		return c.Arrow(e.Dir)
	case ConfirmKey:
		return c.ConfirmAtCursor()
	case CancelKey:
		c.Cancel()
		c.PointerCancel()
		return nil
	case ActivateKey:
		return c.Activate(e.Shift)
	default:
		return fmt.Errorf("unknown event %T", ev)
	}
}
