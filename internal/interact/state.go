package interact

import "github.com/javiermolinar/rota/internal/shift"

// State is the selection state of a Controller. Exactly one variant is
// active at a time: Idle, DraggingPointer or Grabbed.
type State interface {
	isState()
	String() string
}

// Idle means no interaction is in progress.
type Idle struct{}

// DraggingPointer means a pointer drag of Shift is in progress.
type DraggingPointer struct {
	Shift *shift.Shift
}

// Grabbed means Shift was picked up with the keyboard at Origin and the
// cursor is currently on Cursor.
type Grabbed struct {
	Shift  *shift.Shift
	Origin shift.Cell
	Cursor shift.Cell
}

func (Idle) isState()            {}
func (DraggingPointer) isState() {}
func (Grabbed) isState()         {}

func (Idle) String() string            { return "idle" }
func (DraggingPointer) String() string { return "dragging" }
func (Grabbed) String() string         { return "grabbed" }

// Direction is a keyboard arrow.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// delta returns the cell offset for d. Rows are weeks, columns are days.
func (d Direction) delta() shift.Cell {
	switch d {
	case Up:
		return shift.Cell{Week: -1}
	case Down:
		return shift.Cell{Week: 1}
	case Left:
		return shift.Cell{Day: -1}
	case Right:
		return shift.Cell{Day: 1}
	default:
		return shift.Cell{}
	}
}
