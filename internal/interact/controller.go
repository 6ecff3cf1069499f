// Package interact implements the roster grid interaction state machine.
// Pointer drag-and-drop and keyboard grab/navigate/drop are mutually
// exclusive: at most one session is active and every cancel path returns
// to Idle without emitting a move.
package interact

import (
	"errors"

	"go.uber.org/zap"

	"github.com/javiermolinar/rota/internal/grid"
	"github.com/javiermolinar/rota/internal/shift"
)

// Controller errors. A failed call never changes the state, except a drop
// outside the grid which ends the drag.
var (
	ErrNotDragging   = errors.New("no pointer drag in progress")
	ErrNotGrabbed    = errors.New("no shift is grabbed")
	ErrSessionActive = errors.New("another interaction is in progress")
	ErrOutOfGrid     = errors.New("cell is outside the grid")
	ErrNoShift       = errors.New("no shift given")
)

// Handler receives the intents emitted by a Controller.
type Handler interface {
	OnShiftMove(s *shift.Shift, week, day int)
	OnShiftClick(s *shift.Shift)
}

// HandlerFuncs adapts two functions to Handler. Nil functions are ignored.
type HandlerFuncs struct {
	Move  func(s *shift.Shift, week, day int)
	Click func(s *shift.Shift)
}

func (h HandlerFuncs) OnShiftMove(s *shift.Shift, week, day int) {
	if h.Move != nil {
		h.Move(s, week, day)
	}
}

func (h HandlerFuncs) OnShiftClick(s *shift.Shift) {
	if h.Click != nil {
		h.Click(s)
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithGrid sets the grid dimensions used for cursor clamping and drop checks.
func WithGrid(weeks, days int) Option {
	return func(c *Controller) {
		if weeks > 0 {
			c.weeks = weeks
		}
		if days > 0 {
			c.days = days
		}
	}
}

// WithLogger sets the logger used for transition tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// Controller is the interaction state machine. It is not safe for
// concurrent use.
type Controller struct {
	handler Handler
	weeks   int
	days    int
	state   State
	log     *zap.Logger
}

// New creates an idle Controller that reports intents to h.
func New(h Handler, opts ...Option) *Controller {
	if h == nil {
		h = HandlerFuncs{}
	}
	c := &Controller{
		handler: h,
		weeks:   grid.DefaultWeeks,
		days:    grid.DefaultDays,
		state:   Idle{},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetGrid changes the grid dimensions. An active grab keeps its cursor
// inside the new bounds.
func (c *Controller) SetGrid(weeks, days int) {
	WithGrid(weeks, days)(c)
	if g, ok := c.state.(Grabbed); ok {
		g.Cursor = c.clamp(g.Cursor)
		c.state = g
	}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// IsIdle reports whether no interaction is in progress.
func (c *Controller) IsIdle() bool {
	_, ok := c.state.(Idle)
	return ok
}

// Cursor returns the keyboard cursor while a shift is grabbed.
func (c *Controller) Cursor() (shift.Cell, bool) {
	if g, ok := c.state.(Grabbed); ok {
		return g.Cursor, true
	}
	return shift.Cell{}, false
}

// Grabbed returns the grabbed shift, or nil.
func (c *Controller) Grabbed() *shift.Shift {
	if g, ok := c.state.(Grabbed); ok {
		return g.Shift
	}
	return nil
}

// Dragging returns the shift being dragged with the pointer, or nil.
func (c *Controller) Dragging() *shift.Shift {
	if d, ok := c.state.(DraggingPointer); ok {
		return d.Shift
	}
	return nil
}

// PointerDragStart begins a pointer drag of s.
func (c *Controller) PointerDragStart(s *shift.Shift) error {
	if s == nil {
		return ErrNoShift
	}
	if !c.IsIdle() {
		return ErrSessionActive
	}
	c.transition(DraggingPointer{Shift: s}, zap.String("shift", s.ID))
	return nil
}

// PointerDrop ends the drag on target and emits a move intent.
// Dropping outside the grid cancels the drag and returns ErrOutOfGrid.
func (c *Controller) PointerDrop(target shift.Cell) error {
	d, ok := c.state.(DraggingPointer)
	if !ok {
		return ErrNotDragging
	}
	if !c.contains(target) {
		c.transition(Idle{}, zap.String("shift", d.Shift.ID), zap.Stringer("target", target), zap.Bool("cancelled", true))
		return ErrOutOfGrid
	}
	c.transition(Idle{}, zap.String("shift", d.Shift.ID), zap.Stringer("target", target))
	c.handler.OnShiftMove(d.Shift, target.Week, target.Day)
	return nil
}

// PointerCancel abandons a pointer drag. It never fails and never emits.
func (c *Controller) PointerCancel() {
	if d, ok := c.state.(DraggingPointer); ok {
		c.transition(Idle{}, zap.String("shift", d.Shift.ID), zap.Bool("cancelled", true))
	}
}

// PointerClick emits a click intent for s. Only valid while idle.
func (c *Controller) PointerClick(s *shift.Shift) error {
	return c.click(s)
}

// Grab picks up s at origin with the keyboard. Grabbing the already
// grabbed shift again drops it back without a move.
func (c *Controller) Grab(s *shift.Shift, origin shift.Cell) error {
	if s == nil {
		return ErrNoShift
	}
	switch st := c.state.(type) {
	case Idle:
		cursor := c.clamp(origin)
		c.transition(Grabbed{Shift: s, Origin: origin, Cursor: cursor}, zap.String("shift", s.ID), zap.Stringer("origin", origin))
		return nil
	case Grabbed:
		if sameShift(st.Shift, s) {
			c.transition(Idle{}, zap.String("shift", s.ID), zap.Bool("cancelled", true))
			return nil
		}
		return ErrSessionActive
	default:
		return ErrSessionActive
	}
}

// Arrow moves the cursor one cell in dir, clamped to the grid.
func (c *Controller) Arrow(dir Direction) error {
	g, ok := c.state.(Grabbed)
	if !ok {
		return ErrNotGrabbed
	}
	d := dir.delta()
	g.Cursor = c.clamp(shift.Cell{Week: g.Cursor.Week + d.Week, Day: g.Cursor.Day + d.Day})
	c.state = g
	c.log.Debug("cursor moved", zap.Stringer("direction", dir), zap.Stringer("cursor", g.Cursor))
	return nil
}

// Confirm drops the grabbed shift on target and emits a move intent.
// A target outside the grid is rejected and the grab stays active.
func (c *Controller) Confirm(target shift.Cell) error {
	g, ok := c.state.(Grabbed)
	if !ok {
		return ErrNotGrabbed
	}
	if !c.contains(target) {
		return ErrOutOfGrid
	}
	c.transition(Idle{}, zap.String("shift", g.Shift.ID), zap.Stringer("target", target))
	c.handler.OnShiftMove(g.Shift, target.Week, target.Day)
	return nil
}

// ConfirmAtCursor drops the grabbed shift on the current cursor.
func (c *Controller) ConfirmAtCursor() error {
	cursor, ok := c.Cursor()
	if !ok {
		return ErrNotGrabbed
	}
	return c.Confirm(cursor)
}

// Cancel abandons a keyboard grab. It never fails and never emits.
func (c *Controller) Cancel() {
	if g, ok := c.state.(Grabbed); ok {
		c.transition(Idle{}, zap.String("shift", g.Shift.ID), zap.Bool("cancelled", true))
	}
}

// Activate is the keyboard equivalent of a click.
func (c *Controller) Activate(s *shift.Shift) error {
	return c.click(s)
}

func (c *Controller) click(s *shift.Shift) error {
	if s == nil {
		return ErrNoShift
	}
	if !c.IsIdle() {
		return ErrSessionActive
	}
	c.log.Debug("shift clicked", zap.String("shift", s.ID))
	c.handler.OnShiftClick(s)
	return nil
}

// transition changes state before any intent is emitted, so a handler
// that inspects the controller sees it idle.
func (c *Controller) transition(next State, fields ...zap.Field) {
	prev := c.state
	c.state = next
	if ce := c.log.Check(zap.DebugLevel, "interaction transition"); ce != nil {
		ce.Write(append(fields, zap.Stringer("from", prev), zap.Stringer("to", next))...)
	}
}

func (c *Controller) contains(cell shift.Cell) bool {
	return cell.Week >= 0 && cell.Week < c.weeks && cell.Day >= 0 && cell.Day < c.days
}

func (c *Controller) clamp(cell shift.Cell) shift.Cell {
	return shift.Cell{
		Week: min(max(cell.Week, 0), c.weeks-1),
		Day:  min(max(cell.Day, 0), c.days-1),
	}
}

func sameShift(a, b *shift.Shift) bool {
	if a == b {
		return true
	}
	return a != nil && b != nil && a.ID != "" && a.ID == b.ID
}
