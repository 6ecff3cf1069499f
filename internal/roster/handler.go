package roster

import (
	"context"

	"go.uber.org/zap"

	"github.com/javiermolinar/rota/internal/shift"
)

// Intents adapts a Service to interact.Handler: move intents are applied
// with MoveShift and click intents go to OnClick.
type Intents struct {
	svc *Service
	ctx context.Context

	// OnClick receives click intents. May be nil.
	OnClick func(*shift.Shift)

	// Err holds the error of the last failed move, if any.
	Err error
}

// Handler returns an interaction handler bound to ctx.
func (s *Service) Handler(ctx context.Context) *Intents {
	return &Intents{svc: s, ctx: ctx}
}

func (h *Intents) OnShiftMove(sh *shift.Shift, week, day int) {
	h.Err = h.svc.MoveShift(h.ctx, sh.ID, shift.Cell{Week: week, Day: day})
	if h.Err != nil {
		h.svc.log.Warn("move failed", zap.String("shift", sh.ID), zap.Error(h.Err))
	}
}

func (h *Intents) OnShiftClick(sh *shift.Shift) {
	if h.OnClick != nil {
		h.OnClick(sh)
	}
}
