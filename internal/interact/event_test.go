package interact

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/javiermolinar/rota/internal/shift"
)

func TestDispatch(t *testing.T) {
	a, b := sh("a"), sh("b")

	tests := []struct {
		name      string
		events    []Event
		wantErrs  []error
		wantMoves []move
		wantClick []string
		wantState string
	}{
		{
			name:      "pointer drag and drop",
			events:    []Event{DragStart{Shift: a}, Drop{Target: shift.Cell{Week: 1, Day: 4}}},
			wantErrs:  []error{nil, nil},
			wantMoves: []move{{ID: "a", Week: 1, Day: 4}},
			wantState: "idle",
		},
		{
			name:      "pointer drag cancelled",
			events:    []Event{DragStart{Shift: a}, DragCancel{}},
			wantErrs:  []error{nil, nil},
			wantState: "idle",
		},
		{
			name: "keyboard grab, move, confirm",
			events: []Event{
				GrabKey{Shift: a, Cell: shift.Cell{}},
				ArrowKey{Dir: Down},
				ArrowKey{Dir: Right},
				ConfirmKey{},
			},
			wantErrs:  []error{nil, nil, nil, nil},
			wantMoves: []move{{ID: "a", Week: 1, Day: 1}},
			wantState: "idle",
		},
		{
			name:      "keyboard grab cancelled",
			events:    []Event{GrabKey{Shift: a}, ArrowKey{Dir: Right}, CancelKey{}},
			wantErrs:  []error{nil, nil, nil},
			wantState: "idle",
		},
		{
			name:      "cancel key also ends a drag",
			events:    []Event{DragStart{Shift: a}, CancelKey{}},
			wantErrs:  []error{nil, nil},
			wantState: "idle",
		},
		{
			name:      "activate and click while idle",
			events:    []Event{ActivateKey{Shift: a}, Click{Shift: b}},
			wantErrs:  []error{nil, nil},
			wantClick: []string{"a", "b"},
			wantState: "idle",
		},
		{
			name:      "drag rejected during grab",
			events:    []Event{GrabKey{Shift: a}, DragStart{Shift: b}, Drop{}},
			wantErrs:  []error{nil, ErrSessionActive, ErrNotDragging},
			wantState: "grabbed",
		},
		{
			name:      "confirm without grab",
			events:    []Event{ConfirmKey{}, ArrowKey{Dir: Up}},
			wantErrs:  []error{ErrNotGrabbed, ErrNotGrabbed},
			wantState: "idle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTest()
			for i, ev := range tt.events {
				err := c.Dispatch(ev)
				if !errors.Is(err, tt.wantErrs[i]) {
					t.Errorf("event %d (%T): got %v, want %v", i, ev, err, tt.wantErrs[i])
				}
			}
			if diff := cmp.Diff(tt.wantMoves, rec.moves); diff != "" {
				t.Errorf("moves mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantClick, rec.clicks); diff != "" {
				t.Errorf("clicks mismatch (-want +got):\n%s", diff)
			}
			if got := c.State().String(); got != tt.wantState {
				t.Errorf("state = %s, want %s", got, tt.wantState)
			}
		})
	}
}

func TestDispatch_UnknownEvent(t *testing.T) {
	c, _ := newTest()
	if err := c.Dispatch(nil); err == nil {
		t.Error("expected error for nil event")
	}
}

func TestTransitionsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c := New(nil, WithLogger(zap.New(core)))

	if err := c.Grab(sh("a"), shift.Cell{}); err != nil {
		t.Fatal(err)
	}
	c.Cancel()

	entries := logs.FilterMessage("interaction transition").All()
	if len(entries) != 2 {
		t.Fatalf("got %d transition entries, want 2", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["from"] != "idle" || ctx["to"] != "grabbed" || ctx["shift"] != "a" {
		t.Errorf("unexpected fields: %v", ctx)
	}
}
