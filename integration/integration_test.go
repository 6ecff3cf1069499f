package integration

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/javiermolinar/rota/internal/compliance"
	"github.com/javiermolinar/rota/internal/dateutil"
	"github.com/javiermolinar/rota/internal/db"
	"github.com/javiermolinar/rota/internal/grid"
	"github.com/javiermolinar/rota/internal/importer"
	"github.com/javiermolinar/rota/internal/interact"
	"github.com/javiermolinar/rota/internal/roster"
	"github.com/javiermolinar/rota/internal/shift"
)

// openRepo creates a fresh repository for each test with automatic cleanup.
func openRepo(t *testing.T) (*db.SQLite, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo, dbPath
}

// loadService builds a roster service over repo and loads it.
func loadService(t *testing.T, repo shift.Repository, start string, weeks int) *roster.Service {
	t.Helper()
	cal, err := dateutil.NewCalendar(start, weeks)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	svc := roster.New(repo, compliance.NewValidator(compliance.DefaultRules()), cal)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return svc
}

func newController(svc *roster.Service, h interact.Handler) *interact.Controller {
	return interact.New(h, interact.WithGrid(svc.Calendar().Weeks, grid.DefaultDays))
}

func byName(t *testing.T, svc *roster.Service, name string) *shift.Shift {
	t.Helper()
	for _, s := range svc.Shifts() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no shift for %s", name)
	return nil
}

const rosterCSV = `Doctor,Post,Date,Start Time,End Time,Type
"Doe, Jane",ICU,2026-01-05,08:00,16:00,Base/Day Shift
Ben,ER,2026-01-06,20:00,08:00,Night Call
Cy,ER,,09:00,17:00,
,ER,2026-01-07,09:00,17:00,base
`

func TestImportDragAndReload(t *testing.T) {
	ctx := context.Background()
	repo, dbPath := openRepo(t)
	svc := loadService(t, repo, "2026-01-05", 4)

	parsed, err := importer.Parse(rosterCSV)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	report, err := svc.Import(ctx, parsed.Records, importer.MapOptions{DefaultType: shift.TypeTeaching})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(report.Imported) != 3 || len(report.Skipped) != 1 {
		t.Fatalf("imported %d, skipped %d", len(report.Imported), len(report.Skipped))
	}
	var lineErr *importer.Error
	if !errors.As(report.Skipped[0], &lineErr) || lineErr.Line != 5 || !errors.Is(lineErr, shift.ErrEmptyName) {
		t.Errorf("skipped = %v, want line 5 empty name", report.Skipped[0])
	}

	// Cy has no date and is the third record, so it lands on Wednesday of week 1.
	cy := byName(t, svc, "Cy")
	if cy.Cell() != (shift.Cell{Week: 0, Day: 2}) || cy.Type != shift.TypeTeaching {
		t.Errorf("Cy = %v %s", cy.Cell(), cy.Type)
	}

	ben := byName(t, svc, "Ben")
	intents := svc.Handler(ctx)
	ctrl := newController(svc, intents)
	if err := ctrl.Dispatch(interact.DragStart{Shift: ben}); err != nil {
		t.Fatalf("drag start: %v", err)
	}
	if err := ctrl.Dispatch(interact.Drop{Target: shift.Cell{Week: 2, Day: 5}}); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if intents.Err != nil {
		t.Fatalf("move: %v", intents.Err)
	}
	if !ctrl.IsIdle() {
		t.Error("controller should be idle after a drop")
	}

	// A second process sees the move.
	other, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = other.Close() })
	reloaded := loadService(t, other, "2026-01-05", 4)

	moved := byName(t, reloaded, "Ben")
	if moved.Cell() != (shift.Cell{Week: 2, Day: 5}) {
		t.Errorf("reloaded cell = %v", moved.Cell())
	}
	if moved.StartDate != "2026-01-06" || moved.EndDate != "2026-01-07" {
		t.Errorf("move changed dates: %s to %s", moved.StartDate, moved.EndDate)
	}
	if got := reloaded.Grid().Cell(shift.Cell{Week: 2, Day: 5}); len(got) != 1 || got[0].ID != ben.ID {
		t.Errorf("grid cell holds %v", got)
	}
}

func TestKeyboardGrabAcrossWeeks(t *testing.T) {
	ctx := context.Background()
	repo, _ := openRepo(t)
	svc := loadService(t, repo, "2026-01-05", 3)

	ana, _, err := svc.AddShift(ctx, shift.Draft{
		Name: "Ana", StartDate: "2026-01-11", StartTime: "08:00", EndTime: "16:00", Type: "base",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if ana.Cell() != (shift.Cell{Week: 0, Day: 6}) {
		t.Fatalf("Ana starts in %v", ana.Cell())
	}

	intents := svc.Handler(ctx)
	ctrl := newController(svc, intents)
	events := []interact.Event{
		interact.GrabKey{Shift: ana, Cell: ana.Cell()},
		interact.ArrowKey{Dir: interact.Right}, // clamped at Sunday
		interact.ArrowKey{Dir: interact.Down},
		interact.ArrowKey{Dir: interact.Down},
		interact.ArrowKey{Dir: interact.Down}, // clamped at the last week
		interact.ArrowKey{Dir: interact.Left},
		interact.ConfirmKey{},
	}
	for _, ev := range events {
		if err := ctrl.Dispatch(ev); err != nil {
			t.Fatalf("%T: %v", ev, err)
		}
	}
	if intents.Err != nil {
		t.Fatalf("move: %v", intents.Err)
	}

	got, err := repo.GetShift(ctx, ana.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Cell() != (shift.Cell{Week: 2, Day: 5}) {
		t.Errorf("stored cell = %v, want week 2 day 5", got.Cell())
	}
}

func TestCancelledSessionsLeaveStorageAlone(t *testing.T) {
	ctx := context.Background()
	repo, _ := openRepo(t)
	svc := loadService(t, repo, "2026-01-05", 2)

	ana, _, err := svc.AddShift(ctx, shift.Draft{
		Name: "Ana", StartDate: "2026-01-05", StartTime: "08:00", EndTime: "16:00", Type: "base",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	moves := 0
	ctrl := newController(svc, interact.HandlerFuncs{
		Move: func(*shift.Shift, int, int) { moves++ },
	})

	steps := []struct {
		ev      interact.Event
		wantErr error
	}{
		{interact.DragStart{Shift: ana}, nil},
		{interact.DragCancel{}, nil},
		{interact.GrabKey{Shift: ana, Cell: ana.Cell()}, nil},
		{interact.ArrowKey{Dir: interact.Down}, nil},
		{interact.CancelKey{}, nil},
		{interact.DragStart{Shift: ana}, nil},
		{interact.Drop{Target: shift.Cell{Week: 5, Day: 0}}, interact.ErrOutOfGrid},
	}
	for _, st := range steps {
		err := ctrl.Dispatch(st.ev)
		if !errors.Is(err, st.wantErr) {
			t.Fatalf("%T: err = %v, want %v", st.ev, err, st.wantErr)
		}
	}
	if moves != 0 {
		t.Errorf("got %d move intents, want 0", moves)
	}

	got, err := repo.GetShift(ctx, ana.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Cell() != ana.Cell() {
		t.Errorf("stored cell = %v, want %v", got.Cell(), ana.Cell())
	}
}

func TestComplianceAfterReload(t *testing.T) {
	ctx := context.Background()
	repo, _ := openRepo(t)
	svc := loadService(t, repo, "2026-01-05", 2)

	drafts := []shift.Draft{
		{Name: "Ana", StartDate: "2026-01-05", StartTime: "08:00", EndTime: "16:00", Type: "base"},
		{Name: "ana", StartDate: "2026-01-05", StartTime: "20:00", EndTime: "08:00", Type: "night_call"},
		{Name: "Ben", StartDate: "2026-01-06", StartTime: "08:00", EndTime: "09:00", Type: "teaching"},
	}
	for _, d := range drafts {
		if _, _, err := svc.AddShift(ctx, d); err != nil {
			t.Fatalf("add %s: %v", d.Name, err)
		}
	}

	reloaded := loadService(t, repo, "2026-01-05", 2)
	got := map[string][]string{}
	for _, s := range reloaded.Shifts() {
		res := reloaded.Check(s)
		if !res.IsValid {
			t.Errorf("%s %s should only have warnings: %v", s.Name, s.StartTime, res.Messages())
		}
		for _, f := range res.Findings {
			got[s.Name+" "+s.StartTime] = append(got[s.Name+" "+s.StartTime], f.Code)
		}
	}

	want := map[string][]string{
		"Ana 08:00": {compliance.CodeInsufficientRest},
		"ana 20:00": {compliance.CodeInsufficientRest},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("findings mismatch (-want +got):\n%s", diff)
	}
}
