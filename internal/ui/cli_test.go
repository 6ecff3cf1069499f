package ui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/javiermolinar/rota/internal/config"
	"github.com/javiermolinar/rota/internal/db"
	"github.com/javiermolinar/rota/internal/interact"
	"github.com/javiermolinar/rota/internal/roster"
	"github.com/javiermolinar/rota/internal/shift"
)

type testEnv struct {
	repo *db.SQLite
	cfg  *config.Config
	dir  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	DisableColor()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Roster.StartDate = "2026-01-05"
	cfg.Roster.Weeks = 4
	cfg.Storage.DBPath = filepath.Join(dir, "rota.db")

	repo, err := db.New(cfg.Storage.DBPath)
	if err != nil {
		t.Fatalf("creating repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return &testEnv{repo: repo, cfg: cfg, dir: dir}
}

// run executes one command on a fresh App, the way each shell invocation
// gets a fresh process.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	a := NewApp(e.repo, e.cfg)
	var out bytes.Buffer
	a.root.SetArgs(args)
	a.root.SetOut(&out)
	a.root.SetErr(&out)
	a.root.SetIn(strings.NewReader(stdin))
	err := a.Execute()
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, "", args...)
	if err != nil {
		t.Fatalf("rota %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func (e *testEnv) shifts(t *testing.T) []*shift.Shift {
	t.Helper()
	shifts, err := e.repo.ListShifts(context.Background())
	if err != nil {
		t.Fatalf("ListShifts: %v", err)
	}
	return shifts
}

func (e *testEnv) only(t *testing.T) *shift.Shift {
	t.Helper()
	shifts := e.shifts(t)
	if len(shifts) != 1 {
		t.Fatalf("got %d shifts, want 1", len(shifts))
	}
	return shifts[0]
}

func TestAddListShow(t *testing.T) {
	e := newTestEnv(t)

	out := e.mustRun(t, "add", "Ana", "--date=2026-01-13", "--start=20:00", "--end=08:00", "--type=night_call", "--post=ICU")
	if !strings.Contains(out, "Added Ana 2026-01-13 20:00-08:00") {
		t.Errorf("add output = %q", out)
	}

	s := e.only(t)
	if got, want := s.Cell(), (shift.Cell{Week: 1, Day: 1}); got != want {
		t.Errorf("cell = %v, want %v", got, want)
	}
	if s.EndDate != "2026-01-14" {
		t.Errorf("EndDate = %q, want next day", s.EndDate)
	}

	out = e.mustRun(t, "list")
	for _, want := range []string{"Week 2 (Mon 12 Jan)", "Tue", "20:00-08:00", "Ana", "Night Call", "Total: 12h in 1 shifts"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out = e.mustRun(t, "show", s.ID[:8])
	for _, want := range []string{"ID:    " + s.ID, "Post:  ICU", "Cell:  Week 2 Tue 13 Jan", "Hours: 12h", "no issues found"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestListEmpty(t *testing.T) {
	e := newTestEnv(t)
	out := e.mustRun(t, "list")
	if !strings.Contains(out, "No shifts on the roster.") {
		t.Errorf("list output = %q", out)
	}
	if _, err := e.run(t, "", "list", "--week=9"); err == nil {
		t.Error("list --week=9 should fail on a 4 week roster")
	}
}

func TestAddRejected(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{
			name: "end before start",
			args: []string{"--date=2026-01-06", "--start=09:00", "--end=17:00", "--end-date=2026-01-05"},
			want: roster.ErrNonCompliant,
		},
		{
			name: "outside roster",
			args: []string{"--date=2027-01-06", "--start=09:00", "--end=17:00"},
			want: nil,
		},
		{
			name: "bad type",
			args: []string{"--date=2026-01-06", "--start=09:00", "--end=17:00", "--type=holiday"},
			want: shift.ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			_, err := e.run(t, "", append([]string{"add", "Ana"}, tt.args...)...)
			if err == nil {
				t.Fatal("add should fail")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if n := len(e.shifts(t)); n != 0 {
				t.Errorf("%d shifts saved, want 0", n)
			}
		})
	}
}

func TestAddWarningsAreSaved(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "add", "Ana", "--date=2026-01-05", "--start=08:00", "--end=16:00")
	out := e.mustRun(t, "add", "Ana", "--date=2026-01-05", "--start=20:00", "--end=08:00")

	if !strings.Contains(out, "only 4h rest") {
		t.Errorf("add output should warn about rest:\n%s", out)
	}
	if n := len(e.shifts(t)); n != 2 {
		t.Errorf("got %d shifts, want 2", n)
	}

	out, err := e.run(t, "", "check")
	if err != nil {
		t.Fatalf("check with warnings only should pass: %v", err)
	}
	if !strings.Contains(out, "2 of 2 shifts have findings.") {
		t.Errorf("check output = %q", out)
	}
}

func TestCheckAllClean(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "add", "Ana", "--date=2026-01-05", "--start=08:00", "--end=16:00")
	e.mustRun(t, "add", "Ben", "--date=2026-01-05", "--start=08:00", "--end=16:00")

	out := e.mustRun(t, "check")
	if !strings.Contains(out, "All 2 shifts comply.") {
		t.Errorf("check output = %q", out)
	}
	if strings.Contains(out, "Ben") {
		t.Errorf("check without --all should not print clean shifts:\n%s", out)
	}
	if out := e.mustRun(t, "check", "--all"); !strings.Contains(out, "Ben") {
		t.Errorf("check --all should print every shift:\n%s", out)
	}
}

func TestEdit(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "add", "Ana", "--date=2026-01-05", "--start=08:00", "--end=16:00")
	before := e.only(t)

	e.mustRun(t, "edit", before.ID, "--end=07:00", "--type=night_call")
	after := e.only(t)

	if after.ID != before.ID || after.Cell() != before.Cell() {
		t.Errorf("edit changed identity or cell: %+v", after)
	}
	if after.EndTime != "07:00" || after.EndDate != "2026-01-06" || after.Type != shift.TypeNightCall {
		t.Errorf("edit result = %s %s %s", after.EndDate, after.EndTime, after.Type)
	}

	if _, err := e.run(t, "", "edit", before.ID); err == nil {
		t.Error("edit without flags should fail")
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want shift.Cell
	}{
		{"week and day", []string{"--week=3", "--day=fri"}, shift.Cell{Week: 2, Day: 4}},
		{"day only", []string{"--day=7"}, shift.Cell{Week: 0, Day: 6}},
		{"keys", []string{"--keys=down,right,right"}, shift.Cell{Week: 1, Day: 2}},
		{"keys clamp at the edge", []string{"--keys=up,left,j"}, shift.Cell{Week: 1, Day: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			e.mustRun(t, "add", "Ana", "--date=2026-01-05", "--start=08:00", "--end=16:00")
			s := e.only(t)

			out := e.mustRun(t, append([]string{"move", s.ID}, tt.args...)...)
			if !strings.HasPrefix(out, "Moved Ana to ") {
				t.Errorf("move output = %q", out)
			}

			moved := e.only(t)
			if got := moved.Cell(); got != tt.want {
				t.Errorf("cell = %v, want %v", got, tt.want)
			}
			if moved.StartDate != s.StartDate || moved.StartTime != s.StartTime {
				t.Errorf("move changed times: %s %s", moved.StartDate, moved.StartTime)
			}
		})
	}
}

func TestMoveErrors(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "add", "Ana", "--date=2026-01-05", "--start=08:00", "--end=16:00")
	s := e.only(t)

	if _, err := e.run(t, "", "move", s.ID, "--week=9"); !errors.Is(err, interact.ErrOutOfGrid) {
		t.Errorf("move outside the grid: err = %v, want ErrOutOfGrid", err)
	}
	if _, err := e.run(t, "", "move", s.ID); err == nil {
		t.Error("move without a target should fail")
	}
	if _, err := e.run(t, "", "move", s.ID, "--week=2", "--keys=down"); err == nil {
		t.Error("move with both targets should fail")
	}
	if _, err := e.run(t, "", "move", s.ID, "--keys=sideways"); err == nil {
		t.Error("move with an unknown key should fail")
	}
	if got := e.only(t).Cell(); got != s.Cell() {
		t.Errorf("failed moves changed the cell to %v", got)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		kept  bool
	}{
		{"confirmed", "y\n", nil, false},
		{"declined", "n\n", nil, true},
		{"no answer", "", nil, true},
		{"yes flag", "", []string{"--yes"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			e.mustRun(t, "add", "Ana", "--date=2026-01-05", "--start=08:00", "--end=16:00")
			s := e.only(t)

			if _, err := e.run(t, tt.stdin, append([]string{"delete", s.ID}, tt.args...)...); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if kept := len(e.shifts(t)) == 1; kept != tt.kept {
				t.Errorf("kept = %v, want %v", kept, tt.kept)
			}
		})
	}
}

const importCSV = `Staff,Post,Date,Start Time,End Time,Type
Ana,ICU,2026-01-06,20:00,08:00,night_call
Ben,ER,2026-01-05,09:00,17:00,
Cy,ER,2026-13-01,09:00,17:00,base
`

func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestImportExport(t *testing.T) {
	e := newTestEnv(t)
	path := e.writeFile(t, "roster.csv", importCSV)

	out := e.mustRun(t, "import", path, "--yes")
	for _, want := range []string{"File preview", "Columns: Staff, Post, Date, Start Time, End Time, Type", "Imported 2 shifts from roster.csv", "line 4", "Skipped 1 rows"} {
		if !strings.Contains(out, want) {
			t.Errorf("import output missing %q:\n%s", want, out)
		}
	}

	got := e.mustRun(t, "export")
	want := `Staff,Post,Date,Start Time,End Date,End Time,Type
Ben,ER,2026-01-05,09:00,2026-01-05,17:00,base
Ana,ICU,2026-01-06,20:00,2026-01-07,08:00,night_call
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("export mismatch (-want +got):\n%s", diff)
	}
}

func TestImportDeclined(t *testing.T) {
	e := newTestEnv(t)
	path := e.writeFile(t, "roster.csv", importCSV)

	out, err := e.run(t, "no\n", "import", path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Aborted.") {
		t.Errorf("import output = %q", out)
	}
	if n := len(e.shifts(t)); n != 0 {
		t.Errorf("%d shifts imported after declining", n)
	}
}

func TestImportDefaultType(t *testing.T) {
	e := newTestEnv(t)
	path := e.writeFile(t, "roster.csv", "Doctor\nAna\nBen\n")

	e.mustRun(t, "import", path, "--yes", "--type=teaching")

	shifts := e.shifts(t)
	if len(shifts) != 2 {
		t.Fatalf("got %d shifts, want 2", len(shifts))
	}
	for i, s := range shifts {
		if s.Type != shift.TypeTeaching {
			t.Errorf("%s type = %s, want teaching", s.Name, s.Type)
		}
		if got, want := s.Cell(), (shift.Cell{Week: 0, Day: i}); got != want {
			t.Errorf("%s cell = %v, want %v", s.Name, got, want)
		}
	}

	if _, err := e.run(t, "", "import", path, "--yes", "--type=holiday"); err == nil {
		t.Error("import with an unknown --type should fail")
	}
}

func TestExportWorkbookRoundTrip(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "add", "Doe, Jane", "--date=2026-01-07", "--start=08:00", "--end=16:00", "--post=Ward 3")
	e.mustRun(t, "add", "Ben", "--date=2026-01-05", "--start=20:00", "--end=08:00", "--type=night_call")

	book := filepath.Join(e.dir, "roster.xlsx")
	e.mustRun(t, "export", "-o", book)
	if _, err := os.Stat(book); err != nil {
		t.Fatalf("workbook not written: %v", err)
	}

	other := newTestEnv(t)
	other.mustRun(t, "import", book, "--yes")

	if diff := cmp.Diff(e.mustRun(t, "export"), other.mustRun(t, "export")); diff != "" {
		t.Errorf("workbook round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := e.run(t, "", "export", "--xlsx"); err == nil {
		t.Error("export --xlsx without --output should fail")
	}
}

func TestResolveShift(t *testing.T) {
	shifts := []*shift.Shift{
		{ID: "abc123", Name: "Ana"},
		{ID: "abd456", Name: "Ben"},
		{ID: "ab", Name: "Cy"},
	}

	tests := []struct {
		ref     string
		want    string
		wantErr error
	}{
		{"abc123", "Ana", nil},
		{"abc", "Ana", nil},
		{"abd", "Ben", nil},
		{"ab", "Cy", nil},
		{"a", "", errAmbiguousID},
		{"zzz", "", shift.ErrNotFound},
		{"  ", "", shift.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := resolveShift(shifts, tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Name != tt.want {
				t.Errorf("got %s, want %s", got.Name, tt.want)
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"mon", 0, false},
		{"Tu", 1, false},
		{"wednesday", 2, false},
		{"THU", 3, false},
		{"sun", 6, false},
		{"1", 0, false},
		{"7", 6, false},
		{"0", 0, true},
		{"8", 0, true},
		{"t", 0, true},
		{"someday", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDay(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPromptYesNo(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yep\n", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		if got := promptYesNo(strings.NewReader(tt.in), &out, "Go?"); got != tt.want {
			t.Errorf("promptYesNo(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if out.String() != "Go? [y/N]: " {
			t.Errorf("prompt = %q", out.String())
		}
	}
}

func TestRunConfigInteractive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	var out bytes.Buffer
	if err := runConfigInteractive(strings.NewReader("n\n"), &out, path); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if !strings.Contains(out.String(), "Created "+path) {
		t.Errorf("first run output = %q", out.String())
	}

	// start, weeks (one bad try), type, four hours, keywords, db, theme
	answers := strings.Join([]string{
		"y", "2026-02-02", "six", "6", "", "13", "", "", "", "staff, doctor", "", "latte",
	}, "\n") + "\n"
	out.Reset()
	if err := runConfigInteractive(strings.NewReader(answers), &out, path); err != nil {
		t.Fatalf("edit run: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), `Not a number: "six"`) {
		t.Errorf("bad number should be re-asked:\n%s", out.String())
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Roster.StartDate != "2026-02-02" || cfg.Roster.Weeks != 6 || cfg.Compliance.MaxDutyHours != 13 || cfg.UI.Theme != "latte" {
		t.Errorf("saved config = %+v", cfg)
	}
	if diff := cmp.Diff([]string{"staff", "doctor"}, cfg.Import.IdentityKeywords); diff != "" {
		t.Errorf("keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestVersion(t *testing.T) {
	e := newTestEnv(t)
	if out := e.mustRun(t, "version"); !strings.HasPrefix(out, "rota dev") {
		t.Errorf("version output = %q", out)
	}
}

func TestResolveDates(t *testing.T) {
	today := time.Now()
	tests := []struct {
		start, end         string
		wantStart, wantEnd string
		wantErr            bool
	}{
		{"2026-01-05", "", "2026-01-05", "", false},
		{"today", "tomorrow", today.Format("2006-01-02"), today.AddDate(0, 0, 1).Format("2006-01-02"), false},
		{"next-week", "", today.AddDate(0, 0, 7).Format("2006-01-02"), "", false},
		{"someday", "", "", "", true},
		{"2026-01-05", "05/01/2026", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.start+" "+tt.end, func(t *testing.T) {
			d := shift.Draft{StartDate: tt.start, EndDate: tt.end}
			err := resolveDates(&d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if d.StartDate != tt.wantStart || d.EndDate != tt.wantEnd {
				t.Errorf("got %q %q, want %q %q", d.StartDate, d.EndDate, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
