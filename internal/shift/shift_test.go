package shift

import (
	"errors"
	"testing"
	"time"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		input   string
		want    Type
		wantErr bool
	}{
		{input: "base", want: TypeBase},
		{input: "Base/Day Shift", want: TypeBase},
		{input: "night_call", want: TypeNightCall},
		{input: "Night Call", want: TypeNightCall},
		{input: "  DAY CALL ", want: TypeDayCall},
		{input: "day-call", want: TypeDayCall},
		{input: "Teaching", want: TypeTeaching},
		{input: "supervision", want: TypeSupervision},
		{input: "holiday", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidType) {
					t.Fatalf("ParseType(%q) error = %v, want ErrInvalidType", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseType(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTypeLabel(t *testing.T) {
	if got := TypeNightCall.Label(); got != "Night Call" {
		t.Errorf("Label() = %q, want %q", got, "Night Call")
	}
	if got := Type("other").Label(); got != "other" {
		t.Errorf("Label() of unknown type = %q, want raw value", got)
	}
	for _, typ := range Types() {
		if !typ.Valid() {
			t.Errorf("Types() returned invalid type %q", typ)
		}
	}
}

func TestInstant(t *testing.T) {
	got, err := Instant("2026-01-01", "09:30")
	if err != nil {
		t.Fatalf("Instant failed: %v", err)
	}
	want := time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Instant = %v, want %v", got, want)
	}

	if _, err := Instant("2026-13-01", "09:30"); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("bad date error = %v, want ErrInvalidDateFormat", err)
	}
	if _, err := Instant("2026-01-01", "9:30"); !errors.Is(err, ErrInvalidTimeFormat) {
		t.Errorf("short time error = %v, want ErrInvalidTimeFormat", err)
	}
	if _, err := Instant("2026-01-01", "24:00"); !errors.Is(err, ErrInvalidTimeFormat) {
		t.Errorf("hour 24 error = %v, want ErrInvalidTimeFormat", err)
	}
}

func TestSpanIgnoresDST(t *testing.T) {
	// Europe/Dublin springs forward on 2026-03-29; the wall-clock span is
	// still 24 hours.
	s := &Shift{StartDate: "2026-03-28", StartTime: "09:00", EndDate: "2026-03-29", EndTime: "09:00"}
	start, end, err := s.Span()
	if err != nil {
		t.Fatalf("Span failed: %v", err)
	}
	if got := end.Sub(start); got != 24*time.Hour {
		t.Errorf("span = %v, want 24h", got)
	}
}

func TestNew(t *testing.T) {
	s, err := New(Draft{
		Name:      "  Dr.\tSmith ",
		StartDate: "2026-01-05",
		StartTime: "17:00",
		EndTime:   "09:00",
		Type:      "Night Call",
	}, Cell{Week: 1, Day: 2})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.ID == "" {
		t.Error("expected a minted ID")
	}
	if s.Name != "Dr. Smith" {
		t.Errorf("Name = %q, want sanitized %q", s.Name, "Dr. Smith")
	}
	if s.EndDate != "2026-01-06" {
		t.Errorf("EndDate = %q, want next day for overnight shift", s.EndDate)
	}
	if s.Type != TypeNightCall {
		t.Errorf("Type = %q, want %q", s.Type, TypeNightCall)
	}
	if s.Cell() != (Cell{Week: 1, Day: 2}) {
		t.Errorf("Cell = %v, want w1d2", s.Cell())
	}

	other, err := New(Draft{Name: "A", StartDate: "2026-01-05", StartTime: "09:00", EndTime: "17:00", Type: "base"}, Cell{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if other.ID == s.ID {
		t.Error("IDs must be unique")
	}
	if other.EndDate != "2026-01-05" {
		t.Errorf("EndDate = %q, want same day", other.EndDate)
	}
}

func TestNewValidation(t *testing.T) {
	base := Draft{Name: "A", StartDate: "2026-01-05", StartTime: "09:00", EndTime: "17:00", Type: "base"}

	tests := []struct {
		name   string
		mutate func(d *Draft)
		want   error
	}{
		{name: "empty name", mutate: func(d *Draft) { d.Name = "   " }, want: ErrEmptyName},
		{name: "bad type", mutate: func(d *Draft) { d.Type = "holiday" }, want: ErrInvalidType},
		{name: "missing type", mutate: func(d *Draft) { d.Type = "" }, want: ErrInvalidType},
		{name: "bad start date", mutate: func(d *Draft) { d.StartDate = "05/01/2026" }, want: ErrInvalidDateFormat},
		{name: "bad end date", mutate: func(d *Draft) { d.EndDate = "tomorrow" }, want: ErrInvalidDateFormat},
		{name: "bad start time", mutate: func(d *Draft) { d.StartTime = "25:00" }, want: ErrInvalidTimeFormat},
		{name: "missing end time", mutate: func(d *Draft) { d.EndTime = "" }, want: ErrInvalidTimeFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base
			tt.mutate(&d)
			_, err := New(d, Cell{})
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"Dr. Smith":          "Dr. Smith",
		"  padded  ":         "padded",
		"multi   space":      "multi space",
		"line\nbreak":        "line break",
		"bell\x07character":  "bell character",
		"":                   "",
	}
	for in, want := range tests {
		if got := SanitizeName(in); got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMoveToAndClone(t *testing.T) {
	s := &Shift{ID: "a", WeekIndex: 0, DayIndex: 0}
	c := s.Clone()
	c.MoveTo(Cell{Week: 3, Day: 6})
	if s.Cell() != (Cell{}) {
		t.Error("Clone must not share state with the original")
	}
	if c.WeekIndex != 3 || c.DayIndex != 6 {
		t.Errorf("MoveTo = %v, want w3d6", c.Cell())
	}
	var nilShift *Shift
	if nilShift.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
