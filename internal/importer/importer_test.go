package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "plain", line: "a,b,c", want: []string{"a", "b", "c"}},
		{name: "trims fields", line: " a , b ,c ", want: []string{"a", "b", "c"}},
		{name: "comma inside quotes", line: `"Doe, Jane",ICU`, want: []string{"Doe, Jane", "ICU"}},
		{name: "empty fields", line: "a,,c,", want: []string{"a", "", "c", ""}},
		{name: "empty line", line: "", want: []string{""}},
		{name: "doubled quote inside quotes", line: `"say ""hi""",x`, want: []string{`say "hi"`, "x"}},
		{name: "quote toggles mid field", line: `ab"c,d"e,f`, want: []string{"abc,de", "f"}},
		{name: "unterminated quote swallows the rest", line: `"a,b,c`, want: []string{"a,b,c"}},
		{name: "doubled quote outside quotes", line: `a""b,c`, want: []string{"ab", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseLine(tt.line)); diff != "" {
				t.Errorf("ParseLine(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestFormatLine_RoundTrip(t *testing.T) {
	tests := [][]string{
		{"Doe, Jane", "ICU", "2026-01-05"},
		{`say "hi"`, "x"},
		{"plain", "", "last"},
		{`"quoted, with comma"`},
	}

	for _, fields := range tests {
		line := FormatLine(fields)
		if diff := cmp.Diff(fields, ParseLine(line)); diff != "" {
			t.Errorf("round trip of %q via %q mismatch (-want +got):\n%s", fields, line, diff)
		}
	}
}

func TestParse(t *testing.T) {
	text := "Staff,Post,Date\r\n" +
		"\"Doe, Jane\",ICU,2026-01-05\r\n" +
		"\r\n" +
		"Smith\n" +
		"Lee,Ward 3,2026-01-06,extra\n" +
		"   \n"

	got, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &ParsedImport{
		FieldNames: []string{"Staff", "Post", "Date"},
		Records: []Record{
			{"Staff": "Doe, Jane", "Post": "ICU", "Date": "2026-01-05"},
			{"Staff": "Smith", "Post": "", "Date": ""},
			{"Staff": "Lee", "Post": "Ward 3", "Date": "2026-01-06"},
		},
		RecordCount: 3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_ByteOrderMark(t *testing.T) {
	got, err := Parse("\ufeffDate,Staff\r\n2026-01-05,Ana\r\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &ParsedImport{
		FieldNames:  []string{"Date", "Staff"},
		Records:     []Record{{"Date": "2026-01-05", "Staff": "Ana"}},
		RecordCount: 1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	got, err := Parse("Name,Shift\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RecordCount != 0 || len(got.Records) != 0 {
		t.Errorf("got %d records, want 0", got.RecordCount)
	}
}

func TestParse_DuplicateHeaders(t *testing.T) {
	got, err := Parse("Name,Shift,Shift,Shift_2,Shift\nA,1,2,3,4\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantFields := []string{"Name", "Shift", "Shift_2", "Shift_2_2", "Shift_3"}
	if diff := cmp.Diff(wantFields, got.FieldNames); diff != "" {
		t.Errorf("FieldNames mismatch (-want +got):\n%s", diff)
	}
	if got.Records[0]["Shift_3"] != "4" {
		t.Errorf("Shift_3 = %q, want 4", got.Records[0]["Shift_3"])
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "empty", text: "", wantErr: ErrEmptyInput},
		{name: "blank lines only", text: "\n  \r\n\n", wantErr: ErrEmptyInput},
		{name: "no identity column", text: "Date,Time,Location\n2026-01-05,09:00,ICU\n", wantErr: ErrMissingIdentityColumn},
		{name: "too large", text: strings.Repeat("a", 6<<20), wantErr: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
			if got != nil {
				t.Errorf("expected nil result on error, got %+v", got)
			}
		})
	}
}

func TestParse_SizeCheckedBeforeTokenizing(t *testing.T) {
	// Without the ceiling this input would fail the identity check instead.
	text := "Date,Time,Location\n" + strings.Repeat("x", 6<<20)
	if _, err := Parse(text); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("got error %v, want %v", err, ErrFileTooLarge)
	}
}

func TestParseWithOptions_Keywords(t *testing.T) {
	opts := Options{IdentityKeywords: []string{"consultant"}}
	if _, err := ParseWithOptions("Consultant,Date\nA,2026-01-05\n", opts); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseWithOptions("Name,Date\nA,2026-01-05\n", opts); !errors.Is(err, ErrMissingIdentityColumn) {
		t.Errorf("got error %v, want %v", err, ErrMissingIdentityColumn)
	}
}

func TestIdentityColumn(t *testing.T) {
	tests := []struct {
		headers []string
		want    string
		wantOK  bool
	}{
		{headers: []string{"Date", "Username"}, want: "Username", wantOK: true},
		{headers: []string{"STAFF MEMBER", "Name"}, want: "STAFF MEMBER", wantOK: true},
		{headers: []string{"Doctor"}, want: "Doctor", wantOK: true},
		{headers: []string{"Date", "Time", "Location"}},
	}

	for _, tt := range tests {
		got, ok := IdentityColumn(tt.headers, nil)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("IdentityColumn(%v) = %q,%v want %q,%v", tt.headers, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRecord_Get(t *testing.T) {
	rec := Record{"start time": "08:00", "Post": "ICU"}
	if v, ok := rec.Get("Start Time"); !ok || v != "08:00" {
		t.Errorf("Get(Start Time) = %q,%v", v, ok)
	}
	if v, ok := rec.Get("Missing", "Post"); !ok || v != "ICU" {
		t.Errorf("Get(Missing, Post) = %q,%v", v, ok)
	}
	if _, ok := rec.Get("Missing"); ok {
		t.Error("Get(Missing) should report false")
	}
}

func TestError(t *testing.T) {
	err := error(&Error{Line: 4, Err: ErrEmptyInput})
	if err.Error() != "line 4: CSV file is empty" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrEmptyInput) {
		t.Error("Error should unwrap to its cause")
	}
}
