// Package importer parses roster spreadsheets (delimited text or xlsx) into
// field-name keyed records.
package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxBytes is the default ceiling for an import file.
const MaxBytes int64 = 5 << 20

// Import errors. Each is terminal for the current import attempt.
var (
	ErrEmptyInput            = errors.New("CSV file is empty")
	ErrMissingIdentityColumn = errors.New("CSV must have a user/name/staff column")
	ErrFileTooLarge          = errors.New("file too large, maximum 5MB allowed")
	ErrNotText               = errors.New("file is not a text file")
)

// DefaultIdentityKeywords are the header fragments that identify the assignee column.
var DefaultIdentityKeywords = []string{"user", "name", "staff", "doctor"}

// Record maps a header name to the value found in one row.
type Record map[string]string

// Get returns the value of the first field whose name matches one of the
// given names case-insensitively.
func (r Record) Get(names ...string) (string, bool) {
	for _, want := range names {
		if v, ok := r[want]; ok {
			return v, true
		}
		for k, v := range r {
			if strings.EqualFold(k, want) {
				return v, true
			}
		}
	}
	return "", false
}

// ParsedImport is the result of parsing one import file.
type ParsedImport struct {
	FieldNames  []string
	Records     []Record
	RecordCount int
}

// Error ties an import problem to a 1-based line number.
type Error struct {
	Line int
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options configures parsing.
type Options struct {
	MaxBytes         int64    // 0 means MaxBytes
	IdentityKeywords []string // nil means DefaultIdentityKeywords
}

func (o Options) maxBytes() int64 {
	if o.MaxBytes <= 0 {
		return MaxBytes
	}
	return o.MaxBytes
}

func (o Options) keywords() []string {
	if len(o.IdentityKeywords) == 0 {
		return DefaultIdentityKeywords
	}
	return o.IdentityKeywords
}

// ParseLine splits one CSV line on commas that are outside double quotes and
// trims every field. Inside a quoted field "" produces a literal quote.
func ParseLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}

// FormatLine joins fields into one CSV line that ParseLine reads back.
// Fields are trimmed on the way in, so surrounding whitespace is not kept.
func FormatLine(fields []string) string {
	out := make([]string, len(fields))
	for i, f := range fields {
		if strings.ContainsAny(f, ",\"") {
			f = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		out[i] = f
	}
	return strings.Join(out, ",")
}

// Parse parses CSV text with the default options.
func Parse(text string) (*ParsedImport, error) {
	return ParseWithOptions(text, Options{})
}

// ParseWithOptions parses CSV text: the first non-blank line is the header,
// every later non-blank line becomes a record. A leading UTF-8 byte order
// mark, as spreadsheet programs write, is ignored.
func ParseWithOptions(text string, opts Options) (*ParsedImport, error) {
	if int64(len(text)) > opts.maxBytes() {
		return nil, ErrFileTooLarge
	}
	text = strings.TrimPrefix(text, "\ufeff")

	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, ParseLine(line))
	}

	return fromRows(rows, opts)
}

// fromRows builds a ParsedImport from tokenized rows, header first.
func fromRows(rows [][]string, opts Options) (*ParsedImport, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	headers := uniqueHeaders(rows[0])
	if !hasIdentityColumn(headers, opts.keywords()) {
		return nil, ErrMissingIdentityColumn
	}

	records := make([]Record, 0, len(rows)-1)
	for _, values := range rows[1:] {
		if isBlankRow(values) {
			continue
		}
		rec := make(Record, len(headers))
		for i, h := range headers {
			if i < len(values) {
				rec[h] = values[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}

	return &ParsedImport{
		FieldNames:  headers,
		Records:     records,
		RecordCount: len(records),
	}, nil
}

// IdentityColumn returns the first header naming the assignee.
func IdentityColumn(headers []string, keywords []string) (string, bool) {
	if len(keywords) == 0 {
		keywords = DefaultIdentityKeywords
	}
	for _, h := range headers {
		lower := strings.ToLower(h)
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return h, true
			}
		}
	}
	return "", false
}

func hasIdentityColumn(headers []string, keywords []string) bool {
	_, ok := IdentityColumn(headers, keywords)
	return ok
}

// uniqueHeaders suffixes repeated header names with _2, _3, ...
func uniqueHeaders(raw []string) []string {
	used := make(map[string]bool, len(raw))
	out := make([]string, len(raw))
	for i, h := range raw {
		name := h
		for n := 2; used[name]; n++ {
			name = h + "_" + strconv.Itoa(n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func isBlankRow(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}
