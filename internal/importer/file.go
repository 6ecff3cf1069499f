package importer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
)

// Read reads an untrusted text file. It rejects input above limit bytes,
// empty input and content that does not sniff as text.
func Read(r io.Reader, limit int64) (string, error) {
	data, err := readLimited(r, limit)
	if err != nil {
		return "", err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", ErrEmptyInput
	}
	if !isText(data) {
		return "", ErrNotText
	}
	return string(data), nil
}

// ParseWorkbook reads the first sheet of an xlsx workbook and applies the
// same header rules as Parse.
func ParseWorkbook(r io.Reader, limit int64) (*ParsedImport, error) {
	return ParseWorkbookWithOptions(r, Options{MaxBytes: limit})
}

// ParseWorkbookWithOptions is ParseWorkbook with explicit options.
func ParseWorkbookWithOptions(r io.Reader, opts Options) (*ParsedImport, error) {
	data, err := readLimited(r, opts.maxBytes())
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyInput
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	var rows [][]string
	for _, row := range raw {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
		}
		if isBlankRow(cells) {
			continue
		}
		rows = append(rows, cells)
	}
	return fromRows(rows, opts)
}

// ParseFile opens path and parses it as a workbook (.xlsx) or delimited text.
func ParseFile(path string, limit int64) (*ParsedImport, error) {
	return ParseFileWithOptions(path, Options{MaxBytes: limit})
}

// ParseFileWithOptions is ParseFile with explicit options.
func ParseFileWithOptions(path string, opts Options) (*ParsedImport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	if IsWorkbook(path) {
		return ParseWorkbookWithOptions(f, opts)
	}
	text, err := Read(f, opts.maxBytes())
	if err != nil {
		return nil, err
	}
	return ParseWithOptions(text, opts)
}

// IsWorkbook reports whether path names an xlsx workbook.
func IsWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// WriteWorkbook writes a header row and records to an xlsx workbook.
func WriteWorkbook(w io.Writer, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	all := append([][]string{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = MaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

func isText(data []byte) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
