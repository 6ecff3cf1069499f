package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/rota/internal/importer"
	"github.com/javiermolinar/rota/internal/shift"
)

// Preview sizes shown before an import is confirmed.
const (
	previewRawLines = 10
	previewRecords  = 5
)

func (a *App) importCmd() *cobra.Command {
	var (
		yes         bool
		defaultType string
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import shifts from a CSV or xlsx file",
		Long: `Import shifts from a delimited text file or an xlsx workbook.

The first row names the columns and one of them must identify the person
(a header containing user, name, staff or doctor). Date, Start Time,
End Date, End Time, Type and Post columns are used when present. Rows
without a date are spread over the days of the first week.

A preview is shown and the import asks for confirmation unless --yes
is given.`,
		Example: `  rota import roster.csv
  rota import roster.xlsx --yes --type=night_call`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			typ := a.config.DefaultShiftType()
			if defaultType != "" {
				if typ, err = shift.ParseType(defaultType); err != nil {
					return err
				}
			}

			raw, parsed, err := readImport(path, a.config.ImportOptions())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printPreview(out, raw, parsed)
			if !yes && !promptYesNo(cmd.InOrStdin(), out, fmt.Sprintf("\nImport %d rows?", parsed.RecordCount)) {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}

			ctx := context.Background()
			svc, err := a.ensureRoster(ctx)
			if err != nil {
				return err
			}
			report, err := svc.Import(ctx, parsed.Records, importer.MapOptions{
				DefaultType:      typ,
				IdentityKeywords: a.config.Import.IdentityKeywords,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Imported %s from %s\n",
				formatStats(fmt.Sprintf("%d shifts", len(report.Imported))), filepath.Base(path))
			for _, e := range report.Skipped {
				fmt.Fprintf(out, "  %s %v\n", formatMuted("skipped:"), e)
			}
			if n := len(report.Skipped); n > 0 {
				fmt.Fprintf(out, "Skipped %d rows\n", n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Import without asking for confirmation")
	cmd.Flags().StringVar(&defaultType, "type", "", "Type for rows without one (default from config)")
	return cmd
}

// readImport parses path and returns the raw text lines for the preview.
// Workbooks have no raw text; their preview rows are rebuilt from cells.
func readImport(path string, opts importer.Options) ([]string, *importer.ParsedImport, error) {
	if importer.IsWorkbook(path) {
		parsed, err := importer.ParseFileWithOptions(path, opts)
		if err != nil {
			return nil, nil, err
		}
		raw := []string{importer.FormatLine(parsed.FieldNames)}
		for _, rec := range parsed.Records {
			row := make([]string, len(parsed.FieldNames))
			for i, name := range parsed.FieldNames {
				row[i] = rec[name]
			}
			raw = append(raw, importer.FormatLine(row))
		}
		return raw, parsed, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	text, err := importer.Read(f, opts.MaxBytes)
	if err != nil {
		return nil, nil, err
	}
	parsed, err := importer.ParseWithOptions(text, opts)
	if err != nil {
		return nil, nil, err
	}
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	return strings.Split(text, "\n"), parsed, nil
}

func printPreview(w io.Writer, raw []string, parsed *importer.ParsedImport) {
	fmt.Fprintln(w, formatHeader("File preview"))
	for i, line := range raw {
		if i == previewRawLines {
			fmt.Fprintln(w, formatMuted(fmt.Sprintf("  ... %d more lines", len(raw)-previewRawLines)))
			break
		}
		fmt.Fprintf(w, "  %s\n", line)
	}

	fmt.Fprintf(w, "\n%s %s\n", formatHeader("Columns:"), strings.Join(parsed.FieldNames, ", "))
	for i, rec := range parsed.Records {
		if i == previewRecords {
			break
		}
		parts := make([]string, 0, len(parsed.FieldNames))
		for _, name := range parsed.FieldNames {
			parts = append(parts, fmt.Sprintf("%s=%s", name, rec[name]))
		}
		fmt.Fprintf(w, "  %d. %s\n", i+1, strings.Join(parts, "  "))
	}
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
