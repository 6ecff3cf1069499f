package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/rota/internal/importer"
	"github.com/javiermolinar/rota/internal/shift"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		output string
		xlsx   bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the roster as CSV or xlsx",
		Long: `Export every shift in the import column layout, so the file can be
edited and imported again. CSV goes to stdout unless --output is given.`,
		Example: `  rota export > roster.csv
  rota export --xlsx -o roster.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != "" && importer.IsWorkbook(output) {
				xlsx = true
			}
			if xlsx && output == "" {
				return errors.New("--xlsx needs --output")
			}

			ctx := context.Background()
			svc, err := a.ensureRoster(ctx)
			if err != nil {
				return err
			}
			shifts := append([]*shift.Shift(nil), svc.Shifts()...)
			sortShifts(shifts)

			var buf bytes.Buffer
			if xlsx {
				rows := make([][]string, 0, len(shifts))
				for _, s := range shifts {
					rows = append(rows, importer.Row(s))
				}
				if err := importer.WriteWorkbook(&buf, importer.ExportHeader, rows); err != nil {
					return err
				}
			} else {
				buf.WriteString(importer.FormatCSV(shifts))
			}

			if output == "" {
				_, err := io.Copy(cmd.OutOrStdout(), &buf)
				return err
			}
			path, err := resolvePath(output)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d shifts to %s\n", len(shifts), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&xlsx, "xlsx", false, "Write an xlsx workbook (implied by a .xlsx output name)")
	return cmd
}
