package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/rota/internal/dateutil"
	"github.com/javiermolinar/rota/internal/shift"
)

func (a *App) listCmd() *cobra.Command {
	var (
		week    int
		opts    PrintOpts
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the roster week by week",
		Long: `List every shift on the roster grid, grouped by week and day.

Shifts with compliance findings are marked with "!". Use 'rota check'
to see the findings.`,
		Example: `  rota list
  rota list --week=2
  rota list -v --id`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			ctx := context.Background()
			svc, err := a.ensureRoster(ctx)
			if err != nil {
				return err
			}

			g := svc.Grid()
			cal := svc.Calendar()
			if week < 0 || week > g.Weeks() {
				return fmt.Errorf("week must be between 1 and %d", g.Weeks())
			}

			out := cmd.OutOrStdout()
			if g.Total() == 0 {
				fmt.Fprintln(out, "No shifts on the roster.")
				return nil
			}

			nameWidth := opts.CalcMaxNameWidth(24)
			var stats Stats
			for w := 0; w < g.Weeks(); w++ {
				if week > 0 && w != week-1 {
					continue
				}
				fmt.Fprintf(out, "=== %s ===\n", formatHeader(cal.WeekLabel(w)))
				for d := 0; d < g.Days(); d++ {
					shifts := g.Cell(shift.Cell{Week: w, Day: d})
					if len(shifts) == 0 {
						continue
					}
					date := cal.DateForCell(w, d)
					fmt.Fprintf(out, "%s %s\n", dateutil.DayNames[d], formatMuted(date.Format("02 Jan")))
					for _, s := range shifts {
						res := svc.Check(s)
						PrintShiftRow(out, s, res, opts, nameWidth)
						AccumulateStats(&stats, s, res)
					}
				}
				fmt.Fprintln(out)
			}

			PrintStats(out, stats)
			if n := g.Excluded(); n > 0 {
				fmt.Fprintln(out, formatMuted(fmt.Sprintf("%d shifts fall outside the roster grid", n)))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "Only list this week (1-based)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show posts and full names")
	cmd.Flags().BoolVar(&opts.ShowID, "id", false, "Show shift IDs")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
