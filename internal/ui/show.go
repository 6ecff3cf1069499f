package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/rota/internal/grid"
	"github.com/javiermolinar/rota/internal/interact"
	"github.com/javiermolinar/rota/internal/roster"
	"github.com/javiermolinar/rota/internal/shift"
)

func (a *App) showCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "show [shift id]",
		Short: "Show a shift and its compliance findings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}
			ctx := context.Background()
			svc, err := a.ensureRoster(ctx)
			if err != nil {
				return err
			}
			s, err := resolveShift(svc.Shifts(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			intents := svc.Handler(ctx)
			intents.OnClick = func(clicked *shift.Shift) {
				PrintShiftDetail(out, clicked, cellLabel(svc, clicked), svc.Check(clicked))
			}
			ctrl := interact.New(intents, interact.WithGrid(svc.Calendar().Weeks, grid.DefaultDays), interact.WithLogger(a.log))
			return ctrl.Dispatch(interact.Click{Shift: s})
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func (a *App) checkCmd() *cobra.Command {
	var (
		all     bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "check [shift id]",
		Short: "Check shifts against the compliance rules",
		Long: `Validate one shift, or every shift on the roster, against the
working-time rules: daily duty limit, inverted times, night call length,
minimum shift length and rest between shifts of the same person.

Without --all only shifts with findings are printed. The command fails
when any shift has an error finding.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}
			ctx := context.Background()
			svc, err := a.ensureRoster(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				s, err := resolveShift(svc.Shifts(), args[0])
				if err != nil {
					return err
				}
				res := svc.Check(s)
				PrintShiftDetail(out, s, cellLabel(svc, s), res)
				return res.Err()
			}
			return checkAll(out, svc, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Print shifts without findings too")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func checkAll(out io.Writer, svc *roster.Service, all bool) error {
	shifts := append([]*shift.Shift(nil), svc.Shifts()...)
	sortShifts(shifts)

	var stats Stats
	invalid := 0
	for _, s := range shifts {
		res := svc.Check(s)
		AccumulateStats(&stats, s, res)
		if !res.IsValid {
			invalid++
		}
		if len(res.Findings) == 0 && !all {
			continue
		}
		fmt.Fprintf(out, "%s %s %s-%s %s\n", formatHeader(s.Name), s.StartDate, s.StartTime, s.EndTime, formatMuted(s.ID))
		PrintFindings(out, res)
	}

	if stats.Flagged == 0 {
		fmt.Fprintf(out, "All %d shifts comply.\n", stats.Shifts)
		return nil
	}
	fmt.Fprintf(out, "%d of %d shifts have findings.\n", stats.Flagged, stats.Shifts)
	if invalid > 0 {
		return fmt.Errorf("%d shifts: %w", invalid, roster.ErrNonCompliant)
	}
	return nil
}

func cellLabel(svc *roster.Service, s *shift.Shift) string {
	c, ok := svc.Grid().Find(s.ID)
	if !ok {
		return "outside roster"
	}
	date := svc.Calendar().DateForCell(c.Week, c.Day)
	return fmt.Sprintf("Week %d %s", c.Week+1, date.Format("Mon 02 Jan"))
}
