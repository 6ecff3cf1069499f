package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/rota/internal/dateutil"
	"github.com/javiermolinar/rota/internal/grid"
	"github.com/javiermolinar/rota/internal/interact"
	"github.com/javiermolinar/rota/internal/shift"
)

var keyNames = map[string]interact.Direction{
	"up":    interact.Up,
	"k":     interact.Up,
	"down":  interact.Down,
	"j":     interact.Down,
	"left":  interact.Left,
	"h":     interact.Left,
	"right": interact.Right,
	"l":     interact.Right,
}

func (a *App) moveCmd() *cobra.Command {
	var (
		week int
		day  string
		keys string
	)

	cmd := &cobra.Command{
		Use:   "move [shift id]",
		Short: "Move a shift to another cell of the grid",
		Long: `Move a shift to another week/day cell. Only the cell changes; the
shift keeps its dates and times.

The target is given either as --week and --day, or as a sequence of
arrow keys applied from the shift's current cell, the same way the
keyboard grab works in the grid view. Arrow moves stop at the grid edge.`,
		Example: `  rota move 3f2a --week=2 --day=wed
  rota move 3f2a --keys=down,right,right`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			byCell := flags.Changed("week") || flags.Changed("day")
			if byCell == (keys != "") {
				return errors.New("pass either --week/--day or --keys")
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
			origin, ok := svc.Grid().Find(s.ID)
			if !ok {
				origin = s.Cell()
			}

			intents := svc.Handler(ctx)
			ctrl := interact.New(intents, interact.WithGrid(svc.Calendar().Weeks, grid.DefaultDays), interact.WithLogger(a.log))
			if err := ctrl.Dispatch(interact.GrabKey{Shift: s, Cell: origin}); err != nil {
				return err
			}

			if byCell {
				target := origin
				if flags.Changed("week") {
					target.Week = week - 1
				}
				if flags.Changed("day") {
					if target.Day, err = parseDay(day); err != nil {
						return err
					}
				}
				if err := ctrl.Confirm(target); err != nil {
					ctrl.Cancel()
					return fmt.Errorf("week %d day %d: %w", target.Week+1, target.Day+1, err)
				}
			} else {
				for _, k := range strings.Split(keys, ",") {
					dir, ok := keyNames[strings.ToLower(strings.TrimSpace(k))]
					if !ok {
						ctrl.Cancel()
						return fmt.Errorf("unknown key %q, use up, down, left or right", k)
					}
					if err := ctrl.Dispatch(interact.ArrowKey{Dir: dir}); err != nil {
						return err
					}
				}
				if err := ctrl.Dispatch(interact.ConfirmKey{}); err != nil {
					return err
				}
			}
			if intents.Err != nil {
				return intents.Err
			}

			moved, err := svc.Find(s.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", moved.Name, cellLabel(svc, moved))
			return nil
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "Target week (1-based)")
	cmd.Flags().StringVar(&day, "day", "", "Target day (mon..sun or 1-7)")
	cmd.Flags().StringVar(&keys, "keys", "", "Comma-separated arrow keys: up, down, left, right")
	return cmd
}

// parseDay accepts a weekday name or prefix ("wed", "Wednesday") or a
// 1-based day number, Monday first.
func parseDay(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(dateutil.DayNames) {
			return 0, fmt.Errorf("day must be between 1 and 7, got %d", n)
		}
		return n - 1, nil
	}
	if len(s) >= 2 {
		for i, name := range dateutil.DayNames {
			if strings.HasPrefix(s, strings.ToLower(name)) || strings.HasPrefix(strings.ToLower(name), s) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown day %q", s)
}
