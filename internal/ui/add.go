package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/rota/internal/dateutil"
	"github.com/javiermolinar/rota/internal/roster"
	"github.com/javiermolinar/rota/internal/shift"
)

var errAmbiguousID = errors.New("shift ID prefix matches more than one shift")

func (a *App) addCmd() *cobra.Command {
	var d shift.Draft

	cmd := &cobra.Command{
		Use:   "add [staff name]",
		Short: "Add a shift",
		Long: `Add a shift to the roster. The shift is placed in the cell of its
start date and checked against the compliance rules; warnings are printed,
errors stop the save.

Example:
  rota add "Doe, Jane" --date=2026-01-05 --start=20:00 --end=08:00 --type=night_call`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, err := a.ensureRoster(ctx)
			if err != nil {
				return err
			}
			d.Name = args[0]
			if err := resolveDates(&d); err != nil {
				return err
			}
			if d.Type == "" {
				d.Type = string(a.config.DefaultShiftType())
			}

			s, res, err := svc.AddShift(ctx, d)
			out := cmd.OutOrStdout()
			if err != nil {
				if errors.Is(err, roster.ErrNonCompliant) {
					PrintFindings(out, res)
				}
				return err
			}

			fmt.Fprintf(out, "Added %s %s %s-%s [%s] %s\n",
				s.Name, s.StartDate, s.StartTime, s.EndTime, formatType(s.Type), formatMuted(s.ID))
			if len(res.Findings) > 0 {
				PrintFindings(out, res)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&d.StartDate, "date", "", "Start date: YYYY-MM-DD, today, tomorrow, a weekday or next-<weekday> (required)")
	cmd.Flags().StringVar(&d.StartTime, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&d.EndTime, "end", "", "End time (HH:MM, required)")
	cmd.Flags().StringVar(&d.EndDate, "end-date", "", "End date (default: start date, or the next day for overnight shifts)")
	cmd.Flags().StringVar(&d.Type, "type", "", "Shift type: base, day_call, night_call, teaching, supervision")
	cmd.Flags().StringVar(&d.Post, "post", "", "Post or team")

	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (a *App) editCmd() *cobra.Command {
	var d shift.Draft

	cmd := &cobra.Command{
		Use:   "edit [shift id]",
		Short: "Edit a shift",
		Long: `Change the fields of a shift. Only the flags given are changed; the
shift keeps its grid cell. Use 'rota move' to change the cell.

Example:
  rota edit 3f2a --end=18:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, err := a.ensureRoster(ctx)
			if err != nil {
				return err
			}
			s, err := resolveShift(svc.Shifts(), args[0])
			if err != nil {
				return err
			}

			if err := resolveDates(&d); err != nil {
				return err
			}
			flags := cmd.Flags()
			merged := shift.Draft{
				Name:      s.Name,
				Post:      s.Post,
				StartDate: s.StartDate,
				StartTime: s.StartTime,
				EndDate:   s.EndDate,
				EndTime:   s.EndTime,
				Type:      string(s.Type),
			}
			overrides := []struct {
				flag string
				dst  *string
				val  string
			}{
				{"name", &merged.Name, d.Name},
				{"post", &merged.Post, d.Post},
				{"date", &merged.StartDate, d.StartDate},
				{"start", &merged.StartTime, d.StartTime},
				{"end-date", &merged.EndDate, d.EndDate},
				{"end", &merged.EndTime, d.EndTime},
				{"type", &merged.Type, d.Type},
			}
			changed := false
			for _, o := range overrides {
				if flags.Changed(o.flag) {
					*o.dst = o.val
					changed = true
				}
			}
			if !changed {
				return errors.New("nothing to change, pass at least one flag")
			}
			// A new time range without an explicit end date gets the default one.
			if !flags.Changed("end-date") && (flags.Changed("date") || flags.Changed("start") || flags.Changed("end")) {
				merged.EndDate = ""
			}

			updated, res, err := svc.UpdateShift(ctx, s.ID, merged)
			out := cmd.OutOrStdout()
			if err != nil {
				if errors.Is(err, roster.ErrNonCompliant) {
					PrintFindings(out, res)
				}
				return err
			}
			fmt.Fprintf(out, "Updated %s %s %s-%s [%s]\n",
				updated.Name, updated.StartDate, updated.StartTime, updated.EndTime, formatType(updated.Type))
			if len(res.Findings) > 0 {
				PrintFindings(out, res)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&d.Name, "name", "", "Staff name")
	cmd.Flags().StringVar(&d.Post, "post", "", "Post or team")
	cmd.Flags().StringVar(&d.StartDate, "date", "", "Start date (YYYY-MM-DD or relative, as for add)")
	cmd.Flags().StringVar(&d.StartTime, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&d.EndDate, "end-date", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&d.EndTime, "end", "", "End time (HH:MM)")
	cmd.Flags().StringVar(&d.Type, "type", "", "Shift type")
	return cmd
}

func (a *App) deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete [shift id]",
		Short: "Delete a shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			question := fmt.Sprintf("Delete %s %s %s-%s?", s.Name, s.StartDate, s.StartTime, s.EndTime)
			if !yes && !promptYesNo(cmd.InOrStdin(), out, question) {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
			if err := svc.Delete(ctx, s.ID); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %s\n", s.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// resolveDates turns relative start and end dates into YYYY-MM-DD.
func resolveDates(d *shift.Draft) error {
	for _, p := range []*string{&d.StartDate, &d.EndDate} {
		if *p == "" {
			continue
		}
		t, err := dateutil.ParseRelativeDate(*p, time.Now())
		if err != nil {
			return fmt.Errorf("date %q: %w", *p, err)
		}
		*p = t.Format(shift.DateLayout)
	}
	return nil
}

// resolveShift finds a shift by its ID or a unique ID prefix.
func resolveShift(shifts []*shift.Shift, ref string) (*shift.Shift, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty shift ID: %w", shift.ErrNotFound)
	}
	for _, s := range shifts {
		if s.ID == ref {
			return s, nil
		}
	}
	var match *shift.Shift
	for _, s := range shifts {
		if strings.HasPrefix(s.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("%s: %w", ref, errAmbiguousID)
			}
			match = s
		}
	}
	if match == nil {
		return nil, fmt.Errorf("shift %s: %w", ref, shift.ErrNotFound)
	}
	return match, nil
}
