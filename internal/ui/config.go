package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/rota/internal/config"
	"github.com/javiermolinar/rota/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  rota config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	}
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	p := prompter{r: reader, w: out}
	cfg.Roster.StartDate = p.value("Roster start date (YYYY-MM-DD, empty for this week)", cfg.Roster.StartDate)
	cfg.Roster.Weeks = p.number("Weeks", cfg.Roster.Weeks)
	cfg.Roster.DefaultType = p.value("Default shift type", cfg.Roster.DefaultType)
	cfg.Compliance.MaxDutyHours = p.hours("Max duty hours", cfg.Compliance.MaxDutyHours)
	cfg.Compliance.MinNightCallHours = p.hours("Min night call hours", cfg.Compliance.MinNightCallHours)
	cfg.Compliance.MinShiftHours = p.hours("Min shift hours", cfg.Compliance.MinShiftHours)
	cfg.Compliance.MinRestHours = p.hours("Min rest hours", cfg.Compliance.MinRestHours)
	cfg.Import.IdentityKeywords = p.slice("Identity keywords (comma-separated)", cfg.Import.IdentityKeywords)
	cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = p.theme(cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	start := cfg.Roster.StartDate
	if start == "" {
		start = "(current week)"
	}
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[roster]")
	fmt.Fprintf(w, "  start_date           = %s\n", start)
	fmt.Fprintf(w, "  weeks                = %d\n", cfg.Roster.Weeks)
	fmt.Fprintf(w, "  default_type         = %s\n", cfg.Roster.DefaultType)
	fmt.Fprintln(w, "\n[compliance]")
	fmt.Fprintf(w, "  max_duty_hours       = %g\n", cfg.Compliance.MaxDutyHours)
	fmt.Fprintf(w, "  min_night_call_hours = %g\n", cfg.Compliance.MinNightCallHours)
	fmt.Fprintf(w, "  min_shift_hours      = %g\n", cfg.Compliance.MinShiftHours)
	fmt.Fprintf(w, "  min_rest_hours       = %g\n", cfg.Compliance.MinRestHours)
	fmt.Fprintln(w, "\n[import]")
	fmt.Fprintf(w, "  max_bytes            = %d\n", cfg.Import.MaxBytes)
	fmt.Fprintf(w, "  identity_keywords    = %s\n", strings.Join(cfg.Import.IdentityKeywords, ", "))
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path              = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme                = %s\n", cfg.UI.Theme)
}

// promptYesNo asks a y/N question. Anything but y or yes, including EOF,
// is a no.
func promptYesNo(in io.Reader, out io.Writer, question string) bool {
	reader, ok := in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(in)
	}
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func (p prompter) value(label, current string) string {
	if current == "" {
		fmt.Fprintf(p.w, "  %s: ", label)
	} else {
		fmt.Fprintf(p.w, "  %s [%s]: ", label, current)
	}
	input, _ := p.r.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func (p prompter) number(label string, current int) int {
	for {
		v := p.value(label, strconv.Itoa(current))
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
		fmt.Fprintf(p.w, "  Not a number: %q\n", v)
	}
}

func (p prompter) hours(label string, current float64) float64 {
	for {
		v := p.value(label, strconv.FormatFloat(current, 'g', -1, 64))
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
		fmt.Fprintf(p.w, "  Not a number: %q\n", v)
	}
}

func (p prompter) slice(label string, current []string) []string {
	input := p.value(label, strings.Join(current, ", "))
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	if len(result) == 0 {
		return current
	}
	return result
}

func (p prompter) theme(current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(p.value(label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(p.w, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
