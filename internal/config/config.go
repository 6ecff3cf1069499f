// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/rota/internal/compliance"
	"github.com/javiermolinar/rota/internal/dateutil"
	"github.com/javiermolinar/rota/internal/importer"
	"github.com/javiermolinar/rota/internal/shift"
)

// Config holds the application configuration.
type Config struct {
	Roster     RosterConfig     `toml:"roster"`
	Compliance ComplianceConfig `toml:"compliance"`
	Import     ImportConfig     `toml:"import"`
	Storage    StorageConfig    `toml:"storage"`
	UI         UIConfig         `toml:"ui"`
}

// RosterConfig describes the roster calendar.
type RosterConfig struct {
	StartDate   string `toml:"start_date"`   // Monday of week 0, "YYYY-MM-DD"; empty means current week
	Weeks       int    `toml:"weeks"`        // number of week rows
	DefaultType string `toml:"default_type"` // type for imported rows without one
}

// ComplianceConfig holds working-time thresholds, in hours.
type ComplianceConfig struct {
	MaxDutyHours      float64 `toml:"max_duty_hours"`
	MinNightCallHours float64 `toml:"min_night_call_hours"`
	MinShiftHours     float64 `toml:"min_shift_hours"`
	MinRestHours      float64 `toml:"min_rest_hours"`
}

// ImportConfig holds CSV/xlsx import settings.
type ImportConfig struct {
	MaxBytes         int64    `toml:"max_bytes"`
	IdentityKeywords []string `toml:"identity_keywords"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// Default returns the default configuration.
func Default() *Config {
	rules := compliance.DefaultRules()
	return &Config{
		Roster: RosterConfig{
			StartDate:   "",
			Weeks:       4,
			DefaultType: string(shift.TypeBase),
		},
		Compliance: ComplianceConfig{
			MaxDutyHours:      rules.MaxDutyHours,
			MinNightCallHours: rules.MinNightCallHours,
			MinShiftHours:     rules.MinShiftHours,
			MinRestHours:      rules.MinRestHours,
		},
		Import: ImportConfig{
			MaxBytes:         importer.MaxBytes,
			IdentityKeywords: append([]string(nil), importer.DefaultIdentityKeywords...),
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "rota.db"
	}
	return filepath.Join(home, ".local", "share", "rota", "rota.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "rota", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	// Roster overrides
	if v := os.Getenv("ROTA_START_DATE"); v != "" {
		cfg.Roster.StartDate = v
	}
	if v := os.Getenv("ROTA_WEEKS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ROTA_WEEKS: %w", err)
		}
		cfg.Roster.Weeks = n
	}
	if v := os.Getenv("ROTA_DEFAULT_TYPE"); v != "" {
		cfg.Roster.DefaultType = v
	}

	// Compliance overrides
	floats := []struct {
		env string
		dst *float64
	}{
		{"ROTA_MAX_DUTY_HOURS", &cfg.Compliance.MaxDutyHours},
		{"ROTA_MIN_NIGHT_CALL_HOURS", &cfg.Compliance.MinNightCallHours},
		{"ROTA_MIN_SHIFT_HOURS", &cfg.Compliance.MinShiftHours},
		{"ROTA_MIN_REST_HOURS", &cfg.Compliance.MinRestHours},
	}
	for _, f := range floats {
		v := os.Getenv(f.env)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", f.env, err)
		}
		*f.dst = n
	}

	// Import overrides
	if v := os.Getenv("ROTA_IMPORT_MAX_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("ROTA_IMPORT_MAX_BYTES: %w", err)
		}
		cfg.Import.MaxBytes = n
	}
	if v := os.Getenv("ROTA_IDENTITY_KEYWORDS"); v != "" {
		cfg.Import.IdentityKeywords = strings.Split(v, ",")
	}

	// Storage overrides
	if v := os.Getenv("ROTA_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	// UI overrides
	if v := os.Getenv("ROTA_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Roster.StartDate != "" {
		if _, err := dateutil.ParseDate(c.Roster.StartDate); err != nil {
			return fmt.Errorf("start_date: %w", err)
		}
	}
	if c.Roster.Weeks < 1 || c.Roster.Weeks > 52 {
		return fmt.Errorf("weeks must be between 1 and 52, got %d", c.Roster.Weeks)
	}
	if _, err := shift.ParseType(c.Roster.DefaultType); err != nil {
		return fmt.Errorf("default_type: %w", err)
	}

	hours := []struct {
		name string
		v    float64
	}{
		{"max_duty_hours", c.Compliance.MaxDutyHours},
		{"min_night_call_hours", c.Compliance.MinNightCallHours},
		{"min_shift_hours", c.Compliance.MinShiftHours},
		{"min_rest_hours", c.Compliance.MinRestHours},
	}
	for _, h := range hours {
		if h.v <= 0 {
			return fmt.Errorf("%s must be positive, got %v", h.name, h.v)
		}
	}
	if c.Compliance.MinShiftHours > c.Compliance.MaxDutyHours {
		return errors.New("min_shift_hours must not exceed max_duty_hours")
	}

	if c.Import.MaxBytes <= 0 {
		return errors.New("import max_bytes must be positive")
	}
	if len(c.Import.IdentityKeywords) == 0 {
		return errors.New("at least one identity keyword must be configured")
	}
	for _, kw := range c.Import.IdentityKeywords {
		if strings.TrimSpace(kw) == "" {
			return errors.New("identity keywords must not be blank")
		}
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// Calendar returns the roster calendar described by the config.
func (c *Config) Calendar() (dateutil.Calendar, error) {
	return dateutil.NewCalendar(c.Roster.StartDate, c.Roster.Weeks)
}

// Rules returns the compliance thresholds.
func (c *Config) Rules() compliance.Rules {
	return compliance.Rules{
		MaxDutyHours:      c.Compliance.MaxDutyHours,
		MinNightCallHours: c.Compliance.MinNightCallHours,
		MinShiftHours:     c.Compliance.MinShiftHours,
		MinRestHours:      c.Compliance.MinRestHours,
	}
}

// DefaultShiftType returns the parsed default type, falling back to base.
func (c *Config) DefaultShiftType() shift.Type {
	t, err := shift.ParseType(c.Roster.DefaultType)
	if err != nil {
		return shift.TypeBase
	}
	return t
}

// ImportOptions returns the parser options for imports.
func (c *Config) ImportOptions() importer.Options {
	return importer.Options{
		MaxBytes:         c.Import.MaxBytes,
		IdentityKeywords: c.Import.IdentityKeywords,
	}
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
