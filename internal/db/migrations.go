package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS shifts (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			post        TEXT NOT NULL DEFAULT '',
			start_date  TEXT NOT NULL,
			start_time  TEXT NOT NULL,
			end_date    TEXT NOT NULL,
			end_time    TEXT NOT NULL,
			week_index  INTEGER NOT NULL,
			day_index   INTEGER NOT NULL,
			shift_type  TEXT NOT NULL CHECK(shift_type IN ('base', 'day_call', 'night_call', 'teaching', 'supervision')),
			created_at  TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_shifts_cell ON shifts(week_index, day_index);
		CREATE INDEX IF NOT EXISTS idx_shifts_name ON shifts(name COLLATE NOCASE);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating shifts table: %w", err)
	}

	return nil
}
