// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/rota/internal/shift"
)

// SQLite implements shift.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ shift.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
// The parent directory of path is created if needed.
func New(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const insertShift = `
	INSERT INTO shifts (
		id, name, post, start_date, start_time, end_date, end_time,
		week_index, day_index, shift_type, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectShift = `
	SELECT id, name, post, start_date, start_time, end_date, end_time,
	       week_index, day_index, shift_type, created_at
	FROM shifts
`

// CreateShift adds a new shift to the repository.
func (s *SQLite) CreateShift(ctx context.Context, sh *shift.Shift) error {
	if sh.ID == "" {
		return errors.New("shift has no ID")
	}
	if _, err := s.db.ExecContext(ctx, insertShift, insertArgs(sh)...); err != nil {
		return fmt.Errorf("inserting shift: %w", err)
	}
	return nil
}

// CreateShifts adds multiple shifts in a batch using a transaction.
func (s *SQLite) CreateShifts(ctx context.Context, shifts []*shift.Shift) error {
	if len(shifts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertShift)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, sh := range shifts {
		if sh.ID == "" {
			return fmt.Errorf("shift %q has no ID", sh.Name)
		}
		if _, err := stmt.ExecContext(ctx, insertArgs(sh)...); err != nil {
			return fmt.Errorf("inserting shift %q: %w", sh.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// GetShift retrieves a shift by ID.
func (s *SQLite) GetShift(ctx context.Context, id string) (*shift.Shift, error) {
	row := s.db.QueryRowContext(ctx, selectShift+` WHERE id = ?`, id)
	sh, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("shift %s: %w", id, shift.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying shift: %w", err)
	}
	return sh, nil
}

// ListShifts returns every shift in insertion order.
func (s *SQLite) ListShifts(ctx context.Context) ([]*shift.Shift, error) {
	rows, err := s.db.QueryContext(ctx, selectShift+` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying shifts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var shifts []*shift.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning shift: %w", err)
		}
		shifts = append(shifts, sh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shifts: %w", err)
	}

	return shifts, nil
}

// UpdateShift replaces the editable fields of a shift.
func (s *SQLite) UpdateShift(ctx context.Context, sh *shift.Shift) error {
	query := `
		UPDATE shifts
		SET name = ?, post = ?, start_date = ?, start_time = ?, end_date = ?, end_time = ?,
		    week_index = ?, day_index = ?, shift_type = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		sh.Name,
		sh.Post,
		sh.StartDate,
		sh.StartTime,
		sh.EndDate,
		sh.EndTime,
		sh.WeekIndex,
		sh.DayIndex,
		string(sh.Type),
		sh.ID,
	)
	if err != nil {
		return fmt.Errorf("updating shift: %w", err)
	}
	return requireRow(result, sh.ID)
}

// UpdateCell moves a shift to another grid cell.
func (s *SQLite) UpdateCell(ctx context.Context, id string, cell shift.Cell) error {
	query := `UPDATE shifts SET week_index = ?, day_index = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, cell.Week, cell.Day, id)
	if err != nil {
		return fmt.Errorf("moving shift: %w", err)
	}
	return requireRow(result, id)
}

// DeleteShift removes a shift.
func (s *SQLite) DeleteShift(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting shift: %w", err)
	}
	return requireRow(result, id)
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func insertArgs(sh *shift.Shift) []any {
	createdAt := sh.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return []any{
		sh.ID,
		sh.Name,
		sh.Post,
		sh.StartDate,
		sh.StartTime,
		sh.EndDate,
		sh.EndTime,
		sh.WeekIndex,
		sh.DayIndex,
		string(sh.Type),
		createdAt.UTC().Format(time.RFC3339Nano),
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanShift(row scanner) (*shift.Shift, error) {
	var (
		sh        shift.Shift
		typ       string
		createdAt string
	)
	err := row.Scan(
		&sh.ID,
		&sh.Name,
		&sh.Post,
		&sh.StartDate,
		&sh.StartTime,
		&sh.EndDate,
		&sh.EndTime,
		&sh.WeekIndex,
		&sh.DayIndex,
		&typ,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	sh.Type = shift.Type(typ)

	sh.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	return &sh, nil
}

func requireRow(result sql.Result, id string) error {
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("shift %s: %w", id, shift.ErrNotFound)
	}
	return nil
}
