// Package roster owns the canonical shift collection and applies edits,
// moves and imports to it through a shift.Repository.
package roster

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/javiermolinar/rota/internal/compliance"
	"github.com/javiermolinar/rota/internal/dateutil"
	"github.com/javiermolinar/rota/internal/grid"
	"github.com/javiermolinar/rota/internal/importer"
	"github.com/javiermolinar/rota/internal/shift"
)

// Service errors.
var (
	ErrNonCompliant = errors.New("shift breaks compliance rules")
	ErrOutsideGrid  = errors.New("cell is outside the roster")
)

// Service holds the shifts of one roster. It is not safe for concurrent use.
type Service struct {
	repo      shift.Repository
	validator *compliance.Validator
	cal       dateutil.Calendar
	log       *zap.Logger
	shifts    []*shift.Shift
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Service. Call Load before reading shifts.
func New(repo shift.Repository, v *compliance.Validator, cal dateutil.Calendar, opts ...Option) *Service {
	if v == nil {
		v = compliance.NewValidator(compliance.DefaultRules())
	}
	if cal.Weeks <= 0 {
		cal.Weeks = grid.DefaultWeeks
	}
	s := &Service{
		repo:      repo,
		validator: v,
		cal:       cal,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the repository contents.
func (s *Service) Load(ctx context.Context) error {
	shifts, err := s.repo.ListShifts(ctx)
	if err != nil {
		return fmt.Errorf("loading shifts: %w", err)
	}
	s.SetShifts(shifts)
	return nil
}

// SetShifts replaces the in-memory collection with shifts already read
// from the repository.
func (s *Service) SetShifts(shifts []*shift.Shift) {
	s.shifts = shifts
	s.log.Debug("roster loaded", zap.Int("shifts", len(shifts)))
}

// Shifts returns the current collection. Callers must not modify the
// returned shifts; the slice itself is a copy.
func (s *Service) Shifts() []*shift.Shift {
	return append([]*shift.Shift(nil), s.shifts...)
}

// Calendar returns the roster calendar.
func (s *Service) Calendar() dateutil.Calendar { return s.cal }

// Validator returns the compliance validator in use.
func (s *Service) Validator() *compliance.Validator { return s.validator }

// Grid builds the week/day matrix for the current collection.
func (s *Service) Grid() *grid.Grid {
	return grid.Build(s.shifts, s.cal.Weeks, grid.DefaultDays)
}

// Find returns the shift with the given ID.
func (s *Service) Find(id string) (*shift.Shift, error) {
	if i := s.index(id); i >= 0 {
		return s.shifts[i], nil
	}
	return nil, fmt.Errorf("shift %s: %w", id, shift.ErrNotFound)
}

// Check validates sh against the rules and the rest of the roster.
func (s *Service) Check(sh *shift.Shift) compliance.Result {
	return s.validator.ValidateAgainst(sh, s.shifts)
}

// MoveShift places the shift with the given ID in cell and persists it.
// The stored shift is replaced by a moved copy, so grids built earlier
// keep showing the old placement.
func (s *Service) MoveShift(ctx context.Context, id string, cell shift.Cell) error {
	if cell.Week < 0 || cell.Week >= s.cal.Weeks || cell.Day < 0 || cell.Day >= grid.DefaultDays {
		return fmt.Errorf("%s: %w", cell, ErrOutsideGrid)
	}
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("shift %s: %w", id, shift.ErrNotFound)
	}
	if err := s.repo.UpdateCell(ctx, id, cell); err != nil {
		return fmt.Errorf("moving shift: %w", err)
	}

	moved := s.shifts[i].Clone()
	from := moved.Cell()
	moved.MoveTo(cell)
	s.replace(i, moved)
	s.log.Debug("shift moved", zap.String("shift", id), zap.Stringer("from", from), zap.Stringer("to", cell))
	return nil
}

// AddShift creates a shift from a draft, placing it in the cell of its
// start date. Error findings block the save; the result is returned
// either way so callers can show every finding.
func (s *Service) AddShift(ctx context.Context, d shift.Draft) (*shift.Shift, compliance.Result, error) {
	sh, err := shift.New(d, shift.Cell{})
	if err != nil {
		return nil, compliance.Result{}, err
	}
	cell, err := s.cellFor(sh.StartDate)
	if err != nil {
		return nil, compliance.Result{}, err
	}
	sh.MoveTo(cell)

	res := s.Check(sh)
	if !res.IsValid {
		return nil, res, fmt.Errorf("%w: %w", ErrNonCompliant, res.Err())
	}
	if err := s.repo.CreateShift(ctx, sh); err != nil {
		return nil, res, fmt.Errorf("saving shift: %w", err)
	}

	s.shifts = append(s.Shifts(), sh)
	s.log.Debug("shift added", zap.String("shift", sh.ID), zap.Stringer("cell", cell))
	return sh, res, nil
}

// UpdateShift replaces the editable fields of a shift. Its cell, ID and
// creation time are kept.
func (s *Service) UpdateShift(ctx context.Context, id string, d shift.Draft) (*shift.Shift, compliance.Result, error) {
	i := s.index(id)
	if i < 0 {
		return nil, compliance.Result{}, fmt.Errorf("shift %s: %w", id, shift.ErrNotFound)
	}
	current := s.shifts[i]

	draft, err := shift.New(d, current.Cell())
	if err != nil {
		return nil, compliance.Result{}, err
	}
	updated := current.Clone()
	updated.Name = draft.Name
	updated.Post = draft.Post
	updated.StartDate = draft.StartDate
	updated.StartTime = draft.StartTime
	updated.EndDate = draft.EndDate
	updated.EndTime = draft.EndTime
	updated.Type = draft.Type

	res := s.Check(updated)
	if !res.IsValid {
		return nil, res, fmt.Errorf("%w: %w", ErrNonCompliant, res.Err())
	}
	if err := s.repo.UpdateShift(ctx, updated); err != nil {
		return nil, res, fmt.Errorf("saving shift: %w", err)
	}

	s.replace(i, updated)
	s.log.Debug("shift updated", zap.String("shift", id))
	return updated, res, nil
}

// Delete removes a shift.
func (s *Service) Delete(ctx context.Context, id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("shift %s: %w", id, shift.ErrNotFound)
	}
	if err := s.repo.DeleteShift(ctx, id); err != nil {
		return fmt.Errorf("deleting shift: %w", err)
	}

	next := make([]*shift.Shift, 0, len(s.shifts)-1)
	next = append(next, s.shifts[:i]...)
	next = append(next, s.shifts[i+1:]...)
	s.shifts = next
	s.log.Debug("shift deleted", zap.String("shift", id))
	return nil
}

// ImportReport summarizes an import.
type ImportReport struct {
	Imported []*shift.Shift
	Skipped  []error
}

// Import converts records to shifts and stores them in one transaction.
// Records that cannot be converted, or whose shift has error findings, are
// skipped and reported.
func (s *Service) Import(ctx context.Context, records []importer.Record, opts importer.MapOptions) (ImportReport, error) {
	opts.Calendar = s.cal
	opts.Check = func(sh *shift.Shift) error {
		if res := s.Check(sh); !res.IsValid {
			return fmt.Errorf("%w: %w", ErrNonCompliant, res.Err())
		}
		return nil
	}
	shifts, skipped := importer.ToShifts(records, opts)
	report := ImportReport{Skipped: skipped}
	if len(shifts) == 0 {
		return report, nil
	}

	if err := s.repo.CreateShifts(ctx, shifts); err != nil {
		return report, fmt.Errorf("saving imported shifts: %w", err)
	}

	s.shifts = append(s.Shifts(), shifts...)
	report.Imported = shifts
	s.log.Info("roster imported", zap.Int("imported", len(shifts)), zap.Int("skipped", len(skipped)))
	return report, nil
}

func (s *Service) cellFor(date string) (shift.Cell, error) {
	d, err := dateutil.ParseDate(date)
	if err != nil {
		return shift.Cell{}, fmt.Errorf("StartDate: %w", shift.ErrInvalidDateFormat)
	}
	week, day, err := s.cal.CellForDate(d)
	if err != nil {
		return shift.Cell{}, err
	}
	return shift.Cell{Week: week, Day: day}, nil
}

func (s *Service) index(id string) int {
	for i, sh := range s.shifts {
		if sh.ID == id {
			return i
		}
	}
	return -1
}

// replace swaps the shift at i in a fresh slice so earlier snapshots are
// left untouched.
func (s *Service) replace(i int, sh *shift.Shift) {
	next := s.Shifts()
	next[i] = sh
	s.shifts = next
}
