package shift

import "context"

// Repository defines the storage interface for shifts.
type Repository interface {
	// CreateShift adds a new shift. The shift must already carry an ID.
	CreateShift(ctx context.Context, s *Shift) error

	// CreateShifts adds multiple shifts in a single transaction.
	CreateShifts(ctx context.Context, shifts []*Shift) error

	// GetShift retrieves a shift by ID. Returns ErrNotFound if missing.
	GetShift(ctx context.Context, id string) (*Shift, error)

	// ListShifts returns every shift in insertion order.
	ListShifts(ctx context.Context) ([]*Shift, error)

	// UpdateShift replaces all editable fields of a shift.
	UpdateShift(ctx context.Context, s *Shift) error

	// UpdateCell moves a shift to another grid cell.
	UpdateCell(ctx context.Context, id string, cell Cell) error

	// DeleteShift removes a shift.
	DeleteShift(ctx context.Context, id string) error

	// Close releases any resources held by the repository.
	Close() error
}
