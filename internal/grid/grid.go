// Package grid derives the week/day roster matrix from a flat list of shifts.
package grid

import "github.com/javiermolinar/rota/internal/shift"

// Default roster dimensions.
const (
	DefaultWeeks = 4
	DefaultDays  = 7
)

// Grid maps each (week, day) cell to the shifts placed in it.
// A Grid is immutable once built; rebuild it whenever the shift list changes.
type Grid struct {
	weeks    int
	days     int
	cells    map[shift.Cell][]*shift.Shift
	total    int
	excluded int
}

// Build buckets shifts into cells, preserving input order within a cell.
// Shifts with indices outside [0,weeks)x[0,days) are skipped but left
// untouched. Non-positive dimensions fall back to the defaults.
func Build(shifts []*shift.Shift, weeks, days int) *Grid {
	if weeks <= 0 {
		weeks = DefaultWeeks
	}
	if days <= 0 {
		days = DefaultDays
	}

	g := &Grid{
		weeks: weeks,
		days:  days,
		cells: make(map[shift.Cell][]*shift.Shift),
	}
	for _, s := range shifts {
		if s == nil {
			continue
		}
		c := s.Cell()
		if !g.Contains(c) {
			g.excluded++
			continue
		}
		g.cells[c] = append(g.cells[c], s)
		g.total++
	}
	return g
}

// Weeks returns the number of week rows.
func (g *Grid) Weeks() int { return g.weeks }

// Days returns the number of day columns.
func (g *Grid) Days() int { return g.days }

// Contains reports whether c lies inside the grid.
func (g *Grid) Contains(c shift.Cell) bool {
	return c.Week >= 0 && c.Week < g.weeks && c.Day >= 0 && c.Day < g.days
}

// Cell returns the shifts in c. The returned slice must not be modified.
func (g *Grid) Cell(c shift.Cell) []*shift.Shift {
	return g.cells[c]
}

// Total returns the number of shifts placed in the grid.
func (g *Grid) Total() int { return g.total }

// Excluded returns the number of shifts skipped for out-of-range indices.
func (g *Grid) Excluded() int { return g.excluded }

// Find returns the cell holding the shift with the given ID.
func (g *Grid) Find(id string) (shift.Cell, bool) {
	for c, bucket := range g.cells {
		for _, s := range bucket {
			if s.ID == id {
				return c, true
			}
		}
	}
	return shift.Cell{}, false
}

// Clamp limits c to the grid bounds.
func (g *Grid) Clamp(c shift.Cell) shift.Cell {
	return shift.Cell{
		Week: min(max(c.Week, 0), g.weeks-1),
		Day:  min(max(c.Day, 0), g.days-1),
	}
}
