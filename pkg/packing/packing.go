// Package packing implements the unit-slot packing rules for one cabinet
// column.
//
// A cabinet face is divided into fixed-height unit rows. Every door covers
// the half-open unit range [Start, Start+Units) of its column, measured
// from the bottom of the cabinet. The engine projects a column of doors
// onto per-unit slots and answers the placement queries the editor needs:
// can a door go here, can these two doors trade places, can this group of
// doors be replaced by one door of a different size.
//
// All functions are pure: they never mutate their inputs and return fresh
// slices, so callers can treat the current column as a copy-on-write
// snapshot. A rejected operation leaves the column untouched by
// construction.
package packing

import (
	"slices"

	"github.com/mailworks/quadplan/pkg/errors"
)

// Placement is one door's vertical footprint within a column. Index is the
// caller's handle for the door (typically its position in the owning
// frame's door list) and is carried through untouched.
type Placement struct {
	Index int
	Start int // bottom unit offset
	Units int // height in units, > 0
}

// End returns the exclusive top unit of the placement.
func (p Placement) End() int { return p.Start + p.Units }

// contains reports whether p lies entirely within [start, start+units).
func (p Placement) contains(start, units int) bool {
	return p.Start >= start && p.End() <= start+units
}

// overlaps reports whether p intersects [start, start+units).
func (p Placement) overlaps(start, units int) bool {
	return p.Start < start+units && start < p.End()
}

// Slot is the transient per-unit projection of a column. Occupant is the
// Placement.Index of the door covering the unit, or -1 when the unit is
// empty. Covered marks units above the occupying door's bottom row.
type Slot struct {
	Unit     int
	Occupant int
	Covered  bool
}

// Occupied reports whether the slot holds a door.
func (s Slot) Occupied() bool { return s.Occupant >= 0 }

// Validate checks that every placement lies within the column and that no
// two placements overlap. This is the core no-overlap invariant: for any
// two distinct doors in a column, their unit ranges never intersect.
func Validate(placements []Placement, totalUnits int) error {
	if totalUnits <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "column must have a positive unit count, got %d", totalUnits)
	}
	for _, p := range placements {
		if p.Units <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "door %d has non-positive unit size %d", p.Index, p.Units)
		}
		if p.Start < 0 || p.End() > totalUnits {
			return errors.New(errors.ErrCodeOutOfRange,
				"door %d spans units [%d,%d) outside column of %d units", p.Index, p.Start, p.End(), totalUnits)
		}
	}

	sorted := slices.Clone(placements)
	slices.SortFunc(sorted, func(a, b Placement) int { return a.Start - b.Start })
	for i := 1; i < len(sorted); i++ {
		prev, curr := sorted[i-1], sorted[i]
		if curr.Start < prev.End() {
			return errors.New(errors.ErrCodeSlotOverlap,
				"doors %d and %d overlap at unit %d", prev.Index, curr.Index, curr.Start)
		}
	}
	return nil
}

// BuildSlots projects a column of doors onto its per-unit slots. The
// projection is rebuilt from scratch whenever the column changes; it is
// never persisted.
func BuildSlots(placements []Placement, totalUnits int) ([]Slot, error) {
	if err := Validate(placements, totalUnits); err != nil {
		return nil, err
	}

	slots := make([]Slot, totalUnits)
	for u := range slots {
		slots[u] = Slot{Unit: u, Occupant: -1}
	}
	for _, p := range placements {
		for u := p.Start; u < p.End(); u++ {
			slots[u].Occupant = p.Index
			slots[u].Covered = u > p.Start
		}
	}
	return slots, nil
}

// CanPlace reports whether a door of the given unit size can be placed at
// startUnit. Placement is allowed when the whole range lies inside the
// column and every unit in it is either empty or occupied by doors fully
// contained in the range. Partial overlap with a door that sticks out of
// the range is always rejected.
func CanPlace(placements []Placement, totalUnits, startUnit, units int) bool {
	if units <= 0 || startUnit < 0 || startUnit+units > totalUnits {
		return false
	}
	for _, p := range placements {
		if p.overlaps(startUnit, units) && !p.contains(startUnit, units) {
			return false
		}
	}
	return true
}

// Swap exchanges the positions of the doors at indices a and b of
// placements. The swap succeeds only if both doors end up fully inside the
// column and no third door occupies any unit either door lands on. On
// success a new placement slice is returned; on failure the error carries
// a packing code and the input is untouched.
func Swap(placements []Placement, totalUnits, a, b int) ([]Placement, error) {
	if a < 0 || a >= len(placements) || b < 0 || b >= len(placements) || a == b {
		return nil, errors.New(errors.ErrCodeDoorNotFound, "swap indices %d,%d out of range", a, b)
	}

	next := slices.Clone(placements)
	next[a].Start, next[b].Start = next[b].Start, next[a].Start

	if err := Validate(next, totalUnits); err != nil {
		return nil, err
	}
	return next, nil
}

// Replace removes the doors at the victim indices and inserts a single
// door of newUnits units at the lowest vacated position. The replacement
// succeeds only if the vacated unit sizes sum exactly to newUnits. The
// returned Placement has Index -1; the caller assigns the real handle.
func Replace(placements []Placement, totalUnits int, victims []int, newUnits int) (Placement, []Placement, error) {
	if len(victims) == 0 {
		return Placement{}, nil, errors.New(errors.ErrCodeInvalidInput, "no doors selected for replacement")
	}

	seen := make(map[int]bool, len(victims))
	freed := 0
	lowest := totalUnits
	for _, v := range victims {
		if v < 0 || v >= len(placements) {
			return Placement{}, nil, errors.New(errors.ErrCodeDoorNotFound, "replace index %d out of range", v)
		}
		if seen[v] {
			return Placement{}, nil, errors.New(errors.ErrCodeInvalidInput, "door %d selected twice", v)
		}
		seen[v] = true
		freed += placements[v].Units
		if placements[v].Start < lowest {
			lowest = placements[v].Start
		}
	}

	if freed != newUnits {
		return Placement{}, nil, errors.New(errors.ErrCodeUnitMismatch,
			"vacated %d units but the new door needs %d", freed, newUnits)
	}

	incoming := Placement{Index: -1, Start: lowest, Units: newUnits}
	rest := make([]Placement, 0, len(placements)-len(victims)+1)
	for i, p := range placements {
		if !seen[i] {
			rest = append(rest, p)
		}
	}
	rest = append(rest, incoming)

	if err := Validate(rest, totalUnits); err != nil {
		return Placement{}, nil, err
	}
	return incoming, rest, nil
}

// EmptyUnits returns the unit indices not covered by any door, in
// ascending order. A column with empty units is valid for editing but
// blocks saving.
func EmptyUnits(placements []Placement, totalUnits int) []int {
	covered := make([]bool, totalUnits)
	for _, p := range placements {
		for u := p.Start; u < p.End() && u < totalUnits; u++ {
			if u >= 0 {
				covered[u] = true
			}
		}
	}
	var empty []int
	for u, c := range covered {
		if !c {
			empty = append(empty, u)
		}
	}
	return empty
}

// Complete reports whether every unit of the column is covered.
func Complete(placements []Placement, totalUnits int) bool {
	return len(EmptyUnits(placements, totalUnits)) == 0
}
