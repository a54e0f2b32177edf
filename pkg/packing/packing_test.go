package packing

import (
	"testing"

	"github.com/mailworks/quadplan/pkg/errors"
)

// The reference column used throughout: 6 units holding a 2-unit door at
// the bottom and a 1-unit door directly above it. Units 3..5 are empty.
func referenceColumn() []Placement {
	return []Placement{
		{Index: 0, Start: 0, Units: 2}, // dd
		{Index: 1, Start: 2, Units: 1}, // sd
	}
}

func TestValidateDetectsOverlap(t *testing.T) {
	col := []Placement{
		{Index: 0, Start: 0, Units: 2},
		{Index: 1, Start: 1, Units: 2},
	}
	err := Validate(col, 6)
	if err == nil {
		t.Fatal("expected overlap error")
	}
	if !errors.Is(err, errors.ErrCodeSlotOverlap) {
		t.Errorf("code = %s, want slot overlap", errors.GetCode(err))
	}
}

func TestValidateDetectsOutOfRange(t *testing.T) {
	col := []Placement{{Index: 0, Start: 5, Units: 2}}
	err := Validate(col, 6)
	if !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("code = %s, want out of range", errors.GetCode(err))
	}
}

func TestBuildSlots(t *testing.T) {
	slots, err := BuildSlots(referenceColumn(), 6)
	if err != nil {
		t.Fatalf("BuildSlots: %v", err)
	}
	if len(slots) != 6 {
		t.Fatalf("len(slots) = %d, want 6", len(slots))
	}

	// dd covers units 0-1, unit 1 is covered-by-below
	if slots[0].Occupant != 0 || slots[0].Covered {
		t.Errorf("slot 0 = %+v", slots[0])
	}
	if slots[1].Occupant != 0 || !slots[1].Covered {
		t.Errorf("slot 1 = %+v", slots[1])
	}
	// sd covers unit 2
	if slots[2].Occupant != 1 || slots[2].Covered {
		t.Errorf("slot 2 = %+v", slots[2])
	}
	// units 3-5 empty
	for u := 3; u < 6; u++ {
		if slots[u].Occupied() {
			t.Errorf("slot %d should be empty: %+v", u, slots[u])
		}
	}
}

func TestCanPlaceBoundaries(t *testing.T) {
	col := referenceColumn()

	tests := []struct {
		name         string
		start, units int
		want         bool
	}{
		{"fills the free top exactly", 3, 3, true},
		{"two units in free space", 3, 2, true},
		{"top unit alone", 5, 1, true},
		{"partial overlap with dd", 1, 2, false},
		{"exceeds the column top", 5, 2, false},
		{"negative start", -1, 2, false},
		{"zero units", 3, 0, false},
		{"fully contains both existing doors", 0, 3, true},
		{"exactly covers the dd", 0, 2, true},
		{"clips dd from above", 1, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanPlace(col, 6, tt.start, tt.units); got != tt.want {
				t.Errorf("CanPlace(%d, %d) = %v, want %v", tt.start, tt.units, got, tt.want)
			}
		})
	}
}

func TestSwapSameSize(t *testing.T) {
	col := []Placement{
		{Index: 0, Start: 0, Units: 2},
		{Index: 1, Start: 2, Units: 2},
	}
	next, err := Swap(col, 6, 0, 1)
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if next[0].Start != 2 || next[1].Start != 0 {
		t.Errorf("positions not exchanged: %+v", next)
	}
	// Input untouched
	if col[0].Start != 0 {
		t.Error("Swap mutated its input")
	}
}

func TestSwapDifferentSizesBlockedByNeighbor(t *testing.T) {
	col := []Placement{
		{Index: 0, Start: 0, Units: 1}, // sd
		{Index: 1, Start: 1, Units: 2}, // dd
		{Index: 2, Start: 3, Units: 1}, // sd
	}
	// Exchanging sd@0 with dd@1 puts the dd at units 0-1 and the sd at
	// unit 1: the ranges collide.
	if _, err := Swap(col, 6, 0, 1); err == nil {
		t.Fatal("expected overlap on unequal swap")
	}

	// Swapping the two equal-size outer doors is a pure position exchange.
	next, err := Swap(col, 6, 0, 2)
	if err != nil {
		t.Fatalf("Swap outer: %v", err)
	}
	if next[0].Start != 3 || next[2].Start != 0 {
		t.Errorf("outer swap wrong: %+v", next)
	}
}

func TestSwapOutOfRange(t *testing.T) {
	col := []Placement{
		{Index: 0, Start: 0, Units: 2},
		{Index: 1, Start: 5, Units: 1},
	}
	// dd moving to start 5 would span units 5-6 in a 6-unit column.
	if _, err := Swap(col, 6, 0, 1); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("code = %s, want out of range", errors.GetCode(err))
	}
}

func TestReplaceExactUnits(t *testing.T) {
	// Two sd doors at 3 and 4 replaced by one dd.
	col := []Placement{
		{Index: 0, Start: 0, Units: 2},
		{Index: 1, Start: 3, Units: 1},
		{Index: 2, Start: 4, Units: 1},
	}
	incoming, next, err := Replace(col, 6, []int{1, 2}, 2)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if incoming.Start != 3 || incoming.Units != 2 {
		t.Errorf("incoming = %+v, want start 3 units 2", incoming)
	}
	if len(next) != 2 {
		t.Errorf("len(next) = %d, want 2", len(next))
	}
}

func TestReplaceUnitMismatch(t *testing.T) {
	col := referenceColumn()
	// Vacating sd (1 unit) cannot host a dd (2 units).
	_, _, err := Replace(col, 6, []int{1}, 2)
	if !errors.Is(err, errors.ErrCodeUnitMismatch) {
		t.Errorf("code = %s, want unit mismatch", errors.GetCode(err))
	}
}

func TestReplaceDuplicateVictim(t *testing.T) {
	_, _, err := Replace(referenceColumn(), 6, []int{1, 1}, 2)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %s, want invalid input", errors.GetCode(err))
	}
}

func TestEmptyUnits(t *testing.T) {
	empty := EmptyUnits(referenceColumn(), 6)
	want := []int{3, 4, 5}
	if len(empty) != len(want) {
		t.Fatalf("empty = %v, want %v", empty, want)
	}
	for i := range want {
		if empty[i] != want[i] {
			t.Fatalf("empty = %v, want %v", empty, want)
		}
	}

	if Complete(referenceColumn(), 6) {
		t.Error("reference column is not complete")
	}

	full := []Placement{
		{Index: 0, Start: 0, Units: 2},
		{Index: 1, Start: 2, Units: 1},
		{Index: 2, Start: 3, Units: 3},
	}
	if !Complete(full, 6) {
		t.Error("fully packed column should be complete")
	}
}
