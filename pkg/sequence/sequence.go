// Package sequence maintains the left-to-right order of frames on a wall.
//
// Frame order is authoritative: the wall's frame list drives both the
// horizontal layout (frames are laid edge to edge from the wall origin)
// and the numbering walk. Reordering is expressed as "drop at horizontal
// coordinate x": the engine computes the insertion index by scanning the
// remaining frames in order and stopping at the first one whose midpoint
// lies to the right of x.
//
// The destination index is always computed against the list after the
// moved frame has been removed. Computing it against the original list is
// the classic move-within-slice pitfall: every index past the source
// shifts down by one on removal.
package sequence

import "slices"

// Box is a frame's horizontal footprint on the wall, in the same
// coordinate space as the drop position.
type Box struct {
	X     float64
	Width float64
}

// Midpoint returns the horizontal center of the box.
func (b Box) Midpoint() float64 { return b.X + b.Width/2 }

// LayoutBoxes lays frames edge to edge from origin, in list order.
func LayoutBoxes(origin float64, widths []float64) []Box {
	boxes := make([]Box, len(widths))
	x := origin
	for i, w := range widths {
		boxes[i] = Box{X: x, Width: w}
		x += w
	}
	return boxes
}

// InsertionIndex returns the index at which a frame dropped at x should be
// inserted: before the first box whose midpoint is right of x, or at the
// end when x is past every midpoint.
func InsertionIndex(boxes []Box, x float64) int {
	for i, b := range boxes {
		if b.Midpoint() > x {
			return i
		}
	}
	return len(boxes)
}

// MoveIndex computes the destination index for moving the frame at from to
// the drop position x. The remaining frames are re-laid from the wall
// origin before the midpoint scan, so the index is valid for inserting
// into the list with the source element already removed.
func MoveIndex(widths []float64, from int, x float64) int {
	rest := slices.Delete(slices.Clone(widths), from, from+1)
	return InsertionIndex(LayoutBoxes(0, rest), x)
}

// Move returns list with the element at from reinserted at to, where to is
// an index into the list after removal of the source element. The input is
// not mutated.
func Move[T any](list []T, from, to int) []T {
	if from < 0 || from >= len(list) {
		return slices.Clone(list)
	}
	out := make([]T, 0, len(list))
	out = append(out, list[:from]...)
	out = append(out, list[from+1:]...)

	if to < 0 {
		to = 0
	}
	if to > len(out) {
		to = len(out)
	}
	return slices.Insert(out, to, list[from])
}

// MoveToX moves the element at from to the position a drop at x selects,
// laying the remaining elements out with the given widths. widths must be
// parallel to list.
func MoveToX[T any](list []T, widths []float64, from int, x float64) []T {
	return Move(list, from, MoveIndex(widths, from, x))
}
