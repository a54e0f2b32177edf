package geometry

// DefaultPixelsPerInch is the canvas scale: how many canvas pixels one
// physical inch occupies.
const DefaultPixelsPerInch = 4.0

// DefaultSnapThreshold is the snap radius in canvas pixels.
const DefaultSnapThreshold = 30.0

// Measurement is one finalized two-click measurement: a line between two
// (possibly snapped) points with its length in pixels and inches.
type Measurement struct {
	A      Point   `json:"a"`
	B      Point   `json:"b"`
	Pixels float64 `json:"pixels"`
	Inches float64 `json:"inches"`
}

// Ruler drives the two-click measurement protocol. The first click
// records an anchor point, the second finalizes a measurement, and the
// next click starts a fresh one while all finalized measurements are
// retained until Clear.
type Ruler struct {
	pixelsPerInch float64
	threshold     float64
	pending       *Point
	done          []Measurement
}

// NewRuler creates a ruler with the given canvas scale and snap
// threshold. Non-positive arguments fall back to the defaults.
func NewRuler(pixelsPerInch, threshold float64) *Ruler {
	if pixelsPerInch <= 0 {
		pixelsPerInch = DefaultPixelsPerInch
	}
	if threshold <= 0 {
		threshold = DefaultSnapThreshold
	}
	return &Ruler{pixelsPerInch: pixelsPerInch, threshold: threshold}
}

// Click feeds a cursor click to the ruler. The point snaps to the nearest
// candidate of rects when within the threshold. Every second click
// finalizes and returns a measurement; anchor clicks return nil.
func (r *Ruler) Click(cursor Point, rects []Rect) *Measurement {
	p := SnapOrFree(rects, cursor, r.threshold)

	if r.pending == nil {
		r.pending = &p
		return nil
	}

	px := Distance(*r.pending, p)
	m := Measurement{
		A:      *r.pending,
		B:      p,
		Pixels: px,
		Inches: px / r.pixelsPerInch,
	}
	r.done = append(r.done, m)
	r.pending = nil
	return &m
}

// Pending returns the anchor point of a measurement in progress.
func (r *Ruler) Pending() (Point, bool) {
	if r.pending == nil {
		return Point{}, false
	}
	return *r.pending, true
}

// Cancel drops a pending anchor without finalizing a measurement.
func (r *Ruler) Cancel() {
	r.pending = nil
}

// Measurements returns all finalized measurements in click order.
func (r *Ruler) Measurements() []Measurement {
	out := make([]Measurement, len(r.done))
	copy(out, r.done)
	return out
}

// Clear removes every finalized measurement and any pending anchor.
func (r *Ruler) Clear() {
	r.pending = nil
	r.done = nil
}
