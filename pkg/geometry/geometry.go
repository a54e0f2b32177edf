// Package geometry provides the snap-point search used for on-canvas
// measurement.
//
// The rendering layer reports each frame's bounding box in canvas pixel
// space. Every rectangle contributes nine snap candidates (four corners,
// four edge midpoints, the center); a cursor snaps to the nearest
// candidate across all rectangles when it is within the snap threshold,
// and falls back to free placement otherwise.
package geometry

import "math"

// Point is a position in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned frame bounding box in canvas space.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SnapPoints returns the nine snap candidates of the rectangle: corners,
// edge midpoints and center.
func (r Rect) SnapPoints() []Point {
	mx := r.X + r.Width/2
	my := r.Y + r.Height/2
	rx := r.X + r.Width
	by := r.Y + r.Height

	return []Point{
		{r.X, r.Y}, {rx, r.Y}, {r.X, by}, {rx, by}, // corners
		{mx, r.Y}, {mx, by}, {r.X, my}, {rx, my}, // edge midpoints
		{mx, my}, // center
	}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Nearest returns the snap candidate closest to cursor across all
// rectangles, provided it lies within threshold. The second return is
// false when no candidate is close enough and the cursor position should
// be used as-is.
func Nearest(rects []Rect, cursor Point, threshold float64) (Point, bool) {
	best := Point{}
	bestDist := math.Inf(1)

	for _, r := range rects {
		for _, p := range r.SnapPoints() {
			if d := Distance(cursor, p); d < bestDist {
				best, bestDist = p, d
			}
		}
	}

	if bestDist <= threshold {
		return best, true
	}
	return Point{}, false
}

// SnapOrFree resolves a click position: the nearest snap candidate within
// threshold, or the raw cursor position for free placement.
func SnapOrFree(rects []Rect, cursor Point, threshold float64) Point {
	if p, ok := Nearest(rects, cursor, threshold); ok {
		return p
	}
	return cursor
}
