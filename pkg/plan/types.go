// Package plan holds the configurator state model and its store.
//
// The model is a strict ownership hierarchy: a State owns Levels, a Level
// owns Walls, a Wall owns Frames in significant left-to-right order, and a
// Frame owns Doors. Door positions are absolute unit offsets from the
// bottom of their column at all times; there is no sequential-index
// representation anywhere, so edit-time and save-time views can never
// disagree about where a door sits.
//
// The JSON field names below are the persisted-snapshot contract. Adding
// fields is safe; removing or renaming existing fields is a breaking
// change that needs a load-time migration.
package plan

import (
	"slices"
	"time"

	"github.com/mailworks/quadplan/pkg/catalog"
	"github.com/mailworks/quadplan/pkg/packing"
)

// Column identifies one of a frame's door columns.
type Column string

// Frame columns.
const (
	ColumnLeft  Column = "left"
	ColumnRight Column = "right"
)

// Valid reports whether c is a known column name.
func (c Column) Valid() bool { return c == ColumnLeft || c == ColumnRight }

// Door is one door instance inside a frame. Position is the absolute unit
// offset from the bottom of its column — never an array index.
type Door struct {
	Position   int    `json:"position"`
	Column     Column `json:"column"`
	Type       string `json:"door_type"`
	Substitute string `json:"substitute,omitempty"`
	Label      string `json:"label,omitempty"`
}

// EffectiveType returns the substitute code when one is set, otherwise the
// base door type. Substitution never changes geometry, only the type the
// door is treated as.
func (d Door) EffectiveType() string {
	if d.Substitute != "" {
		return d.Substitute
	}
	return d.Type
}

// Frame is a placed cabinet instance. ID is unique and immutable after
// creation; Model names the catalog frame it was copied from.
type Frame struct {
	ID     string  `json:"id"`
	Model  string  `json:"frame_id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Units  int     `json:"units"`
	Doors  []Door  `json:"doors"`
}

// ColumnDoors returns the indices into f.Doors of the given column,
// sorted by ascending position.
func (f *Frame) ColumnDoors(col Column) []int {
	var idx []int
	for i, d := range f.Doors {
		if d.Column == col {
			idx = append(idx, i)
		}
	}
	slices.SortFunc(idx, func(a, b int) int {
		return f.Doors[a].Position - f.Doors[b].Position
	})
	return idx
}

// Placements projects one column of the frame into the packing engine's
// input. Placement.Index is the door's index into f.Doors.
func (f *Frame) Placements(cat *catalog.Catalog, col Column) []packing.Placement {
	var out []packing.Placement
	for _, i := range f.ColumnDoors(col) {
		d := f.Doors[i]
		out = append(out, packing.Placement{
			Index: i,
			Start: d.Position,
			Units: cat.DoorType(d.Type).Units,
		})
	}
	return out
}

// Columns returns the columns this frame actually has.
func (f *Frame) Columns() []Column {
	for _, d := range f.Doors {
		if d.Column == ColumnRight {
			return []Column{ColumnLeft, ColumnRight}
		}
	}
	return []Column{ColumnLeft}
}

func (f *Frame) clone() Frame {
	out := *f
	out.Doors = slices.Clone(f.Doors)
	return out
}

// Wall is an ordered left-to-right sequence of frames on one elevation.
// Frame order is authoritative for both layout and numbering.
type Wall struct {
	ID     string  `json:"wall_id"`
	Name   string  `json:"name"`
	Frames []Frame `json:"frames"`
}

// FrameWidths returns the frames' widths in wall order.
func (w *Wall) FrameWidths() []float64 {
	widths := make([]float64, len(w.Frames))
	for i := range w.Frames {
		widths[i] = w.Frames[i].Width
	}
	return widths
}

func (w *Wall) clone() Wall {
	out := *w
	out.Frames = make([]Frame, len(w.Frames))
	for i := range w.Frames {
		out.Frames[i] = w.Frames[i].clone()
	}
	return out
}

// Level is a named group of walls, typically a building floor. Level 0
// always exists and cannot be removed.
type Level struct {
	ID       string `json:"level_id"`
	Name     string `json:"name"`
	Walls    []Wall `json:"walls"`
	Expanded bool   `json:"expanded"`
}

func (l *Level) clone() Level {
	out := *l
	out.Walls = make([]Wall, len(l.Walls))
	for i := range l.Walls {
		out.Walls[i] = l.Walls[i].clone()
	}
	return out
}

// State is the aggregate root. Exactly one Level/Wall pair is active at a
// time and ActiveWall always resolves to a wall under ActiveLevel.
type State struct {
	Levels      []Level   `json:"levels"`
	ActiveLevel string    `json:"active_level_id"`
	ActiveWall  string    `json:"active_wall_id"`
	TenantStart int       `json:"tenant_number_start,omitempty"`
	ParcelStart int       `json:"parcel_number_start,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Levels = make([]Level, len(s.Levels))
	for i := range s.Levels {
		out.Levels[i] = s.Levels[i].clone()
	}
	return out
}

// LevelIndex returns the index of the level with the given ID, or -1.
func (s *State) LevelIndex(id string) int {
	for i := range s.Levels {
		if s.Levels[i].ID == id {
			return i
		}
	}
	return -1
}

// FindWall locates a wall by ID.
func (s *State) FindWall(id string) (level, wall int, ok bool) {
	for li := range s.Levels {
		for wi := range s.Levels[li].Walls {
			if s.Levels[li].Walls[wi].ID == id {
				return li, wi, true
			}
		}
	}
	return 0, 0, false
}

// FindFrame locates a frame by ID.
func (s *State) FindFrame(id string) (level, wall, frame int, ok bool) {
	for li := range s.Levels {
		for wi := range s.Levels[li].Walls {
			for fi := range s.Levels[li].Walls[wi].Frames {
				if s.Levels[li].Walls[wi].Frames[fi].ID == id {
					return li, wi, fi, true
				}
			}
		}
	}
	return 0, 0, 0, false
}

// ActiveWallRef resolves the active wall, if the pointers are intact.
func (s *State) ActiveWallRef() (*Wall, bool) {
	li := s.LevelIndex(s.ActiveLevel)
	if li < 0 {
		return nil, false
	}
	for wi := range s.Levels[li].Walls {
		if s.Levels[li].Walls[wi].ID == s.ActiveWall {
			return &s.Levels[li].Walls[wi], true
		}
	}
	return nil, false
}

// ValidationResult is the outcome of a save-readiness check.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors,omitempty"`
}
