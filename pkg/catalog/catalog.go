// Package catalog provides the static 4C door-type and frame-model tables.
//
// The catalog is read-only input to every engine: door types map a code to
// its height in units and a category, frame models describe purchasable
// cabinets with their factory-default column layouts. Catalogs are injected
// explicitly rather than accessed through package-level state so tests can
// run against synthetic tables.
//
// Unknown door codes never fail a lookup: they degrade to a one-unit
// special door so a partially loaded or future-extended catalog keeps the
// packing engine running.
package catalog

import (
	"slices"

	"github.com/mailworks/quadplan/pkg/errors"
)

// UnitHeightInches is the physical height of one unit row.
const UnitHeightInches = 3.5

// Category classifies a door type in the catalog.
type Category string

// Door categories.
const (
	CategoryTenant  Category = "tenant"
	CategoryParcel  Category = "parcel"
	CategoryMaster  Category = "master"
	CategorySpecial Category = "special"
)

// DoorType describes one door code: its vertical size in units and its
// catalog category. Immutable; looked up by code.
type DoorType struct {
	Code         string   `json:"code" toml:"code"`
	Units        int      `json:"units" toml:"units"`
	Category     Category `json:"category" toml:"category"`
	USPSApproved bool     `json:"usps_approved" toml:"usps_approved"`
}

// FrameModel describes a purchasable cabinet model. The column slices hold
// the factory-default door codes, listed bottom to top; they are copied
// into a frame instance when the model is placed on a wall.
type FrameModel struct {
	Model        string   `json:"model" toml:"model"`
	Width        float64  `json:"width" toml:"width"`   // inches
	Height       float64  `json:"height" toml:"height"` // inches
	Units        int      `json:"units" toml:"units"`   // unit rows per column
	LeftColumn   []string `json:"left_column" toml:"left"`
	RightColumn  []string `json:"right_column,omitempty" toml:"right"`
	Configurable bool     `json:"configurable" toml:"configurable"`
}

// SingleColumn reports whether the model has no right column.
func (m FrameModel) SingleColumn() bool { return len(m.RightColumn) == 0 }

// Catalog is an immutable set of door types and frame models.
type Catalog struct {
	doors   map[string]DoorType
	frames  []FrameModel
	byModel map[string]FrameModel
}

// New builds a catalog from door types and frame models.
// Later entries with duplicate codes/models win, matching file overrides.
func New(doors []DoorType, frames []FrameModel) *Catalog {
	c := &Catalog{
		doors:   make(map[string]DoorType, len(doors)),
		frames:  slices.Clone(frames),
		byModel: make(map[string]FrameModel, len(frames)),
	}
	for _, d := range doors {
		c.doors[d.Code] = d
	}
	for _, f := range frames {
		c.byModel[f.Model] = f
	}
	return c
}

// DoorType looks up a door code. Unknown codes fall back to a one-unit
// special door rather than failing, so the packing engine degrades
// gracefully on catalogs that are missing entries.
func (c *Catalog) DoorType(code string) DoorType {
	if d, ok := c.doors[code]; ok {
		return d
	}
	return DoorType{Code: code, Units: 1, Category: CategorySpecial}
}

// Known reports whether code has a real catalog entry.
func (c *Catalog) Known(code string) bool {
	_, ok := c.doors[code]
	return ok
}

// DoorTypes returns all door types sorted by code.
func (c *Catalog) DoorTypes() []DoorType {
	out := make([]DoorType, 0, len(c.doors))
	for _, d := range c.doors {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b DoorType) int {
		if a.Code < b.Code {
			return -1
		}
		if a.Code > b.Code {
			return 1
		}
		return 0
	})
	return out
}

// FrameModel looks up a frame model by name.
func (c *Catalog) FrameModel(model string) (FrameModel, bool) {
	m, ok := c.byModel[model]
	return m, ok
}

// FrameModels returns all frame models in catalog order.
func (c *Catalog) FrameModels() []FrameModel {
	return slices.Clone(c.frames)
}

// ColumnUnits sums the unit sizes of a column of door codes.
func (c *Catalog) ColumnUnits(codes []string) int {
	total := 0
	for _, code := range codes {
		total += c.DoorType(code).Units
	}
	return total
}

// Validate checks that every frame model's factory columns pack its unit
// count exactly. A catalog that fails this check would place frames whose
// default layout leaves empty slots.
func (c *Catalog) Validate() error {
	for _, f := range c.frames {
		if f.Units <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "frame %s: units must be positive", f.Model)
		}
		if got := c.ColumnUnits(f.LeftColumn); got != f.Units {
			return errors.New(errors.ErrCodeUnitMismatch,
				"frame %s: left column packs %d of %d units", f.Model, got, f.Units)
		}
		if !f.SingleColumn() {
			if got := c.ColumnUnits(f.RightColumn); got != f.Units {
				return errors.New(errors.ErrCodeUnitMismatch,
					"frame %s: right column packs %d of %d units", f.Model, got, f.Units)
			}
		}
	}
	return nil
}
