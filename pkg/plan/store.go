package plan

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mailworks/quadplan/pkg/catalog"
	"github.com/mailworks/quadplan/pkg/errors"
	"github.com/mailworks/quadplan/pkg/numbering"
	"github.com/mailworks/quadplan/pkg/observability"
	"github.com/mailworks/quadplan/pkg/packing"
	"github.com/mailworks/quadplan/pkg/sequence"
)

// =============================================================================
// Store
// =============================================================================

// Store is the mutable configurator state behind an immutable-snapshot
// API. Every mutation validates against a deep copy first and commits
// only when all invariants hold, so a rejected operation leaves the state
// exactly as it was. Every commit notifies all current subscribers
// exactly once, synchronously, with the full new snapshot.
type Store struct {
	mu      sync.RWMutex
	cat     *catalog.Catalog
	state   State
	subs    map[int]func(State)
	nextSub int
}

// NewStore creates a store seeded with the mandatory Level 0 and its
// first wall, both active.
func NewStore(cat *catalog.Catalog) *Store {
	wall := Wall{ID: uuid.NewString(), Name: "Wall A"}
	level := Level{
		ID:       uuid.NewString(),
		Name:     "Level 0",
		Walls:    []Wall{wall},
		Expanded: true,
	}
	return &Store{
		cat: cat,
		state: State{
			Levels:      []Level{level},
			ActiveLevel: level.ID,
			ActiveWall:  wall.ID,
			UpdatedAt:   time.Now().UTC(),
		},
		subs: make(map[int]func(State)),
	}
}

// NewStoreFromState creates a store around a loaded snapshot. Dangling
// active pointers are repaired to the first level/wall; a snapshot with
// no levels or an overlap violation is rejected.
func NewStoreFromState(cat *catalog.Catalog, st State) (*Store, error) {
	if len(st.Levels) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "snapshot has no levels")
	}
	for li := range st.Levels {
		if len(st.Levels[li].Walls) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"level %q has no walls", st.Levels[li].Name)
		}
	}
	st = st.Clone()
	if st.LevelIndex(st.ActiveLevel) < 0 {
		st.ActiveLevel = st.Levels[0].ID
	}
	if _, ok := st.ActiveWallRef(); !ok {
		st.ActiveWall = st.Levels[st.LevelIndex(st.ActiveLevel)].Walls[0].ID
	}
	s := &Store{cat: cat, state: st, subs: make(map[int]func(State))}
	if err := s.validateColumns(&st); err != nil {
		return nil, err
	}
	return s, nil
}

// Catalog returns the catalog the store validates against.
func (s *Store) Catalog() *catalog.Catalog { return s.cat }

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe registers fn to be called synchronously with the new snapshot
// after every committed mutation. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// commit installs next as the current state and fans it out. Called with
// s.mu held; renumber recomputes door labels before installing.
func (s *Store) commit(op string, start time.Time, next State, renumber bool) {
	if renumber {
		s.applyNumbering(&next)
	}
	next.UpdatedAt = time.Now().UTC()
	s.state = next

	observability.Store().OnCommit(op, time.Since(start))

	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	for _, fn := range subs {
		fn(next.Clone())
	}
	observability.Store().OnNotify(op, len(subs))
}

// reject records a rejected mutation and passes the error through.
func reject(op string, err error) error {
	observability.Store().OnReject(op, string(errors.GetCode(err)))
	return err
}

// =============================================================================
// Levels and Walls
// =============================================================================

// AddLevel appends a new level with one empty wall and activates it. An
// empty name defaults to "Level N".
func (s *Store) AddLevel(name string) (Level, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if name == "" {
		name = fmt.Sprintf("Level %d", len(next.Levels))
	}
	wall := Wall{ID: uuid.NewString(), Name: "Wall A"}
	level := Level{
		ID:       uuid.NewString(),
		Name:     name,
		Walls:    []Wall{wall},
		Expanded: true,
	}
	next.Levels = append(next.Levels, level)
	next.ActiveLevel = level.ID
	next.ActiveWall = wall.ID

	s.commit("add_level", start, next, false)
	return level, nil
}

// RemoveLevel removes a level and its walls. Level 0 is protected; when
// the removed level was active, the previous sibling becomes active.
func (s *Store) RemoveLevel(levelID string) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	li := next.LevelIndex(levelID)
	if li < 0 {
		return reject("remove_level", errors.New(errors.ErrCodeLevelNotFound, "level %s not found", levelID))
	}
	if li == 0 {
		return reject("remove_level", errors.New(errors.ErrCodeLevelProtected, "Level 0 cannot be removed"))
	}
	if len(next.Levels) == 1 {
		return reject("remove_level", errors.New(errors.ErrCodeLastLevel, "the last level cannot be removed"))
	}

	next.Levels = slices.Delete(next.Levels, li, li+1)
	if next.ActiveLevel == levelID {
		fallback := next.Levels[li-1]
		next.ActiveLevel = fallback.ID
		next.ActiveWall = fallback.Walls[0].ID
	}

	s.commit("remove_level", start, next, true)
	return nil
}

// RenameLevel changes a level's display name.
func (s *Store) RenameLevel(levelID, name string) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	li := next.LevelIndex(levelID)
	if li < 0 {
		return reject("rename_level", errors.New(errors.ErrCodeLevelNotFound, "level %s not found", levelID))
	}
	next.Levels[li].Name = name

	s.commit("rename_level", start, next, false)
	return nil
}

// SetExpanded toggles a level's tree-view expansion flag.
func (s *Store) SetExpanded(levelID string, expanded bool) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	li := next.LevelIndex(levelID)
	if li < 0 {
		return reject("set_expanded", errors.New(errors.ErrCodeLevelNotFound, "level %s not found", levelID))
	}
	next.Levels[li].Expanded = expanded

	s.commit("set_expanded", start, next, false)
	return nil
}

// AddWall appends a wall to a level and activates it. An empty name
// defaults to "Wall N" within the level.
func (s *Store) AddWall(levelID, name string) (Wall, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	li := next.LevelIndex(levelID)
	if li < 0 {
		return Wall{}, reject("add_wall", errors.New(errors.ErrCodeLevelNotFound, "level %s not found", levelID))
	}
	if name == "" {
		name = fmt.Sprintf("Wall %d", len(next.Levels[li].Walls)+1)
	}
	wall := Wall{ID: uuid.NewString(), Name: name}
	next.Levels[li].Walls = append(next.Levels[li].Walls, wall)
	next.ActiveLevel = levelID
	next.ActiveWall = wall.ID

	s.commit("add_wall", start, next, false)
	return wall, nil
}

// RemoveWall removes a wall and its frames. A level's last wall is
// protected; when the removed wall was active, the level's first
// remaining wall becomes active.
func (s *Store) RemoveWall(wallID string) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	li, wi, ok := next.FindWall(wallID)
	if !ok {
		return reject("remove_wall", errors.New(errors.ErrCodeWallNotFound, "wall %s not found", wallID))
	}
	if len(next.Levels[li].Walls) == 1 {
		return reject("remove_wall", errors.New(errors.ErrCodeLastWall,
			"level %q must keep at least one wall", next.Levels[li].Name))
	}

	next.Levels[li].Walls = slices.Delete(next.Levels[li].Walls, wi, wi+1)
	if next.ActiveWall == wallID {
		next.ActiveLevel = next.Levels[li].ID
		next.ActiveWall = next.Levels[li].Walls[0].ID
	}

	s.commit("remove_wall", start, next, true)
	return nil
}

// RenameWall changes a wall's display name.
func (s *Store) RenameWall(wallID, name string) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	li, wi, ok := next.FindWall(wallID)
	if !ok {
		return reject("rename_wall", errors.New(errors.ErrCodeWallNotFound, "wall %s not found", wallID))
	}
	next.Levels[li].Walls[wi].Name = name

	s.commit("rename_wall", start, next, false)
	return nil
}

// SetActiveWall makes a wall (and its level) the active selection.
func (s *Store) SetActiveWall(wallID string) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	li, _, ok := next.FindWall(wallID)
	if !ok {
		return reject("set_active_wall", errors.New(errors.ErrCodeWallNotFound, "wall %s not found", wallID))
	}
	next.ActiveLevel = next.Levels[li].ID
	next.ActiveWall = wallID

	s.commit("set_active_wall", start, next, false)
	return nil
}

// =============================================================================
// Frames
// =============================================================================

// AddFrame instantiates a catalog model at the right end of a wall. The
// model's factory columns are copied in, stacked bottom-up from unit 0.
func (s *Store) AddFrame(wallID, model string) (Frame, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	li, wi, ok := next.FindWall(wallID)
	if !ok {
		return Frame{}, reject("add_frame", errors.New(errors.ErrCodeWallNotFound, "wall %s not found", wallID))
	}
	def, ok := s.cat.FrameModel(model)
	if !ok {
		return Frame{}, reject("add_frame", errors.New(errors.ErrCodeUnknownModel, "unknown frame model %q", model))
	}

	frame := Frame{
		ID:     uuid.NewString(),
		Model:  def.Model,
		Width:  def.Width,
		Height: def.Height,
		Units:  def.Units,
	}
	frame.Doors = append(frame.Doors, stackColumn(s.cat, ColumnLeft, def.LeftColumn)...)
	frame.Doors = append(frame.Doors, stackColumn(s.cat, ColumnRight, def.RightColumn)...)

	next.Levels[li].Walls[wi].Frames = append(next.Levels[li].Walls[wi].Frames, frame)

	s.commit("add_frame", start, next, true)
	return frame, nil
}

// stackColumn converts a factory door-code list (bottom to top) into door
// instances with absolute unit positions.
func stackColumn(cat *catalog.Catalog, col Column, codes []string) []Door {
	doors := make([]Door, 0, len(codes))
	pos := 0
	for _, code := range codes {
		doors = append(doors, Door{Position: pos, Column: col, Type: code})
		pos += cat.DoorType(code).Units
	}
	return doors
}

// RemoveFrame removes a frame from its wall.
func (s *Store) RemoveFrame(frameID string) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	li, wi, fi, ok := next.FindFrame(frameID)
	if !ok {
		return reject("remove_frame", errors.New(errors.ErrCodeFrameNotFound, "frame %s not found", frameID))
	}
	next.Levels[li].Walls[wi].Frames = slices.Delete(next.Levels[li].Walls[wi].Frames, fi, fi+1)

	s.commit("remove_frame", start, next, true)
	return nil
}

// ReorderFrame moves a frame to the position a drop at horizontal canvas
// coordinate x selects, with x measured from the wall origin.
func (s *Store) ReorderFrame(frameID string, x float64) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	li, wi, fi, ok := next.FindFrame(frameID)
	if !ok {
		return reject("reorder_frame", errors.New(errors.ErrCodeFrameNotFound, "frame %s not found", frameID))
	}
	wall := &next.Levels[li].Walls[wi]
	wall.Frames = sequence.MoveToX(wall.Frames, wall.FrameWidths(), fi, x)

	s.commit("reorder_frame", start, next, true)
	return nil
}

// MoveFrame moves a frame to an explicit destination index, counted with
// the frame already removed from the list.
func (s *Store) MoveFrame(frameID string, to int) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	li, wi, fi, ok := next.FindFrame(frameID)
	if !ok {
		return reject("move_frame", errors.New(errors.ErrCodeFrameNotFound, "frame %s not found", frameID))
	}
	wall := &next.Levels[li].Walls[wi]
	wall.Frames = sequence.Move(wall.Frames, fi, to)

	s.commit("move_frame", start, next, true)
	return nil
}

// =============================================================================
// Doors
// =============================================================================

// findDoor resolves a door by its column and unit position within a
// frame, returning the index into frame.Doors.
func findDoor(f *Frame, col Column, position int) (int, error) {
	if !col.Valid() {
		return 0, errors.New(errors.ErrCodeInvalidColumn, "unknown column %q", col)
	}
	for i, d := range f.Doors {
		if d.Column == col && d.Position == position {
			return i, nil
		}
	}
	return 0, errors.New(errors.ErrCodeDoorNotFound,
		"no door at %s column unit %d of frame %s", col, position, f.ID)
}

// editableFrame fetches a frame for a door mutation, rejecting
// non-configurable models.
func (s *Store) editableFrame(next *State, frameID string) (*Frame, error) {
	li, wi, fi, ok := next.FindFrame(frameID)
	if !ok {
		return nil, errors.New(errors.ErrCodeFrameNotFound, "frame %s not found", frameID)
	}
	f := &next.Levels[li].Walls[wi].Frames[fi]
	if def, ok := s.cat.FrameModel(f.Model); ok && !def.Configurable {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"frame model %s is not configurable", f.Model)
	}
	return f, nil
}

// SwapDoors exchanges the positions of the two doors at unit positions
// posA and posB of one column. The swap is rejected when either door
// would overlap a third door or leave the column.
func (s *Store) SwapDoors(frameID string, col Column, posA, posB int) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	f, err := s.editableFrame(&next, frameID)
	if err != nil {
		return reject("swap_doors", err)
	}
	ia, err := findDoor(f, col, posA)
	if err != nil {
		return reject("swap_doors", err)
	}
	ib, err := findDoor(f, col, posB)
	if err != nil {
		return reject("swap_doors", err)
	}

	placements := f.Placements(s.cat, col)
	pa := slices.IndexFunc(placements, func(p packing.Placement) bool { return p.Index == ia })
	pb := slices.IndexFunc(placements, func(p packing.Placement) bool { return p.Index == ib })
	swapped, err := packing.Swap(placements, f.Units, pa, pb)
	if err != nil {
		return reject("swap_doors", err)
	}
	for _, p := range swapped {
		f.Doors[p.Index].Position = p.Start
	}
	sortDoors(f)

	s.commit("swap_doors", start, next, true)
	return nil
}

// ReplaceDoors removes the doors at the given unit positions of one
// column and inserts a single door of newType at the lowest vacated
// position. The vacated unit sizes must sum exactly to the new door's
// size.
func (s *Store) ReplaceDoors(frameID string, col Column, positions []int, newType string) (Door, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	f, err := s.editableFrame(&next, frameID)
	if err != nil {
		return Door{}, reject("replace_doors", err)
	}

	placements := f.Placements(s.cat, col)
	victims := make([]int, 0, len(positions))
	victimDoors := make(map[int]bool, len(positions))
	for _, pos := range positions {
		di, err := findDoor(f, col, pos)
		if err != nil {
			return Door{}, reject("replace_doors", err)
		}
		pi := slices.IndexFunc(placements, func(p packing.Placement) bool { return p.Index == di })
		victims = append(victims, pi)
		victimDoors[di] = true
	}

	incoming, _, err := packing.Replace(placements, f.Units, victims, s.cat.DoorType(newType).Units)
	if err != nil {
		return Door{}, reject("replace_doors", err)
	}

	door := Door{Position: incoming.Start, Column: col, Type: newType}
	kept := make([]Door, 0, len(f.Doors))
	for i, d := range f.Doors {
		if !victimDoors[i] {
			kept = append(kept, d)
		}
	}
	f.Doors = append(kept, door)
	sortDoors(f)

	s.commit("replace_doors", start, next, true)
	return door, nil
}

// SubstituteDoor marks an alternate door type without changing geometry:
// the substitute must occupy the same number of units as the base type.
// An empty code clears the substitution.
func (s *Store) SubstituteDoor(frameID string, col Column, position int, substitute string) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	f, err := s.editableFrame(&next, frameID)
	if err != nil {
		return reject("substitute_door", err)
	}
	di, err := findDoor(f, col, position)
	if err != nil {
		return reject("substitute_door", err)
	}

	if substitute != "" {
		base := s.cat.DoorType(f.Doors[di].Type).Units
		alt := s.cat.DoorType(substitute).Units
		if base != alt {
			return reject("substitute_door", errors.New(errors.ErrCodeUnitMismatch,
				"substitute %s is %d units, door %s is %d", substitute, alt, f.Doors[di].Type, base))
		}
	}
	f.Doors[di].Substitute = substitute

	s.commit("substitute_door", start, next, true)
	return nil
}

// frameColumns resolves which columns a frame has, preferring the catalog
// model so a column stays visible to validation even with no doors in it.
func frameColumns(cat *catalog.Catalog, f *Frame) []Column {
	if def, ok := cat.FrameModel(f.Model); ok {
		if def.SingleColumn() {
			return []Column{ColumnLeft}
		}
		return []Column{ColumnLeft, ColumnRight}
	}
	return f.Columns()
}

// sortDoors normalizes door order to left column before right, ascending
// position. Door order in JSON stays stable across equivalent edits.
func sortDoors(f *Frame) {
	slices.SortFunc(f.Doors, func(a, b Door) int {
		if a.Column != b.Column {
			if a.Column == ColumnLeft {
				return -1
			}
			return 1
		}
		return a.Position - b.Position
	})
}

// =============================================================================
// Numbering
// =============================================================================

// SetNumberStart sets the tenant and parcel numbering start values and
// renumbers. Zero means the default start of 1; negatives are rejected.
func (s *Store) SetNumberStart(tenant, parcel int) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if tenant < 0 || parcel < 0 {
		return reject("set_number_start", errors.New(errors.ErrCodeInvalidInput,
			"numbering start values must not be negative"))
	}

	next := s.state.Clone()
	next.TenantStart = tenant
	next.ParcelStart = parcel

	s.commit("set_number_start", start, next, true)
	return nil
}

// Renumber recomputes every door label from the current walk order and
// start values.
func (s *Store) Renumber() {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	s.commit("renumber", start, next, true)
}

// ResetNumbering clears all door labels without touching the counters or
// start values. Calling it twice is the same as calling it once.
func (s *Store) ResetNumbering() {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	for li := range next.Levels {
		for wi := range next.Levels[li].Walls {
			for fi := range next.Levels[li].Walls[wi].Frames {
				f := &next.Levels[li].Walls[wi].Frames[fi]
				for di := range f.Doors {
					f.Doors[di].Label = ""
				}
			}
		}
	}

	s.commit("reset_numbering", start, next, false)
}

// applyNumbering rewrites every door label. The walk visits levels in
// order, each level's walls in order, each wall's frames left to right,
// and each frame's left column before its right column in ascending unit
// position; the tenant and parcel counters run through the whole project.
func (s *Store) applyNumbering(st *State) {
	counters := numbering.Counters{Tenant: s.numStart(st.TenantStart), Parcel: s.numStart(st.ParcelStart)}

	for li := range st.Levels {
		for wi := range st.Levels[li].Walls {
			for fi := range st.Levels[li].Walls[wi].Frames {
				f := &st.Levels[li].Walls[wi].Frames[fi]
				for _, col := range frameColumns(s.cat, f) {
					order := f.ColumnDoors(col)
					codes := make([]string, len(order))
					for i, di := range order {
						codes[i] = f.Doors[di].EffectiveType()
					}
					var labels []string
					labels, counters = numbering.Labels(s.cat, codes, counters)
					for i, di := range order {
						f.Doors[di].Label = labels[i]
					}
				}
			}
		}
	}
}

func (s *Store) numStart(v int) int {
	if v <= 0 {
		return 1
	}
	return v
}

// =============================================================================
// Validation
// =============================================================================

// Validate runs the save-readiness checks: every column must satisfy the
// packing invariants and be completely filled. Editing an invalid state
// is allowed; saving it is not.
func (s *Store) Validate() ValidationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return validateState(s.cat, &s.state)
}

func validateState(cat *catalog.Catalog, st *State) ValidationResult {
	var errs []string
	for li := range st.Levels {
		for wi := range st.Levels[li].Walls {
			wall := &st.Levels[li].Walls[wi]
			for fi := range wall.Frames {
				f := &wall.Frames[fi]
				for _, col := range frameColumns(cat, f) {
					placements := f.Placements(cat, col)
					if err := packing.Validate(placements, f.Units); err != nil {
						errs = append(errs, fmt.Sprintf("%s / %s / frame %d %s column: %s",
							st.Levels[li].Name, wall.Name, fi+1, col, errors.UserMessage(err)))
						continue
					}
					if empty := packing.EmptyUnits(placements, f.Units); len(empty) > 0 {
						errs = append(errs, fmt.Sprintf("%s / %s / frame %d %s column: units %v are empty",
							st.Levels[li].Name, wall.Name, fi+1, col, empty))
					}
				}
			}
		}
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// validateColumns rejects overlap and range violations only; empty units
// are fine for a working snapshot.
func (s *Store) validateColumns(st *State) error {
	for li := range st.Levels {
		for wi := range st.Levels[li].Walls {
			for fi := range st.Levels[li].Walls[wi].Frames {
				f := &st.Levels[li].Walls[wi].Frames[fi]
				for _, col := range frameColumns(s.cat, f) {
					if err := packing.Validate(f.Placements(s.cat, col), f.Units); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// CheckSave returns an error when the current state is not save-ready.
func (s *Store) CheckSave() error {
	result := s.Validate()
	if result.IsValid {
		return nil
	}
	return errors.New(errors.ErrCodeIncompleteLayout,
		"layout is not save-ready: %d problem(s), first: %s", len(result.Errors), result.Errors[0])
}
