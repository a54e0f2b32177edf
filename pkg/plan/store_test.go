package plan

import (
	"testing"

	"github.com/mailworks/quadplan/pkg/catalog"
	"github.com/mailworks/quadplan/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(catalog.Default())
}

// addFrame places a model on the active wall and fails the test on error.
func addFrame(t *testing.T, s *Store, model string) Frame {
	t.Helper()
	f, err := s.AddFrame(s.Snapshot().ActiveWall, model)
	if err != nil {
		t.Fatalf("AddFrame(%s): %v", model, err)
	}
	return f
}

// doorAt fetches a door from the current snapshot.
func doorAt(t *testing.T, s *Store, frameID string, col Column, pos int) Door {
	t.Helper()
	st := s.Snapshot()
	li, wi, fi, ok := st.FindFrame(frameID)
	if !ok {
		t.Fatalf("frame %s not found", frameID)
	}
	f := st.Levels[li].Walls[wi].Frames[fi]
	for _, d := range f.Doors {
		if d.Column == col && d.Position == pos {
			return d
		}
	}
	t.Fatalf("no door at %s/%d of frame %s", col, pos, frameID)
	return Door{}
}

func TestNewStoreSeedsLevelZero(t *testing.T) {
	s := newTestStore(t)
	st := s.Snapshot()

	if len(st.Levels) != 1 || st.Levels[0].Name != "Level 0" {
		t.Fatalf("levels = %+v, want one Level 0", st.Levels)
	}
	if len(st.Levels[0].Walls) != 1 {
		t.Fatalf("walls = %d, want 1", len(st.Levels[0].Walls))
	}
	if st.ActiveLevel != st.Levels[0].ID || st.ActiveWall != st.Levels[0].Walls[0].ID {
		t.Error("active pointers must point at the seeded level and wall")
	}
}

func TestAddFrameStacksFactoryColumns(t *testing.T) {
	s := newTestStore(t)
	f := addFrame(t, s, "4C06D-04")

	// Left column dd,sd,sd,dd bottom to top: positions 0,2,3,4.
	wantLeft := []struct {
		pos  int
		code string
	}{{0, "dd"}, {2, "sd"}, {3, "sd"}, {4, "dd"}}
	for _, w := range wantLeft {
		if d := doorAt(t, s, f.ID, ColumnLeft, w.pos); d.Type != w.code {
			t.Errorf("left@%d = %s, want %s", w.pos, d.Type, w.code)
		}
	}
	if d := doorAt(t, s, f.ID, ColumnRight, 0); d.Type != "p3" {
		t.Errorf("right@0 = %s, want p3", d.Type)
	}

	// Placement renumbers: left column tenants 1..4, then the right
	// column's parcel, skipped om, and the fifth tenant.
	if got := doorAt(t, s, f.ID, ColumnLeft, 0).Label; got != "1" {
		t.Errorf("left@0 label = %q, want 1", got)
	}
	if got := doorAt(t, s, f.ID, ColumnRight, 0).Label; got != "1P" {
		t.Errorf("right@0 label = %q, want 1P", got)
	}
	if got := doorAt(t, s, f.ID, ColumnRight, 3).Label; got != "" {
		t.Errorf("om label = %q, want empty", got)
	}
	if got := doorAt(t, s, f.ID, ColumnRight, 4).Label; got != "5" {
		t.Errorf("right@4 label = %q, want 5", got)
	}
}

func TestAddFrameUnknownModel(t *testing.T) {
	s := newTestStore(t)
	before := s.Snapshot()

	_, err := s.AddFrame(before.ActiveWall, "4C99X-01")
	if !errors.Is(err, errors.ErrCodeUnknownModel) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeUnknownModel)
	}
	if !Equal(before, s.Snapshot()) {
		t.Error("rejected mutation must leave the state untouched")
	}
}

func TestRemoveLevelProtections(t *testing.T) {
	s := newTestStore(t)
	levelZero := s.Snapshot().Levels[0].ID

	if err := s.RemoveLevel(levelZero); !errors.Is(err, errors.ErrCodeLevelProtected) {
		t.Errorf("removing Level 0: err = %v, want %s", err, errors.ErrCodeLevelProtected)
	}
	if err := s.RemoveLevel("no-such-level"); !errors.Is(err, errors.ErrCodeLevelNotFound) {
		t.Errorf("removing unknown level: err = %v, want %s", err, errors.ErrCodeLevelNotFound)
	}
}

func TestRemoveActiveLevelFallsBack(t *testing.T) {
	s := newTestStore(t)
	l1, _ := s.AddLevel("Level 1")
	l2, _ := s.AddLevel("Level 2")

	if s.Snapshot().ActiveLevel != l2.ID {
		t.Fatal("newest level should be active")
	}
	if err := s.RemoveLevel(l2.ID); err != nil {
		t.Fatal(err)
	}

	st := s.Snapshot()
	if st.ActiveLevel != l1.ID {
		t.Errorf("active level = %s, want previous sibling %s", st.ActiveLevel, l1.ID)
	}
	if st.ActiveWall != l1.Walls[0].ID {
		t.Error("active wall must follow the fallback level")
	}
}

func TestRemoveLastWallRejected(t *testing.T) {
	s := newTestStore(t)
	wall := s.Snapshot().ActiveWall

	if err := s.RemoveWall(wall); !errors.Is(err, errors.ErrCodeLastWall) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeLastWall)
	}
}

func TestRemoveActiveWallFallsBack(t *testing.T) {
	s := newTestStore(t)
	st := s.Snapshot()
	first := st.ActiveWall

	b, err := s.AddWall(st.ActiveLevel, "Wall B")
	if err != nil {
		t.Fatal(err)
	}
	if s.Snapshot().ActiveWall != b.ID {
		t.Fatal("new wall should be active")
	}

	if err := s.RemoveWall(b.ID); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().ActiveWall; got != first {
		t.Errorf("active wall = %s, want first sibling %s", got, first)
	}
}

// Dragging the first of three equal-width frames past the midpoint of the
// last reflowed frame moves it to the end: [A,B,C] becomes [B,C,A].
func TestReorderFrameByDrop(t *testing.T) {
	s := newTestStore(t)
	a := addFrame(t, s, "4C06D-04")
	b := addFrame(t, s, "4C06D-04")
	c := addFrame(t, s, "4C06D-04")

	// Frames are 30.5in wide; after removing A the remaining midpoints
	// sit at 15.25 and 45.75, so a drop at 76.25 lands past both.
	if err := s.ReorderFrame(a.ID, 76.25); err != nil {
		t.Fatal(err)
	}

	wall, _ := firstWall(s)
	got := []string{wall.Frames[0].ID, wall.Frames[1].ID, wall.Frames[2].ID}
	want := []string{b.ID, c.ID, a.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame order = %v, want %v", got, want)
		}
	}
}

func TestMoveFrameToIndex(t *testing.T) {
	s := newTestStore(t)
	a := addFrame(t, s, "4C06D-04")
	b := addFrame(t, s, "4C09D-06")

	if err := s.MoveFrame(b.ID, 0); err != nil {
		t.Fatal(err)
	}
	wall, _ := firstWall(s)
	if wall.Frames[0].ID != b.ID || wall.Frames[1].ID != a.ID {
		t.Error("frame should move to the front")
	}
}

func firstWall(s *Store) (Wall, bool) {
	st := s.Snapshot()
	w, ok := st.ActiveWallRef()
	if !ok {
		return Wall{}, false
	}
	return *w, true
}

func TestNumberingScenario(t *testing.T) {
	cat := catalog.New(
		[]catalog.DoorType{
			{Code: "sd", Units: 1, Category: catalog.CategoryTenant},
			{Code: "p2", Units: 2, Category: catalog.CategoryParcel},
		},
		[]catalog.FrameModel{{
			Model: "TEST-3", Width: 10, Height: 14, Units: 4,
			LeftColumn:   []string{"sd", "p2", "sd"},
			Configurable: true,
		}},
	)
	s := NewStore(cat)
	f, err := s.AddFrame(s.Snapshot().ActiveWall, "TEST-3")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetNumberStart(101, 1); err != nil {
		t.Fatal(err)
	}

	want := []struct {
		pos   int
		label string
	}{{0, "101"}, {1, "1P"}, {3, "102"}}
	for _, w := range want {
		if got := doorAt(t, s, f.ID, ColumnLeft, w.pos).Label; got != w.label {
			t.Errorf("label at %d = %q, want %q", w.pos, got, w.label)
		}
	}
}

func TestNumberingContinuesAcrossWalls(t *testing.T) {
	s := newTestStore(t)
	f1 := addFrame(t, s, "4C16S-12") // tenants qd,qd,qd,td then master

	st := s.Snapshot()
	if _, err := s.AddWall(st.ActiveLevel, ""); err != nil {
		t.Fatal(err)
	}
	f2 := addFrame(t, s, "4C16S-12")

	if got := doorAt(t, s, f1.ID, ColumnLeft, 0).Label; got != "1" {
		t.Errorf("first wall starts at %q, want 1", got)
	}
	if got := doorAt(t, s, f2.ID, ColumnLeft, 0).Label; got != "5" {
		t.Errorf("second wall continues at %q, want 5", got)
	}
}

func TestSwapDoors(t *testing.T) {
	s := newTestStore(t)
	f := addFrame(t, s, "4C06D-04")

	// The two dd doors trade places cleanly.
	if err := s.SwapDoors(f.ID, ColumnLeft, 0, 4); err != nil {
		t.Fatal(err)
	}
	if d := doorAt(t, s, f.ID, ColumnLeft, 0); d.Type != "dd" {
		t.Errorf("left@0 = %s, want dd", d.Type)
	}
	if res := s.Validate(); !res.IsValid {
		t.Errorf("column should stay complete after swap: %v", res.Errors)
	}
}

func TestSwapDoorsOverlapRejected(t *testing.T) {
	s := newTestStore(t)
	f := addFrame(t, s, "4C06D-04")
	before := s.Snapshot()

	// Moving the bottom dd up to unit 2 would run into the sd at unit 3.
	err := s.SwapDoors(f.ID, ColumnLeft, 0, 2)
	if !errors.Is(err, errors.ErrCodeSlotOverlap) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeSlotOverlap)
	}
	if !Equal(before, s.Snapshot()) {
		t.Error("rejected swap must leave the state untouched")
	}
}

func TestReplaceDoors(t *testing.T) {
	s := newTestStore(t)
	f := addFrame(t, s, "4C06D-04")

	// The two single doors at units 2 and 3 make room for one dd.
	door, err := s.ReplaceDoors(f.ID, ColumnLeft, []int{2, 3}, "dd")
	if err != nil {
		t.Fatal(err)
	}
	if door.Position != 2 || door.Type != "dd" {
		t.Errorf("new door = %+v, want dd at 2", door)
	}
	if res := s.Validate(); !res.IsValid {
		t.Errorf("column should stay complete after replace: %v", res.Errors)
	}
}

func TestReplaceDoorsUnitMismatch(t *testing.T) {
	s := newTestStore(t)
	f := addFrame(t, s, "4C06D-04")

	_, err := s.ReplaceDoors(f.ID, ColumnLeft, []int{2}, "dd")
	if !errors.Is(err, errors.ErrCodeUnitMismatch) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeUnitMismatch)
	}
}

func TestSubstituteDoor(t *testing.T) {
	s := newTestStore(t)
	f := addFrame(t, s, "4C06D-04")

	// dd and p2 are both two units; the substitution renumbers the door
	// as a parcel without moving anything.
	if err := s.SubstituteDoor(f.ID, ColumnLeft, 0, "p2"); err != nil {
		t.Fatal(err)
	}
	d := doorAt(t, s, f.ID, ColumnLeft, 0)
	if d.Type != "dd" || d.Substitute != "p2" {
		t.Errorf("door = %+v, want base dd with substitute p2", d)
	}
	if d.Label != "1P" {
		t.Errorf("label = %q, want 1P", d.Label)
	}

	// Clearing the substitution restores tenant numbering.
	if err := s.SubstituteDoor(f.ID, ColumnLeft, 0, ""); err != nil {
		t.Fatal(err)
	}
	if d := doorAt(t, s, f.ID, ColumnLeft, 0); d.Substitute != "" || d.Label != "1" {
		t.Errorf("door = %+v, want cleared substitute and label 1", d)
	}
}

func TestSubstituteDoorSizeMismatch(t *testing.T) {
	s := newTestStore(t)
	f := addFrame(t, s, "4C06D-04")

	err := s.SubstituteDoor(f.ID, ColumnLeft, 0, "sd")
	if !errors.Is(err, errors.ErrCodeUnitMismatch) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeUnitMismatch)
	}
}

func TestNonConfigurableFrameRejectsDoorEdits(t *testing.T) {
	s := newTestStore(t)
	f := addFrame(t, s, "4C16P-06")

	if err := s.SwapDoors(f.ID, ColumnLeft, 0, 6); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("swap on fixed frame: err = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if err := s.SubstituteDoor(f.ID, ColumnLeft, 0, "lp"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("substitute on fixed frame: err = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestValidateReportsEmptyUnits(t *testing.T) {
	cat := catalog.Default()
	st := State{Levels: []Level{{
		ID: "l0", Name: "Level 0",
		Walls: []Wall{{
			ID: "w0", Name: "Wall A",
			Frames: []Frame{{
				ID: "f0", Model: "4C06D-04", Width: 30.5, Height: 21, Units: 6,
				// sd at unit 3 is missing from the factory layout.
				Doors: []Door{
					{Position: 0, Column: ColumnLeft, Type: "dd"},
					{Position: 2, Column: ColumnLeft, Type: "sd"},
					{Position: 4, Column: ColumnLeft, Type: "dd"},
					{Position: 0, Column: ColumnRight, Type: "p3"},
					{Position: 3, Column: ColumnRight, Type: "om"},
					{Position: 4, Column: ColumnRight, Type: "dd"},
				},
			}},
		}},
	}}, ActiveLevel: "l0", ActiveWall: "w0"}

	s, err := NewStoreFromState(cat, st)
	if err != nil {
		t.Fatal(err)
	}

	res := s.Validate()
	if res.IsValid || len(res.Errors) != 1 {
		t.Fatalf("result = %+v, want exactly one empty-unit error", res)
	}
	if err := s.CheckSave(); !errors.Is(err, errors.ErrCodeIncompleteLayout) {
		t.Errorf("CheckSave = %v, want %s", err, errors.ErrCodeIncompleteLayout)
	}
}

func TestNewStoreFromStateRepairsActivePointers(t *testing.T) {
	s := newTestStore(t)
	st := s.Snapshot()
	st.ActiveLevel = "gone"
	st.ActiveWall = "also-gone"

	restored, err := NewStoreFromState(catalog.Default(), st)
	if err != nil {
		t.Fatal(err)
	}
	got := restored.Snapshot()
	if got.ActiveLevel != st.Levels[0].ID || got.ActiveWall != st.Levels[0].Walls[0].ID {
		t.Error("dangling pointers must be repaired to the first level and wall")
	}
}

func TestSubscribeNotifiesOncePerCommit(t *testing.T) {
	s := newTestStore(t)

	var calls int
	var last State
	unsubscribe := s.Subscribe(func(st State) {
		calls++
		last = st
	})

	if _, err := s.AddLevel(""); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if len(last.Levels) != 2 {
		t.Error("subscriber must receive the full new snapshot")
	}

	unsubscribe()
	if _, err := s.AddLevel(""); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Error("unsubscribed function must not be called again")
	}
}

func TestRejectedMutationDoesNotNotify(t *testing.T) {
	s := newTestStore(t)

	var calls int
	defer s.Subscribe(func(State) { calls++ })()

	if err := s.RemoveLevel(s.Snapshot().Levels[0].ID); err == nil {
		t.Fatal("expected rejection")
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestResetNumberingIdempotent(t *testing.T) {
	s := newTestStore(t)
	f := addFrame(t, s, "4C06D-04")
	if err := s.SetNumberStart(101, 1); err != nil {
		t.Fatal(err)
	}

	s.ResetNumbering()
	first := s.Snapshot()
	s.ResetNumbering()
	second := s.Snapshot()

	if !Equal(first, second) {
		t.Error("resetting twice must equal resetting once")
	}
	if got := doorAt(t, s, f.ID, ColumnLeft, 0).Label; got != "" {
		t.Errorf("label = %q, want cleared", got)
	}
	if st := s.Snapshot(); st.TenantStart != 101 || st.ParcelStart != 1 {
		t.Error("reset must not touch the start values")
	}

	// Renumbering after a reset restores the labels.
	s.Renumber()
	if got := doorAt(t, s, f.ID, ColumnLeft, 0).Label; got != "101" {
		t.Errorf("label after renumber = %q, want 101", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestStore(t)
	addFrame(t, s, "4C06D-04")
	addFrame(t, s, "4C12D-10")
	if err := s.SetNumberStart(200, 10); err != nil {
		t.Fatal(err)
	}
	original := s.Snapshot()

	data, err := Marshal(original)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(original, loaded) {
		t.Error("snapshot must round-trip losslessly")
	}

	// A store built on the loaded snapshot serves the same state.
	restored, err := NewStoreFromState(catalog.Default(), loaded)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(original, restored.Snapshot()) {
		t.Error("restored store must serve an identical logical state")
	}
}
