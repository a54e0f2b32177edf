package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/mailworks/quadplan/pkg/catalog"
	"github.com/mailworks/quadplan/pkg/observability"
	"github.com/mailworks/quadplan/pkg/plan"
)

func sampleState(t *testing.T) plan.State {
	t.Helper()
	s := plan.NewStore(catalog.Default())
	if _, err := s.AddFrame(s.Snapshot().ActiveWall, "4C06D-04"); err != nil {
		t.Fatal(err)
	}
	return s.Snapshot()
}

// exerciseStore runs the shared contract checks against a backend.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	st := sampleState(t)

	if _, err := store.Load(ctx, "lobby"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("load missing: err = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "lobby"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing: err = %v, want ErrNotFound", err)
	}

	if err := store.Save(ctx, "lobby", st); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, "annex", st); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load(ctx, "lobby")
	if err != nil {
		t.Fatal(err)
	}
	if !plan.Equal(st, loaded) {
		t.Error("loaded snapshot must equal the saved one")
	}

	names, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "annex" || names[1] != "lobby" {
		t.Errorf("names = %v, want [annex lobby]", names)
	}

	if err := store.Delete(ctx, "lobby"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(ctx, "lobby"); !errors.Is(err, ErrNotFound) {
		t.Errorf("load deleted: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	exerciseStore(t, store)
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	exerciseStore(t, store)
}

func TestMemoryStoreIsolatesSnapshots(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	st := sampleState(t)

	if err := store.Save(ctx, "p", st); err != nil {
		t.Fatal(err)
	}
	st.Levels[0].Name = "mutated after save"

	loaded, err := store.Load(ctx, "p")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Levels[0].Name != "Level 0" {
		t.Error("stored snapshot must not share memory with the caller")
	}
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		if err := ValidateName(name); err == nil {
			t.Errorf("ValidateName(%q) should fail", name)
		}
	}
	if err := ValidateName("lobby-2"); err != nil {
		t.Errorf("ValidateName(lobby-2) = %v", err)
	}
}

type recordingStorageHooks struct {
	saves, loads, deletes int
}

func (h *recordingStorageHooks) OnSave(context.Context, string, string, error)   { h.saves++ }
func (h *recordingStorageHooks) OnLoad(context.Context, string, string, error)   { h.loads++ }
func (h *recordingStorageHooks) OnDelete(context.Context, string, string, error) { h.deletes++ }

func TestWithHooksReportsOperations(t *testing.T) {
	defer observability.Reset()
	hooks := &recordingStorageHooks{}
	observability.SetStorageHooks(hooks)

	ctx := context.Background()
	store := WithHooks("memory", NewMemoryStore())
	st := sampleState(t)

	if err := store.Save(ctx, "p", st); err != nil {
		t.Fatal(err)
	}
	store.Load(ctx, "p")
	store.Load(ctx, "missing") // errors are reported too
	store.Delete(ctx, "p")

	if hooks.saves != 1 || hooks.loads != 2 || hooks.deletes != 1 {
		t.Errorf("hooks = %+v, want saves=1 loads=2 deletes=1", hooks)
	}
}
