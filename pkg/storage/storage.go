// Package storage persists project snapshots under user-chosen names.
//
// A Store holds serialized configurator states keyed by project name. Four
// implementations share the interface: an in-memory store for tests and
// throwaway sessions, a file store writing JSON documents under the user
// config directory, a Redis store for multi-instance deployments, and a
// MongoDB store for durable project documents. The serving layer
// subscribes to the state store and saves after every committed mutation.
//
// # Usage
//
//	store, err := storage.NewFileStore("")
//	if err != nil { ... }
//	defer store.Close()
//
//	if err := store.Save(ctx, "lobby", snapshot); err != nil { ... }
package storage

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/mailworks/quadplan/pkg/errors"
	"github.com/mailworks/quadplan/pkg/observability"
	"github.com/mailworks/quadplan/pkg/plan"
)

// ErrNotFound is returned when no project exists under the given name.
var ErrNotFound = stderrors.New("project not found")

// Store persists project snapshots by name.
type Store interface {
	// Load returns the snapshot saved under name, or ErrNotFound.
	Load(ctx context.Context, name string) (plan.State, error)

	// Save writes the snapshot under name, overwriting any previous one.
	Save(ctx context.Context, name string, st plan.State) error

	// Delete removes the project, or returns ErrNotFound.
	Delete(ctx context.Context, name string) error

	// List returns all saved project names in sorted order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// ValidateName rejects empty names and names that could escape a
// path-based backend.
func ValidateName(name string) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "project name must not be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return errors.New(errors.ErrCodeInvalidInput, "invalid project name %q", name)
	}
	return nil
}

// =============================================================================
// Instrumentation
// =============================================================================

// WithHooks wraps a store so every operation reports to the registered
// storage hooks, tagged with the backend name.
func WithHooks(backend string, s Store) Store {
	return &hookedStore{backend: backend, inner: s}
}

type hookedStore struct {
	backend string
	inner   Store
}

func (h *hookedStore) Load(ctx context.Context, name string) (plan.State, error) {
	st, err := h.inner.Load(ctx, name)
	observability.Storage().OnLoad(ctx, h.backend, name, err)
	return st, err
}

func (h *hookedStore) Save(ctx context.Context, name string, st plan.State) error {
	err := h.inner.Save(ctx, name, st)
	observability.Storage().OnSave(ctx, h.backend, name, err)
	return err
}

func (h *hookedStore) Delete(ctx context.Context, name string) error {
	err := h.inner.Delete(ctx, name)
	observability.Storage().OnDelete(ctx, h.backend, name, err)
	return err
}

func (h *hookedStore) List(ctx context.Context) ([]string, error) {
	return h.inner.List(ctx)
}

func (h *hookedStore) Close() error {
	return h.inner.Close()
}
