package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/mailworks/quadplan/pkg/plan"
)

// MemoryStore keeps snapshots in process memory. Safe for concurrent use;
// everything is lost on exit. Intended for tests and throwaway sessions.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]plan.State
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: make(map[string]plan.State)}
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, name string) (plan.State, error) {
	if err := ValidateName(name); err != nil {
		return plan.State{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.projects[name]
	if !ok {
		return plan.State{}, ErrNotFound
	}
	return st.Clone(), nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, name string, st plan.State) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[name] = st.Clone()
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[name]; !ok {
		return ErrNotFound
	}
	delete(m.projects, name)
	return nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.projects))
	for name := range m.projects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
