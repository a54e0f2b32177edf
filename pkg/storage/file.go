package storage

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mailworks/quadplan/pkg/errors"
	"github.com/mailworks/quadplan/pkg/plan"
)

// FileStore persists each project as one JSON document named
// <project>.json inside a directory.
type FileStore struct {
	dir string
}

// DefaultDir returns the default project directory under the user config
// directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "resolve config directory")
	}
	return filepath.Join(base, "quadplan", "projects"), nil
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
// An empty dir selects DefaultDir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create project directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory the store writes into.
func (f *FileStore) Dir() string { return f.dir }

func (f *FileStore) path(name string) string {
	return filepath.Join(f.dir, name+".json")
}

// Load implements Store.
func (f *FileStore) Load(_ context.Context, name string) (plan.State, error) {
	if err := ValidateName(name); err != nil {
		return plan.State{}, err
	}
	data, err := os.ReadFile(f.path(name))
	if os.IsNotExist(err) {
		return plan.State{}, ErrNotFound
	}
	if err != nil {
		return plan.State{}, errors.Wrap(errors.ErrCodeStorage, err, "read project %s", name)
	}
	return plan.Unmarshal(data)
}

// Save implements Store. The write goes through a temp file and rename so
// a crash never leaves a truncated project behind.
func (f *FileStore) Save(_ context.Context, name string, st plan.State) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	data, err := plan.Marshal(st)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, name+"-*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create temp file for %s", name)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStorage, err, "write project %s", name)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStorage, err, "close temp file for %s", name)
	}
	if err := os.Rename(tmp.Name(), f.path(name)); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStorage, err, "install project %s", name)
	}
	return nil
}

// Delete implements Store.
func (f *FileStore) Delete(_ context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(f.path(name))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete project %s", name)
	}
	return nil
}

// List implements Store.
func (f *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list projects in %s", f.dir)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	slices.Sort(names)
	return names, nil
}

// Close implements Store.
func (f *FileStore) Close() error { return nil }
