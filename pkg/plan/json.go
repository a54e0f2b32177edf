package plan

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mailworks/quadplan/pkg/errors"
)

// =============================================================================
// Snapshot I/O
// =============================================================================

// Marshal serializes a state snapshot as indented JSON.
func Marshal(st State) ([]byte, error) {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal snapshot")
	}
	return append(data, '\n'), nil
}

// Unmarshal parses a state snapshot from JSON.
func Unmarshal(data []byte) (State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse snapshot")
	}
	return st, nil
}

// Write serializes a snapshot to w.
func Write(w io.Writer, st State) error {
	data, err := Marshal(st)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write snapshot")
	}
	return nil
}

// Read parses a snapshot from r.
func Read(r io.Reader) (State, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return State{}, errors.Wrap(errors.ErrCodeStorage, err, "read snapshot")
	}
	return Unmarshal(data)
}

// WriteFile writes a snapshot to path, creating parent directories.
func WriteFile(path string, st State) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "create directory %s", dir)
		}
	}
	data, err := Marshal(st)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	return nil
}

// ReadFile reads a snapshot from path.
func ReadFile(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, errors.Wrap(errors.ErrCodeStorage, err, "read %s", path)
	}
	return Unmarshal(data)
}

// Equal compares two snapshots for logical equality, ignoring the
// UpdatedAt timestamp. Round-tripping a snapshot through Marshal and
// Unmarshal keeps it Equal to the original.
func Equal(a, b State) bool {
	a.UpdatedAt = time.Time{}
	b.UpdatedAt = time.Time{}
	ja, err := json.Marshal(a)
	if err != nil {
		return false
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(ja) == string(jb)
}
