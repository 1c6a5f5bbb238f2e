// Package state persists, per target file, the managed document as it
// stood after the previous successful sync. That snapshot is the "base"
// side of the three-way merge; without it a removed key would be
// indistinguishable from a key that was never distributed.
package state

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/confsync/internal/tree"
)

// State represents the confsync.state file.
type State struct {
	Version int           `yaml:"version"`
	Targets []TargetState `yaml:"targets,omitempty"`
}

// TargetState records the last synced managed document for one target.
type TargetState struct {
	// Path matches the target path in confsync.yaml.
	Path string `yaml:"path"`

	// SyncedAt is when the snapshot was recorded.
	SyncedAt time.Time `yaml:"synced_at"`

	// Managed is the distributed document at that time, in the generic
	// representation produced by tree.ToAny.
	Managed any `yaml:"managed"`
}

// Load reads and validates a confsync.state file. Callers treat a
// missing file (errors.Is os.ErrNotExist) as an empty state.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading state file %s: %w", path, err)
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", path, err)
	}

	if errs := Validate(&st); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &st, nil
}

// Save writes the state file atomically using a temp file and rename.
func Save(path string, st *State) error {
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing temp state file %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming temp state file to %s: %w", path, err)
	}

	return nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("state file validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a State for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(st *State) []string {
	var errs []string

	if st.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d — only version 1 is supported", st.Version))
	}

	paths := make(map[string]bool)
	for i, ts := range st.Targets {
		prefix := fmt.Sprintf("target[%d]", i)
		if ts.Path != "" {
			prefix = fmt.Sprintf("target '%s'", ts.Path)
		}

		if ts.Path == "" {
			errs = append(errs, fmt.Sprintf("%s: 'path' is required", prefix))
		} else if paths[ts.Path] {
			errs = append(errs, fmt.Sprintf("%s: duplicate target path '%s'", prefix, ts.Path))
		} else {
			paths[ts.Path] = true
		}
	}

	return errs
}

// Base returns the recorded managed snapshot for a target path, or nil
// when no sync has happened for it yet (the first-sync signal).
func (st *State) Base(path string) (tree.Node, error) {
	for _, ts := range st.Targets {
		if ts.Path != path {
			continue
		}
		n, err := tree.FromAny(ts.Managed)
		if err != nil {
			return nil, fmt.Errorf("state snapshot for %s is corrupt: %w", path, err)
		}
		return n, nil
	}
	return nil, nil
}

// Record stores the managed snapshot for a target path, replacing any
// previous entry. The stored value is always the managed tree that went
// into the merge — never the merged result, never the user's tree.
func (st *State) Record(path string, managed tree.Node, at time.Time) {
	entry := TargetState{Path: path, SyncedAt: at.UTC(), Managed: tree.ToAny(managed)}
	for i, ts := range st.Targets {
		if ts.Path == path {
			st.Targets[i] = entry
			return
		}
	}
	st.Targets = append(st.Targets, entry)
}

// Forget drops the snapshot for a target path, if present.
func (st *State) Forget(path string) {
	for i, ts := range st.Targets {
		if ts.Path == path {
			st.Targets = append(st.Targets[:i], st.Targets[i+1:]...)
			return
		}
	}
}
