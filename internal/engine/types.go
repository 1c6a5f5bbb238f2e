package engine

import (
	"time"

	"github.com/bianoble/confsync/internal/diff"
)

// Target actions reported in sync results.
const (
	ActionCreated   = "created"   // target file did not exist before
	ActionMerged    = "merged"    // target file rewritten with the merged tree
	ActionUnchanged = "unchanged" // merge produced exactly what is on disk
	ActionSkipped   = "skipped"   // conflicted and confirmation was declined
)

// TargetResult holds the outcome for a single target.
type TargetResult struct {
	Path       string
	Action     string
	Conflicted bool
	Changes    []diff.Change

	// Before and After are the target document as it was on disk and as
	// the merge would serialize it, for raw text diffs.
	Before []byte
	After  []byte
}

// TargetError represents an error associated with a specific target.
type TargetError struct {
	Target string
	Err    error
}

func (e TargetError) Error() string {
	return e.Target + ": " + e.Err.Error()
}

func (e TargetError) Unwrap() error {
	return e.Err
}

// SyncResult holds the outcome of a sync operation.
type SyncResult struct {
	Targets []TargetResult
	Errors  []TargetError
}

// TargetStatus describes one target's sync state.
type TargetStatus struct {
	Path       string
	Source     string
	FileExists bool
	Synced     bool
	SyncedAt   time.Time
}

// Problem describes one issue found by Check.
type Problem struct {
	Target string
	Detail string
}

// CheckResult holds the outcome of a check operation.
type CheckResult struct {
	Clean       bool
	Problems    []Problem
	NeverSynced []string
}
