package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bianoble/confsync/internal/codec"
	"github.com/bianoble/confsync/internal/config"
	"github.com/bianoble/confsync/internal/diff"
	"github.com/bianoble/confsync/internal/merge"
	"github.com/bianoble/confsync/internal/source"
	"github.com/bianoble/confsync/internal/state"
	"github.com/bianoble/confsync/internal/tree"
)

// SyncEngine reconciles managed configuration into target files.
type SyncEngine struct {
	Registry    *source.Registry
	ProjectRoot string

	// Confirm is called before overwriting a target whose merge result
	// conflicts with user edits. A nil Confirm declines every conflict.
	Confirm func(target string, changes []diff.Change) bool

	// Now is used for state timestamps. Nil means time.Now.
	Now func() time.Time
}

// SyncOptions control a sync run.
type SyncOptions struct {
	DryRun   bool
	Yes      bool
	NoBackup bool
}

// Sync merges every configured target and updates the sync state.
// Per-target failures are collected in the result rather than aborting
// the whole run. The caller is responsible for saving the state.
func (e *SyncEngine) Sync(ctx context.Context, cfg *config.Config, st *state.State, opts SyncOptions) (*SyncResult, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}

	sources := make(map[string]config.Source, len(cfg.Sources))
	for _, src := range cfg.Sources {
		sources[src.Name] = src
	}

	result := &SyncResult{}
	for _, tgt := range cfg.Targets {
		res, err := e.syncTarget(ctx, tgt, sources, st, rules, opts)
		if err != nil {
			result.Errors = append(result.Errors, TargetError{Target: tgt.Path, Err: err})
			continue
		}
		result.Targets = append(result.Targets, res)
	}
	return result, nil
}

func (e *SyncEngine) syncTarget(ctx context.Context, tgt config.Target, sources map[string]config.Source, st *state.State, rules []merge.Rule, opts SyncOptions) (TargetResult, error) {
	src, ok := sources[tgt.Source]
	if !ok {
		return TargetResult{}, fmt.Errorf("unknown source %q", tgt.Source)
	}

	data, err := e.Registry.Fetch(ctx, src, tgt.File, e.ProjectRoot)
	if err != nil {
		return TargetResult{}, err
	}

	format, err := e.targetFormat(tgt)
	if err != nil {
		return TargetResult{}, err
	}
	managed, err := codec.Decode(format, data)
	if err != nil {
		return TargetResult{}, fmt.Errorf("decoding %s from source %s: %w", tgt.File, tgt.Source, err)
	}

	userPath := filepath.Join(e.ProjectRoot, tgt.Path)
	raw, err := os.ReadFile(userPath)
	userExists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return TargetResult{}, fmt.Errorf("reading %s: %w", tgt.Path, err)
	}

	var user tree.Node = tree.Object{}
	if userExists {
		user, err = codec.Decode(format, raw)
		if err != nil {
			return TargetResult{}, fmt.Errorf("parsing %s: %w", tgt.Path, err)
		}
	}

	base, err := st.Base(tgt.Path)
	if err != nil {
		return TargetResult{}, fmt.Errorf("loading sync state for %s: %w", tgt.Path, err)
	}

	merged := merge.Merge(base, user, managed, rules)

	var oldTree tree.Node
	if userExists {
		oldTree = user
	}
	changes := diff.Calculate(oldTree, merged)
	conflicted := merge.HasUserConflicts(base, user, managed, merged, rules)

	encoded, err := codec.Encode(format, merged)
	if err != nil {
		return TargetResult{}, fmt.Errorf("encoding %s: %w", tgt.Path, err)
	}

	res := TargetResult{
		Path:       tgt.Path,
		Conflicted: conflicted,
		Changes:    changes,
		Before:     raw,
		After:      encoded,
	}
	switch {
	case !userExists:
		res.Action = ActionCreated
	case tree.Equal(user, merged):
		res.Action = ActionUnchanged
	default:
		res.Action = ActionMerged
	}

	if opts.DryRun {
		return res, nil
	}

	if conflicted && !opts.Yes {
		if e.Confirm == nil || !e.Confirm(tgt.Path, changes) {
			res.Action = ActionSkipped
			return res, nil
		}
	}

	if res.Action != ActionUnchanged {
		if userExists && !opts.NoBackup {
			if err := os.WriteFile(userPath+".bak", raw, 0o644); err != nil {
				return TargetResult{}, fmt.Errorf("writing backup for %s: %w", tgt.Path, err)
			}
		}
		if err := writeAtomic(userPath, encoded); err != nil {
			return TargetResult{}, fmt.Errorf("writing %s: %w", tgt.Path, err)
		}
	}

	st.Record(tgt.Path, managed, e.now())
	return res, nil
}

func (e *SyncEngine) targetFormat(tgt config.Target) (codec.Format, error) {
	if tgt.Format != "" {
		return codec.ParseFormat(tgt.Format)
	}
	return codec.Detect(tgt.Path)
}

func (e *SyncEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// writeAtomic writes data to path via a temp file and rename so a crash
// never leaves a half-written target.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
