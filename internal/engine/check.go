package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bianoble/confsync/internal/codec"
	"github.com/bianoble/confsync/internal/config"
	"github.com/bianoble/confsync/internal/state"
)

// Check verifies that target files parse, that stored sync state matches
// the configuration, and reports targets that were never synced. It does
// not contact any source.
func (e *SyncEngine) Check(cfg *config.Config, st *state.State) CheckResult {
	result := CheckResult{}

	targets := make(map[string]bool, len(cfg.Targets))
	for _, tgt := range cfg.Targets {
		targets[tgt.Path] = true

		format, err := e.targetFormat(tgt)
		if err != nil {
			result.Problems = append(result.Problems, Problem{Target: tgt.Path, Detail: err.Error()})
			continue
		}
		data, err := os.ReadFile(filepath.Join(e.ProjectRoot, tgt.Path))
		if err != nil {
			if !os.IsNotExist(err) {
				result.Problems = append(result.Problems, Problem{Target: tgt.Path, Detail: err.Error()})
			}
		} else if _, err := codec.Decode(format, data); err != nil {
			result.Problems = append(result.Problems, Problem{
				Target: tgt.Path,
				Detail: fmt.Sprintf("file does not parse: %v", err),
			})
		}

		synced := false
		for _, ts := range st.Targets {
			if ts.Path == tgt.Path {
				synced = true
				break
			}
		}
		if !synced {
			result.NeverSynced = append(result.NeverSynced, tgt.Path)
		}
	}

	for _, ts := range st.Targets {
		if !targets[ts.Path] {
			result.Problems = append(result.Problems, Problem{
				Target: ts.Path,
				Detail: "sync state exists but no target is configured for it",
			})
			continue
		}
		if _, err := st.Base(ts.Path); err != nil {
			result.Problems = append(result.Problems, Problem{
				Target: ts.Path,
				Detail: fmt.Sprintf("stored snapshot is corrupt: %v", err),
			})
		}
	}

	result.Clean = len(result.Problems) == 0
	return result
}
