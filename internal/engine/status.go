package engine

import (
	"os"
	"path/filepath"

	"github.com/bianoble/confsync/internal/config"
	"github.com/bianoble/confsync/internal/state"
)

// Status reports the sync state of every configured target.
func (e *SyncEngine) Status(cfg *config.Config, st *state.State) []TargetStatus {
	statuses := make([]TargetStatus, 0, len(cfg.Targets))
	for _, tgt := range cfg.Targets {
		entry := TargetStatus{
			Path:   tgt.Path,
			Source: tgt.Source,
		}
		if _, err := os.Stat(filepath.Join(e.ProjectRoot, tgt.Path)); err == nil {
			entry.FileExists = true
		}
		for _, ts := range st.Targets {
			if ts.Path == tgt.Path {
				entry.Synced = true
				entry.SyncedAt = ts.SyncedAt
				break
			}
		}
		statuses = append(statuses, entry)
	}
	return statuses
}
