package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/confsync/internal/engine"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify target files and sync state consistency",
	Long: `Checks that every target file parses in its declared format and that the
sync state matches the configuration. Reports targets that were never
synced. Exit 0 when everything is consistent; exit non-zero on problems.
Suitable for CI pipelines.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := loadState()
		if err != nil {
			return err
		}

		root, err := projectRoot()
		if err != nil {
			return err
		}

		eng := &engine.SyncEngine{ProjectRoot: root}
		result := eng.Check(cfg, st)

		for _, p := range result.Problems {
			info("  problem   %s: %s", p.Target, p.Detail)
		}
		for _, path := range result.NeverSynced {
			detail("never synced: %s", path)
		}

		if result.Clean {
			info("Configuration and sync state are consistent.")
			return nil
		}
		return fmt.Errorf("check failed: %d problem(s) found", len(result.Problems))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
