package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/confsync/internal/engine"
)

var (
	syncDryRun   bool
	syncYes      bool
	syncNoBackup bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Merge managed configuration into target files",
	Long: `Fetches each target's managed document, three-way merges it with the
file on disk and the last distributed snapshot, and rewrites the file.
User edits are preserved; conflicting overwrites prompt for confirmation
unless --yes is given. The previous file content is saved to <file>.bak
unless --no-backup is set.`,
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

		eng := &engine.SyncEngine{
			Registry:    newRegistry(),
			ProjectRoot: root,
			Confirm:     confirmOverwrite,
		}

		opts := engine.SyncOptions{
			DryRun:   syncDryRun,
			Yes:      syncYes,
			NoBackup: syncNoBackup,
		}
		result, err := eng.Sync(cmd.Context(), cfg, st, opts)
		if err != nil {
			return err
		}

		if syncDryRun {
			info("Dry run — no files written.")
		}

		var written, unchanged, skipped int
		for _, t := range result.Targets {
			switch t.Action {
			case engine.ActionUnchanged:
				unchanged++
				detail("%s  %s", t.Action, t.Path)
				continue
			case engine.ActionSkipped:
				skipped++
			default:
				written++
			}
			info("  %s  %s", t.Action, t.Path)
			if verbose || syncDryRun {
				for _, c := range t.Changes {
					info("%s", renderChange(c))
				}
			}
		}
		for _, e := range result.Errors {
			errorf("%s: %s", e.Target, e.Err)
		}

		if !syncDryRun {
			if err := saveState(st); err != nil {
				return fmt.Errorf("saving sync state: %w", err)
			}
		}

		info("")
		info("Sync complete: %d written, %d unchanged, %d skipped, %d errors.",
			written, unchanged, skipped, len(result.Errors))

		if len(result.Errors) > 0 {
			return fmt.Errorf("%d target(s) failed", len(result.Errors))
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "show what would change without writing files")
	syncCmd.Flags().BoolVar(&syncYes, "yes", false, "apply conflicting changes without prompting")
	syncCmd.Flags().BoolVar(&syncNoBackup, "no-backup", false, "do not write .bak files before overwriting")
	rootCmd.AddCommand(syncCmd)
}
