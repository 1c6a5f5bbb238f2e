package cmd

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/bianoble/confsync/internal/engine"
)

var diffRaw bool

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show what sync would change, without writing anything",
	Long: `Computes the merge for every target and prints the resulting changes
as leaf-level paths. With --raw, prints a line-based text diff of the
serialized documents instead.`,
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
		}

		result, err := eng.Sync(cmd.Context(), cfg, st, engine.SyncOptions{DryRun: true})
		if err != nil {
			return err
		}

		clean := true
		for _, t := range result.Targets {
			if t.Action == engine.ActionUnchanged {
				continue
			}
			clean = false
			marker := ""
			if t.Conflicted {
				marker = "  (conflicts with local edits)"
			}
			info("%s%s", t.Path, marker)
			if diffRaw {
				printRawDiff(string(t.Before), string(t.After))
			} else {
				for _, c := range t.Changes {
					info("%s", renderChange(c))
				}
			}
			info("")
		}
		for _, e := range result.Errors {
			errorf("%s: %s", e.Target, e.Err)
		}

		if clean && len(result.Errors) == 0 {
			info("All targets are up to date.")
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("%d target(s) failed", len(result.Errors))
		}
		return nil
	},
}

// printRawDiff prints a line-based diff of the two documents.
func printRawDiff(before, after string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				fmt.Println(addedColor.Sprintf("  + %s", line))
			case diffmatchpatch.DiffDelete:
				fmt.Println(removedColor.Sprintf("  - %s", line))
			default:
				if verbose {
					fmt.Printf("    %s\n", line)
				}
			}
		}
	}
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func init() {
	diffCmd.Flags().BoolVar(&diffRaw, "raw", false, "show a line-based text diff instead of leaf changes")
	rootCmd.AddCommand(diffCmd)
}
