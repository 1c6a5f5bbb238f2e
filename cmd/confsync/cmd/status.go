package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/confsync/internal/engine"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sync state of all configured targets",
	Long: `Shows each target's path, source, whether the file exists, and when it
was last synced. Does not contact any source.`,
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
		statuses := eng.Status(cfg, st)
		if len(statuses) == 0 {
			info("No targets configured.")
			return nil
		}

		fmt.Printf("%-40s %-16s %-8s %s\n", "TARGET", "SOURCE", "FILE", "LAST SYNC")
		for _, s := range statuses {
			file := "missing"
			if s.FileExists {
				file = "present"
			}
			lastSync := "never"
			if s.Synced {
				lastSync = s.SyncedAt.Local().Format("2006-01-02 15:04")
			}
			fmt.Printf("%-40s %-16s %-8s %s\n", s.Path, s.Source, file, lastSync)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
