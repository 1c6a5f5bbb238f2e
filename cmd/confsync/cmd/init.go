package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initForce bool

// initTemplate is the default confsync.yaml scaffold.
// It includes a working git source example and commented-out alternatives.
const initTemplate = `# confsync configuration
# Docs: https://github.com/bianoble/confsync
version: 1

sources:
  # Git repository (most common)
  - name: team-config
    type: git
    repo: https://github.com/your-org/team-config.git
    ref: main

  # Single file from a URL
  # - name: org-policy
  #   type: url
  #   url: https://example.com/policy.json
  #   checksum: sha256:abc123...

  # Local directory
  # - name: local-config
  #   type: local
  #   path: ./managed/

targets:
  - path: .agent/settings.json
    source: team-config
    file: settings.json
    # format: json            # optional: inferred from the extension

# strategies:
#   - patterns: [permissions.allow, permissions.deny]
#     mode: array-union
#   - patterns: ["enforced.*"]
#     mode: managed-first
#     description: security settings always follow the distributed value
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter confsync.yaml configuration",
	Long: `Creates a confsync.yaml file in the current directory with a well-commented
template including a git source example and documented alternatives for URL
and local sources.

Use --force to overwrite an existing configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := configPath
		if !filepath.IsAbs(outPath) {
			abs, err := filepath.Abs(outPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			outPath = abs
		}

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		if err := os.WriteFile(outPath, []byte(initTemplate), 0644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		info("Created %s", outPath)
		info("")
		info("Next steps:")
		info("  1. Edit the file to point at your sources")
		info("  2. Run 'confsync diff' to preview the merge")
		info("  3. Run 'confsync sync' to write the target files")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	rootCmd.AddCommand(initCmd)
}
