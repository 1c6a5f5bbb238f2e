package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/bianoble/confsync/internal/config"
	"github.com/bianoble/confsync/internal/diff"
	"github.com/bianoble/confsync/internal/source"
	"github.com/bianoble/confsync/internal/state"
	"github.com/bianoble/confsync/internal/tree"
)

// loadConfig reads and validates the config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", configPath, err)
	}
	return cfg, nil
}

// loadState reads the sync state file if it exists. Returns an empty
// state if missing.
func loadState() (*state.State, error) {
	st, err := state.Load(statePath)
	if errors.Is(err, os.ErrNotExist) {
		return &state.State{Version: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading sync state %s: %w", statePath, err)
	}
	return st, nil
}

// saveState writes the sync state atomically.
func saveState(st *state.State) error {
	return state.Save(statePath, st)
}

// projectRoot returns the directory containing the config file.
func projectRoot() (string, error) {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolving config path: %w", err)
	}
	return filepath.Dir(abs), nil
}

// newRegistry creates a source registry with all built-in resolvers.
func newRegistry() *source.Registry {
	reg := source.NewRegistry()
	reg.Register("git", &source.GitResolver{})
	reg.Register("url", &source.URLResolver{})
	reg.Register("local", &source.LocalResolver{})
	return reg
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

var (
	addedColor    = color.New(color.FgGreen)
	removedColor  = color.New(color.FgRed)
	modifiedColor = color.New(color.FgYellow)
)

// renderChange formats one leaf-level change for terminal output.
func renderChange(c diff.Change) string {
	switch c.Type {
	case diff.Added:
		return addedColor.Sprintf("  + %s = %s", c.Path, renderValue(c.New))
	case diff.Removed:
		return removedColor.Sprintf("  - %s", c.Path)
	default:
		return modifiedColor.Sprintf("  ~ %s: %s -> %s", c.Path, renderValue(c.Old), renderValue(c.New))
	}
}

// renderValue shows a node compactly, truncating long values.
func renderValue(n tree.Node) string {
	const maxLen = 60
	s := tree.Canonical(n)
	if len(s) > maxLen {
		s = s[:maxLen-3] + "..."
	}
	return s
}

// confirmOverwrite shows the pending changes for a conflicted target and
// asks the user whether to proceed. Returns false on anything but y/yes.
func confirmOverwrite(target string, changes []diff.Change) bool {
	fmt.Printf("\n%s has local edits that conflict with the managed configuration:\n", target)
	for _, c := range changes {
		fmt.Println(renderChange(c))
	}
	fmt.Printf("Apply anyway? A backup will be written unless --no-backup is set. [y/N] ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
