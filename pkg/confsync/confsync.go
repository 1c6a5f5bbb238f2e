// Package confsync provides the public Go library API for confsync.
//
// confsync keeps centrally distributed configuration in sync with locally
// edited files via a three-way merge. This package exposes constructors
// and interfaces for embedding confsync in other Go programs.
//
// # Basic Usage
//
//	client, err := confsync.New(confsync.Options{
//	    ProjectRoot: "/path/to/project",
//	    ConfigPath:  "confsync.yaml",
//	    StatePath:   "confsync.state",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Preview what a sync would change
//	preview, err := client.Diff(ctx)
//
//	// Merge managed configuration into the target files
//	result, err := client.Sync(ctx, confsync.SyncOptions{})
//
//	// Verify configuration and state consistency
//	checkResult, err := client.Check(ctx)
package confsync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bianoble/confsync/internal/config"
	"github.com/bianoble/confsync/internal/engine"
	"github.com/bianoble/confsync/internal/source"
	"github.com/bianoble/confsync/internal/state"
)

// SyncOptions configures a sync operation.
type SyncOptions struct {
	DryRun   bool
	NoBackup bool
}

// Syncer merges managed configuration into the project's target files.
type Syncer interface {
	Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error)
}

// Checker verifies target files and sync state consistency.
type Checker interface {
	Check(ctx context.Context) (*CheckResult, error)
}

// Options configures a confsync client.
type Options struct {
	// ProjectRoot is the directory containing confsync.yaml.
	// If empty, defaults to the directory containing ConfigPath.
	ProjectRoot string

	// ConfigPath is the path to the config file. Default: "confsync.yaml".
	ConfigPath string

	// StatePath is the path to the sync state file. Default: "confsync.state".
	StatePath string
}

// Client is the main entry point for the confsync library.
// It implements Syncer and Checker.
type Client struct {
	registry    *source.Registry
	projectRoot string
	configPath  string
	statePath   string
}

// New creates a new confsync Client.
func New(opts Options) (*Client, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = "confsync.yaml"
	}
	if opts.StatePath == "" {
		opts.StatePath = "confsync.state"
	}

	root := opts.ProjectRoot
	if root == "" {
		abs, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("resolving config path: %w", err)
		}
		root = filepath.Dir(abs)
	}

	reg := source.NewRegistry()
	reg.Register("git", &source.GitResolver{})
	reg.Register("url", &source.URLResolver{})
	reg.Register("local", &source.LocalResolver{})

	return &Client{
		registry:    reg,
		projectRoot: root,
		configPath:  opts.ConfigPath,
		statePath:   opts.StatePath,
	}, nil
}

func (c *Client) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// loadState reads the sync state file if it exists. A missing file is an
// empty state; anything else is surfaced, since a silently discarded
// state would demote the next sync to first-sync semantics.
func (c *Client) loadState() (*state.State, error) {
	st, err := state.Load(c.statePath)
	if errors.Is(err, os.ErrNotExist) {
		return &state.State{Version: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading sync state %s: %w", c.statePath, err)
	}
	return st, nil
}

func (c *Client) newEngine() *engine.SyncEngine {
	return &engine.SyncEngine{
		Registry:    c.registry,
		ProjectRoot: c.projectRoot,
	}
}

// Sync merges managed configuration into the target files and saves the
// sync state. Conflicting overwrites are applied without prompting; use
// Diff first to inspect them.
func (c *Client) Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := c.loadState()
	if err != nil {
		return nil, err
	}

	result, err := c.newEngine().Sync(ctx, cfg, st, engine.SyncOptions{
		DryRun:   opts.DryRun,
		Yes:      true, // library always auto-confirms
		NoBackup: opts.NoBackup,
	})
	if err != nil {
		return nil, err
	}

	if !opts.DryRun {
		if err := state.Save(c.statePath, st); err != nil {
			return nil, fmt.Errorf("saving sync state: %w", err)
		}
	}
	return result, nil
}

// Diff computes the merge for every target without writing anything.
func (c *Client) Diff(ctx context.Context) (*SyncResult, error) {
	return c.Sync(ctx, SyncOptions{DryRun: true})
}

// Status reports the sync state of every configured target.
func (c *Client) Status(ctx context.Context) ([]TargetStatus, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := c.loadState()
	if err != nil {
		return nil, err
	}
	return c.newEngine().Status(cfg, st), nil
}

// Check verifies target files and sync state consistency.
func (c *Client) Check(ctx context.Context) (*CheckResult, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := c.loadState()
	if err != nil {
		return nil, err
	}
	result := c.newEngine().Check(cfg, st)
	return &result, nil
}
