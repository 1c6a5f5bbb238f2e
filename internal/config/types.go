package config

import (
	"fmt"

	"github.com/bianoble/confsync/internal/merge"
)

// Config represents the confsync.yaml configuration file.
type Config struct {
	Version    int        `yaml:"version"`
	Sources    []Source   `yaml:"sources"`
	Targets    []Target   `yaml:"targets"`
	Strategies []Strategy `yaml:"strategies,omitempty"`
}

// Source defines where managed configuration documents come from.
type Source struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // "git", "url", "local"

	// Git source fields.
	Repo string `yaml:"repo,omitempty"`
	Ref  string `yaml:"ref,omitempty"`

	// URL source fields.
	URL      string `yaml:"url,omitempty"`
	Checksum string `yaml:"checksum,omitempty"` // optional "sha256:<hex>" pin

	// Local source fields.
	Path string `yaml:"path,omitempty"`
}

// Target binds one local configuration file to a managed document.
type Target struct {
	// Path of the user's file, relative to the project root.
	Path string `yaml:"path"`

	// Source names the entry in Sources to fetch from.
	Source string `yaml:"source"`

	// File is the document's path within the source (unused for url
	// sources, which point at the document directly).
	File string `yaml:"file,omitempty"`

	// Format overrides extension-based detection ("json", "yaml", "toml").
	Format string `yaml:"format,omitempty"`
}

// Strategy maps path patterns to a merge mode. Configured strategies are
// tried before the built-in defaults, top to bottom, first match wins.
type Strategy struct {
	Patterns    []string `yaml:"patterns"`
	Mode        string   `yaml:"mode"`
	Description string   `yaml:"description,omitempty"`
}

// Rules converts the configured strategies into the engine's rule table,
// with DefaultRules appended so unmatched paths keep sane behavior.
func (c *Config) Rules() ([]merge.Rule, error) {
	rules := make([]merge.Rule, 0, len(c.Strategies)+3)
	for i, s := range c.Strategies {
		mode, err := merge.ParseMode(s.Mode)
		if err != nil {
			return nil, fmt.Errorf("strategy[%d]: %w", i, err)
		}
		rules = append(rules, merge.Rule{
			Patterns:    append([]string(nil), s.Patterns...),
			Mode:        mode,
			Description: s.Description,
		})
	}
	return append(rules, DefaultRules()...), nil
}

// DefaultRules is the built-in strategy table. It is returned as a fresh
// value on every call and passed into the engine explicitly; the engine
// itself has no baked-in defaults.
func DefaultRules() []merge.Rule {
	return []merge.Rule{
		{
			Patterns:    []string{"permissions.allow", "permissions.deny", "permissions.ask"},
			Mode:        merge.ModeArrayUnion,
			Description: "permission lists merge as sets",
		},
		{
			Patterns:    []string{"*.tags", "*.flags"},
			Mode:        merge.ModeArrayUnion,
			Description: "tag and flag lists merge as sets",
		},
		{
			Patterns:    []string{"*"},
			Mode:        merge.ModeObjectMerge,
			Description: "default: merge objects key by key",
		},
	}
}
