package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/confsync/internal/codec"
	"github.com/bianoble/confsync/internal/merge"
)

// Load reads and validates a confsync.yaml configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &cfg, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d — only version 1 is supported", cfg.Version))
	}

	if len(cfg.Sources) == 0 {
		errs = append(errs, "at least one source is required")
	}

	sourceNames := make(map[string]bool)
	for i, src := range cfg.Sources {
		prefix := fmt.Sprintf("source[%d]", i)
		if src.Name != "" {
			prefix = fmt.Sprintf("source '%s'", src.Name)
		}

		if src.Name == "" {
			errs = append(errs, fmt.Sprintf("%s: 'name' is required", prefix))
		} else if sourceNames[src.Name] {
			errs = append(errs, fmt.Sprintf("%s: duplicate source name '%s'", prefix, src.Name))
		} else {
			sourceNames[src.Name] = true
		}

		errs = append(errs, validateSource(src, prefix)...)
	}

	if len(cfg.Targets) == 0 {
		errs = append(errs, "at least one target is required")
	}

	targetPaths := make(map[string]bool)
	for i, tgt := range cfg.Targets {
		prefix := fmt.Sprintf("target[%d]", i)
		if tgt.Path != "" {
			prefix = fmt.Sprintf("target '%s'", tgt.Path)
		}

		if tgt.Path == "" {
			errs = append(errs, fmt.Sprintf("%s: 'path' is required", prefix))
		} else if targetPaths[tgt.Path] {
			errs = append(errs, fmt.Sprintf("%s: duplicate target path '%s'", prefix, tgt.Path))
		} else {
			targetPaths[tgt.Path] = true
		}

		if tgt.Source == "" {
			errs = append(errs, fmt.Sprintf("%s: 'source' is required", prefix))
		} else if len(cfg.Sources) > 0 && !sourceNames[tgt.Source] {
			errs = append(errs, fmt.Sprintf("%s: unknown source '%s'", prefix, tgt.Source))
		}

		if tgt.Format != "" {
			if _, err := codec.ParseFormat(tgt.Format); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %s", prefix, err))
			}
		} else if tgt.Path != "" {
			if _, err := codec.Detect(tgt.Path); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %s", prefix, err))
			}
		}
	}

	for i, s := range cfg.Strategies {
		prefix := fmt.Sprintf("strategy[%d]", i)
		if len(s.Patterns) == 0 {
			errs = append(errs, fmt.Sprintf("%s: at least one pattern is required", prefix))
		}
		for _, p := range s.Patterns {
			if p == "" {
				errs = append(errs, fmt.Sprintf("%s: empty pattern", prefix))
			}
		}
		if _, err := merge.ParseMode(s.Mode); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %s", prefix, err))
		}
	}

	return errs
}

func validateSource(src Source, prefix string) []string {
	var errs []string

	switch src.Type {
	case "git":
		if src.Repo == "" {
			errs = append(errs, fmt.Sprintf("%s: 'repo' is required for git sources", prefix))
		}
		if src.Ref == "" {
			errs = append(errs, fmt.Sprintf("%s: 'ref' is required for git sources", prefix))
		}
	case "url":
		if src.URL == "" {
			errs = append(errs, fmt.Sprintf("%s: 'url' is required for url sources", prefix))
		}
		if src.Checksum != "" && !strings.HasPrefix(src.Checksum, "sha256:") {
			errs = append(errs, fmt.Sprintf("%s: checksum must have the form 'sha256:<hex>'", prefix))
		}
	case "local":
		if src.Path == "" {
			errs = append(errs, fmt.Sprintf("%s: 'path' is required for local sources", prefix))
		}
	case "":
		errs = append(errs, fmt.Sprintf("%s: 'type' is required", prefix))
	default:
		errs = append(errs, fmt.Sprintf("%s: unknown type '%s' — must be git, url, or local", prefix, src.Type))
	}

	return errs
}
