package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bianoble/confsync/internal/config"
)

// LocalResolver fetches managed documents from the local filesystem,
// typically a checked-out distribution directory inside the project.
type LocalResolver struct{}

func (l *LocalResolver) Fetch(ctx context.Context, src config.Source, file string, projectRoot string) ([]byte, error) {
	if src.Path == "" {
		return nil, &SourceError{Source: src.Name, Operation: "fetch", Err: fmt.Errorf("path is required")}
	}
	if file == "" {
		return nil, &SourceError{Source: src.Name, Operation: "fetch", Err: fmt.Errorf("target 'file' is required for local sources")}
	}

	docPath := filepath.Clean(filepath.Join(projectRoot, src.Path, file))

	// Validate the resolved path stays within the project root.
	realRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, &SourceError{Source: src.Name, Operation: "fetch", Err: fmt.Errorf("resolving project root: %w", err)}
	}
	realPath, err := filepath.Abs(docPath)
	if err != nil {
		return nil, &SourceError{Source: src.Name, Operation: "fetch", Err: fmt.Errorf("resolving path: %w", err)}
	}
	rootPrefix := realRoot + string(filepath.Separator)
	if realPath != realRoot && !strings.HasPrefix(realPath, rootPrefix) {
		return nil, &SourceError{
			Source:    src.Name,
			Operation: "fetch",
			Err:       fmt.Errorf("path '%s' resolves outside project root", file),
		}
	}

	data, err := os.ReadFile(docPath)
	if err != nil {
		return nil, &SourceError{
			Source:    src.Name,
			Operation: "fetch",
			Err:       fmt.Errorf("reading %s: %w", docPath, err),
			Hint:      "check that the managed document exists in the source path",
		}
	}
	return data, nil
}
