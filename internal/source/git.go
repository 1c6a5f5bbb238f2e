package source

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bianoble/confsync/internal/config"
)

// GitResolver fetches managed documents from git repositories via a
// shallow clone of the configured ref.
type GitResolver struct{}

func (g *GitResolver) Fetch(ctx context.Context, src config.Source, file string, projectRoot string) ([]byte, error) {
	if src.Repo == "" {
		return nil, &SourceError{Source: src.Name, Operation: "fetch", Err: fmt.Errorf("repo is required"), Hint: "add 'repo: https://...' to the source"}
	}
	if src.Ref == "" {
		return nil, &SourceError{Source: src.Name, Operation: "fetch", Err: fmt.Errorf("ref is required"), Hint: "add 'ref: <tag-or-branch>'"}
	}
	if file == "" {
		return nil, &SourceError{Source: src.Name, Operation: "fetch", Err: fmt.Errorf("target 'file' is required for git sources")}
	}

	tmpDir, err := os.MkdirTemp("", "confsync-git-*")
	if err != nil {
		return nil, &SourceError{Source: src.Name, Operation: "fetch", Err: fmt.Errorf("creating temp dir: %w", err)}
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	if cloneErr := gitClone(ctx, src.Repo, src.Ref, tmpDir); cloneErr != nil {
		return nil, &SourceError{Source: src.Name, Operation: "fetch", Err: cloneErr, Hint: "check repo URL, ref, and authentication"}
	}

	docPath := filepath.Clean(filepath.Join(tmpDir, file))
	if docPath != tmpDir && !strings.HasPrefix(docPath, tmpDir+string(filepath.Separator)) {
		return nil, &SourceError{Source: src.Name, Operation: "fetch", Err: fmt.Errorf("file '%s' resolves outside the repository", file)}
	}

	data, err := os.ReadFile(docPath)
	if err != nil {
		return nil, &SourceError{
			Source:    src.Name,
			Operation: "fetch",
			Err:       fmt.Errorf("reading %s from %s@%s: %w", file, src.Repo, src.Ref, err),
			Hint:      "check that the file exists at that ref",
		}
	}
	return data, nil
}

func gitClone(ctx context.Context, repo, ref, dir string) error {
	cmd := exec.CommandContext(ctx, "git", "clone",
		"--depth", "1",
		"--branch", ref,
		"--single-branch",
		"--quiet",
		repo, dir)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("git clone %s@%s: %s", repo, ref, msg)
	}
	return nil
}
