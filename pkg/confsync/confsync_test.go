package confsync

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bianoble/confsync/internal/engine"
)

// writeConfig writes a minimal valid config and returns its path.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	cfgPath := filepath.Join(dir, "confsync.yaml")
	content := `version: 1
sources:
  - name: team
    type: local
    path: ./managed/
targets:
  - path: .agent/settings.json
    source: team
    file: settings.json
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

// setupManagedDir creates the managed document directory.
func setupManagedDir(t *testing.T, dir string) {
	t.Helper()
	managed := filepath.Join(dir, "managed")
	if err := os.MkdirAll(managed, 0755); err != nil {
		t.Fatal(err)
	}
	doc := `{"model": "standard", "permissions": {"allow": ["read"]}}`
	if err := os.WriteFile(filepath.Join(managed, "settings.json"), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
}

// newTestClient creates a client with isolated temp paths.
func newTestClient(t *testing.T, dir, cfgPath string) *Client {
	t.Helper()
	client, err := New(Options{
		ProjectRoot: dir,
		ConfigPath:  cfgPath,
		StatePath:   filepath.Join(dir, "confsync.state"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewDefaultPaths(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	client, err := New(Options{
		ConfigPath:  cfgPath,
		ProjectRoot: dir,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client.projectRoot != dir {
		t.Errorf("projectRoot = %q, want %q", client.projectRoot, dir)
	}
	if client.statePath != "confsync.state" {
		t.Errorf("statePath = %q, want 'confsync.state'", client.statePath)
	}
}

func TestNewDefaultProjectRoot(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	client, err := New(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// ProjectRoot should be derived from config path's directory.
	if client.projectRoot != dir {
		t.Errorf("projectRoot = %q, want %q", client.projectRoot, dir)
	}
}

func TestClientSync(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	setupManagedDir(t, dir)

	client := newTestClient(t, dir, cfgPath)

	result, err := client.Sync(context.Background(), SyncOptions{})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("Sync errors: %v", result.Errors)
	}
	if len(result.Targets) != 1 || result.Targets[0].Action != engine.ActionCreated {
		t.Errorf("unexpected targets: %+v", result.Targets)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".agent", "settings.json"))
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if !strings.Contains(string(data), `"model": "standard"`) {
		t.Errorf("target missing managed value:\n%s", data)
	}

	// State file should exist after a real sync.
	if _, err := os.Stat(filepath.Join(dir, "confsync.state")); err != nil {
		t.Errorf("state file not written: %v", err)
	}
}

func TestClientDiffWritesNothing(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	setupManagedDir(t, dir)

	client := newTestClient(t, dir, cfgPath)

	result, err := client.Diff(context.Background())
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if len(result.Targets) != 1 || len(result.Targets[0].Changes) == 0 {
		t.Errorf("expected pending changes, got %+v", result.Targets)
	}

	if _, err := os.Stat(filepath.Join(dir, ".agent", "settings.json")); !os.IsNotExist(err) {
		t.Error("Diff must not write the target")
	}
	if _, err := os.Stat(filepath.Join(dir, "confsync.state")); !os.IsNotExist(err) {
		t.Error("Diff must not write the state file")
	}
}

func TestClientStatus(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	setupManagedDir(t, dir)

	client := newTestClient(t, dir, cfgPath)

	statuses, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(statuses) != 1 || statuses[0].Synced {
		t.Errorf("unexpected statuses before sync: %+v", statuses)
	}

	if _, err := client.Sync(context.Background(), SyncOptions{}); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	statuses, err = client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !statuses[0].Synced || !statuses[0].FileExists {
		t.Errorf("unexpected statuses after sync: %+v", statuses)
	}
}

func TestClientSyncRejectsCorruptState(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	setupManagedDir(t, dir)

	statePath := filepath.Join(dir, "confsync.state")
	if err := os.WriteFile(statePath, []byte("{invalid: ["), 0644); err != nil {
		t.Fatal(err)
	}

	client := newTestClient(t, dir, cfgPath)

	// A corrupt state file is the merge base; refusing beats quietly
	// starting over and overwriting it.
	if _, err := client.Sync(context.Background(), SyncOptions{}); err == nil {
		t.Fatal("expected error for corrupt state file")
	}
	data, err := os.ReadFile(statePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{invalid: [" {
		t.Errorf("corrupt state file was overwritten:\n%s", data)
	}
}

func TestClientCheck(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	setupManagedDir(t, dir)

	client := newTestClient(t, dir, cfgPath)

	result, err := client.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !result.Clean {
		t.Errorf("expected clean check, got %+v", result.Problems)
	}
	if len(result.NeverSynced) != 1 {
		t.Errorf("NeverSynced = %v", result.NeverSynced)
	}

	// A corrupt target file is a problem.
	if err := os.MkdirAll(filepath.Join(dir, ".agent"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".agent", "settings.json"), []byte("{bad"), 0644); err != nil {
		t.Fatal(err)
	}
	result, err = client.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.Clean || len(result.Problems) != 1 {
		t.Errorf("expected one problem, got %+v", result.Problems)
	}
}
