package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// gitRun runs git in dir, skipping the test when git is unavailable.
func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("Skipping test: git %v failed: %v: %s", args, err, out)
	}
}

// initRepo creates a repository with one commit.
func initRepo(t *testing.T, dir string) {
	t.Helper()
	gitRun(t, dir, "init")
	gitRun(t, dir, "config", "user.email", "test@example.com")
	gitRun(t, dir, "config", "user.name", "Test User")
	gitRun(t, dir, "config", "commit.gpgsign", "false")

	if err := os.WriteFile(filepath.Join(dir, "index.md"), []byte("# index\n"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	gitRun(t, dir, "add", "index.md")
	gitRun(t, dir, "commit", "-m", "Initial commit")
}

func TestGetGitInfo_NotGitRepo(t *testing.T) {
	tmpDir := t.TempDir()

	info, err := GetGitInfo(context.Background(), nil, tmpDir)
	if err != nil {
		t.Fatalf("GetGitInfo returned error: %v", err)
	}

	if info.IsGitRepo {
		t.Error("Expected IsGitRepo to be false for non-git directory")
	}
}

func TestGetGitInfo_GitRepo(t *testing.T) {
	tmpDir := t.TempDir()
	initRepo(t, tmpDir)

	sub := filepath.Join(tmpDir, "journal")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}

	info, err := GetGitInfo(context.Background(), nil, sub)
	if err != nil {
		t.Fatalf("GetGitInfo returned error: %v", err)
	}

	if !info.IsGitRepo {
		t.Fatal("Expected IsGitRepo to be true for git repository")
	}
	if info.CurrentBranch == "" {
		t.Error("Expected CurrentBranch to be set")
	}
	if !filepath.IsAbs(info.GitDir) {
		t.Errorf("Expected absolute GitDir, got %q", info.GitDir)
	}
	if _, err := os.Stat(info.GitDir); err != nil {
		t.Errorf("Expected GitDir %q to exist: %v", info.GitDir, err)
	}
}
