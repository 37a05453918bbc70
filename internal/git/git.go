// Package git detects git repositories and synchronizes a vault with its
// remote.
package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitInfo contains information about a git repository
//
//nolint:revive // GitInfo is intentionally prefixed to avoid overly generic "Info" type
type GitInfo struct {
	IsGitRepo     bool
	TopLevel      string
	GitDir        string
	CurrentBranch string
}

// GetGitInfo retrieves git repository information for the given directory.
// If dir is empty, it uses the current working directory.
// Returns a GitInfo with IsGitRepo=false if the directory is not a git repository.
func GetGitInfo(ctx context.Context, runner CommandRunner, dir string) (*GitInfo, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			//nolint:nilerr // Intentionally return non-repo info instead of error
			return &GitInfo{IsGitRepo: false}, nil
		}
	}
	if runner == nil {
		runner = ExecRunner{}
	}

	topLevel, err := runner.Run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil || strings.TrimSpace(topLevel) == "" {
		//nolint:nilerr // Intentionally return non-repo info instead of error
		return &GitInfo{IsGitRepo: false}, nil
	}

	gitDir, err := runner.Run(ctx, dir, "rev-parse", "--git-dir")
	if err != nil {
		//nolint:nilerr // Intentionally return non-repo info instead of error
		return &GitInfo{IsGitRepo: false}, nil
	}
	gitDir = strings.TrimSpace(gitDir)
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(dir, gitDir)
	}

	// A repository without commits has no HEAD to abbreviate.
	branch, err := runner.Run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		branch = ""
	}

	return &GitInfo{
		IsGitRepo:     true,
		TopLevel:      strings.TrimSpace(topLevel),
		GitDir:        gitDir,
		CurrentBranch: strings.TrimSpace(branch),
	}, nil
}

// CommandRunner executes git with args in dir and returns its combined output.
type CommandRunner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs the git binary found on $PATH.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	return string(output), err
}
