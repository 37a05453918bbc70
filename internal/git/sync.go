package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the git directory while a sync runs.
const LockFileName = "notemgr-sync.lock"

var (
	// ErrNotRepository is returned when the vault is not inside a git work tree.
	ErrNotRepository = errors.New("not a git repository")
	// ErrSyncInProgress is returned when another process holds the sync lock.
	ErrSyncInProgress = errors.New("another sync is in progress")
)

// Step names a stage of the sync sequence.
type Step string

const (
	StepAdd    Step = "add"
	StepDiff   Step = "diff"
	StepCommit Step = "commit"
	StepPush   Step = "push"
)

// StepError reports a failed git step together with what git printed.
type StepError struct {
	Step   Step
	Output string
	Err    error
}

func (e *StepError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("git %s failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("git %s failed: %v: %s", e.Step, e.Err, out)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// SyncReport describes what a sync did.
type SyncReport struct {
	Message   string
	Clean     bool
	Committed bool
	Pushed    bool
}

// Syncer stages, commits and pushes every change under Dir.
type Syncer struct {
	Dir    string
	Push   bool
	Runner CommandRunner
	Logger *slog.Logger
}

// NewSyncer creates a Syncer that shells out to git.
func NewSyncer(dir string, push bool, logger *slog.Logger) *Syncer {
	return &Syncer{
		Dir:    dir,
		Push:   push,
		Runner: ExecRunner{},
		Logger: logger,
	}
}

// Sync runs "git add .", then "git commit -m message" and "git push". The
// sequence stops at the first failing step. When nothing is staged the
// commit is skipped and the report is marked Clean. Push still runs so
// commits left behind by an earlier failed push are published.
func (s *Syncer) Sync(ctx context.Context, message string) (*SyncReport, error) {
	runner := s.runner()
	logger := s.logger()

	info, err := GetGitInfo(ctx, runner, s.Dir)
	if err != nil {
		return nil, err
	}
	if !info.IsGitRepo {
		return nil, fmt.Errorf("%s: %w", s.Dir, ErrNotRepository)
	}

	lock := flock.New(filepath.Join(info.GitDir, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	if !locked {
		return nil, ErrSyncInProgress
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release sync lock", "path", lock.Path(), "error", err)
		}
	}()

	report := &SyncReport{Message: message}

	if _, err := s.step(ctx, StepAdd, "add", "."); err != nil {
		return report, err
	}

	staged, err := s.hasStagedChanges(ctx)
	if err != nil {
		return report, err
	}
	if staged {
		if _, err := s.step(ctx, StepCommit, "commit", "-m", message); err != nil {
			return report, err
		}
		report.Committed = true
	} else {
		logger.Debug("nothing to commit", "dir", s.Dir)
		report.Clean = true
	}

	if !s.Push {
		logger.Debug("push disabled", "dir", s.Dir)
		return report, nil
	}
	if _, err := s.step(ctx, StepPush, "push"); err != nil {
		return report, err
	}
	report.Pushed = true

	return report, nil
}

// hasStagedChanges asks "git diff --cached --quiet", which exits 1 when the
// index differs from HEAD. Only the index is consulted, so unstaged changes
// outside Dir do not count.
func (s *Syncer) hasStagedChanges(ctx context.Context) (bool, error) {
	_, err := s.step(ctx, StepDiff, "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	var exit exitCoder
	if errors.As(err, &exit) && exit.ExitCode() == 1 {
		return true, nil
	}
	return false, err
}

// exitCoder is implemented by *exec.ExitError.
type exitCoder interface {
	ExitCode() int
}

func (s *Syncer) step(ctx context.Context, step Step, args ...string) (string, error) {
	s.logger().Debug("running git", "step", step, "args", args)
	output, err := s.runner().Run(ctx, s.Dir, args...)
	if err != nil {
		return output, &StepError{Step: step, Output: output, Err: err}
	}
	return output, nil
}

func (s *Syncer) runner() CommandRunner {
	if s.Runner == nil {
		return ExecRunner{}
	}
	return s.Runner
}

func (s *Syncer) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
