// Package notes lists, finds and edits the markdown notes of a vault.
package notes

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_editor.go -package=mocks github.com/notemgr/notemgr/internal/notes Editor
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_syncer.go -package=mocks github.com/notemgr/notemgr/internal/notes Syncer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/notemgr/notemgr/internal/discovery"
	"github.com/notemgr/notemgr/internal/git"
	"github.com/notemgr/notemgr/internal/match"
)

// Editor opens a note for interactive editing and blocks until it is closed.
type Editor interface {
	Open(ctx context.Context, path string) error
}

// Syncer records and publishes the changes made to a vault.
type Syncer interface {
	Sync(ctx context.Context, message string) (*git.SyncReport, error)
}

// Outcome tells how an edit request ended.
type Outcome int

const (
	// OutcomeEdited means the note was edited and the vault synced.
	OutcomeEdited Outcome = iota
	// OutcomeEditedNotSynced means the note was edited and sync is disabled.
	OutcomeEditedNotSynced
	// OutcomeAmbiguous means several notes matched and none was opened.
	OutcomeAmbiguous
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEdited:
		return "edited"
	case OutcomeEditedNotSynced:
		return "edited-not-synced"
	case OutcomeAmbiguous:
		return "ambiguous"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// EditResult describes a finished edit request.
type EditResult struct {
	Outcome Outcome
	// Path is the edited note. Empty when ambiguous.
	Path string
	// Candidates holds every match in discovery order when ambiguous.
	Candidates []string
	// Sync is the report of the sync that followed the edit, if any.
	Sync *git.SyncReport
}

// Options configures a Service.
type Options struct {
	// Root is the vault directory.
	Root string
	// FS is walked instead of os.DirFS(Root) when set.
	FS        fs.FS
	Discovery discovery.Options
	Selector  match.Selector
	// Editor is required by Edit. List, Find and Read work without it.
	Editor Editor
	// Syncer runs after every successful edit. Nil disables syncing.
	Syncer Syncer
	// CommitMessage builds the commit message from the edit time.
	CommitMessage func(time.Time) string
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Service implements the note commands on top of discovery, matching,
// the editor and the sync step.
type Service struct {
	root          string
	fsys          fs.FS
	discovery     discovery.Options
	selector      match.Selector
	editor        Editor
	syncer        Syncer
	commitMessage func(time.Time) string
	now           func() time.Time
	logger        *slog.Logger
}

// NewService creates a Service from opts.
func NewService(opts Options) *Service {
	s := &Service{
		root:          opts.Root,
		fsys:          opts.FS,
		discovery:     opts.Discovery,
		selector:      opts.Selector,
		editor:        opts.Editor,
		syncer:        opts.Syncer,
		commitMessage: opts.CommitMessage,
		now:           opts.Now,
		logger:        opts.Logger,
	}
	if s.fsys == nil {
		s.fsys = os.DirFS(s.root)
	}
	if s.commitMessage == nil {
		s.commitMessage = func(t time.Time) string {
			return "update " + t.Format("02-01-06 15:04")
		}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.discovery.Logger == nil {
		s.discovery.Logger = s.logger
	}
	return s
}

// Root returns the vault directory.
func (s *Service) Root() string {
	return s.root
}

// List returns every note below the root in discovery order.
func (s *Service) List(ctx context.Context) ([]string, error) {
	result, err := s.discover(ctx)
	if err != nil {
		return nil, err
	}
	return result.Files, nil
}

// Find returns the notes matching pattern in discovery order.
func (s *Service) Find(ctx context.Context, pattern string) ([]string, error) {
	files, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.selector.Select(files, pattern), nil
}

// Edit opens the single note matching pattern and syncs the vault
// afterwards. No match is an error. Several matches are returned as
// OutcomeAmbiguous without opening anything.
func (s *Service) Edit(ctx context.Context, pattern string) (*EditResult, error) {
	matches, err := s.Find(ctx, pattern)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, &NoMatchError{Pattern: pattern}
	case 1:
	default:
		s.logger.DebugContext(ctx, "pattern is ambiguous", "pattern", pattern, "matches", len(matches))
		return &EditResult{Outcome: OutcomeAmbiguous, Candidates: matches}, nil
	}

	path := matches[0]
	if s.editor == nil {
		return nil, &EditorError{Path: path, Err: ErrNoEditor}
	}
	s.logger.DebugContext(ctx, "opening note", "path", path)
	if err := s.editor.Open(ctx, path); err != nil {
		return nil, &EditorError{Path: path, Err: err}
	}

	if s.syncer == nil {
		return &EditResult{Outcome: OutcomeEditedNotSynced, Path: path}, nil
	}

	message := s.commitMessage(s.now())
	report, err := s.syncer.Sync(ctx, message)
	if err != nil {
		return nil, &SyncError{Path: path, Err: err}
	}

	return &EditResult{Outcome: OutcomeEdited, Path: path, Sync: report}, nil
}

// Read returns the content of a discovered note. Paths that discovery did
// not produce are refused with ErrUnknownNote.
func (s *Service) Read(ctx context.Context, path string) (string, error) {
	files, err := s.List(ctx)
	if err != nil {
		return "", err
	}

	clean := filepath.Clean(filepath.FromSlash(path))
	if !slices.Contains(files, clean) {
		return "", fmt.Errorf("%s: %w", path, ErrUnknownNote)
	}

	content, err := fs.ReadFile(s.fsys, filepath.ToSlash(clean))
	if err != nil {
		return "", fmt.Errorf("failed to read note: %w", err)
	}
	return string(content), nil
}

func (s *Service) discover(ctx context.Context) (*discovery.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := discovery.New(s.fsys, s.root, s.discovery).Discover()
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "discovered notes", "root", s.root, "notes", len(result.Files), "skipped", len(result.Skipped))
	return result, nil
}
