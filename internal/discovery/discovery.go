// Package discovery walks a vault directory and collects the note files in it.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// NoteSuffix is the literal suffix that makes a file a note.
const NoteSuffix = ".md"

// ErrDirectoryUnreadable is matched by errors returned when the vault root
// cannot be opened.
var ErrDirectoryUnreadable = errors.New("directory unreadable")

// DirectoryUnreadableError reports a root directory that could not be read.
type DirectoryUnreadableError struct {
	Path string
	Err  error
}

func (e *DirectoryUnreadableError) Error() string {
	return fmt.Sprintf("could not read directory %q: %v", e.Path, e.Err)
}

func (e *DirectoryUnreadableError) Unwrap() error {
	return e.Err
}

func (e *DirectoryUnreadableError) Is(target error) bool {
	return target == ErrDirectoryUnreadable
}

// Options configures which entries a Discoverer keeps.
type Options struct {
	// IsNote reports whether a file name is a note. Defaults to IsNoteFile.
	IsNote func(name string) bool
	// SkipDir reports whether a directory must not be descended into.
	// Defaults to SkipDirs() (hidden directories only).
	SkipDir func(name string) bool
	// Logger receives debug records for skipped entries.
	Logger *slog.Logger
}

// Result holds the outcome of a walk.
type Result struct {
	// Files are root-relative note paths in traversal order.
	Files []string
	// Skipped holds the entries below the root that could not be read.
	Skipped []error
}

// Discoverer finds note files in a filesystem tree.
type Discoverer struct {
	fsys    fs.FS
	root    string
	isNote  func(string) bool
	skipDir func(string) bool
	logger  *slog.Logger
}

// New creates a Discoverer over fsys. root is only used for messages.
func New(fsys fs.FS, root string, opts Options) *Discoverer {
	d := &Discoverer{
		fsys:    fsys,
		root:    root,
		isNote:  opts.IsNote,
		skipDir: opts.SkipDir,
		logger:  opts.Logger,
	}
	if d.isNote == nil {
		d.isNote = IsNoteFile
	}
	if d.skipDir == nil {
		d.skipDir = SkipDirs()
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	return d
}

// Discover walks the directory tree rooted at root on disk.
func Discover(root string, opts Options) (*Result, error) {
	return New(os.DirFS(root), root, opts).Discover()
}

// IsNoteFile reports whether name ends with NoteSuffix.
func IsNoteFile(name string) bool {
	return strings.HasSuffix(name, NoteSuffix)
}

// SkipDirs returns a predicate that skips hidden directories (".git",
// ".obsidian", ...) and any directory whose name is listed.
func SkipDirs(names ...string) func(string) bool {
	excluded := make(map[string]bool, len(names))
	for _, n := range names {
		excluded[n] = true
	}
	return func(name string) bool {
		return strings.HasPrefix(name, ".") || excluded[name]
	}
}

// pending is a directory entry waiting on the work-list.
type pending struct {
	path  string
	entry fs.DirEntry
}

// Discover walks the tree depth-first with an explicit stack. Only a failure
// to read the root is returned as an error; failures below it are collected
// in Result.Skipped.
func (d *Discoverer) Discover() (*Result, error) {
	info, err := fs.Stat(d.fsys, ".")
	if err != nil {
		return nil, &DirectoryUnreadableError{Path: d.root, Err: err}
	}
	if !info.IsDir() {
		return nil, &DirectoryUnreadableError{Path: d.root, Err: errors.New("not a directory")}
	}

	entries, err := fs.ReadDir(d.fsys, ".")
	if err != nil {
		return nil, &DirectoryUnreadableError{Path: d.root, Err: err}
	}

	result := &Result{Files: make([]string, 0)}
	var stack []pending
	stack = pushChildren(stack, ".", entries)

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		name := item.entry.Name()

		switch mode := item.entry.Type(); {
		case mode.IsDir():
			if d.skipDir(name) {
				d.logger.Debug("skipping directory", "path", item.path)
				continue
			}
			children, err := fs.ReadDir(d.fsys, item.path)
			if err != nil {
				d.skip(result, item.path, err)
				// ReadDir may return the entries it read before failing.
			}
			stack = pushChildren(stack, item.path, children)
		case mode.IsRegular():
			if d.isNote(name) {
				result.Files = append(result.Files, filepath.FromSlash(item.path))
			}
		case mode&fs.ModeSymlink != 0:
			if !d.isNote(name) {
				continue
			}
			target, err := fs.Stat(d.fsys, item.path)
			if err != nil {
				d.skip(result, item.path, err)
				continue
			}
			// Symlinked directories are never followed.
			if target.Mode().IsRegular() {
				result.Files = append(result.Files, filepath.FromSlash(item.path))
			}
		default:
			d.logger.Debug("skipping irregular entry", "path", item.path, "mode", mode.String())
		}
	}

	return result, nil
}

func (d *Discoverer) skip(result *Result, p string, err error) {
	d.logger.Debug("skipping unreadable entry", "path", p, "error", err)
	result.Skipped = append(result.Skipped, fmt.Errorf("skipped %s: %w", p, err))
}

// pushChildren pushes entries in reverse so they pop in enumeration order.
func pushChildren(stack []pending, dir string, entries []fs.DirEntry) []pending {
	for i := len(entries) - 1; i >= 0; i-- {
		stack = append(stack, pending{
			path:  path.Join(dir, entries[i].Name()),
			entry: entries[i],
		})
	}
	return stack
}
