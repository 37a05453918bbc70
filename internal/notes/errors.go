package notes

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatch is matched by every NoMatchError.
	ErrNoMatch = errors.New("no matching note")
	// ErrUnknownNote is returned when a path is not one of the discovered notes.
	ErrUnknownNote = errors.New("not a discovered note")
	// ErrNoEditor is returned by Edit when the Service has no Editor.
	ErrNoEditor = errors.New("no editor configured")
)

// NoMatchError reports a pattern that selected no note.
type NoMatchError struct {
	Pattern string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no note matches %q", e.Pattern)
}

func (e *NoMatchError) Is(target error) bool {
	return target == ErrNoMatch
}

// EditorError reports an editor that could not be started or exited non-zero.
type EditorError struct {
	Path string
	Err  error
}

func (e *EditorError) Error() string {
	return fmt.Sprintf("failed to edit %s: %v", e.Path, e.Err)
}

func (e *EditorError) Unwrap() error {
	return e.Err
}

// SyncError reports a failed synchronization after a successful edit.
type SyncError struct {
	Path string
	Err  error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("edited %s but sync failed: %v", e.Path, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
