// Package editor launches the user's text editor on a note.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrNoEditor is returned when no editor could be resolved.
var ErrNoEditor = errors.New("no editor found: set $EDITOR or the editor config key")

// fallbacks are tried in order when nothing is configured.
var fallbacks = []string{"nvim", "vim", "vi", "nano"}

// ExecOpener runs an external editor process.
type ExecOpener struct {
	// Command overrides $VISUAL and $EDITOR. It may contain arguments.
	Command string
	// Dir is the working directory of the editor (empty = current dir).
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	getenv   func(string) string
	lookPath func(string) (string, error)
}

// NewExecOpener creates an opener attached to the process terminal.
func NewExecOpener(command, dir string) *ExecOpener {
	return &ExecOpener{
		Command:  command,
		Dir:      dir,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
	}
}

// Open runs the editor on path and waits for it to exit.
func (o *ExecOpener) Open(ctx context.Context, path string) error {
	cmd, err := o.CommandContext(ctx, path)
	if err != nil {
		return err
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s exited with error: %w", cmd.Path, err)
	}
	return nil
}

// CommandContext returns the editor command for path without running it.
func (o *ExecOpener) CommandContext(ctx context.Context, path string) (*exec.Cmd, error) {
	argv, err := o.Resolve()
	if err != nil {
		return nil, err
	}

	//nolint:gosec // G204: the editor is chosen by the user
	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Dir = o.Dir
	cmd.Stdin = o.Stdin
	cmd.Stdout = o.Stdout
	cmd.Stderr = o.Stderr
	return cmd, nil
}

// Resolve returns the editor argv: the configured command, then $VISUAL,
// then $EDITOR, then the first fallback editor found on $PATH.
func (o *ExecOpener) Resolve() ([]string, error) {
	getenv := o.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	lookPath := o.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	for _, candidate := range []string{o.Command, getenv("VISUAL"), getenv("EDITOR")} {
		if argv := strings.Fields(candidate); len(argv) > 0 {
			return argv, nil
		}
	}

	for _, name := range fallbacks {
		if path, err := lookPath(name); err == nil {
			return []string{path}, nil
		}
	}
	return nil, ErrNoEditor
}
