// Package console writes user-facing status lines and sets up the debug
// logger.
//
// Status lines are prefixed and colored when the destination is a terminal.
// Color is disabled for any other writer and whenever NO_COLOR is set.
package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Printer writes status messages.
type Printer struct {
	w     io.Writer
	info  *color.Color
	warn  *color.Color
	err   *color.Color
	plain bool
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	p := &Printer{
		w:    w,
		info: color.New(color.FgCyan),
		warn: color.New(color.FgYellow),
		err:  color.New(color.FgRed, color.Bold),
	}
	if !isTerminal(w) {
		p.plain = true
		p.info.DisableColor()
		p.warn.DisableColor()
		p.err.DisableColor()
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Infof prints a progress message.
func (p *Printer) Infof(format string, args ...any) {
	p.line(p.info, "==>", format, args...)
}

// Warnf prints a warning.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(p.warn, "warning:", format, args...)
}

// Errorf prints an error.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(p.err, "Error:", format, args...)
}

func (p *Printer) line(c *color.Color, prefix, format string, args ...any) {
	if p == nil || p.w == nil {
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", c.Sprint(prefix), fmt.Sprintf(format, args...))
}

// NewLogger returns a text slog.Logger on w. Only warnings and errors are
// emitted unless verbose is set.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

type contextKey string

const loggerKey contextKey = "logger"

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts a logger from context if available, otherwise
// returns the default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
