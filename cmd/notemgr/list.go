package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/notemgr/notemgr/internal/config"
)

func newListCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List markdown notes below the vault directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch format {
			case "plain", "json", "table":
			default:
				return fmt.Errorf("invalid format: %s (valid values: plain, json, table)", format)
			}

			sess, err := root.open(config.Flags{})
			if err != nil {
				return err
			}
			svc, err := sess.service(cmd)
			if err != nil {
				return err
			}

			files, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return outputJSON(cmd, statNotes(sess.root, files))
			case "table":
				outputTable(cmd, statNotes(sess.root, files))
				return nil
			default:
				out := cmd.OutOrStdout()
				for _, f := range files {
					fmt.Fprintln(out, f)
				}
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "plain", "Output format: plain, json or table")

	return cmd
}

// noteEntry is a discovered note with the file metadata shown by list.
type noteEntry struct {
	Path     string
	Size     int64
	Modified time.Time
}

// statNotes looks up size and modification time. Notes that vanished since
// discovery keep zero values.
func statNotes(root string, files []string) []noteEntry {
	entries := make([]noteEntry, 0, len(files))
	for _, f := range files {
		entry := noteEntry{Path: f}
		if info, err := os.Stat(filepath.Join(root, f)); err == nil {
			entry.Size = info.Size()
			entry.Modified = info.ModTime()
		}
		entries = append(entries, entry)
	}
	return entries
}

type listOutputEntry struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Modified string `json:"modified,omitempty"`
}

func outputJSON(cmd *cobra.Command, entries []noteEntry) error {
	output := make([]listOutputEntry, 0, len(entries))

	for _, entry := range entries {
		item := listOutputEntry{
			Path: filepath.ToSlash(entry.Path),
			Size: entry.Size,
		}
		if !entry.Modified.IsZero() {
			item.Modified = entry.Modified.Format(time.RFC3339)
		}
		output = append(output, item)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func getTerminalWidth(w io.Writer) int {
	// Try to get terminal width from the output stream
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	// Default width if terminal size cannot be determined
	return 80
}

// wrapString wraps a string to fit within maxWidth, accounting for multi-byte characters
func wrapString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return s
	}

	s = strings.TrimSpace(s)
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}

	var result strings.Builder
	var currentLine strings.Builder
	currentWidth := 0

	for _, r := range s {
		charWidth := runewidth.RuneWidth(r)

		if currentWidth+charWidth > maxWidth && currentWidth > 0 {
			result.WriteString(currentLine.String())
			result.WriteString("\n")
			currentLine.Reset()
			currentWidth = 0
		}

		currentLine.WriteRune(r)
		currentWidth += charWidth
	}

	if currentLine.Len() > 0 {
		result.WriteString(currentLine.String())
	}

	return result.String()
}

// columnWidths holds the calculated widths for each column
type columnWidths struct {
	path         int
	size         int
	modified     int
	useShortDate bool
}

// calculateColumnWidths gives the path column whatever the size and date
// columns leave, switching to a short date when the path would get too
// narrow.
func calculateColumnWidths(termWidth int, entries []noteEntry) columnWidths {
	const numColumns = 3

	// Reserve space for table borders and padding (roughly 3 chars per column)
	availableWidth := termWidth - numColumns*3

	sizeWidth := len("Size")
	for _, entry := range entries {
		if n := len(fmt.Sprint(entry.Size)); n > sizeWidth {
			sizeWidth = n
		}
	}

	maxPathWidth := len("Path")
	for _, entry := range entries {
		if n := runewidth.StringWidth(entry.Path); n > maxPathWidth {
			maxPathWidth = n
		}
	}

	modifiedWidth := 19 // "2006-01-02 15:04:05"
	useShortDate := false
	pathWidth := availableWidth - sizeWidth - modifiedWidth
	if pathWidth < maxPathWidth && pathWidth < 30 {
		modifiedWidth = 11 // "01-02 15:04"
		useShortDate = true
		pathWidth = availableWidth - sizeWidth - modifiedWidth
	}

	if pathWidth > maxPathWidth {
		pathWidth = maxPathWidth
	}
	if pathWidth < 15 {
		pathWidth = 15
	}

	return columnWidths{
		path:         pathWidth,
		size:         sizeWidth,
		modified:     modifiedWidth,
		useShortDate: useShortDate,
	}
}

func outputTable(cmd *cobra.Command, entries []noteEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	widths := calculateColumnWidths(getTerminalWidth(cmd.OutOrStdout()), entries)

	// Paths are wrapped by hand because go-pretty's WidthMax miscounts
	// multi-byte characters.
	t.AppendHeader(table.Row{"Path", "Size", "Modified"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	for _, entry := range entries {
		modified := ""
		if !entry.Modified.IsZero() {
			if widths.useShortDate {
				modified = entry.Modified.Format("01-02 15:04")
			} else {
				modified = entry.Modified.Format("2006-01-02 15:04:05")
			}
		}

		t.AppendRow(table.Row{
			wrapString(entry.Path, widths.path),
			entry.Size,
			modified,
		})
	}

	t.Render()
}
