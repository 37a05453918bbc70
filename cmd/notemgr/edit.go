package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notemgr/notemgr/internal/config"
	"github.com/notemgr/notemgr/internal/console"
	"github.com/notemgr/notemgr/internal/git"
	"github.com/notemgr/notemgr/internal/notes"
)

func newEditCmd(root *rootOptions) *cobra.Command {
	var (
		noSync    bool
		noPush    bool
		editorCmd string
	)

	cmd := &cobra.Command{
		Use:   "edit <pattern>",
		Short: "Edit the note matching pattern and sync the vault",
		Long: "Edit fuzzily selects exactly one note whose path contains the characters\n" +
			"of pattern in order, opens it in your editor and then runs git add,\n" +
			"git commit and git push in the vault. When several notes match they are\n" +
			"printed and nothing is edited.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := args[0]

			sess, err := root.open(config.Flags{
				Editor: editorCmd,
				NoSync: noSync,
				NoPush: noPush,
			})
			if err != nil {
				return err
			}
			svc, err := sess.service(cmd)
			if err != nil {
				return err
			}

			status := console.NewPrinter(cmd.ErrOrStderr())
			result, err := svc.Edit(cmd.Context(), pattern)
			if err != nil {
				return err
			}

			switch result.Outcome {
			case notes.OutcomeAmbiguous:
				status.Warnf("%d notes match %q, narrow the pattern:", len(result.Candidates), pattern)
				for _, c := range result.Candidates {
					fmt.Fprintln(cmd.OutOrStdout(), c)
				}
			case notes.OutcomeEditedNotSynced:
				status.Infof("Edited %s (sync disabled)", result.Path)
			case notes.OutcomeEdited:
				switch report := result.Sync; {
				case report == nil:
					status.Infof("Edited %s", result.Path)
				case report.Clean && report.Pushed:
					status.Infof("Edited %s, nothing to commit, pushed", result.Path)
				case report.Clean:
					status.Infof("Edited %s, nothing to commit", result.Path)
				case report.Pushed:
					status.Infof("Edited %s, committed and pushed %q", result.Path, report.Message)
				default:
					status.Infof("Edited %s, committed %q", result.Path, report.Message)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSync, "no-sync", false, "Do not commit or push after editing")
	cmd.Flags().BoolVar(&noPush, "no-push", false, "Commit after editing but do not push")
	cmd.Flags().StringVarP(&editorCmd, "editor", "e", "", "Editor command (overrides $VISUAL and $EDITOR)")

	return cmd
}

// announcingEditor prints which note is opening before the editor takes
// over the terminal.
type announcingEditor struct {
	next   notes.Editor
	status *console.Printer
}

func (e *announcingEditor) Open(ctx context.Context, path string) error {
	e.status.Infof("Editing %s", path)
	return e.next.Open(ctx, path)
}

// announcingSyncer prints the commit message before git runs.
type announcingSyncer struct {
	next   notes.Syncer
	status *console.Printer
}

func (s *announcingSyncer) Sync(ctx context.Context, message string) (*git.SyncReport, error) {
	s.status.Infof("Syncing %q", message)
	return s.next.Sync(ctx, message)
}
