package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/notemgr/notemgr/internal/config"
	"github.com/notemgr/notemgr/internal/console"
	"github.com/notemgr/notemgr/internal/discovery"
	"github.com/notemgr/notemgr/internal/editor"
	"github.com/notemgr/notemgr/internal/git"
	"github.com/notemgr/notemgr/internal/notes"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	dir        string
	configPath string
	verbose    bool
}

// NewRootCommand builds the notemgr command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "notemgr",
		Short: "notemgr - find, edit and sync the markdown notes of a git vault",
		Long: "notemgr finds markdown notes below the current directory, opens the one\n" +
			"matching a fuzzy pattern in your editor and commits and pushes the vault\n" +
			"afterwards.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := console.NewLogger(cmd.ErrOrStderr(), opts.verbose)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(console.WithLogger(ctx, logger))
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", "", "Vault directory (default: current directory)")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/notemgr/config.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Print debug logs to stderr")

	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newEditCmd(opts))
	cmd.AddCommand(newInfoCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// session is the per-invocation state every command starts from.
type session struct {
	root string
	cfg  *config.Config
}

// resolveRoot returns the absolute vault directory.
func (o *rootOptions) resolveRoot() (string, error) {
	dir := o.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	return root, nil
}

func (o *rootOptions) open(flags config.Flags) (*session, error) {
	root, err := o.resolveRoot()
	if err != nil {
		return nil, err
	}

	flags.ConfigPath = o.configPath
	cfg, err := config.Load(root, flags)
	if err != nil {
		return nil, err
	}
	return &session{root: root, cfg: cfg}, nil
}

// service wires the notes service for cmd. The editor is attached to the
// command's streams and the syncer is only set when syncing is enabled.
func (s *session) service(cmd *cobra.Command) (*notes.Service, error) {
	selector, err := s.cfg.Selector()
	if err != nil {
		return nil, err
	}
	logger := console.LoggerFromContext(cmd.Context())

	opener := editor.NewExecOpener(s.cfg.Editor, s.root)
	opener.Stdin = cmd.InOrStdin()
	opener.Stdout = cmd.OutOrStdout()
	opener.Stderr = cmd.ErrOrStderr()
	status := console.NewPrinter(cmd.ErrOrStderr())

	opts := notes.Options{
		Root: s.root,
		Discovery: discovery.Options{
			SkipDir: discovery.SkipDirs(s.cfg.ExcludeDirs...),
			Logger:  logger,
		},
		Selector:      selector,
		Editor:        &announcingEditor{next: opener, status: status},
		CommitMessage: s.cfg.CommitMessage,
		Logger:        logger,
	}
	if s.cfg.Sync {
		opts.Syncer = &announcingSyncer{next: git.NewSyncer(s.root, s.cfg.Push, logger), status: status}
	}
	return notes.NewService(opts), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the notemgr version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "notemgr %s\n", version)
		},
	}
}
