package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notemgr/notemgr/internal/config"
	"github.com/notemgr/notemgr/internal/git"
)

func newInfoCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the vault directory, its git repository and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			gitInfo, err := git.GetGitInfo(cmd.Context(), nil, sess.root)
			if err != nil {
				return err
			}

			configPath := root.configPath
			if configPath == "" {
				configPath = config.GetConfigPath()
			}

			output := infoOutput{
				Root:       sess.root,
				Notes:      len(files),
				ConfigPath: configPath,
				IsGitRepo:  gitInfo.IsGitRepo,
				TopLevel:   gitInfo.TopLevel,
				Branch:     gitInfo.CurrentBranch,
				Matcher:    sess.cfg.Matcher,
				MatchOn:    sess.cfg.MatchOn,
				Sync:       sess.cfg.Sync,
				Push:       sess.cfg.Push,
			}

			switch format {
			case "json":
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(output)
			case "table":
				outputInfoTable(cmd, output)
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

type infoOutput struct {
	Root       string `json:"root"`
	Notes      int    `json:"notes"`
	ConfigPath string `json:"configPath"`
	IsGitRepo  bool   `json:"isGitRepo"`
	TopLevel   string `json:"topLevel,omitempty"`
	Branch     string `json:"branch,omitempty"`
	Matcher    string `json:"matcher"`
	MatchOn    string `json:"matchOn"`
	Sync       bool   `json:"sync"`
	Push       bool   `json:"push"`
}

func outputInfoTable(cmd *cobra.Command, info infoOutput) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Root:        %s\n", info.Root)
	fmt.Fprintf(out, "Notes:       %d\n", info.Notes)
	fmt.Fprintf(out, "Config:      %s\n", info.ConfigPath)
	if info.IsGitRepo {
		fmt.Fprintf(out, "Repository:  %s\n", info.TopLevel)
		fmt.Fprintf(out, "Branch:      %s\n", info.Branch)
	} else {
		fmt.Fprintf(out, "Repository:  (none)\n")
	}
	fmt.Fprintf(out, "Matcher:     %s on %s\n", info.Matcher, info.MatchOn)
	fmt.Fprintf(out, "Sync:        %t\n", info.Sync)
	fmt.Fprintf(out, "Push:        %t\n", info.Push)
}
