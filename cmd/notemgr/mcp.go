package main

import (
	"github.com/spf13/cobra"

	"github.com/notemgr/notemgr/internal/config"
	"github.com/notemgr/notemgr/internal/mcp"
)

func newMCPCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start a read-only Model Context Protocol server over stdio for the vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := root.open(config.Flags{NoSync: true})
			if err != nil {
				return err
			}
			svc, err := sess.service(cmd)
			if err != nil {
				return err
			}

			return mcp.NewServer(svc, sess.root, version).Run(cmd.Context())
		},
	}

	return cmd
}
