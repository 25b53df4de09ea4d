package main

import (
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"creativecheck/internal/tool"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the check_creative tool over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			server := mcp.NewServer(&mcp.Implementation{Name: "creativecheck", Version: version}, nil)
			tool.Register(server, a.batch)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
