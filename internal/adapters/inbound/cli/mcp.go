package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/battleroid/dwms/internal/adapters/inbound/mcp"
	"github.com/battleroid/dwms/internal/adapters/outbound/config"
	"github.com/battleroid/dwms/internal/adapters/outbound/elasticsearch"
)

func newMCPCmd(opts *runOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the dwms MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(opts))
	return cmd
}

func newMCPServeCmd(opts *runOptions) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start dwms MCP server (stdio)",
		Long:  "Start the dwms MCP server using stdio transport. This lets AI assistants run snapshot checks and preview expected snapshot names.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol; logs stay on stderr.
			opts.setupLogging(cmd)
			s := mcpadapter.NewDWMSServer(configPath, version, elasticsearch.NewFactory())
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "Path to the dwms config file")

	return cmd
}
