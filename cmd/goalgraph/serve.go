package main

import (
	"github.com/spf13/cobra"

	"github.com/dusk-indust/goalgraph/internal/mcptools"
)

// mcpStoreFactory backs the graphs built through MCP. Builds with cgo swap
// in Kuzu.
var mcpStoreFactory mcptools.StoreFactory = mcptools.MemStoreFactory

func newServeMCPCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Run the MCP server on stdio, or on streamable HTTP with --http",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.MCP.Addr
			}

			svc := mcptools.NewGraphService(a.cfg, mcpStoreFactory)
			defer svc.Close()

			ctx := cmd.Context()
			if addr == "" {
				a.logger.Debug("serving MCP on stdio")
				return mcptools.RunMCPServerStdio(ctx, svc)
			}
			a.logger.Info("serving MCP over HTTP", "addr", addr)
			return mcptools.RunMCPServer(ctx, svc, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "http", "", "listen address for streamable HTTP, e.g. :8089 (default: configured mcp.addr, else stdio)")
	return cmd
}
