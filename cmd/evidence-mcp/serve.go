// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gemaraproj/evidence-mcp/internal/tool"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			tools, err := tool.New(a.cfg, a.year, a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("serving MCP over stdio", zap.String("version", version))
			err = tool.Serve(ctx, tool.NewServer(tools, version))
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
}
