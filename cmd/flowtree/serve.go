package main

import (
	"os/signal"
	"syscall"

	"github.com/rendis/flowtree/pkg/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Exposes the converter over the Model Context Protocol: flowtree.convert,
flowtree.validate, and flowtree.query become tools on a stdio transport.
Logs go to stderr; stdout carries the protocol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := newLogger(cfg)

		srv, err := mcp.NewFlowtreeServer(mcp.FlowtreeServerDeps{Logger: logger})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("mcp server listening on stdio")
		if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		logger.Info("mcp server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
