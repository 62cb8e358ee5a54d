package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vibe/internal/adapters/driving/inbox"
	"github.com/custodia-labs/vibe/internal/adapters/driving/mcp"
	"github.com/custodia-labs/vibe/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC. Use --port to
serve over HTTP instead; Prometheus metrics are then available at /metrics.

With --inbox, files moved into the directory are imported as documents into
the server's default workspace.

Examples:
  # Stdio mode (default)
  vibe mcp serve

  # HTTP mode with an inbox
  vibe mcp serve --port 8080 --inbox ~/vibe-inbox`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("inbox", "", "directory to import dropped files from")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	inboxDir, err := cmd.Flags().GetString("inbox")
	if err != nil {
		return fmt.Errorf("getting inbox flag: %w", err)
	}

	ports := &mcp.Ports{
		Sessions: sessions,
		Search:   settings.Search,
	}
	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if inboxDir != "" {
		if err := startInbox(ctx, inboxDir); err != nil {
			return err
		}
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}
	return server.Run(ctx)
}

// startInbox imports files from dir into a new workspace until ctx ends.
func startInbox(ctx context.Context, dir string) error {
	sess, err := sessions.Open(ctx, nil)
	if err != nil {
		return err
	}
	w := inbox.New(dir, sess, settings.InboxRate)
	imports, err := w.Start(ctx)
	if err != nil {
		return err
	}
	logger.Info("Inbox %s imports into workspace %s", dir, sess.ID())

	go func() {
		for imp := range imports {
			if imp.Err == nil {
				logger.Debug("Inbox imported %s", imp.Path)
			}
		}
	}()
	return nil
}
