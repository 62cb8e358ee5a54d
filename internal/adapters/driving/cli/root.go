// Package cli implements the vibe command line: an interactive shell over
// a workspace, the MCP server and configuration commands.
package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vibe/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vibe/internal/adapters/driven/storage/local"
	"github.com/custodia-labs/vibe/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vibe/internal/core/commands"
	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/ports/driven"
	"github.com/custodia-labs/vibe/internal/core/services"
	"github.com/custodia-labs/vibe/internal/core/session"
	"github.com/custodia-labs/vibe/internal/logger"
)

// Build information, set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

var (
	configDir string
	verbose   bool
)

// Wired by setup before any subcommand runs.
var (
	configStore driven.ConfigStore
	settings    domain.Settings
	sessions    *session.Manager
)

var rootCmd = &cobra.Command{
	Use:   "vibe",
	Short: "Reversible document workspace with search",
	Long: `vibe keeps documents, annotations and citations in a workspace where
every change can be undone and redone, and searches across them.

Run "vibe shell" for an interactive workspace or "vibe mcp serve" to expose
workspaces to an AI assistant.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.vibe)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup loads configuration and wires the services.
func setup(_ *cobra.Command, _ []string) error {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	configStore = store
	settings = file.LoadSettings(store)

	logger.SetVerbose(verbose || settings.Verbose)
	logger.Section("Configuration")
	logger.Debug("Config file: %s", store.Path())

	uploadDir := resolveDir(settings.UploadDir, filepath.Dir(store.Path()))
	logger.Debug("Upload dir: %s", uploadDir)

	sessions = session.NewManager(commands.Deps{
		Dialogue:  services.NewDialogueService(memory.NewWorkspaceStore()),
		Documents: services.NewDocumentService(local.NewFileStore(uploadDir)),
		Search:    services.NewSearchService(),
	})
	return nil
}

// resolveDir makes a relative directory relative to base.
func resolveDir(dir, base string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}
