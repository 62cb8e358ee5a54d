package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vibe/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vibe/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		for _, kv := range settingValues(settings) {
			fmt.Fprintf(out, "%s = %v\n", kv.key, kv.value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write it to the config file.

Keys:
  storage.upload_dir   directory for attached files (relative to the config dir)
  search.provider      default search provider: LOCAL, SEMANTIC, HYBRID, EXTERNAL
  search.max_results   default result limit
  log.verbose          enable debug logging (true/false)
  inbox.rate           maximum inbox imports per second`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := parseSetting(args[0], args[1])
		if err != nil {
			return err
		}
		if err := configStore.Set(args[0], value); err != nil {
			return fmt.Errorf("saving %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", args[0], value)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), configStore.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

type settingValue struct {
	key   string
	value any
}

func settingValues(s domain.Settings) []settingValue {
	return []settingValue{
		{file.KeyUploadDir, s.UploadDir},
		{file.KeySearchProvider, s.Search.Provider},
		{file.KeySearchMaxResults, s.Search.MaxResults},
		{file.KeyLogVerbose, s.Verbose},
		{file.KeyInboxRate, s.InboxRate},
	}
}

// parseSetting converts a command-line value to the type stored for key.
func parseSetting(key, raw string) (any, error) {
	switch key {
	case file.KeyUploadDir:
		if strings.TrimSpace(raw) == "" {
			return nil, fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, key)
		}
		return raw, nil
	case file.KeySearchProvider:
		p, err := domain.ParseSearchProvider(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return string(p), nil
	case file.KeySearchMaxResults:
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		return n, nil
	case file.KeyLogVerbose:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return b, nil
	case file.KeyInboxRate:
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}
}
