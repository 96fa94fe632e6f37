package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/entrhq/memos-mcp/pkg/config"
)

// loadConfig resolves the configuration with flags taking precedence over the
// environment, the config file and defaults. Configuration problems are
// reported with the config exit code.
func loadConfig(cmd *cobra.Command, validate bool) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, exitError(exitConfig, "%v", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, exitError(exitConfig, "%v", err)
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			var cfgErr *config.Error
			if errors.As(err, &cfgErr) {
				return nil, exitError(exitConfig, "invalid configuration: %s", cfgErr.Message)
			}
			return nil, exitError(exitConfig, "invalid configuration: %v", err)
		}
	}
	return cfg, nil
}

// applyFlags overlays explicitly set flags onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("url") {
		cfg.Memos.URL, _ = flags.GetString("url")
	}
	if flags.Changed("api-key") {
		cfg.Memos.APIKey, _ = flags.GetString("api-key")
	}
	if flags.Changed("timeout") {
		timeout, err := flags.GetInt("timeout")
		if err != nil {
			return err
		}
		cfg.Memos.TimeoutMS = timeout
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		cfg.Logging.File, _ = flags.GetString("log-file")
	}
	if flags.Changed("tools") {
		cfg.Tools.Allow, _ = flags.GetStringSlice("tools")
	}
	if flags.Changed("otlp-endpoint") {
		cfg.Tracing.OTLPEndpoint, _ = flags.GetString("otlp-endpoint")
	}
	return nil
}
