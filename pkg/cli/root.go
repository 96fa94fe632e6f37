// Package cli implements the memos-mcp command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the memos-mcp command tree. Running the root command
// without a subcommand serves MCP over stdio.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "memos-mcp",
		Short: "Expose a Memos instance as MCP tools",
		Long: "memos-mcp serves the Model Context Protocol over stdio and forwards tool\n" +
			"calls to the Memos /api/v1 HTTP API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, version)
		},
	}

	addConfigFlags(root)

	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("memos-mcp version %s\n", version))

	root.AddCommand(newServeCmd(version))
	root.AddCommand(newCheckCmd())
	root.AddCommand(newToolsCmd())
	return root
}

func addConfigFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file")
	flags.String("url", "", "Memos base URL (overrides MEMOS_URL)")
	flags.String("api-key", "", "Memos API key (overrides MEMOS_API_KEY)")
	flags.Int("timeout", 0, "Request timeout in milliseconds (overrides MEMOS_TIMEOUT)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-file", "", "Write logs to this file instead of ~/.memos-mcp/logs")
	flags.StringSlice("tools", nil, "Glob patterns of tools to expose (repeatable)")
	flags.String("otlp-endpoint", "", "OTLP/HTTP endpoint for trace export")
}
