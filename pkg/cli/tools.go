package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools exposed to MCP clients",
		Args:  cobra.NoArgs,
		RunE:  runTools,
	}
}

func runTools(cmd *cobra.Command, _ []string) error {
	// Listing needs no connection, so credentials are not required.
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}

	registry, err := newRegistry(cfg, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, tool := range registry.List() {
		fmt.Fprintf(out, "%s\n  %s\n", nameStyle.Render(tool.Name()), tool.Description())
	}
	if skipped := registry.Filtered(); len(skipped) > 0 {
		fmt.Fprintf(out, "%s %v\n", labelStyle.Render("not exposed:"), skipped)
	}
	return nil
}
