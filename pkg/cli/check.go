package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the Memos URL and API key",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	defer logger.Close()

	tp, shutdownTracing, err := setupTracing(cmd.Context(), cfg)
	if err != nil {
		return exitError(exitRuntime, "%v", err)
	}
	defer flushTracing(logger, shutdownTracing)

	client, err := newClient(cfg, logger, tp)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printStatus(out, "server", client.BaseURL(), nil)

	user, err := client.GetUser(cmd.Context())
	if err != nil {
		printStatus(out, "user", "", err)
		return exitError(exitRuntime, "%v", err)
	}
	printStatus(out, "user", fmt.Sprintf("%s (%s)", user.Username, user.Name), nil)

	if err := client.CheckConnection(cmd.Context()); err != nil {
		printStatus(out, "memos", "", err)
		return exitError(exitRuntime, "%v", err)
	}
	printStatus(out, "memos", "reachable", nil)
	return nil
}

func printStatus(w io.Writer, label, detail string, err error) {
	if err != nil {
		fmt.Fprintf(w, "%s %s %s\n", failStyle.Render("✗"), labelStyle.Render(label+":"), err)
		return
	}
	fmt.Fprintf(w, "%s %s %s\n", okStyle.Render("✓"), labelStyle.Render(label+":"), detail)
}
