package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/entrhq/memos-mcp/pkg/config"
	"github.com/entrhq/memos-mcp/pkg/logging"
	"github.com/entrhq/memos-mcp/pkg/server"
)

// newTransport returns the transport MCP is served on.
var newTransport = func() mcp.Transport {
	return &mcp.StdioTransport{}
}

func newServeCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, version)
		},
	}
}

func runServe(cmd *cobra.Command, version string) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return supervise(logger, func() error {
		return serve(ctx, cfg, version, logger)
	})
}

func serve(ctx context.Context, cfg *config.Config, version string, logger *logging.Logger) error {
	tp, shutdownTracing, err := setupTracing(ctx, cfg)
	if err != nil {
		logger.Errorf("%v", err)
		return exitError(exitRuntime, "%v", err)
	}
	defer flushTracing(logger, shutdownTracing)

	client, err := newClient(cfg, logger, tp)
	if err != nil {
		logger.Errorf("%v", err)
		return err
	}
	logger.Infof("starting memos-mcp %s against %s (session %s)", version, client.BaseURL(), logger.SessionID())

	// Liveness check: the server only accepts calls once Memos answers.
	user, err := client.GetUser(ctx)
	if err != nil {
		logger.Errorf("liveness check failed: %v", err)
		return exitError(exitRuntime, "%v", err)
	}
	logger.Infof("authenticated as %s (%s)", user.Username, user.Name)

	registry, err := newRegistry(cfg, client)
	if err != nil {
		logger.Errorf("%v", err)
		return err
	}
	if skipped := registry.Filtered(); len(skipped) > 0 {
		logger.Infof("tools not exposed by allow list: %v", skipped)
	}

	srv := server.New(registry, logger.With("server"), version)
	err = srv.Serve(ctx, newTransport())

	var perr *server.PanicError
	switch {
	case errors.As(err, &perr):
		return exitError(exitRuntime, "%v", perr)
	case err != nil && ctx.Err() == nil:
		logger.Errorf("server stopped: %v", err)
		return exitError(exitRuntime, "server stopped: %v", err)
	}
	logger.Infof("server stopped")
	return nil
}

// supervise runs fn and converts a panic into a runtime exit.
func supervise(logger *logging.Logger, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("fatal: %v\n%s", r, debug.Stack())
			err = exitError(exitRuntime, "fatal: %v", r)
		}
	}()
	return fn()
}
