// Package server exposes a tool registry over the Model Context Protocol.
package server

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrhq/memos-mcp/pkg/logging"
	"github.com/entrhq/memos-mcp/pkg/tools"
)

// Name is the implementation name announced to MCP clients.
const Name = "memos-mcp"

// PanicError reports a panic recovered from a tool handler. The server stops
// serving once one is raised.
type PanicError struct {
	Tool  string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in tool %s: %v", e.Tool, e.Value)
}

// Server bridges MCP tool calls to a tools.Registry.
type Server struct {
	registry *tools.Registry
	logger   *logging.Logger
	mcp      *mcp.Server

	fatal     chan error
	fatalOnce sync.Once
}

// New creates a server exposing every tool in registry.
func New(registry *tools.Registry, logger *logging.Logger, version string) *Server {
	s := &Server{
		registry: registry,
		logger:   logger,
		fatal:    make(chan error, 1),
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    Name,
			Version: version,
		}, nil),
	}

	for _, tool := range registry.List() {
		s.mcp.AddTool(&mcp.Tool{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: tool.Schema(),
		}, s.handler(tool.Name()))
		logger.Debugf("registered tool %s", tool.Name())
	}
	return s
}

// Connect starts a single session on transport without blocking.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, transport, nil)
}

// Fatal reports the first unrecoverable handler failure.
func (s *Server) Fatal() <-chan error {
	return s.fatal
}

// Serve runs the server on transport until the client disconnects, ctx is
// cancelled or a handler panics. A handler panic is returned as *PanicError.
func (s *Server) Serve(ctx context.Context, transport mcp.Transport) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.mcp.Run(ctx, transport)
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case err := <-s.fatal:
		cancel()
		<-done
		return err
	}
}

func (s *Server) handler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				perr := &PanicError{Tool: name, Value: r, Stack: debug.Stack()}
				s.logger.Errorf("%v\n%s", perr, perr.Stack)
				s.raise(perr)
				result, err = errorResult("Internal error in tool "+name), nil
			}
		}()

		var args []byte
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}

		res, invokeErr := s.registry.Invoke(ctx, name, args)
		elapsed := time.Since(start).Round(time.Millisecond)
		if invokeErr != nil {
			s.logger.Warnf("tool %s failed after %s: %v", name, elapsed, invokeErr)
			return errorResult(invokeErr.Error()), nil
		}

		s.logger.Infof("tool %s completed in %s %v", name, elapsed, res.Metadata)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: res.Output}},
		}, nil
	}
}

func (s *Server) raise(err error) {
	s.fatalOnce.Do(func() {
		s.fatal <- err
	})
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
	}
}
