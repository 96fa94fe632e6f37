package cli

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/entrhq/memos-mcp/pkg/config"
	"github.com/entrhq/memos-mcp/pkg/logging"
	"github.com/entrhq/memos-mcp/pkg/memos"
	"github.com/entrhq/memos-mcp/pkg/tools"
	"github.com/entrhq/memos-mcp/pkg/tools/memo"
)

// newLogger opens the process logger. A file that cannot be opened falls back
// to stderr, which is reported but not fatal.
func newLogger(cfg *config.Config) *logging.Logger {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logging.LevelInfo
	}

	opts := []logging.Option{logging.WithLevel(level)}
	switch {
	case cfg.Logging.File != "":
		opts = append(opts, logging.WithFile(cfg.Logging.File))
	case cfg.Logging.Dir != "":
		opts = append(opts, logging.WithDir(cfg.Logging.Dir))
	}

	// On failure NewLogger returns a stderr logger that already reported the error.
	logger, _ := logging.NewLogger("memos-mcp", opts...)
	return logger
}

// setupTracing installs an OTLP/HTTP exporter when an endpoint is configured.
// The returned shutdown function flushes pending spans.
func setupTracing(ctx context.Context, cfg *config.Config) (trace.TracerProvider, func(context.Context) error, error) {
	if cfg.Tracing.OTLPEndpoint == "" {
		return otel.GetTracerProvider(), func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Tracing.OTLPEndpoint))
	if err != nil {
		return nil, nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
	}

	serviceName := cfg.Tracing.ServiceName
	if serviceName == "" {
		serviceName = config.DefaultServiceName
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	)
	otel.SetTracerProvider(tp)
	return tp, tp.Shutdown, nil
}

const shutdownTimeout = 5 * time.Second

// flushTracing shuts the tracer provider down, logging any export failure.
func flushTracing(logger *logging.Logger, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Warnf("trace shutdown: %v", err)
	}
}

func newClient(cfg *config.Config, logger *logging.Logger, tp trace.TracerProvider) (*memos.Client, error) {
	client, err := memos.NewClient(cfg.Memos.URL, cfg.Memos.APIKey,
		memos.WithTimeout(cfg.Memos.Timeout()),
		memos.WithTracerProvider(tp),
		memos.WithLogger(logger.With("memos")),
	)
	if err != nil {
		return nil, exitError(exitConfig, "%v", err)
	}
	return client, nil
}

// newRegistry registers every memo tool permitted by the allow list.
func newRegistry(cfg *config.Config, client memo.Client) (*tools.Registry, error) {
	registry, err := tools.NewRegistry(cfg.Tools.Allow...)
	if err != nil {
		return nil, exitError(exitConfig, "%v", err)
	}
	for _, tool := range memo.All(client) {
		if err := registry.Register(tool); err != nil {
			return nil, fmt.Errorf("registering tool %s: %w", tool.Name(), err)
		}
	}
	return registry, nil
}
