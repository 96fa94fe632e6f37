// Package config loads the memos-mcp configuration.
//
// Values are resolved with the precedence
// CLI flags > environment variables > config file > defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultTimeoutMS is the default upstream request timeout in milliseconds.
	DefaultTimeoutMS = 15000
	// DefaultServiceName identifies this process in traces.
	DefaultServiceName = "memos-mcp"
)

// Environment variables read by ApplyEnv.
const (
	EnvURL          = "MEMOS_URL"
	EnvAPIKey       = "MEMOS_API_KEY"
	EnvTimeout      = "MEMOS_TIMEOUT"
	EnvLogLevel     = "MEMOS_MCP_LOG_LEVEL"
	EnvLogFile      = "MEMOS_MCP_LOG_FILE"
	EnvTools        = "MEMOS_MCP_TOOLS"
	EnvOTLPEndpoint = "MEMOS_MCP_OTLP_ENDPOINT"
)

// Config is the complete process configuration.
type Config struct {
	Memos   MemosConfig   `yaml:"memos"`
	Tools   ToolsConfig   `yaml:"tools"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
}

// MemosConfig locates and authenticates against the Memos service.
type MemosConfig struct {
	URL       string `yaml:"url"`
	APIKey    string `yaml:"api_key"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

// Timeout returns the request timeout as a duration.
func (m MemosConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutMS) * time.Millisecond
}

// ToolsConfig selects which tools are exposed.
type ToolsConfig struct {
	// Allow holds glob patterns matched against tool names. Empty exposes all tools.
	Allow []string `yaml:"allow"`
}

// LoggingConfig controls the log destination and verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // explicit log file; empty uses a session file
	Dir   string `yaml:"dir"`   // directory for session files; empty uses ~/.memos-mcp/logs
}

// TracingConfig enables OpenTelemetry trace export.
type TracingConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"` // e.g. http://localhost:4318; empty disables export
	ServiceName  string `yaml:"service_name"`
}

// Error reports an invalid or incomplete configuration.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func configErrorf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Memos: MemosConfig{
			TimeoutMS: DefaultTimeoutMS,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Tracing: TracingConfig{
			ServiceName: DefaultServiceName,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path
// and the process environment. It does not validate the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := c.decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) decode(r io.Reader) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overlays environment variables onto c. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvURL); ok && v != "" {
		c.Memos.URL = v
	}
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.Memos.APIKey = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		ms, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return configErrorf("%s must be an integer number of milliseconds, got %q", EnvTimeout, v)
		}
		c.Memos.TimeoutMS = ms
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFile); ok && v != "" {
		c.Logging.File = v
	}
	if v, ok := lookup(EnvTools); ok && v != "" {
		c.Tools.Allow = splitList(v)
	}
	if v, ok := lookup(EnvOTLPEndpoint); ok && v != "" {
		c.Tracing.OTLPEndpoint = v
	}
	return nil
}

// Validate checks that the configuration is complete and well formed.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Memos.URL) == "" {
		return configErrorf("Memos URL is required. Set %s or memos.url in the config file", EnvURL)
	}
	if strings.TrimSpace(c.Memos.APIKey) == "" {
		return configErrorf("Memos API key is required. Set %s or memos.api_key in the config file", EnvAPIKey)
	}
	if c.Memos.TimeoutMS <= 0 {
		return configErrorf("timeout must be positive, got %dms", c.Memos.TimeoutMS)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return configErrorf("invalid log level %q (must be debug, info, warn or error)", c.Logging.Level)
	}
	for _, pattern := range c.Tools.Allow {
		if _, err := glob.Compile(pattern); err != nil {
			return configErrorf("invalid tool pattern %q: %v", pattern, err)
		}
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
