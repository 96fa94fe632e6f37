package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the minimum severity a Logger writes.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel converts a level name (debug, info, warn, error) into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger provides leveled logging for memos-mcp components.
// By default logs are written to a session-specific file in ~/.memos-mcp/logs/.
//
// A Logger never writes to stdout: stdout carries the MCP stdio transport.
type Logger struct {
	sessionID string
	component string
	level     Level
	file      *os.File
	logger    *log.Logger
	logPath   string
	owner     bool
	closeOnce sync.Once
}

var (
	// Global session ID for the current process
	sessionID     string
	sessionIDOnce sync.Once
)

// getSessionID returns or creates the session ID for this process
func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

type options struct {
	level  Level
	dir    string
	path   string
	writer io.Writer
}

// Option configures NewLogger.
type Option func(*options)

// WithLevel sets the minimum level written.
func WithLevel(level Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithDir sets the directory the session log file is created in.
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithFile writes to path instead of a session file.
func WithFile(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithWriter writes to w instead of a file.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// DefaultDir returns ~/.memos-mcp/logs.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".memos-mcp", "logs"), nil
}

// NewLogger creates a new logger for a specific component.
// Without options it writes to ~/.memos-mcp/logs/<session-id>-memos-mcp.log.
//
// If the log file cannot be opened, it returns a fallback logger that writes
// to stderr along with the error. Callers can check the error to detect
// fallback mode.
func NewLogger(component string, opts ...Option) (*Logger, error) {
	o := options{level: LevelInfo}
	for _, opt := range opts {
		opt(&o)
	}

	sessID := getSessionID()
	if o.writer != nil {
		return &Logger{
			sessionID: sessID,
			component: component,
			level:     o.level,
			logger:    log.New(o.writer, "", 0),
			owner:     true,
		}, nil
	}

	logPath := o.path
	if logPath == "" {
		dir := o.dir
		if dir == "" {
			defaultDir, err := DefaultDir()
			if err != nil {
				return newFallbackLogger(component, o.level, err), err
			}
			dir = defaultDir
		}
		logPath = filepath.Join(dir, fmt.Sprintf("%s-memos-mcp.log", sessID))
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0750); err != nil {
		err = fmt.Errorf("failed to create log directory: %w", err)
		return newFallbackLogger(component, o.level, err), err
	}

	// Open log file in append mode (multiple components may write to same file)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newFallbackLogger(component, o.level, err), err
	}

	return &Logger{
		sessionID: sessID,
		component: component,
		level:     o.level,
		file:      file,
		logger:    log.New(file, "", 0), // We'll format timestamps ourselves
		logPath:   logPath,
		owner:     true,
	}, nil
}

// newFallbackLogger creates a logger that writes to stderr when file logging fails
func newFallbackLogger(component string, level Level, err error) *Logger {
	l := &Logger{
		sessionID: getSessionID(),
		component: component,
		level:     level,
		logger:    log.New(os.Stderr, "", 0),
		owner:     true,
	}
	l.Warnf("Failed to initialize file logging: %v", err)
	l.Warnf("Falling back to stderr logging")
	return l
}

// With returns a logger for another component writing to the same destination.
// Closing the returned logger does not close the shared file.
func (l *Logger) With(component string) *Logger {
	return &Logger{
		sessionID: l.sessionID,
		component: component,
		level:     l.level,
		file:      l.file,
		logger:    l.logger,
		logPath:   l.logPath,
	}
}

// formatLogEntry creates a structured log entry with timestamp, component, and level
func (l *Logger) formatLogEntry(level Level, message string) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	return fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, l.component, level, message)
}

func (l *Logger) logf(level Level, format string, v ...interface{}) {
	if l == nil || level < l.level {
		return
	}
	l.logger.Println(l.formatLogEntry(level, fmt.Sprintf(format, v...)))
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.logf(LevelDebug, format, v...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.logf(LevelInfo, format, v...)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.logf(LevelWarn, format, v...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logf(LevelError, format, v...)
}

// SessionID returns the current session ID
func (l *Logger) SessionID() string {
	return l.sessionID
}

// LogPath returns the path to the log file, or "" when not logging to a file.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.owner && l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
