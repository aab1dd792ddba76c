// Package log builds the process-wide structured logger.
//
// Records go to stderr, which keeps stdout free for the stdio protocol, and
// optionally to a size-rotated log file.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/toolforge-dev/toolforge/domain/entities"
)

// Log file rotation limits.
const (
	maxFileSizeMB  = 50
	maxFileBackups = 7
	maxFileAgeDays = 30
)

// Option configures a Logger.
type Option func(*loggerConfig)

type loggerConfig struct {
	level     slog.Level
	json      bool
	file      string
	writer    io.Writer
	addSource bool
}

func defaultLoggerConfig() loggerConfig {
	return loggerConfig{
		level:  slog.LevelInfo,
		writer: os.Stderr,
	}
}

// WithLevel sets the minimum level to report.
func WithLevel(level slog.Level) Option {
	return func(c *loggerConfig) {
		c.level = level
	}
}

// WithFormat selects "json" or "text" output. Anything else means text.
func WithFormat(format string) Option {
	return func(c *loggerConfig) {
		c.json = strings.EqualFold(strings.TrimSpace(format), "json")
	}
}

// WithFile additionally writes records to path, rotated by size.
func WithFile(path string) Option {
	return func(c *loggerConfig) {
		c.file = strings.TrimSpace(path)
	}
}

// WithWriter replaces stderr as the primary sink. A nil writer discards.
func WithWriter(w io.Writer) Option {
	return func(c *loggerConfig) {
		if w == nil {
			w = io.Discard
		}
		c.writer = w
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) Option {
	return func(c *loggerConfig) {
		c.addSource = enabled
	}
}

// FromSettings returns the options matching the logging section of settings.
func FromSettings(s entities.LoggingSettings) []Option {
	return []Option{
		WithLevel(ParseLevel(s.Level)),
		WithFormat(s.Format),
		WithFile(s.File),
	}
}

// Logger is a slog.Logger whose level can be changed at runtime.
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
	file  *lumberjack.Logger
}

// New creates a Logger.
func New(opts ...Option) *Logger {
	cfg := defaultLoggerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	level := new(slog.LevelVar)
	level.Set(cfg.level)

	l := &Logger{level: level}

	w := cfg.writer
	if cfg.file != "" {
		l.file = &lumberjack.Logger{
			Filename:   cfg.file,
			MaxSize:    maxFileSizeMB,
			MaxBackups: maxFileBackups,
			MaxAge:     maxFileAgeDays,
			Compress:   true,
		}
		w = io.MultiWriter(w, l.file)
	}

	handlerOpts := &slog.HandlerOptions{Level: level, AddSource: cfg.addSource}
	var handler slog.Handler
	if cfg.json {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	l.Logger = slog.New(handler)
	return l
}

// SetLevel changes the minimum level of this logger and all loggers derived from it.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Level returns the current minimum level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel converts a level name to slog.Level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
