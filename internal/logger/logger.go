package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var globalLogger = slog.New(slog.NewTextHandler(os.Stdout, nil))

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the lowercase name used in LOG_LEVEL
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// ParseLevel converts a LOG_LEVEL value, falling back to info
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Config holds logger configuration
type Config struct {
	Level      LogLevel
	OutputPath string
	Format     string // "json" or "text"
}

var output io.WriteCloser

// InitWithConfig initializes logger with custom config
func InitWithConfig(config Config) error {
	var w io.Writer = os.Stdout
	if config.OutputPath != "" && config.OutputPath != "stdout" {
		if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		output = f
		w = f
	}

	globalLogger = slog.New(newHandler(w, config))
	slog.SetDefault(globalLogger)
	return nil
}

// InitWithWriter installs a logger writing to w. Used by tests and the CLI.
func InitWithWriter(w io.Writer, config Config) *slog.Logger {
	globalLogger = slog.New(newHandler(w, config))
	slog.SetDefault(globalLogger)
	return globalLogger
}

func newHandler(w io.Writer, config Config) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     toSlogLevel(config.Level),
		AddSource: true,
	}
	if config.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close closes the log file if one was opened
func Close() error {
	if output == nil {
		return nil
	}
	err := output.Close()
	output = nil
	return err
}

type ctxKey struct{}

// IntoContext attaches request-scoped fields to ctx
func IntoContext(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, WithContext(ctx).With(fields...))
}

// WithContext returns the request logger stored in ctx, or the global logger
func WithContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return globalLogger
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	globalLogger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	globalLogger.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	globalLogger.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	globalLogger.Error(msg, args...)
}
