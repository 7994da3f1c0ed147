// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package logger provides a standardized logging interface for the application
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// contextKey is a private type for context keys
type contextKey int

const (
	// loggerKey is the key for the logger in the context
	loggerKey contextKey = iota
)

// LogLevel represents log levels
type LogLevel string

// Log levels
const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// fileTimeFormat matches the timestamp layout of the per-run log files
const fileTimeFormat = "2006-01-02 15:04:05"

// Config holds logger configuration
type Config struct {
	// Level is the log level: debug, info, warn, error
	Level LogLevel
	// Dir is where the per-run log file is created; empty logs to stderr
	Dir string
	// Format can be "json" or "console" (plain text) for the log file
	Format string
	// CallerInfo determines whether to include caller information
	CallerInfo bool
	// RunID tags every entry written during this invocation
	RunID string
}

// Sink is the per-run log destination created by Setup
type Sink struct {
	// Path is the log file path, empty when logging to stderr
	Path   string
	Logger zerolog.Logger
	file   *os.File
}

// Close flushes and closes the log file
func (s *Sink) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}

// LogFileName returns the name of the log file for a run started at t
func LogFileName(t time.Time) string {
	return fmt.Sprintf("vm_management_%s.log", t.Format("20060102_150405"))
}

// ParseLevel converts a configured level into a zerolog level
func ParseLevel(level LogLevel) zerolog.Level {
	switch level {
	case LogDebug:
		return zerolog.DebugLevel
	case LogInfo:
		return zerolog.InfoLevel
	case LogWarn:
		return zerolog.WarnLevel
	case LogError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup configures the global logger and opens a new log file for this run
func Setup(config Config) (*Sink, error) {
	zerolog.SetGlobalLevel(ParseLevel(config.Level))

	var (
		out  io.Writer = os.Stderr
		file *os.File
		path string
	)
	if config.Dir != "" {
		if err := os.MkdirAll(config.Dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		path = filepath.Join(config.Dir, LogFileName(time.Now()))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		out = f
	}

	logger := New(out, config)
	log.Logger = logger

	return &Sink{Path: path, Logger: logger, file: file}, nil
}

// New builds a logger writing to out with the given configuration
func New(out io.Writer, config Config) zerolog.Logger {
	if config.Format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    true,
			TimeFormat: fileTimeFormat,
		}
	}

	ctx := zerolog.New(out).Level(ParseLevel(config.Level)).With().Timestamp()
	if config.RunID != "" {
		ctx = ctx.Str("run_id", config.RunID)
	}
	if config.CallerInfo {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// FromContext returns the logger from the context or the global logger if not found
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &log.Logger
	}

	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return &logger
	}

	return &log.Logger
}

// WithContext adds a logger to the context
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithField adds a field to the logger in the context
func WithField(ctx context.Context, key string, value interface{}) (context.Context, zerolog.Logger) {
	logger := FromContext(ctx).With().Interface(key, value).Logger()
	return WithContext(ctx, logger), logger
}
