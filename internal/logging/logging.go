// Package logging constructs the application's zerolog loggers from
// the logging section of the config file and CLI overrides.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Output formats accepted in the logging config.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config describes how the logger writes.
type Config struct {
	// Level is a zerolog level name ("debug", "info", ...). Invalid
	// values fall back to info.
	Level string

	// Format is FormatConsole or FormatJSON.
	Format string

	// File, when set, appends logs to this path instead of stderr.
	File string
}

// Logger is the constructed logger plus the file handle it owns.
type Logger struct {
	zerolog.Logger

	file *os.File
}

// Close releases the log file handle, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// New builds a logger from cfg. When cfg.File is set, its directory is
// created and the file opened in append mode; a directory or file that
// cannot be opened is returned as an error so a misconfigured sink is
// caught at startup instead of silently losing log lines.
func New(cfg Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	var file *os.File

	if cfg.File != "" {
		if dirErr := os.MkdirAll(filepath.Dir(cfg.File), 0750); dirErr != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", dirErr)
		}
		file, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = file
	}

	if cfg.Format != FormatJSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &Logger{Logger: logger, file: file}, nil
}

// Component returns a child logger tagged with a component name, so
// log lines can be traced back to the subsystem that emitted them.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
