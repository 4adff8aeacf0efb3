// Package logging provides the Logger abstraction used across the framework
// and its zerolog-backed implementations.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger exposes logging methods for common severity levels.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Supported output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatNop     = "nop"
)

// Config selects the implementation returned by New.
type Config struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// NopLogger implements Logger with no-op methods.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// New returns a Logger for component according to cfg.
func New(cfg Config, component string) Logger {
	if strings.ToLower(cfg.Format) == FormatNop {
		return NopLogger{}
	}
	return &ZerologLogger{log: Base(cfg, os.Stdout).With().Str("component", component).Logger()}
}

// NewConsoleLogger returns a human-readable logger writing to stdout.
func NewConsoleLogger(component string) *ZerologLogger {
	return NewZerologLogger(Base(Config{Format: FormatConsole}, os.Stdout), component)
}

// NewZerologLogger wraps base and tags every entry with component.
func NewZerologLogger(base zerolog.Logger, component string) *ZerologLogger {
	return &ZerologLogger{log: base.With().Str("component", component).Logger()}
}

// Base builds the zerolog.Logger shared by every component. Unknown levels
// fall back to info.
func Base(cfg Config, w io.Writer) zerolog.Logger {
	if strings.ToLower(cfg.Format) == FormatNop {
		return zerolog.Nop()
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	if strings.ToLower(cfg.Format) == FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Zerolog exposes the underlying logger, e.g. for container.WithLogger.
func (l *ZerologLogger) Zerolog() zerolog.Logger { return l.log }

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
