// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger wraps charm/log with helpers for conversion events.
package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging.
type Logger struct {
	*log.Logger
}

// New creates a logger writing to w at info level.
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level.
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFromConfig creates a logger from the level name in the configuration
// ("debug", "info", "warn", "error"). An empty name means info.
func NewFromConfig(w io.Writer, level string) (*Logger, error) {
	if level == "" {
		return New(w), nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}
	return NewWithLevel(w, lvl), nil
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	return New(io.Discard)
}

// LanguageRegistered logs a new language.
func (l *Logger) LanguageRegistered(name, ext string) {
	l.Debug("language registered",
		"lang", name,
		"ext", ext)
}

// ConversionRegistered logs a new conversion edge.
func (l *Logger) ConversionRegistered(source, target string) {
	l.Debug("conversion registered",
		"source", source,
		"target", target)
}

// Duplicate logs a registration that was ignored because it already exists.
func (l *Logger) Duplicate(what, name string) {
	l.Warn("already registered, ignoring",
		"kind", what,
		"name", name)
}

// PluginAttached logs a plugin that attached successfully.
func (l *Logger) PluginAttached(name string) {
	l.Debug("plugin attached", "plugin", name)
}

// PluginSkipped logs a plugin that was not attached.
func (l *Logger) PluginSkipped(name, reason string) {
	l.Warn("plugin skipped",
		"plugin", name,
		"reason", reason)
}

// FileConverted logs a successful file conversion.
func (l *Logger) FileConverted(path, output string, chain []string) {
	l.Info("file converted",
		"path", path,
		"output", output,
		"chain", strings.Join(chain, " -> "))
}

// ConversionError logs a failed conversion.
func (l *Logger) ConversionError(path string, chain []string, err error) {
	l.Error("conversion failed",
		"path", path,
		"chain", strings.Join(chain, " -> "),
		"error", err)
}

// BatchCompleted logs the summary of a batch run.
func (l *Logger) BatchCompleted(converted, failed int, duration time.Duration) {
	l.Info("batch completed",
		"converted", converted,
		"failed", failed,
		"duration", duration.Round(time.Millisecond))
}

// ConfigLoaded logs the configuration file in use.
func (l *Logger) ConfigLoaded(path string) {
	l.Debug("config loaded", "file", path)
}
