// Package logger wraps charmbracelet/log with the events the wiki2html
// command reports.
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

// New creates a logger at info level.
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level.
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
		Prefix:          "wiki2html",
	})
	return &Logger{Logger: l}
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	return New(io.Discard)
}

// ParseLevel maps a config level name to a log level. The empty string
// means info.
func ParseLevel(name string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return log.InfoLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// FormatDetected logs the outcome of format detection.
func (l *Logger) FormatDetected(source, format string, mediawiki, namumark int) {
	l.Debug("format detected",
		"source", source,
		"format", format,
		"mediawiki_score", mediawiki,
		"namumark_score", namumark)
}

// Rendered logs a successfully written document.
func (l *Logger) Rendered(source, dest, format string, duration time.Duration) {
	l.Info("rendered",
		"source", source,
		"dest", dest,
		"format", format,
		"duration", duration.Round(time.Millisecond))
}

// RenderError logs a failed document.
func (l *Logger) RenderError(source string, err error) {
	l.Error("render failed",
		"source", source,
		"error", err)
}

// Skipped logs a document that was not rendered.
func (l *Logger) Skipped(source, reason string) {
	l.Debug("skipped",
		"source", source,
		"reason", reason)
}

// BatchCompleted logs the end of a batch or dump run.
func (l *Logger) BatchCompleted(rendered, failed, skipped int, duration time.Duration) {
	l.Info("batch completed",
		"rendered", rendered,
		"failed", failed,
		"skipped", skipped,
		"duration", duration.Round(time.Millisecond))
}

// ConfigLoaded logs the config file in use.
func (l *Logger) ConfigLoaded(path string) {
	l.Debug("config loaded", "path", path)
}
