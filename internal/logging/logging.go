// Package logging provides the logger injected into every linkback
// component.
//
// Two streams share one backend:
//   - diagnostic logs (Infof/Warnf/Verbosef), gated by the handler's
//     configured level
//   - partner-visible messages (Visible/Visiblef), gated by the enabled
//     flag passed at construction
//
// Enablement is a constructor parameter, not process-global state, so
// two clients in one process can log independently.
package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// Logger wraps slog with a component tag and a partner-visibility flag.
type Logger struct {
	sl      *slog.Logger
	tag     string
	enabled bool
}

// New creates a Logger writing to w. When enabled is false, only
// Visible/Visiblef output is suppressed; diagnostic levels still follow
// the handler's level.
func New(w io.Writer, enabled bool) *Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &Logger{sl: slog.New(h), enabled: enabled}
}

// NewWithHandler creates a Logger over an existing slog handler.
// Used by tests to capture records.
func NewWithHandler(h slog.Handler, enabled bool) *Logger {
	return &Logger{sl: slog.New(h), enabled: enabled}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return NewWithHandler(slog.DiscardHandler, false)
}

// Tagged returns a copy of the logger scoped to a component tag.
func (l *Logger) Tagged(tag string) *Logger {
	return &Logger{sl: l.sl.With("component", tag), tag: tag, enabled: l.enabled}
}

// Enabled reports whether partner-visible messages are emitted.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Infof logs a diagnostic message.
func (l *Logger) Infof(format string, args ...any) {
	l.sl.Info(fmt.Sprintf(format, args...))
}

// Warnf logs a diagnostic warning. An optional trailing error is
// attached as a structured attribute.
func (l *Logger) Warnf(format string, args ...any) {
	l.sl.Warn(fmt.Sprintf(format, args...))
}

// WarnErr logs a warning with the causing error attached.
func (l *Logger) WarnErr(msg string, err error) {
	l.sl.Warn(msg, "err", err)
}

// Verbosef logs at debug level.
func (l *Logger) Verbosef(format string, args ...any) {
	l.sl.Debug(fmt.Sprintf(format, args...))
}

// Visible emits a partner-facing message when logging was enabled at
// construction. These are the messages an integrating app's developers
// are expected to see, not internal diagnostics.
func (l *Logger) Visible(msg string) {
	if !l.enabled {
		return
	}
	l.sl.Info(msg)
}

// Visiblef is the formatting variant of Visible.
func (l *Logger) Visiblef(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.sl.Info(fmt.Sprintf(format, args...))
}
