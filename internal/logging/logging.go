// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Level picks the log level. verbose enables debug output. screen means the
// terminal is drawn on, so only warnings and errors get through.
func Level(verbose, screen bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case screen:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// New returns a tint logger writing to stderr, colored only when stderr is
// a terminal.
func New(level slog.Level) *slog.Logger {
	return NewWriter(os.Stderr, level, !isatty.IsTerminal(os.Stderr.Fd()))
}

// NewWriter returns a tint logger writing to w.
func NewWriter(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}))
}
