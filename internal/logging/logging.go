package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Debug controls whether debug logs are printed.
var Debug bool

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// New builds the process logger. format is "text" or "json"; debug lowers the
// level to slog.LevelDebug. The result also becomes the package default used
// by Debugf.
func New(w io.Writer, format string, debug bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	Debug = debug
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch format {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}
	logger = slog.New(h)
	return logger
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Debugf logs a formatted debug message when Debug is enabled.
func Debugf(format string, v ...any) {
	if Debug {
		logger.Debug(fmt.Sprintf(format, v...))
	}
}
