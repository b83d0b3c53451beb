// Package debuglog builds the process logger. Debug output is off unless
// SELMARK_DEBUG=1 or the configured level asks for it, and goes to
// SELMARK_DEBUG_FILE when set, since the viewer owns the terminal.
package debuglog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	EnvDebug     = "SELMARK_DEBUG"
	EnvDebugFile = "SELMARK_DEBUG_FILE"
)

// Options selects the level and destination. Environment variables take
// precedence over both.
type Options struct {
	Level slog.Level
	File  string
}

// New returns a text logger writing to the debug file, or to fallback when no
// file is configured. The returned close function releases the file.
func New(opts Options, fallback io.Writer) (*slog.Logger, func() error, error) {
	level := opts.Level
	if os.Getenv(EnvDebug) == "1" {
		level = slog.LevelDebug
	}
	path := opts.File
	if env := strings.TrimSpace(os.Getenv(EnvDebugFile)); env != "" {
		path = env
	}

	out := fallback
	closeFn := func() error { return nil }
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open debug log %q: %w", path, err)
		}
		out = f
		closeFn = f.Close
	}
	if out == nil {
		out = io.Discard
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), closeFn, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
