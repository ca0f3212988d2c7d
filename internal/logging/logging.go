// Package logging installs the process-wide slog handler.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// Options controls where log records go
type Options struct {
	Level slog.Level

	// Debug sends records to a session file instead of stderr. Used when the
	// TUI owns the terminal.
	Debug bool

	// File overrides the generated debug file name
	File string
}

// DebugFileName returns the default debug log name for the current session
func DebugFileName(now time.Time) string {
	return fmt.Sprintf("evinspect_debug_%s.log", now.Format("20060102_150405"))
}

// Setup installs the default logger and returns a closer for the log file,
// if one was opened.
func Setup(opts Options) (io.Closer, error) {
	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)

	if opts.Debug {
		if opts.File == "" {
			opts.File = DebugFileName(time.Now())
		}
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open debug log file: %w", err)
		}

		header := fmt.Sprintf("=== evinspect debug session started at %s ===\n", time.Now().Format(time.RFC3339))
		if _, err := file.WriteString(header); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write debug header: %w", err)
		}
		out, closer = file, file
		opts.Level = min(opts.Level, slog.LevelDebug)
	}

	slog.SetDefault(New(out, opts.Level))
	return closer, nil
}

// New builds a text logger at level
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
