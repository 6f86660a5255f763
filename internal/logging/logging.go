// Package logging builds the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Config selects the log level and output format.
type Config struct {
	// Level is the minimum severity: debug, info, warn, or error.
	// Empty means info.
	Level string

	// JSON switches from human-readable text to JSON lines. Job logs that
	// land in a scheduler's output files are easier to grep as text, so
	// text is the default.
	JSON bool

	// Output overrides the destination. Defaults to os.Stderr, keeping
	// stdout free for the training program's own output.
	Output io.Writer
}

// New builds a slog.Logger per cfg. An unknown level is an error rather
// than a silent fallback: a typo in a job script would otherwise hide a
// whole run's diagnostics.
func New(cfg Config) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler), nil
}

// ParseLevel maps a config string onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch s {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging: unknown level %q", s)
	}
}
