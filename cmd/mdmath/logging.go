package main

import (
	"io"
	"log/slog"
)

// newLogger builds the CLI logger: text on w at info level, debug with
// verbose, errors only with quiet. JSON output is used by serve.
func newLogger(w io.Writer, flags commonFlags, json bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case flags.quiet:
		level = slog.LevelError
	case flags.verbose:
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
