// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// LogParams adds --log-level and --log-format to a parameter struct.
// Empty values defer to the configuration file.
type LogParams struct {
	Level  string `json:"log_level"  flag:"log-level"  desc:"log level: debug, info, warn or error"`
	Format string `json:"log_format" flag:"log-format" desc:"log format: auto, text or json"`
}

// NewCommandLogger creates a structured logger writing to w.
//
// format "text" and "json" select the slog handler directly. "auto" (or
// "") uses slog.TextHandler when w is a terminal for human-readable
// output, and slog.JSONHandler when it is piped or redirected for
// machine-parseable output.
//
// Callers scope the logger with command-specific context via With():
//
//	logger = logger.With("command", "build")
func NewCommandLogger(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	options := &slog.HandlerOptions{Level: level}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, options)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, options)), nil
	case "", "auto":
		if isTerminal(w) {
			return slog.New(slog.NewTextHandler(w, options)), nil
		}
		return slog.New(slog.NewJSONHandler(w, options)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want auto, text or json)", format)
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
