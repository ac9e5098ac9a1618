// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the structured logger for chatify-tui.
//
// The TUI owns stdout and stderr, so logs go to a file under the config
// directory. Handlers are slog JSON handlers; the level comes from the
// config file or the LOG_LEVEL environment variable.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLevel maps a config string to a slog level. Unknown values fall back
// to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a JSON logger writing to the given file path and installs it
// as the slog default. The returned closer flushes and closes the log file.
//
// LOG_LEVEL overrides the configured level, matching the convention used by
// the backend services this client talks to.
func New(path string, level string) (*slog.Logger, io.Closer, error) {
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level:     ParseLevel(level),
		AddSource: true, // critical for incident debugging
	})

	logger := slog.New(handler).With(
		slog.String("service", "chatify-tui"),
		slog.Int("pid", os.Getpid()),
	)

	slog.SetDefault(logger)
	return logger, f, nil
}

// Discard returns a logger that drops everything. Used in tests and for
// components constructed before logging is configured.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
