// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// chatify-tui.
package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// Watcher reloads the config file when it changes on disk and delivers the
// new configuration to a callback. Editor save patterns (write-via-rename)
// generate bursts of events, so changes are debounced.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(*Config)
	logger   *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	pending bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher for the given config file path.
// The callback runs on the watcher goroutine; it must not block.
func NewWatcher(path string, logger *slog.Logger, onChange func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     path,
		watcher:  fsw,
		onChange: onChange,
		logger:   logger,
		debounce: 250 * time.Millisecond,
		ctx:      ctx,
		cancel:   cancel,
	}
	return w, nil
}

// Watch starts watching the config file's directory.
// Watching the directory rather than the file survives rename-based saves.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	go w.processEvents()
	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}

// scheduleReload coalesces a burst of events into a single reload.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	if w.pending {
		w.mu.Unlock()
		return
	}
	w.pending = true
	w.mu.Unlock()

	time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		w.pending = false
		w.mu.Unlock()

		cfg, err := LoadFrom(w.path)
		if err != nil {
			// Keep running with the previous config; a half-saved file is
			// indistinguishable from a broken one.
			w.logger.Warn("config reload failed", "path", w.path, "error", err)
			return
		}
		w.logger.Info("config reloaded", "path", w.path)
		w.onChange(cfg)
	})
}
