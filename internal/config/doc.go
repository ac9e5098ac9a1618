// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// chatify-tui.
//
// Configuration comes from three layers, lowest precedence first:
//
//  1. Built-in defaults (DefaultConfig)
//  2. ~/.chatify/config.toml
//  3. CHATIFY_* environment variables
//
// The loaded config is always validated; URLs must parse and enumerated
// fields must hold a known value. A Watcher can reload the file on change
// so theme and log-level edits take effect without restarting the client.
package config
