// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses command-line arguments and implements the non-TUI
// commands: login, logout, status, config and version. The TUI itself lives
// in internal/ui and is launched from main.
package cli
