// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the chatify-tui application.
//
// This package contains common helper functions used throughout the
// application for display-safe string handling and file operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: terminal-column aware truncation (CJK safe)
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long usernames safely for the sidebar
//	display := util.TruncateWidth(username, 18)
//
//	// Write the session file atomically
//	err := util.AtomicWriteFile(path, data, 0600)
package util
