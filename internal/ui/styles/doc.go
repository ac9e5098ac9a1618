// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles centralizes the chatify TUI's visual styling.
//
// The palette lives in colors.go as lipgloss.AdaptiveColor values so every
// color carries a light and a dark variant; the terminal background decides
// which is used. Theme in theme.go bundles the composed lipgloss styles the
// views render with, built once at startup and shared by reference.
//
// Status rendering helpers (RenderSuccess, RenderError, RenderWarning,
// RenderInfo) pair high-contrast colors with ASCII shape indicators so state
// is readable without color vision.
package styles
