// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the shared visual components of the chatify
// TUI: the header and status bars, the friends/requests sidebar, message
// bubbles, and the transient error banner.
//
// Components are pure renderers over a shared *styles.Theme. They hold only
// display state (width, cursor, visibility); domain state stays in the
// stores and is passed in on each update.
package components
