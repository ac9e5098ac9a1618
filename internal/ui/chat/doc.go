// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main messaging view: a friend and request
// sidebar, the active conversation pane, and the call overlay.
//
// The model never touches the network directly. Key presses turn into
// controller calls wrapped in tea commands, and push traffic arrives as
// controller and call notification messages relayed by the app root. All
// conversation and friend state lives in the controller's stores; the view
// repaints from them on every relevant message.
package chat
