// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package channel maintains the realtime event connection to the Chatify
// backend over a websocket.
//
// Frames on the wire are JSON envelopes carrying a named event and an opaque
// payload. A single read loop decodes incoming envelopes and fans them out to
// per-event subscriber registries; handlers run on the read goroutine, so they
// must hand anything slow off elsewhere (the controller forwards decoded
// events into the UI program's message queue).
//
// Subscribe returns an unsubscribe func that is safe to call more than once.
// The connection never reconnects on its own; when the read loop exits, Done
// is closed and the owner decides whether to dial again.
package channel
