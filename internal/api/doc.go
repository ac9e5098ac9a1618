// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Chatify backend REST API.
//
// The client covers the endpoints the terminal views need: authentication,
// user search and profiles, the friend/request lifecycle, chat history and
// send, and the AI assistant endpoint.
//
// Every authenticated request pulls the bearer token from a TokenSource at
// call time, so the session store stays the single source of truth for the
// credential. No call is retried automatically; failures surface to the
// caller, which either degrades its view (reads) or shows a transient error
// (writes).
package api
