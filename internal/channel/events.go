// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package channel provides the realtime event channel to the Chatify backend.
package channel

import "encoding/json"

// =============================================================================
// EVENT NAMES
// =============================================================================

// Event names match the backend's socket vocabulary. Outbound and inbound
// share one namespace; the server decides the routing.
const (
	// Outbound
	EventJoin       = "join"
	EventCallUser   = "callUser"
	EventAnswerCall = "answerCall"
	EventEndCall    = "endCall"
	EventGetUsers   = "getUsers"

	// Bidirectional
	EventPrivateMessage = "private message"

	// Inbound
	EventFriendRequest = "friendRequestSent"
	EventNewMessage    = "newMessage"
	EventMe            = "me"
	EventUserList      = "userList"
	EventIncomingCall  = "incomingCall"
	EventCallAccepted  = "callAccepted"
	EventCallEnded     = "callEnded"
)

// =============================================================================
// WIRE ENVELOPE
// =============================================================================

// Envelope is the JSON frame exchanged on the channel: a named event plus an
// opaque payload. Handlers decode the payload for the events they care about.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// =============================================================================
// PAYLOAD TYPES
// =============================================================================

// PrivateMessage is the realtime direct-message payload. It mirrors the REST
// wire shape so a pushed message and a persisted one are interchangeable.
type PrivateMessage struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Message  string `json:"message"`
}

// FriendRequestEvent announces a new incoming friend request in realtime.
type FriendRequestEvent struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// NewMessageNotice is a lightweight "you have mail" ping carrying only the
// sender id.
type NewMessageNotice struct {
	SenderID string `json:"senderId"`
}

// CallRequest asks the server to ring another user. SignalData carries the
// peer library's offer; the client treats it as opaque.
type CallRequest struct {
	UserToCall string          `json:"userToCall"`
	SignalData json.RawMessage `json:"signalData"`
	From       string          `json:"from"`
}

// CallAnswer returns the callee's answer signal to the caller.
type CallAnswer struct {
	Signal json.RawMessage `json:"signal"`
	To     string          `json:"to"`
}

// IncomingCall notifies the callee that someone is ringing.
type IncomingCall struct {
	Signal json.RawMessage `json:"signal"`
	From   string          `json:"from"`
}

// CallEnded tells both sides the call is over.
type CallEnded struct {
	Reason string `json:"reason"`
}
