// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Chatify backend REST API.
package api

// =============================================================================
// WIRE TYPES
// =============================================================================

// The backend is a MongoDB-backed service; ids arrive as "_id". These types
// are the wire shapes, not the client's working model.

// User is a backend user record.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Friend is an entry of the friend list. The endpoint may return duplicate
// entries for the same id; callers deduplicate before display.
type Friend struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// FriendRequest is a pending incoming friend request. The id is the
// requester's user id; responding targets that id.
type FriendRequest struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// ChatMessage is a direct message on the wire. Sender and Receiver are user
// ids; Message is the body.
type ChatMessage struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Message  string `json:"message"`
}

// =============================================================================
// REQUEST / RESPONSE SHAPES
// =============================================================================

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the successful login payload.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sendFriendRequestRequest struct {
	RecipientID string `json:"recipientId"`
}

type handleFriendRequestRequest struct {
	SenderID string `json:"senderId"`
	Action   string `json:"action"`
}

type aiRequest struct {
	Message string `json:"message"`
}

type aiResponse struct {
	AIMessage string `json:"aiMessage"`
}

// apiError is the backend's error body, where one is provided.
type apiError struct {
	Message string `json:"message"`
}

// =============================================================================
// FRIEND REQUEST ACTIONS
// =============================================================================

// Action is the decision on a pending friend request.
type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

// Valid reports whether the action is one the backend understands.
func (a Action) Valid() bool {
	return a == ActionAccept || a == ActionReject
}
