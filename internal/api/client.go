// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Chatify backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// TokenSource supplies the bearer token for authenticated requests.
// It is consulted per request so a re-login is picked up immediately.
type TokenSource func() string

// ClientConfig holds configuration options for the API client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://localhost:5000)
	BaseURL string

	// Timeout for requests (default: 15s)
	Timeout time.Duration

	// Token supplies the bearer credential; nil means unauthenticated.
	Token TokenSource
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://localhost:5000",
		Timeout: 15 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Chatify backend REST API.
//
// The Client is thread-safe for concurrent use.
//
// Example:
//
//	client := api.NewClient(&api.ClientConfig{
//	    BaseURL: cfg.Server.BaseURL,
//	    Token:   sessions.Token,
//	})
//	friends, err := client.Friends(ctx)
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new API client.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:5000"
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// =============================================================================
// AUTHENTICATION
// =============================================================================

// Login authenticates with email and password and returns the issued token
// and user identity.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, &ClientError{Type: ErrTypeValidation, Message: "email and password are required"}
	}

	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &out, false); err != nil {
		return nil, err
	}
	if out.Token == "" || out.User.ID == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "login response missing token or user"}
	}
	return &out, nil
}

// Signup creates a new account. The backend answers 201 on success; the user
// then logs in separately.
func (c *Client) Signup(ctx context.Context, name, username, email, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return &ClientError{Type: ErrTypeValidation, Message: "username, email and password are required"}
	}
	return c.do(ctx, http.MethodPost, "/api/auth/signup", signupRequest{
		Name:     name,
		Username: username,
		Email:    email,
		Password: password,
	}, nil, false)
}

// =============================================================================
// USERS AND FRIENDS
// =============================================================================

// GetUser resolves a user's profile by id (used for the chat header name).
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &out, true); err != nil {
		return nil, err
	}
	if out.ID == "" {
		out.ID = id
	}
	return &out, nil
}

// Friends returns the raw friend list. The backend may return duplicate
// entries; callers must deduplicate by id.
func (c *Client) Friends(ctx context.Context) ([]Friend, error) {
	var out []Friend
	if err := c.do(ctx, http.MethodGet, "/api/users/friends", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// FriendRequests returns the pending incoming friend requests.
func (c *Client) FriendRequests(ctx context.Context) ([]FriendRequest, error) {
	var out []FriendRequest
	if err := c.do(ctx, http.MethodGet, "/api/users/friend-requests", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchUsers returns candidate users matching a username query.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]User, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	var out []User
	path := "/api/users/search?username=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// SendFriendRequest sends a friend request to the given user.
func (c *Client) SendFriendRequest(ctx context.Context, recipientID string) error {
	if recipientID == "" {
		return &ClientError{Type: ErrTypeValidation, Message: "recipient id is required"}
	}
	return c.do(ctx, http.MethodPost, "/api/users/send-friend-request",
		sendFriendRequestRequest{RecipientID: recipientID}, nil, true)
}

// HandleFriendRequest accepts or rejects a pending request from senderID.
func (c *Client) HandleFriendRequest(ctx context.Context, senderID string, action Action) error {
	if senderID == "" {
		return &ClientError{Type: ErrTypeValidation, Message: "sender id is required"}
	}
	if !action.Valid() {
		return &ClientError{Type: ErrTypeValidation, Message: "action must be accept or reject"}
	}
	return c.do(ctx, http.MethodPost, "/api/users/handle-friend-request",
		handleFriendRequestRequest{SenderID: senderID, Action: string(action)}, nil, true)
}

// =============================================================================
// CHAT
// =============================================================================

// ChatHistory returns the prior messages between selfID and peerID in the
// backend's stored order. The client never re-sorts them.
func (c *Client) ChatHistory(ctx context.Context, selfID, peerID string) ([]ChatMessage, error) {
	if selfID == "" || peerID == "" {
		return nil, &ClientError{Type: ErrTypeValidation, Message: "both user ids are required"}
	}
	var out []ChatMessage
	path := "/api/chat/" + url.PathEscape(selfID) + "/" + url.PathEscape(peerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// SendChat persists a direct message. Realtime fan-out happens over the
// event channel separately; this call is the durability step.
func (c *Client) SendChat(ctx context.Context, msg ChatMessage) error {
	if strings.TrimSpace(msg.Message) == "" {
		return &ClientError{Type: ErrTypeValidation, Message: "message body is empty"}
	}
	if msg.Sender == "" || msg.Receiver == "" {
		return &ClientError{Type: ErrTypeValidation, Message: "sender and receiver are required"}
	}
	return c.do(ctx, http.MethodPost, "/api/chat/send", msg, nil, true)
}

// =============================================================================
// AI CHAT
// =============================================================================

// AskAI sends a message to the AI assistant endpoint and returns its reply.
// The AI service is an opaque remote call; no conversation state is sent.
func (c *Client) AskAI(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", &ClientError{Type: ErrTypeValidation, Message: "message body is empty"}
	}
	var out aiResponse
	if err := c.do(ctx, http.MethodPost, "/api/ai", aiRequest{Message: message}, &out, true); err != nil {
		return "", err
	}
	return out.AIMessage, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do executes a JSON request against the backend and decodes the response
// into out (when non-nil). Status codes map onto the error taxonomy; the
// backend's error body message is surfaced when present.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, authed bool) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reqBody)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token := ""
		if c.config.Token != nil {
			token = c.config.Token()
		}
		if token == "" {
			// No credential: do not even attempt the call.
			return ErrUnauthorized
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeConnection, Message: "backend unreachable", Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		// Try to surface the backend's message.
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: apiErr.Message}
		}
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "request failed: " + resp.Status}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
		}
	}
	return nil
}
