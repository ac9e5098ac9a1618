// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Chatify backend REST API.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&ClientConfig{
		BaseURL: srv.URL,
		Token:   func() string { return token },
	})
}

// =============================================================================
// AUTHENTICATION TESTS
// =============================================================================

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["email"] != "a@b.c" {
			t.Errorf("email = %q", req["email"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1",
			"user":  map[string]string{"_id": "u1", "username": "alice"},
		})
	}, "")

	resp, err := client.Login(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token != "tok-1" || resp.User.ID != "u1" || resp.User.Username != "alice" {
		t.Errorf("login response = %+v", resp)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	client := NewClient(nil)
	if _, err := client.Login(context.Background(), "", "pw"); !IsValidation(err) {
		t.Errorf("empty email should be a validation error, got %v", err)
	}
	if _, err := client.Login(context.Background(), "a@b.c", ""); !IsValidation(err) {
		t.Errorf("empty password should be a validation error, got %v", err)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "")

	if _, err := client.Login(context.Background(), "a@b.c", "wrong"); !IsUnauthorized(err) {
		t.Errorf("401 should map to unauthorized, got %v", err)
	}
}

func TestLogin_MissingUserInResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"token": "tok"})
	}, "")

	if _, err := client.Login(context.Background(), "a@b.c", "pw"); err == nil {
		t.Error("login response without user should be an error")
	}
}

func TestSignup(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/signup" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
	}, "")

	if err := client.Signup(context.Background(), "Alice A", "alice", "a@b.c", "pw"); err != nil {
		t.Errorf("Signup failed: %v", err)
	}
}

// =============================================================================
// AUTHORIZATION TESTS
// =============================================================================

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Friend{})
	}, "tok-abc")

	if _, err := client.Friends(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Errorf("Authorization header = %q, want Bearer tok-abc", gotAuth)
	}
}

func TestAuthedCallWithoutToken(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, "")

	if _, err := client.Friends(context.Background()); !IsUnauthorized(err) {
		t.Errorf("call without token should be unauthorized, got %v", err)
	}
	if called {
		t.Error("client must not attempt the call without a credential")
	}
}

// =============================================================================
// FRIENDS AND REQUESTS TESTS
// =============================================================================

func TestFriends_DuplicatesPassedThrough(t *testing.T) {
	// Deduplication is the store's job; the client reports what the backend
	// returned.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Friend{
			{ID: "a", Username: "ann"},
			{ID: "a", Username: "ann"},
			{ID: "b", Username: "bob"},
		})
	}, "tok")

	friends, err := client.Friends(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(friends) != 3 {
		t.Errorf("len(friends) = %d, want 3 (raw backend response)", len(friends))
	}
}

func TestHandleFriendRequest_Validation(t *testing.T) {
	client := NewClient(nil)

	if err := client.HandleFriendRequest(context.Background(), "", ActionAccept); !IsValidation(err) {
		t.Errorf("empty sender id should be a validation error, got %v", err)
	}
	if err := client.HandleFriendRequest(context.Background(), "u2", Action("maybe")); !IsValidation(err) {
		t.Errorf("unknown action should be a validation error, got %v", err)
	}
}

func TestHandleFriendRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["senderId"] != "u2" || req["action"] != "accept" {
			t.Errorf("request body = %v", req)
		}
		w.WriteHeader(http.StatusOK)
	}, "tok")

	if err := client.HandleFriendRequest(context.Background(), "u2", ActionAccept); err != nil {
		t.Errorf("HandleFriendRequest failed: %v", err)
	}
}

func TestSearchUsers_EmptyQuery(t *testing.T) {
	client := NewClient(nil)
	users, err := client.SearchUsers(context.Background(), "   ")
	if err != nil || users != nil {
		t.Errorf("blank query should return nothing, got %v, %v", users, err)
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChatHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/u1/u2" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]ChatMessage{
			{Sender: "u1", Receiver: "u2", Message: "hi"},
			{Sender: "u2", Receiver: "u1", Message: "hello"},
		})
	}, "tok")

	msgs, err := client.ChatHistory(context.Background(), "u1", "u2")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 || msgs[0].Message != "hi" {
		t.Errorf("history = %+v", msgs)
	}
}

func TestSendChat_EmptyBody(t *testing.T) {
	client := NewClient(nil)
	err := client.SendChat(context.Background(), ChatMessage{Sender: "u1", Receiver: "u2", Message: "  "})
	if !IsValidation(err) {
		t.Errorf("empty body should be a validation error, got %v", err)
	}
}

func TestSendChat_NotFoundPeer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, "tok")

	err := client.SendChat(context.Background(), ChatMessage{Sender: "u1", Receiver: "gone", Message: "hi"})
	if !IsNotFound(err) {
		t.Errorf("404 should map to not found, got %v", err)
	}
}

// =============================================================================
// AI TESTS
// =============================================================================

func TestAskAI(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ai" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"aiMessage": "42"})
	}, "tok")

	reply, err := client.AskAI(context.Background(), "meaning of life?")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "42" {
		t.Errorf("reply = %q", reply)
	}
}

// =============================================================================
// ERROR MAPPING TESTS
// =============================================================================

func TestErrorBodySurfaced(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "already friends"})
	}, "tok")

	err := client.SendFriendRequest(context.Background(), "u9")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "already friends" {
		t.Errorf("error = %q, want backend message surfaced", err.Error())
	}
}
