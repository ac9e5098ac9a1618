// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the authenticated identity for the client process.
package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testSession() *Session {
	return &Session{
		Token:      "tok-123",
		UserID:     "u1",
		Username:   "alice",
		LoggedInAt: time.Now(),
	}
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestSession_Valid(t *testing.T) {
	tests := []struct {
		name string
		sess *Session
		want bool
	}{
		{"nil session", nil, false},
		{"complete session", testSession(), true},
		{"missing token", &Session{UserID: "u1"}, false},
		{"missing user id", &Session{Token: "tok"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sess.Valid(); got != tc.want {
				t.Errorf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}

// =============================================================================
// STORE TESTS
// =============================================================================

func TestStore_LoadWithoutFile(t *testing.T) {
	st := NewStore(t.TempDir())

	if _, err := st.Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load without file = %v, want ErrNoSession", err)
	}
	if st.Authenticated() {
		t.Error("store should not be authenticated without a session")
	}
	if st.Token() != "" {
		t.Error("Token should be empty without a session")
	}
}

func TestStore_SaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()

	st := NewStore(dir)
	if err := st.Save(testSession()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A fresh store (new process) must see the same identity.
	st2 := NewStore(dir)
	sess, err := st2.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sess.UserID != "u1" || sess.Username != "alice" || sess.Token != "tok-123" {
		t.Errorf("loaded session = %+v", sess)
	}
	if !st2.Authenticated() {
		t.Error("store should be authenticated after Load")
	}
}

func TestStore_SessionFilePermissions(t *testing.T) {
	dir := t.TempDir()
	st := NewStore(dir)
	if err := st.Save(testSession()); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("session file mode = %v, want 0600 (holds a credential)", info.Mode().Perm())
	}
}

func TestStore_SaveRejectsInvalid(t *testing.T) {
	st := NewStore(t.TempDir())
	if err := st.Save(&Session{Username: "noidentity"}); err == nil {
		t.Error("Save should reject a session without token and user id")
	}
}

func TestStore_Clear(t *testing.T) {
	dir := t.TempDir()
	st := NewStore(dir)
	if err := st.Save(testSession()); err != nil {
		t.Fatal(err)
	}

	if err := st.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if st.Authenticated() {
		t.Error("store should be unauthenticated after Clear")
	}
	if _, err := os.Stat(filepath.Join(dir, "session.json")); !errors.Is(err, os.ErrNotExist) {
		t.Error("session file should be removed on Clear")
	}

	// Clearing twice is not an error.
	if err := st.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}

func TestStore_ClientIDAssignedAndStable(t *testing.T) {
	dir := t.TempDir()
	st := NewStore(dir)

	if err := st.Save(testSession()); err != nil {
		t.Fatal(err)
	}
	first := st.Current().ClientID
	if first == "" {
		t.Fatal("Save did not assign a client id")
	}

	// A re-login on the same installation keeps the client id.
	if err := st.Save(testSession()); err != nil {
		t.Fatal(err)
	}
	if got := st.Current().ClientID; got != first {
		t.Errorf("client id changed across logins: %q -> %q", first, got)
	}
}

func TestStore_LoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	st := NewStore(dir)
	if _, err := st.Load(); err == nil {
		t.Error("Load should fail on corrupt session file")
	}
}

func TestStore_SaveKeepsSessionOnWriteFailure(t *testing.T) {
	// Rooting the store under a regular file makes the atomic write fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	st := NewStore(filepath.Join(blocker, "nested"))

	sess := testSession()
	if err := st.Save(sess); err == nil {
		t.Fatal("Save should fail when the session dir cannot be created")
	}

	cur := st.Current()
	if cur == nil {
		t.Fatal("Current() = nil after failed Save, want the in-memory session")
	}
	if cur.UserID != "u1" || cur.Token != "tok-123" {
		t.Errorf("Current() = %+v, want the session passed to Save", cur)
	}
	if cur.ClientID == "" {
		t.Error("ClientID should be assigned even when persistence fails")
	}
	if !st.Authenticated() {
		t.Error("store should report authenticated off the in-memory session")
	}
}
