// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the authenticated identity for the client process.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teja272004/chatify-tui/internal/util"
)

// ErrNoSession indicates no stored session exists; the caller must route the
// user through the authentication flow.
var ErrNoSession = errors.New("no stored session")

// =============================================================================
// SESSION
// =============================================================================

// Session is the authenticated identity. The token is the only durable local
// state the client keeps; everything else is session-scoped memory.
type Session struct {
	Token      string    `json:"token"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	LoggedInAt time.Time `json:"logged_in_at"`

	// ClientID identifies this installation across logins. It only appears
	// in logs; the backend never sees it.
	ClientID string `json:"client_id"`
}

// Valid reports whether the session carries enough identity to authenticate
// requests.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.UserID != ""
}

// =============================================================================
// STORE
// =============================================================================

// Store is the single source of truth for the current session. It persists
// the session file under the config directory and hands the bearer token to
// every outbound call. All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	path    string
	current *Session
}

// NewStore creates a session store rooted at the given config directory.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, "session.json")}
}

// Load reads the session file into memory. Returns ErrNoSession if the file
// does not exist or holds an unusable session.
func (s *Store) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if !sess.Valid() {
		return nil, ErrNoSession
	}

	s.current = &sess
	return &sess, nil
}

// Save stores a new session in memory and on disk. The file is written
// atomically with 0600 permissions; it holds a credential.
func (s *Store) Save(sess *Session) error {
	if !sess.Valid() {
		return errors.New("refusing to save invalid session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.ClientID == "" {
		if s.current != nil && s.current.ClientID != "" {
			sess.ClientID = s.current.ClientID
		} else {
			sess.ClientID = uuid.NewString()
		}
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	// The in-memory session becomes current even when the write fails:
	// the running process keeps working off it, the session just will not
	// survive a restart. The caller decides whether that is fatal.
	s.current = sess
	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return err
	}
	return nil
}

// Clear discards the in-memory session and removes the session file.
// This is the single teardown path for logout.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Current returns the in-memory session, or nil if unauthenticated.
func (s *Store) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Authenticated reports whether a usable session is loaded.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Valid()
}

// Token returns the bearer token for outbound calls, or "" when
// unauthenticated. Passed as a TokenSource to the API client so the client
// never holds a stale copy.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}
