// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import "sync"

// Friend is a confirmed friend as the client holds it.
type Friend struct {
	ID       string
	Username string
}

// Request is a pending incoming friend request. ID is the requester's user
// id; responding targets that id.
type Request struct {
	ID       string
	Username string
}

// =============================================================================
// FRIEND STORE
// =============================================================================

// FriendStore keeps the friend set and the pending incoming requests.
//
// The friend list is a set keyed by id. The backend's friends endpoint can
// return the same user more than once; the store collapses duplicates and
// keeps first-seen order, so display order is stable across refreshes.
type FriendStore struct {
	mu       sync.Mutex
	friends  []Friend
	requests []Request
}

// NewFriendStore creates an empty friend store.
func NewFriendStore() *FriendStore {
	return &FriendStore{}
}

// =============================================================================
// FRIENDS
// =============================================================================

// SetFriends replaces the friend set with the given list, collapsing
// duplicate ids. The first occurrence of an id wins.
func (s *FriendStore) SetFriends(friends []Friend) {
	deduped := make([]Friend, 0, len(friends))
	seen := make(map[string]struct{}, len(friends))
	for _, f := range friends {
		if _, ok := seen[f.ID]; ok {
			continue
		}
		seen[f.ID] = struct{}{}
		deduped = append(deduped, f)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.friends = deduped
}

// AddFriend appends a friend to the set. A no-op when the id is already
// present, so accepting a request the backend already mirrored is safe.
func (s *FriendStore) AddFriend(f Friend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, have := range s.friends {
		if have.ID == f.ID {
			return
		}
	}
	s.friends = append(s.friends, f)
}

// Friends returns a copy of the friend set in display order.
func (s *FriendStore) Friends() []Friend {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Friend, len(s.friends))
	copy(out, s.friends)
	return out
}

// IsFriend reports whether id is in the friend set.
func (s *FriendStore) IsFriend(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.friends {
		if f.ID == id {
			return true
		}
	}
	return false
}

// Username resolves a user id to a display name, checking friends first and
// pending requests second. Returns "" when the id is unknown.
func (s *FriendStore) Username(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.friends {
		if f.ID == id {
			return f.Username
		}
	}
	for _, r := range s.requests {
		if r.ID == id {
			return r.Username
		}
	}
	return ""
}

// =============================================================================
// PENDING REQUESTS
// =============================================================================

// SetRequests replaces the pending request list, collapsing duplicate ids.
func (s *FriendStore) SetRequests(requests []Request) {
	deduped := make([]Request, 0, len(requests))
	seen := make(map[string]struct{}, len(requests))
	for _, r := range requests {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		deduped = append(deduped, r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = deduped
}

// AddRequest appends a pushed incoming request. A no-op when a request from
// the same user is already pending, so a push racing the initial fetch never
// shows the requester twice.
func (s *FriendStore) AddRequest(r Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, have := range s.requests {
		if have.ID == r.ID {
			return
		}
	}
	s.requests = append(s.requests, r)
}

// RemoveRequest drops the pending request from the given user id. A no-op
// when no such request is pending.
func (s *FriendStore) RemoveRequest(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.requests {
		if r.ID == id {
			s.requests = append(s.requests[:i], s.requests[i+1:]...)
			return
		}
	}
}

// Requests returns a copy of the pending requests in arrival order.
func (s *FriendStore) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Reset drops all friends and pending requests. Used on session teardown.
func (s *FriendStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friends = nil
	s.requests = nil
}
