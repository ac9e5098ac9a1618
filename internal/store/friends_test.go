// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import "testing"

func TestFriendStore_SetFriendsCollapsesDuplicates(t *testing.T) {
	tests := []struct {
		name  string
		input []Friend
		want  []string // expected ids in order
	}{
		{
			name:  "no duplicates",
			input: []Friend{{ID: "a", Username: "alice"}, {ID: "b", Username: "bob"}},
			want:  []string{"a", "b"},
		},
		{
			name:  "adjacent duplicate",
			input: []Friend{{ID: "a", Username: "alice"}, {ID: "a", Username: "alice"}, {ID: "b", Username: "bob"}},
			want:  []string{"a", "b"},
		},
		{
			name:  "scattered duplicates keep first-seen order",
			input: []Friend{{ID: "b", Username: "bob"}, {ID: "a", Username: "alice"}, {ID: "b", Username: "bob"}},
			want:  []string{"b", "a"},
		},
		{
			name:  "empty",
			input: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewFriendStore()
			s.SetFriends(tt.input)

			got := s.Friends()
			if len(got) != len(tt.want) {
				t.Fatalf("Friends() has %d entries, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("entry %d = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestFriendStore_AddFriendIgnoresDuplicate(t *testing.T) {
	s := NewFriendStore()
	s.SetFriends([]Friend{{ID: "a", Username: "alice"}})

	s.AddFriend(Friend{ID: "a", Username: "alice"})
	s.AddFriend(Friend{ID: "b", Username: "bob"})

	got := s.Friends()
	if len(got) != 2 {
		t.Fatalf("Friends() has %d entries, want 2", len(got))
	}
	if !s.IsFriend("b") || !s.IsFriend("a") {
		t.Error("IsFriend lookup failed for present ids")
	}
	if s.IsFriend("c") {
		t.Error("IsFriend(c) = true for absent id")
	}
}

func TestFriendStore_Username(t *testing.T) {
	s := NewFriendStore()
	s.SetFriends([]Friend{{ID: "a", Username: "alice"}})
	s.SetRequests([]Request{{ID: "r1", Username: "requester"}})

	if got := s.Username("a"); got != "alice" {
		t.Errorf("Username(a) = %q, want alice", got)
	}
	if got := s.Username("r1"); got != "requester" {
		t.Errorf("Username(r1) = %q, want requester", got)
	}
	if got := s.Username("zz"); got != "" {
		t.Errorf("Username(zz) = %q, want empty", got)
	}
}

func TestFriendStore_AddRequestSuppressesDuplicate(t *testing.T) {
	s := NewFriendStore()
	s.SetRequests([]Request{{ID: "r1", Username: "requester"}})

	// A live push racing the initial fetch must not double the entry.
	s.AddRequest(Request{ID: "r1", Username: "requester"})
	s.AddRequest(Request{ID: "r2", Username: "other"})

	got := s.Requests()
	if len(got) != 2 {
		t.Fatalf("Requests() has %d entries, want 2", len(got))
	}
	if got[0].ID != "r1" || got[1].ID != "r2" {
		t.Errorf("Requests() order = %+v", got)
	}
}

func TestFriendStore_RemoveRequest(t *testing.T) {
	s := NewFriendStore()
	s.SetRequests([]Request{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}})

	s.RemoveRequest("r2")
	s.RemoveRequest("zz") // absent id is a no-op

	got := s.Requests()
	if len(got) != 2 || got[0].ID != "r1" || got[1].ID != "r3" {
		t.Errorf("Requests() = %+v, want r1 and r3", got)
	}
}

func TestFriendStore_Reset(t *testing.T) {
	s := NewFriendStore()
	s.SetFriends([]Friend{{ID: "a"}})
	s.SetRequests([]Request{{ID: "r1"}})

	s.Reset()

	if len(s.Friends()) != 0 || len(s.Requests()) != 0 {
		t.Error("Reset left state behind")
	}
}
