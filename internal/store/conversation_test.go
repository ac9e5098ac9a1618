// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"fmt"
	"testing"
)

func remote(sender, body string) Message {
	return Message{Sender: sender, Receiver: "u1", Body: body}
}

// =============================================================================
// UNREAD COUNTER TESTS
// =============================================================================

func TestConversationStore_UnreadIncrementsForInactivePeer(t *testing.T) {
	s := NewConversationStore("u1")
	s.SetActive("u3")

	s.AppendRemote(remote("u2", "hello"))

	if got := s.Unread("u2"); got != 1 {
		t.Errorf("Unread(u2) = %d, want 1", got)
	}
	if got := s.Unread("u3"); got != 0 {
		t.Errorf("Unread(u3) = %d, want 0", got)
	}
	if h := s.History("u2"); len(h) != 1 || h[0].Body != "hello" {
		t.Errorf("History(u2) = %+v, want single hello", h)
	}
	if h := s.History("u3"); len(h) != 0 {
		t.Errorf("History(u3) = %+v, want empty", h)
	}
}

func TestConversationStore_UnreadCountsEveryAppend(t *testing.T) {
	s := NewConversationStore("u1")
	s.SetActive("u9")

	for i := 0; i < 5; i++ {
		s.AppendRemote(remote("u2", fmt.Sprintf("m%d", i)))
	}
	s.AppendRemote(remote("u3", "other"))

	if got := s.Unread("u2"); got != 5 {
		t.Errorf("Unread(u2) = %d, want 5", got)
	}
	if got := s.Unread("u3"); got != 1 {
		t.Errorf("Unread(u3) = %d, want 1", got)
	}
}

func TestConversationStore_ActivePeerDoesNotAccumulateUnread(t *testing.T) {
	s := NewConversationStore("u1")
	s.SetActive("u2")

	s.AppendRemote(remote("u2", "hi"))
	s.AppendRemote(remote("u2", "there"))

	if got := s.Unread("u2"); got != 0 {
		t.Errorf("Unread(u2) = %d, want 0 while active", got)
	}
	if h := s.History("u2"); len(h) != 2 {
		t.Errorf("History(u2) has %d messages, want 2", len(h))
	}
}

func TestConversationStore_SetActiveResetsUnread(t *testing.T) {
	s := NewConversationStore("u1")

	s.AppendRemote(remote("u2", "a"))
	s.AppendRemote(remote("u2", "b"))
	if got := s.Unread("u2"); got != 2 {
		t.Fatalf("Unread(u2) = %d, want 2", got)
	}

	s.SetActive("u2")

	if got := s.Unread("u2"); got != 0 {
		t.Errorf("Unread(u2) = %d after SetActive, want 0", got)
	}
	if got := len(s.Unreads()); got != 0 {
		t.Errorf("Unreads() holds %d entries, want 0", got)
	}
}

func TestConversationStore_SwitchingActiveResetsOnlyNewPeer(t *testing.T) {
	s := NewConversationStore("u1")
	s.SetActive("u2")

	s.AppendRemote(remote("u3", "x"))
	s.AppendRemote(remote("u4", "y"))

	s.SetActive("u3")

	if got := s.Unread("u3"); got != 0 {
		t.Errorf("Unread(u3) = %d, want 0", got)
	}
	if got := s.Unread("u4"); got != 1 {
		t.Errorf("Unread(u4) = %d, want 1 untouched", got)
	}
}

// =============================================================================
// ECHO SUPPRESSION TESTS
// =============================================================================

func TestConversationStore_OwnEchoDropped(t *testing.T) {
	s := NewConversationStore("u1")
	s.SetActive("u2")

	s.AppendLocal("u2", "hi")

	// The channel may reflect our own send back at us. It must not land a
	// second copy or bump any counter.
	echo := Message{Sender: "u1", Receiver: "u2", Body: "hi"}
	if s.AppendRemote(echo) {
		t.Error("AppendRemote accepted our own echo")
	}

	if h := s.History("u2"); len(h) != 1 {
		t.Errorf("History(u2) has %d messages, want 1", len(h))
	}
	if got := len(s.Unreads()); got != 0 {
		t.Errorf("Unreads() holds %d entries, want 0", got)
	}
}

// =============================================================================
// ORDERING TESTS
// =============================================================================

func TestConversationStore_ArrivalOrderPreserved(t *testing.T) {
	s := NewConversationStore("u1")
	s.SetActive("u2")

	s.AppendLocal("u2", "one")
	s.AppendRemote(remote("u2", "two"))
	s.AppendLocal("u2", "three")

	h := s.History("u2")
	want := []string{"one", "two", "three"}
	if len(h) != len(want) {
		t.Fatalf("History(u2) has %d messages, want %d", len(h), len(want))
	}
	for i, body := range want {
		if h[i].Body != body {
			t.Errorf("message %d = %q, want %q", i, h[i].Body, body)
		}
	}
}

func TestConversationStore_HistoryReturnsCopy(t *testing.T) {
	s := NewConversationStore("u1")
	s.AppendRemote(remote("u2", "a"))

	h := s.History("u2")
	h[0].Body = "mutated"

	if got := s.History("u2")[0].Body; got != "a" {
		t.Errorf("store history mutated through returned slice: %q", got)
	}
}

// =============================================================================
// LOAD / REPLAY TESTS
// =============================================================================

func TestConversationStore_PushDuringLoadIsReplayed(t *testing.T) {
	s := NewConversationStore("u1")
	s.SetActive("u2")

	epoch := s.BeginLoad("u2")
	s.AppendRemote(remote("u2", "landed mid-fetch"))

	if h := s.History("u2"); len(h) != 0 {
		t.Fatalf("buffered message visible before load resolved: %+v", h)
	}

	fetched := []Message{remote("u2", "old one"), remote("u2", "old two")}
	if !s.FinishLoad("u2", epoch, fetched) {
		t.Fatal("FinishLoad rejected current epoch")
	}

	h := s.History("u2")
	want := []string{"old one", "old two", "landed mid-fetch"}
	if len(h) != len(want) {
		t.Fatalf("History(u2) has %d messages, want %d", len(h), len(want))
	}
	for i, body := range want {
		if h[i].Body != body {
			t.Errorf("message %d = %q, want %q", i, h[i].Body, body)
		}
	}
}

func TestConversationStore_ReplayDropsMessagesAlreadyFetched(t *testing.T) {
	s := NewConversationStore("u1")
	s.SetActive("u2")

	epoch := s.BeginLoad("u2")
	s.AppendRemote(remote("u2", "raced"))

	// The server persisted the raced message before serving the history, so
	// the fetch already contains it.
	fetched := []Message{remote("u2", "older"), remote("u2", "raced")}
	s.FinishLoad("u2", epoch, fetched)

	h := s.History("u2")
	if len(h) != 2 {
		t.Fatalf("History(u2) has %d messages, want 2: %+v", len(h), h)
	}
}

func TestConversationStore_ReplayKeepsRepeatedMessage(t *testing.T) {
	s := NewConversationStore("u1")
	s.SetActive("u2")

	epoch := s.BeginLoad("u2")
	// The peer sent the same body twice during the fetch; the server got
	// only the first copy into the served history. Exactly one buffered
	// copy matches it, the other must survive the replay.
	s.AppendRemote(remote("u2", "ping"))
	s.AppendRemote(remote("u2", "ping"))

	fetched := []Message{remote("u2", "ping")}
	s.FinishLoad("u2", epoch, fetched)

	h := s.History("u2")
	if len(h) != 2 {
		t.Fatalf("History(u2) has %d messages, want 2: %+v", len(h), h)
	}
}

func TestConversationStore_LocalSendDuringLoadSurvives(t *testing.T) {
	s := NewConversationStore("u1")
	s.SetActive("u2")

	epoch := s.BeginLoad("u2")
	s.AppendLocal("u2", "typed while loading")
	s.FinishLoad("u2", epoch, []Message{remote("u2", "old")})

	h := s.History("u2")
	if len(h) != 2 || h[1].Body != "typed while loading" {
		t.Errorf("History(u2) = %+v, want old message then local send", h)
	}
}

func TestConversationStore_StaleLoadDiscarded(t *testing.T) {
	s := NewConversationStore("u1")

	first := s.BeginLoad("u2")
	second := s.BeginLoad("u2")

	if s.FinishLoad("u2", first, []Message{remote("u2", "stale")}) {
		t.Error("FinishLoad accepted a superseded epoch")
	}
	if !s.FinishLoad("u2", second, []Message{remote("u2", "fresh")}) {
		t.Error("FinishLoad rejected the current epoch")
	}

	h := s.History("u2")
	if len(h) != 1 || h[0].Body != "fresh" {
		t.Errorf("History(u2) = %+v, want only the fresh load", h)
	}
}

func TestConversationStore_AbortLoadFlushesBuffer(t *testing.T) {
	s := NewConversationStore("u1")
	s.AppendRemote(remote("u2", "before"))

	epoch := s.BeginLoad("u2")
	s.AppendRemote(remote("u2", "during"))

	if !s.AbortLoad("u2", epoch) {
		t.Fatal("AbortLoad rejected current epoch")
	}

	h := s.History("u2")
	if len(h) != 2 || h[0].Body != "before" || h[1].Body != "during" {
		t.Errorf("History(u2) = %+v, want before then during", h)
	}
}

func TestConversationStore_UnreadCountedWhileLoading(t *testing.T) {
	s := NewConversationStore("u1")
	s.SetActive("u2")

	s.BeginLoad("u2")
	s.AppendRemote(remote("u3", "from elsewhere"))

	if got := s.Unread("u3"); got != 1 {
		t.Errorf("Unread(u3) = %d, want 1", got)
	}
}

// =============================================================================
// RESET TESTS
// =============================================================================

func TestConversationStore_Reset(t *testing.T) {
	s := NewConversationStore("u1")
	s.SetActive("u2")
	s.AppendRemote(remote("u3", "x"))
	s.BeginLoad("u4")

	s.Reset()

	if s.ActivePeer() != "" {
		t.Error("active peer survived Reset")
	}
	if len(s.History("u3")) != 0 {
		t.Error("history survived Reset")
	}
	if len(s.Unreads()) != 0 {
		t.Error("unread counts survived Reset")
	}
}
