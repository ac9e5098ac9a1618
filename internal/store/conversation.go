// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the client's working state for conversations and the
// friend graph.
package store

import (
	"sync"
	"time"
)

// Message is a direct message as the client holds it. Sender and Receiver
// are user ids; At is local arrival time, used only for display.
type Message struct {
	Sender   string
	Receiver string
	Body     string
	At       time.Time
}

// wireKey is a message's identity on the wire. The backend assigns no
// message ids, so content is the only available identity when reconciling a
// history fetch with buffered pushes.
type wireKey struct {
	sender, receiver, body string
}

func wireKeyOf(m Message) wireKey {
	return wireKey{sender: m.Sender, receiver: m.Receiver, body: m.Body}
}

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// ConversationStore keeps per-peer ordered message history and the global
// unread-count map. Both local sends and inbound pushes mutate it.
//
// A history load for a peer may be in flight while pushes for that peer keep
// arriving. The store buffers those pushes and replays them after the load
// resolves, so the loaded snapshot never clobbers messages that arrived
// during the fetch. Each load carries an epoch; a load result presented with
// a stale epoch is discarded.
type ConversationStore struct {
	mu sync.Mutex

	selfID     string
	activePeer string

	histories map[string][]Message
	unread    map[string]int

	// Per-peer in-flight load state. Present iff a load is in flight.
	loads map[string]*loadState
}

type loadState struct {
	epoch    uint64
	buffered []Message
}

// NewConversationStore creates an empty store for the given local user id.
// Inbound messages whose sender is selfID are treated as channel echoes of
// our own sends and dropped.
func NewConversationStore(selfID string) *ConversationStore {
	return &ConversationStore{
		selfID:    selfID,
		histories: make(map[string][]Message),
		unread:    make(map[string]int),
		loads:     make(map[string]*loadState),
	}
}

// =============================================================================
// ACTIVE PEER
// =============================================================================

// SetActive marks peerID's conversation as the active view and resets its
// unread count in the same state transition. There is no intermediate state
// where the peer is active but its badge still shows a stale count.
func (s *ConversationStore) SetActive(peerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activePeer = peerID
	delete(s.unread, peerID)
}

// ClearActive marks no conversation as active. Subsequent inbound messages
// from any peer increment that peer's unread count.
func (s *ConversationStore) ClearActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activePeer = ""
}

// ActivePeer returns the id of the active conversation's peer, or "".
func (s *ConversationStore) ActivePeer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activePeer
}

// =============================================================================
// HISTORY LOADS
// =============================================================================

// BeginLoad records that a history fetch for peerID has started and returns
// the load's epoch. Pushes for peerID are buffered until FinishLoad or
// AbortLoad is called with that epoch. Starting a new load supersedes any
// load already in flight for the peer.
func (s *ConversationStore) BeginLoad(peerID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var epoch uint64 = 1
	if prev, ok := s.loads[peerID]; ok {
		epoch = prev.epoch + 1
	}
	s.loads[peerID] = &loadState{epoch: epoch}
	return epoch
}

// FinishLoad installs a fetched history for peerID and replays messages that
// arrived while the fetch was in flight. The backend has no message ids, so
// reconciliation is by content, counting occurrences: each wire-identical
// copy in the fetched history absorbs one buffered push, no more.
//
// Returns false when the epoch is stale (a newer load superseded this one),
// in which case the result is discarded.
func (s *ConversationStore) FinishLoad(peerID string, epoch uint64, history []Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ls, ok := s.loads[peerID]
	if !ok || ls.epoch != epoch {
		return false
	}
	delete(s.loads, peerID)

	merged := make([]Message, len(history), len(history)+len(ls.buffered))
	copy(merged, history)
	// Reconciliation counts occurrences rather than testing membership:
	// each history copy of a wire-identical message absorbs at most one
	// buffered push, so a deliberately repeated message survives the
	// replay.
	unmatched := make(map[wireKey]int, len(history))
	for _, h := range history {
		unmatched[wireKeyOf(h)]++
	}
	for _, m := range ls.buffered {
		if k := wireKeyOf(m); unmatched[k] > 0 {
			unmatched[k]--
			continue
		}
		merged = append(merged, m)
	}
	s.histories[peerID] = merged
	return true
}

// AbortLoad declares a load failed. Messages buffered during the load are
// flushed onto the existing history so nothing that arrived is lost. Returns
// false when the epoch is stale.
func (s *ConversationStore) AbortLoad(peerID string, epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ls, ok := s.loads[peerID]
	if !ok || ls.epoch != epoch {
		return false
	}
	delete(s.loads, peerID)
	s.histories[peerID] = append(s.histories[peerID], ls.buffered...)
	return true
}

// =============================================================================
// APPENDS
// =============================================================================

// AppendLocal records a message this client sent to peerID. The message is
// appended exactly once here; a channel echo of it, should one arrive, is
// dropped by AppendRemote.
func (s *ConversationStore) AppendLocal(peerID, body string) Message {
	m := Message{Sender: s.selfID, Receiver: peerID, Body: body, At: time.Now()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ls, ok := s.loads[peerID]; ok {
		ls.buffered = append(ls.buffered, m)
		return m
	}
	s.histories[peerID] = append(s.histories[peerID], m)
	return m
}

// AppendRemote records an inbound pushed message under its sender's
// conversation. When the sender is not the active peer, the sender's unread
// count goes up by one. Messages whose sender is this client are echoes of
// our own sends and are dropped.
//
// Returns true when the message was accepted.
func (s *ConversationStore) AppendRemote(m Message) bool {
	if m.At.IsZero() {
		m.At = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if m.Sender == s.selfID {
		return false
	}

	peer := m.Sender
	if ls, ok := s.loads[peer]; ok {
		ls.buffered = append(ls.buffered, m)
	} else {
		s.histories[peer] = append(s.histories[peer], m)
	}
	if peer != s.activePeer {
		s.unread[peer]++
	}
	return true
}

// =============================================================================
// READS
// =============================================================================

// History returns a copy of peerID's conversation in arrival order. Messages
// buffered for an in-flight load are not included until the load resolves.
func (s *ConversationStore) History(peerID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.histories[peerID]
	out := make([]Message, len(h))
	copy(out, h)
	return out
}

// Unread returns the unread count for peerID.
func (s *ConversationStore) Unread(peerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread[peerID]
}

// Unreads returns a copy of the full unread-count map. Peers with a zero
// count are absent.
func (s *ConversationStore) Unreads() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.unread))
	for k, v := range s.unread {
		out[k] = v
	}
	return out
}

// Reset drops all histories, counts, and in-flight loads. Used on session
// teardown.
func (s *ConversationStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activePeer = ""
	s.histories = make(map[string][]Message)
	s.unread = make(map[string]int)
	s.loads = make(map[string]*loadState)
}
