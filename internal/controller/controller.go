// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller coordinates the REST client, the realtime channel, and
// the in-memory stores behind the chat views.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/teja272004/chatify-tui/internal/api"
	"github.com/teja272004/chatify-tui/internal/channel"
	"github.com/teja272004/chatify-tui/internal/store"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Backend is the REST surface the controller consumes. *api.Client
// satisfies it; tests substitute a fake.
type Backend interface {
	GetUser(ctx context.Context, id string) (*api.User, error)
	Friends(ctx context.Context) ([]api.Friend, error)
	FriendRequests(ctx context.Context) ([]api.FriendRequest, error)
	SearchUsers(ctx context.Context, query string) ([]api.User, error)
	SendFriendRequest(ctx context.Context, recipientID string) error
	HandleFriendRequest(ctx context.Context, senderID string, action api.Action) error
	ChatHistory(ctx context.Context, selfID, peerID string) ([]api.ChatMessage, error)
	SendChat(ctx context.Context, msg api.ChatMessage) error
}

// =============================================================================
// LIFECYCLE STATES
// =============================================================================

// State is the controller's lifecycle phase.
type State int

const (
	// StateUnauthenticated is the zero state, before Init.
	StateUnauthenticated State = iota
	// StateInitializing covers the join handshake and the startup fetches.
	StateInitializing
	// StateReady means the channel is joined and the friend graph loaded;
	// no conversation is open.
	StateReady
	// StateActive means a conversation is open.
	StateActive
	// StateTornDown is terminal; the controller is unusable after Teardown.
	StateTornDown
)

// String returns the state's name for logs.
func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateActive:
		return "active"
	case StateTornDown:
		return "torn-down"
	default:
		return "unknown"
	}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Params carries the controller's dependencies.
type Params struct {
	SelfID   string
	Username string
	Backend  Backend
	Channel  channel.Channel
	Logger   *slog.Logger

	// Notify delivers push-driven updates to the UI, typically the tea
	// program's Send. Called from channel handler goroutines; it must not
	// block. nil means push updates are applied to the stores silently.
	Notify func(msg any)
}

// Controller owns the session's messaging state. One controller exists per
// authenticated session; views hold a reference and call into it from their
// command functions.
//
// Methods that hit the network block; run them off the UI goroutine. Inbound
// channel events mutate the stores on the channel's read goroutine and are
// then announced through Notify.
type Controller struct {
	selfID   string
	username string
	backend  Backend
	ch       channel.Channel
	logger   *slog.Logger
	notify   func(msg any)

	conv    *store.ConversationStore
	friends *store.FriendStore

	mu       sync.Mutex
	state    State
	unsubs   []func()
	online   []string
	socketID string
}

// New builds a controller in the unauthenticated state. Call Init to bring
// it up.
func New(p Params) *Controller {
	notify := p.Notify
	if notify == nil {
		notify = func(any) {}
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		selfID:   p.SelfID,
		username: p.Username,
		backend:  p.Backend,
		ch:       p.Channel,
		logger:   logger,
		notify:   notify,
		conv:     store.NewConversationStore(p.SelfID),
		friends:  store.NewFriendStore(),
	}
}

// SelfID returns the authenticated user's id.
func (c *Controller) SelfID() string { return c.selfID }

// Username returns the authenticated user's display name.
func (c *Controller) Username() string { return c.username }

// Conversations returns the conversation store for read access by views.
func (c *Controller) Conversations() *store.ConversationStore { return c.conv }

// Friends returns the friend store for read access by views.
func (c *Controller) Friends() *store.FriendStore { return c.friends }

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Online returns the user ids the server last reported as connected.
func (c *Controller) Online() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.online))
	copy(out, c.online)
	return out
}

// SocketID returns the server-assigned connection id, used as the caller id
// in call signaling. Empty until the server has sent it.
func (c *Controller) SocketID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.socketID
}

// =============================================================================
// INIT
// =============================================================================

// Init joins the realtime channel, registers the push handlers, and loads
// the friend graph. The friends and pending-requests fetches run in parallel
// and tolerate failure independently; an empty friend list never blocks the
// rest of the session from coming up.
//
// Push handlers are registered exactly once here and deregistered exactly
// once in Teardown. The join handshake happens once per session; the server
// treats re-joins as idempotent by identity, but there is no reason to
// repeat it on every view change.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateUnauthenticated {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("init from state %s", state)
	}
	c.state = StateInitializing
	c.mu.Unlock()

	if err := c.ch.Join(c.selfID); err != nil {
		c.mu.Lock()
		c.state = StateUnauthenticated
		c.mu.Unlock()
		return fmt.Errorf("join channel: %w", err)
	}
	c.subscribeAll()

	// Ask for the current online set once up front; after this the server
	// pushes userList on every connect and disconnect. Failure is not
	// fatal, presence just starts empty until the next push.
	if err := c.ch.Publish(channel.EventGetUsers, nil); err != nil {
		c.logger.Warn("online user request failed", "error", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := c.RefreshFriends(ctx); err != nil {
			c.logger.Warn("friends fetch failed", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := c.RefreshRequests(ctx); err != nil {
			c.logger.Warn("pending requests fetch failed", "error", err)
		}
	}()
	wg.Wait()

	c.mu.Lock()
	c.state = StateReady
	c.mu.Unlock()
	c.logger.Info("controller ready", "user", c.selfID)
	return nil
}

// RefreshFriends refetches the friend list and replaces the friend set.
// Duplicate entries from the backend are collapsed by the store.
func (c *Controller) RefreshFriends(ctx context.Context) error {
	wire, err := c.backend.Friends(ctx)
	if err != nil {
		return err
	}
	friends := make([]store.Friend, len(wire))
	for i, f := range wire {
		friends[i] = store.Friend{ID: f.ID, Username: f.Username}
	}
	c.friends.SetFriends(friends)
	return nil
}

// RefreshRequests refetches the pending incoming friend requests.
func (c *Controller) RefreshRequests(ctx context.Context) error {
	wire, err := c.backend.FriendRequests(ctx)
	if err != nil {
		return err
	}
	requests := make([]store.Request, len(wire))
	for i, r := range wire {
		requests[i] = store.Request{ID: r.ID, Username: r.Username}
	}
	c.friends.SetRequests(requests)
	return nil
}

// =============================================================================
// CONVERSATION ACTIVATION
// =============================================================================

// Activate opens the conversation with peerID: marks it active (resetting
// its unread count in the same transition) and loads its history from the
// backend. Pushes that land while the fetch is in flight are buffered by the
// store and replayed after, so none are lost to the load.
//
// Concurrent Activate calls for the same peer are resolved by load epoch:
// only the newest load's result is installed, so a slow stale fetch cannot
// clobber the conversation the user is now looking at. Switching peers does
// not refetch friends or pending requests.
func (c *Controller) Activate(ctx context.Context, peerID string) error {
	c.mu.Lock()
	switch c.state {
	case StateReady, StateActive:
	default:
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("activate from state %s", state)
	}
	c.state = StateActive
	c.mu.Unlock()

	c.conv.SetActive(peerID)
	epoch := c.conv.BeginLoad(peerID)

	wire, err := c.backend.ChatHistory(ctx, c.selfID, peerID)
	if err != nil {
		c.conv.AbortLoad(peerID, epoch)
		c.logger.Warn("history load failed", "peer", peerID, "error", err)
		return err
	}

	history := make([]store.Message, len(wire))
	for i, m := range wire {
		history[i] = store.Message{Sender: m.Sender, Receiver: m.Receiver, Body: m.Message}
	}
	if !c.conv.FinishLoad(peerID, epoch, history) {
		// A newer activation superseded this one; its result stands instead.
		return nil
	}
	c.notify(HistoryLoaded{Peer: peerID})
	return nil
}

// Deactivate closes the open conversation without tearing the session down.
func (c *Controller) Deactivate() {
	c.conv.ClearActive()
	c.mu.Lock()
	if c.state == StateActive {
		c.state = StateReady
	}
	c.mu.Unlock()
}

// ResolvePeerName returns a display name for peerID, from the friend store
// when possible and from the backend otherwise.
func (c *Controller) ResolvePeerName(ctx context.Context, peerID string) (string, error) {
	if name := c.friends.Username(peerID); name != "" {
		return name, nil
	}
	user, err := c.backend.GetUser(ctx, peerID)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// =============================================================================
// SENDING
// =============================================================================

// SendMessage delivers a message to peerID: publishes it on the channel for
// realtime fan-out, persists it through the backend, and appends it to the
// local history once persistence succeeds. A message is never appended
// before the backend confirms it, and a failed send is never retried; the
// error surfaces to the caller and prior state is unchanged.
func (c *Controller) SendMessage(ctx context.Context, peerID, body string) (store.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return store.Message{}, &api.ClientError{Type: api.ErrTypeValidation, Message: "message is empty"}
	}

	wire := api.ChatMessage{Sender: c.selfID, Receiver: peerID, Message: body}
	if err := c.ch.Publish(channel.EventPrivateMessage, wire); err != nil {
		return store.Message{}, fmt.Errorf("publish message: %w", err)
	}
	if err := c.backend.SendChat(ctx, wire); err != nil {
		return store.Message{}, err
	}
	return c.conv.AppendLocal(peerID, body), nil
}

// =============================================================================
// FRIEND GRAPH OPERATIONS
// =============================================================================

// Search looks up users by username prefix.
func (c *Controller) Search(ctx context.Context, query string) ([]api.User, error) {
	return c.backend.SearchUsers(ctx, query)
}

// SendFriendRequest asks the backend to deliver a friend request to
// recipientID. The recipient learns of it through their own push channel.
func (c *Controller) SendFriendRequest(ctx context.Context, recipientID string) error {
	return c.backend.SendFriendRequest(ctx, recipientID)
}

// RespondToRequest resolves the pending request from senderID. The pending
// entry is removed only after the backend confirms; a failed accept leaves
// the request visible rather than silently dropping something the user
// believes they accepted. A confirmed accept also mirrors the requester
// into the friend set, matching what the backend has already recorded.
func (c *Controller) RespondToRequest(ctx context.Context, senderID string, action api.Action) error {
	if !action.Valid() {
		return &api.ClientError{Type: api.ErrTypeValidation, Message: fmt.Sprintf("unknown action %q", action)}
	}
	name := c.friends.Username(senderID)

	if err := c.backend.HandleFriendRequest(ctx, senderID, action); err != nil {
		return err
	}
	c.friends.RemoveRequest(senderID)
	if action == api.ActionAccept {
		c.friends.AddFriend(store.Friend{ID: senderID, Username: name})
	}
	return nil
}

// =============================================================================
// TEARDOWN
// =============================================================================

// Teardown ends the session: deregisters every channel subscription, drops
// all in-memory state, and runs clearToken to discard the durable
// credential. The controller is unusable afterwards. Safe to call more than
// once; only the first call does work.
func (c *Controller) Teardown(clearToken func() error) error {
	c.mu.Lock()
	if c.state == StateTornDown {
		c.mu.Unlock()
		return nil
	}
	c.state = StateTornDown
	unsubs := c.unsubs
	c.unsubs = nil
	c.online = nil
	c.socketID = ""
	c.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	c.conv.Reset()
	c.friends.Reset()

	if clearToken != nil {
		if err := clearToken(); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
	}
	return nil
}
