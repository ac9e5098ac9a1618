// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package channel provides the realtime event channel to the Chatify backend.
package channel

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed indicates the channel connection is gone; the session must be
// re-established to publish again.
var ErrClosed = errors.New("channel closed")

const (
	writeTimeout   = 10 * time.Second
	maxMessageSize = 512 * 1024 // protects against memory exhaustion
)

// =============================================================================
// CHANNEL INTERFACE
// =============================================================================

// Handler receives the raw payload of an inbound event. Handlers run on the
// read goroutine and must not block; they should hand work off (the TUI
// forwards into the Bubble Tea program).
type Handler func(data json.RawMessage)

// Channel is the process-wide realtime connection. There is exactly one per
// session, constructed at startup and shut down on logout; views receive it
// by injection so tests can substitute a fake.
type Channel interface {
	// Join announces the local user's identity so the server can route
	// targeted events. Idempotent server-side; one call per session.
	Join(selfID string) error

	// Subscribe registers a handler for a named inbound event. Multiple
	// subscribers per event are allowed. The returned function deregisters
	// the handler and must be called on view teardown; failing to do so
	// duplicates handling across view transitions.
	Subscribe(event string, h Handler) (unsubscribe func())

	// Publish sends a named event to the server for routing.
	Publish(event string, payload any) error

	// Close tears the connection down. Safe to call more than once.
	Close() error
}

// =============================================================================
// WEBSOCKET CONNECTION
// =============================================================================

// Conn is the websocket-backed Channel implementation.
//
// Delivery guarantees are the transport's: events from a single sender
// arrive in send order; nothing is guaranteed across senders. Connection
// loss is terminal for this Conn; no reconnection is attempted here.
type Conn struct {
	ws     *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex // websocket allows one concurrent writer

	mu     sync.Mutex
	subs   map[string]map[uint64]Handler
	nextID uint64
	closed bool

	done chan struct{}
}

// Dial connects to the channel endpoint and starts the read loop.
// The caller announces identity with Join before anything is routed to it.
func Dial(ctx context.Context, socketURL string, logger *slog.Logger) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, socketURL, nil)
	if err != nil {
		return nil, err
	}
	ws.SetReadLimit(maxMessageSize)

	c := &Conn{
		ws:     ws,
		logger: logger,
		subs:   make(map[string]map[uint64]Handler),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Join announces the current user's identity so the server can route
// targeted events. The server-side join is idempotent by identity, so
// calling it again on an already-joined connection is harmless.
func (c *Conn) Join(selfID string) error {
	return c.Publish(EventJoin, selfID)
}

// Subscribe implements Channel.
func (c *Conn) Subscribe(event string, h Handler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.subs[event] == nil {
		c.subs[event] = make(map[uint64]Handler)
	}
	id := c.nextID
	c.nextID++
	c.subs[event][id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs[event], id)
		})
	}
}

// Publish implements Channel.
func (c *Conn) Publish(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return err
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, frame)
}

// Close implements Channel. Closing the socket unblocks the read loop,
// which then winds itself down; Done reports when that has happened.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	return c.ws.Close()
}

// Done is closed when the read loop ends, whether by Close or by the server
// dropping the connection.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// =============================================================================
// READ LOOP
// =============================================================================

func (c *Conn) readLoop() {
	defer close(c.done)

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("channel connection lost", "error", err)
			}
			c.mu.Lock()
			c.closed = true
			c.mu.Unlock()
			return
		}
		if len(data) == 0 {
			continue
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn("dropping malformed channel frame", "error", err)
			continue
		}
		c.dispatch(env)
	}
}

// dispatch fans an event out to every subscriber registered for it.
// Handlers run under a snapshot of the registry so an unsubscribe from
// inside a handler cannot deadlock.
func (c *Conn) dispatch(env Envelope) {
	c.mu.Lock()
	handlers := make([]Handler, 0, len(c.subs[env.Event]))
	for _, h := range c.subs[env.Event] {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(env.Data)
	}
}
