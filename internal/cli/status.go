// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - status and config command handlers.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/teja272004/chatify-tui/internal/api"
	"github.com/teja272004/chatify-tui/internal/config"
	"github.com/teja272004/chatify-tui/internal/session"
)

// HandleStatus prints the session identity and probes the backend.
func HandleStatus(cfg *config.Config, client *api.Client, sessions *session.Store) {
	fmt.Printf("Backend:  %s\n", cfg.Server.BaseURL)
	fmt.Printf("Socket:   %s\n", cfg.Server.SocketURL)

	sess := sessions.Current()
	if sess.Valid() {
		fmt.Printf("Session:  %s (logged in %s)\n", sess.Username, sess.LoggedInAt.Format("2006-01-02 15:04"))
	} else {
		fmt.Println("Session:  not logged in")
	}

	if !sess.Valid() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	friends, err := client.Friends(ctx)
	if err != nil {
		fmt.Printf("Reach:    unreachable (%v)\n", err)
		return
	}
	fmt.Printf("Reach:    ok (%d friends)\n", len(friends))
}

// HandleConfig prints the effective configuration and its source path.
func HandleConfig(cfg *config.Config, path string) {
	fmt.Printf("Config file:   %s\n", path)
	fmt.Printf("server.base_url     = %s\n", cfg.Server.BaseURL)
	fmt.Printf("server.socket_url   = %s\n", cfg.Server.SocketURL)
	fmt.Printf("server.timeout_secs = %d\n", cfg.Server.TimeoutSecs)
	fmt.Printf("ui.theme            = %s\n", cfg.UI.Theme)
	fmt.Printf("ui.sidebar_width    = %d\n", cfg.UI.SidebarWidth)
	fmt.Printf("log.level           = %s\n", cfg.Log.Level)
	fmt.Printf("log.file            = %s\n", cfg.LogFile())
	fmt.Printf("call.stun_server    = %s\n", cfg.Call.STUNServer)
}
