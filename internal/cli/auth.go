// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth.go - login and logout command handlers.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/teja272004/chatify-tui/internal/api"
	"github.com/teja272004/chatify-tui/internal/session"
)

// HandleLogin prompts for credentials, authenticates against the backend and
// stores the session token. The TUI has its own login form; this path exists
// for scripting and for terminals where the form is unwanted.
func HandleLogin(client *api.Client, sessions *session.Store, args Args) error {
	if err := RequiresTTY("login"); err != nil && args.Email == "" {
		return err
	}

	email := strings.TrimSpace(args.Email)
	if email == "" {
		fmt.Print("Email: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	resp, err := client.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	if err := sessions.Save(&session.Session{
		Token:      resp.Token,
		UserID:     resp.User.ID,
		Username:   resp.User.Username,
		LoggedInAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}

	fmt.Printf("Logged in as %s\n", resp.User.Username)
	return nil
}

// HandleLogout clears the stored session. The token is only forgotten
// locally; the backend keeps no server-side session to revoke.
func HandleLogout(sessions *session.Store) error {
	if !sessions.Authenticated() {
		fmt.Println("No active session.")
		return nil
	}
	name := sessions.Current().Username
	if err := sessions.Clear(); err != nil {
		return err
	}
	fmt.Printf("Logged out %s.\n", name)
	return nil
}
