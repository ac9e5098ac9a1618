// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - TTY detection for the chatify CLI.
package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// IsTTY returns true if stdin is a terminal. Interactive prompts require it.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// RequiresTTY returns an error when the named operation needs an interactive
// terminal and stdin is not one.
func RequiresTTY(operation string) error {
	if IsTTY() {
		return nil
	}
	return fmt.Errorf("%s requires an interactive terminal", operation)
}
