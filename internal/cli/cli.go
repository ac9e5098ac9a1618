// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - argument parsing and command routing for chatify.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string // --config PATH overrides the default config file
	Theme      string // --theme dark|light overrides the configured theme
	Server     string // --server URL overrides the configured backend

	// login flags
	Email string // --email skips the interactive email prompt

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `chatify - terminal client for the Chatify chat backend

Usage:
  chatify                    Start the TUI (default)
  chatify login              Log in and store the session token
    --email ADDRESS          Skip the email prompt
  chatify logout             Clear the stored session
  chatify status             Show session and backend status
  chatify config             Show the effective configuration
  chatify version            Show version information
  chatify help               Show this help

Global flags:
  --config PATH              Use an alternate config file
  --server URL               Override the backend base URL
  --theme dark|light         Override the configured theme

Keys inside the TUI:
  tab        switch between sidebar and message input
  enter      open conversation / send message
  a / r      accept / reject the selected friend request
  ctrl+f     find friends
  ctrl+g     AI assistant
  ctrl+t     call the active peer     ctrl+y answer   ctrl+e hang up
  ctrl+l     log out
  ctrl+c     quit
`

// Parse reads os.Args and returns the command plus parsed arguments.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses an explicit argument slice. Split out for testing.
func ParseArgs(argv []string) (Command, Args) {
	var args Args
	var positional []string

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--config":
			if i+1 < len(argv) {
				i++
				args.ConfigPath = argv[i]
			}
		case strings.HasPrefix(arg, "--config="):
			args.ConfigPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--server":
			if i+1 < len(argv) {
				i++
				args.Server = argv[i]
			}
		case strings.HasPrefix(arg, "--server="):
			args.Server = strings.TrimPrefix(arg, "--server=")
		case arg == "--theme":
			if i+1 < len(argv) {
				i++
				args.Theme = argv[i]
			}
		case strings.HasPrefix(arg, "--theme="):
			args.Theme = strings.TrimPrefix(arg, "--theme=")
		case arg == "--email":
			if i+1 < len(argv) {
				i++
				args.Email = argv[i]
			}
		case strings.HasPrefix(arg, "--email="):
			args.Email = strings.TrimPrefix(arg, "--email=")
		case arg == "--help" || arg == "-h":
			return CmdHelp, args
		case arg == "--version":
			return CmdVersion, args
		default:
			positional = append(positional, arg)
		}
	}

	if len(positional) == 0 {
		return CmdTUI, args
	}
	args.Raw = positional[1:]

	switch positional[0] {
	case "tui":
		return CmdTUI, args
	case "login":
		return CmdLogin, args
	case "logout":
		return CmdLogout, args
	case "status", "s":
		return CmdStatus, args
	case "config":
		return CmdConfig, args
	case "version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", positional[0])
		return CmdHelp, args
	}
}

// HandleHelp prints the usage text.
func HandleHelp() {
	fmt.Print(usageText)
}

// HandleVersion prints version information.
func HandleVersion() {
	fmt.Printf("chatify %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
