// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// chatify-tui.
//
// Supports TOML configuration with sensible defaults, environment variable
// overrides, and validation.
//
// Configuration file location (in order of precedence):
//   - environment variables (CHATIFY_*)
//   - ~/.chatify/config.toml
//   - built-in defaults
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/teja272004/chatify-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatify-tui configuration.
type Config struct {
	Version string `toml:"version"`

	// Server holds backend endpoint configuration.
	Server ServerConfig `toml:"server"`

	// UI holds terminal interface preferences.
	UI UIConfig `toml:"ui"`

	// Log holds logging configuration.
	Log LogConfig `toml:"log"`

	// Call holds call-signaling configuration.
	Call CallConfig `toml:"call"`
}

// ServerConfig contains backend endpoint configuration.
type ServerConfig struct {
	// BaseURL is the REST API base URL (default: http://localhost:5000)
	BaseURL string `toml:"base_url"`
	// SocketURL is the realtime channel endpoint (default: ws://localhost:5000/socket)
	SocketURL string `toml:"socket_url"`
	// TimeoutSecs is the per-request timeout for REST calls (default: 15)
	TimeoutSecs int `toml:"timeout_secs"`
}

// UIConfig contains terminal interface preferences.
type UIConfig struct {
	// Theme selects the color theme: "dark", "light", or "auto" (default)
	Theme string `toml:"theme"`
	// Timestamps shows per-message timestamps in the conversation view
	Timestamps bool `toml:"timestamps"`
	// SidebarWidth is the friends sidebar width in columns (default: 28)
	SidebarWidth int `toml:"sidebar_width"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string `toml:"level"`
	// File is the log file path (empty = ~/.chatify/chatify.log).
	// The TUI owns stdout, so logs never go to the terminal.
	File string `toml:"file"`
}

// CallConfig contains call-signaling configuration.
type CallConfig struct {
	// STUNServer is the STUN server used for ICE gathering
	// (default: stun:stun.l.google.com:19302, matching the web client).
	STUNServer string `toml:"stun_server"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultConfig returns the built-in default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			BaseURL:     "http://localhost:5000",
			SocketURL:   "ws://localhost:5000/socket",
			TimeoutSecs: 15,
		},
		UI: UIConfig{
			Theme:        "auto",
			Timestamps:   false,
			SidebarWidth: 28,
		},
		Log: LogConfig{
			Level: "info",
		},
		Call: CallConfig{
			STUNServer: "stun:stun.l.google.com:19302",
		},
	}
}

// RequestTimeout returns the REST request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	if c.Server.TimeoutSecs <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}

// LogFile returns the configured log file path, or the default under the
// config directory.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(Dir(), "chatify.log")
}

// =============================================================================
// LOADING
// =============================================================================

// Dir returns the chatify config directory (~/.chatify).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chatify"
	}
	return filepath.Join(home, ".chatify")
}

// Path returns the config file path (~/.chatify/config.toml).
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the configuration: defaults, then the TOML file if present,
// then environment overrides. The result is always validated.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the configuration from an explicit file path.
// A missing file is not an error; defaults plus env overrides are returned.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Fall through to defaults.
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies CHATIFY_* environment variables on top of the
// loaded configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CHATIFY_SERVER_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("CHATIFY_SOCKET_URL"); v != "" {
		cfg.Server.SocketURL = v
	}
	if v := os.Getenv("CHATIFY_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.TimeoutSecs = n
		}
	}
	if v := os.Getenv("CHATIFY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("CHATIFY_THEME"); v != "" {
		cfg.UI.Theme = strings.ToLower(v)
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for invalid values.
// Out-of-range numeric values are clamped rather than rejected; malformed
// URLs are rejected because every feature depends on them.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server.base_url %q", c.Server.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.base_url must be http or https, got %q", u.Scheme)
	}

	su, err := url.Parse(c.Server.SocketURL)
	if err != nil || su.Scheme == "" || su.Host == "" {
		return fmt.Errorf("invalid server.socket_url %q", c.Server.SocketURL)
	}
	if su.Scheme != "ws" && su.Scheme != "wss" {
		return fmt.Errorf("server.socket_url must be ws or wss, got %q", su.Scheme)
	}

	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("ui.theme must be dark, light or auto, got %q", c.UI.Theme)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}

	if c.Server.TimeoutSecs <= 0 {
		c.Server.TimeoutSecs = 15
	}
	if c.UI.SidebarWidth < 16 {
		c.UI.SidebarWidth = 16
	}
	if c.UI.SidebarWidth > 60 {
		c.UI.SidebarWidth = 60
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default config file path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the configuration to an explicit file path.
func (c *Config) SaveTo(path string) error {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0644)
}
