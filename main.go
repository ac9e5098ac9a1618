// chatify TUI - a terminal client for the Chatify chat backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teja272004/chatify-tui/internal/api"
	"github.com/teja272004/chatify-tui/internal/call"
	"github.com/teja272004/chatify-tui/internal/channel"
	"github.com/teja272004/chatify-tui/internal/cli"
	"github.com/teja272004/chatify-tui/internal/config"
	"github.com/teja272004/chatify-tui/internal/controller"
	"github.com/teja272004/chatify-tui/internal/logging"
	"github.com/teja272004/chatify-tui/internal/session"
	"github.com/teja272004/chatify-tui/internal/ui/aichat"
	"github.com/teja272004/chatify-tui/internal/ui/chat"
	"github.com/teja272004/chatify-tui/internal/ui/login"
	"github.com/teja272004/chatify-tui/internal/ui/search"
	"github.com/teja272004/chatify-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference so controller and call notifications raised on
// network goroutines can be fed back into the update loop.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func programSend(msg any) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	cfg, cfgPath := loadConfig(args)
	sessions := session.NewStore(config.Dir())
	if _, err := sessions.Load(); err != nil && err != session.ErrNoSession {
		fmt.Fprintf(os.Stderr, "Warning: could not read session: %v\n", err)
	}
	client := api.NewClient(&api.ClientConfig{
		BaseURL: cfg.Server.BaseURL,
		Timeout: cfg.RequestTimeout(),
		Token:   sessions.Token,
	})

	switch cmd {
	case cli.CmdLogin:
		if err := cli.HandleLogin(client, sessions, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdLogout:
		if err := cli.HandleLogout(sessions); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdStatus:
		cli.HandleStatus(cfg, client, sessions)
	case cli.CmdConfig:
		cli.HandleConfig(cfg, cfgPath)
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		runTUI(cfg, cfgPath, client, sessions)
	}
}

// loadConfig loads the config file, applying CLI overrides.
func loadConfig(args cli.Args) (*config.Config, string) {
	path := config.Path()
	if args.ConfigPath != "" {
		path = args.ConfigPath
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		cfg = config.DefaultConfig()
	}
	if args.Server != "" {
		cfg.Server.BaseURL = args.Server
	}
	if args.Theme != "" {
		cfg.UI.Theme = args.Theme
	}
	return cfg, path
}

// runTUI starts the terminal interface.
func runTUI(cfg *config.Config, cfgPath string, client *api.Client, sessions *session.Store) {
	logger, logCloser, err := logging.New(cfg.LogFile(), cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		logger = logging.Discard()
	} else {
		defer logCloser.Close()
	}
	logger.Info("starting chatify", "version", Version, "backend", cfg.Server.BaseURL)

	theme := styles.NewThemeFor(cfg.UI.Theme)

	app := newApp(cfg, theme, client, sessions, logger)

	// Reload the config file when it changes on disk. Only safe-to-apply
	// settings are picked up live; endpoints need a restart.
	watcher, err := config.NewWatcher(cfgPath, logger, func(next *config.Config) {
		programSend(configReloadedMsg{cfg: next})
	})
	if err == nil {
		if err := watcher.Watch(); err == nil {
			defer watcher.Close()
		}
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	programMu.Lock()
	programRef = p
	programMu.Unlock()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running chatify: %v\n", err)
		os.Exit(1)
	}
	app.shutdown()
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// appState selects which view owns the screen.
type appState int

const (
	stateLogin appState = iota
	stateConnecting
	stateChat
	stateSearch
	stateAI
)

// connectedMsg carries the session wiring built after authentication.
type connectedMsg struct {
	conn  *channel.Conn
	ctrl  *controller.Controller
	calls *call.Manager
}

// connectFailedMsg reports a failed channel dial or session bring-up.
type connectFailedMsg struct{ err error }

// channelDroppedMsg reports that the server closed the event channel.
type channelDroppedMsg struct{}

// configReloadedMsg carries a reloaded config from the file watcher.
type configReloadedMsg struct{ cfg *config.Config }

// App is the root Bubble Tea model. It routes between the login form and the
// session views, and owns the session wiring (channel, controller, calls).
type App struct {
	state    appState
	cfg      *config.Config
	theme    *styles.Theme
	client   *api.Client
	sessions *session.Store
	logger   *slog.Logger

	loginView  login.Model
	chatView   chat.Model
	searchView search.Model
	aiView     aichat.Model

	conn  *channel.Conn
	ctrl  *controller.Controller
	calls *call.Manager

	width  int
	height int

	// startupErr is shown above the login form after a failed connect or a
	// dropped channel.
	startupErr string
}

func newApp(cfg *config.Config, theme *styles.Theme, client *api.Client, sessions *session.Store, logger *slog.Logger) *App {
	return &App{
		state:     stateLogin,
		cfg:       cfg,
		theme:     theme,
		client:    client,
		sessions:  sessions,
		logger:    logger,
		loginView: login.New(theme, client),
	}
}

// Init resumes a stored session when one exists, otherwise shows the login
// form.
func (a *App) Init() tea.Cmd {
	if sess := a.sessions.Current(); sess.Valid() {
		a.state = stateConnecting
		return tea.Batch(a.connectCmd(sess), a.loginView.Init())
	}
	return a.loginView.Init()
}

// connectCmd dials the event channel and brings the session up. The join
// handshake, the initial friend graph fetch and handler registration all
// happen inside controller.Init.
func (a *App) connectCmd(sess *session.Session) tea.Cmd {
	cfg := a.cfg
	client := a.client
	logger := a.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		conn, err := channel.Dial(ctx, cfg.Server.SocketURL, logger)
		if err != nil {
			return connectFailedMsg{err: err}
		}

		ctrl := controller.New(controller.Params{
			SelfID:   sess.UserID,
			Username: sess.Username,
			Backend:  client,
			Channel:  conn,
			Logger:   logger,
			Notify:   programSend,
		})
		if err := ctrl.Init(ctx); err != nil {
			conn.Close()
			return connectFailedMsg{err: err}
		}

		calls := call.NewManager(conn, sess.UserID, cfg.Call.STUNServer, programSend, logger)
		calls.Start()

		// The channel does not reconnect; surface a drop so the app can
		// tear the session views down.
		go func() {
			<-conn.Done()
			programSend(channelDroppedMsg{})
		}()

		return connectedMsg{conn: conn, ctrl: ctrl, calls: calls}
	}
}

// shutdown releases session resources when the program exits.
func (a *App) shutdown() {
	if a.calls != nil {
		a.calls.Stop()
	}
	if a.conn != nil {
		a.conn.Close()
	}
}

// teardown ends the current session and returns to the login form.
func (a *App) teardown(clearSession bool) {
	if a.calls != nil {
		a.calls.Stop()
		a.calls = nil
	}
	if a.ctrl != nil {
		clear := func() error { return nil }
		if clearSession {
			clear = a.sessions.Clear
		}
		if err := a.ctrl.Teardown(clear); err != nil {
			a.logger.Warn("session teardown", "error", err)
		}
		a.ctrl = nil
	}
	if a.conn != nil {
		a.conn.Close()
		a.conn = nil
	}
	a.state = stateLogin
	a.loginView = login.New(a.theme, a.client)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages to the active view and handles view transitions.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.theme.SetSize(msg.Width, msg.Height)
		a.loginView, _ = a.loginView.Update(msg)
		if a.ctrl != nil {
			a.chatView, _ = a.chatView.Update(msg)
			a.searchView, _ = a.searchView.Update(msg)
			a.aiView, _ = a.aiView.Update(msg)
		}
		return a, nil

	case login.SuccessMsg:
		sess := &session.Session{
			Token:      msg.Token,
			UserID:     msg.User.ID,
			Username:   msg.User.Username,
			LoggedInAt: time.Now(),
		}
		// A failed write is not fatal: the session still backs this
		// process, it just will not survive a restart.
		if err := a.sessions.Save(sess); err != nil {
			a.logger.Warn("session not persisted", "error", err)
		}
		a.startupErr = ""
		a.state = stateConnecting
		return a, a.connectCmd(sess)

	case connectedMsg:
		a.conn = msg.conn
		a.ctrl = msg.ctrl
		a.calls = msg.calls
		sess := a.sessions.Current()
		a.logger.Info("session ready", "user", sess.Username, "client", sess.ClientID)
		a.chatView = chat.New(a.theme, a.ctrl, a.calls, a.cfg.UI.SidebarWidth)
		a.searchView = search.New(a.theme, a.ctrl)
		a.aiView = aichat.New(a.theme, a.client)
		a.state = stateChat
		size := tea.WindowSizeMsg{Width: a.width, Height: a.height}
		a.chatView, _ = a.chatView.Update(size)
		a.searchView, _ = a.searchView.Update(size)
		a.aiView, _ = a.aiView.Update(size)
		return a, a.chatView.Init()

	case connectFailedMsg:
		a.logger.Error("session bring-up failed", "error", msg.err)
		a.startupErr = "Could not reach the server: " + msg.err.Error()
		a.state = stateLogin
		return a, nil

	case channelDroppedMsg:
		if a.state == stateLogin {
			return a, nil
		}
		a.logger.Warn("event channel dropped")
		a.teardown(false)
		a.startupErr = "Connection to the server was lost. Log in again to reconnect."
		return a, nil

	case configReloadedMsg:
		a.cfg = msg.cfg
		a.logger.Info("config reloaded", "theme", msg.cfg.UI.Theme)
		return a, nil

	case chat.LogoutMsg:
		a.teardown(true)
		return a, nil

	case chat.OpenSearchMsg:
		if a.state == stateChat {
			a.state = stateSearch
		}
		return a, nil

	case chat.OpenAIMsg:
		if a.state == stateChat {
			a.state = stateAI
		}
		return a, nil

	case search.BackMsg, aichat.BackMsg:
		a.state = stateChat
		return a, nil
	}

	// Controller and call notifications keep the chat view current even
	// while another session view owns the screen.
	if a.ctrl != nil {
		switch msg.(type) {
		case controller.MessageReceived, controller.MessagePing, controller.RequestReceived,
			controller.PresenceChanged, controller.HistoryLoaded,
			call.Ringing, call.Connected, call.Ended:
			var cmd tea.Cmd
			a.chatView, cmd = a.chatView.Update(msg)
			return a, cmd
		}
	}

	var cmd tea.Cmd
	switch a.state {
	case stateLogin, stateConnecting:
		a.loginView, cmd = a.loginView.Update(msg)
	case stateChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case stateSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case stateAI:
		a.aiView, cmd = a.aiView.Update(msg)
	}
	return a, cmd
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the active view.
func (a *App) View() string {
	switch a.state {
	case stateConnecting:
		return a.theme.LoadingText.Render("Connecting...")
	case stateChat:
		return a.chatView.View()
	case stateSearch:
		return a.searchView.View()
	case stateAI:
		return a.aiView.View()
	default:
		view := a.loginView.View()
		if a.startupErr != "" {
			return styles.RenderError(a.startupErr) + "\n" + view
		}
		return view
	}
}
