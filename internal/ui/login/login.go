// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login implements the authentication view: a login form and a
// signup form sharing one model. Signup never logs the user in; a created
// account drops back to the login form.
package login

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teja272004/chatify-tui/internal/api"
	"github.com/teja272004/chatify-tui/internal/ui/components"
	"github.com/teja272004/chatify-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// SuccessMsg announces a completed login to the parent view.
type SuccessMsg struct {
	Token string
	User  api.User
}

type loginResult struct {
	resp *api.LoginResponse
	err  error
}

type signupResult struct {
	err error
}

// =============================================================================
// MODEL
// =============================================================================

type mode int

const (
	modeLogin mode = iota
	modeSignup
)

const opTimeout = 15 * time.Second

// Field indices per mode. Login uses email and password; signup adds name
// and username above them.
const (
	loginEmail = iota
	loginPassword
)

const (
	signupName = iota
	signupUsername
	signupEmail
	signupPassword
)

// Authenticator is the slice of the API client the view needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Signup(ctx context.Context, name, username, email, password string) error
}

// Model is the authentication form.
type Model struct {
	theme  *styles.Theme
	client Authenticator

	mode       mode
	inputs     []textinput.Model
	focus      int
	submitting bool
	notice     string

	banner  *components.ErrorBanner
	spinner spinner.Model

	width  int
	height int
}

// New builds the view in login mode.
func New(theme *styles.Theme, client Authenticator) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	m := Model{
		theme:   theme,
		client:  client,
		banner:  components.NewErrorBanner(theme),
		spinner: sp,
	}
	m.setMode(modeLogin)
	return m
}

func (m *Model) setMode(mo mode) {
	m.mode = mo
	m.focus = 0
	m.submitting = false
	m.banner.Clear()

	labels := []string{"Email", "Password"}
	if mo == modeSignup {
		labels = []string{"Name", "Username", "Email", "Password"}
	}
	m.inputs = make([]textinput.Model, len(labels))
	for i, label := range labels {
		in := textinput.New()
		in.Placeholder = label
		in.CharLimit = 128
		in.Width = 36
		if label == "Password" {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '*'
		}
		m.inputs[i] = in
	}
	m.inputs[0].Focus()
}

// Init starts the spinner ticker.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the authentication view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.banner.SetWidth(msg.Width)
		return m, nil

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case loginResult:
		m.submitting = false
		if msg.err != nil {
			m.banner.Show(msg.err)
			return m, nil
		}
		resp := msg.resp
		return m, func() tea.Msg { return SuccessMsg{Token: resp.Token, User: resp.User} }

	case signupResult:
		m.submitting = false
		if msg.err != nil {
			m.banner.Show(msg.err)
			return m, nil
		}
		// Account created. The backend does not issue a token on signup, so
		// drop back to the login form.
		m.setMode(modeLogin)
		m.notice = "Account created. Log in to continue."
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.submitting {
		// Only quit gets through while a request is in flight.
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyCtrlS:
		if m.mode == modeLogin {
			m.setMode(modeSignup)
		} else {
			m.setMode(modeLogin)
		}
		m.notice = ""
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		m.moveFocus(1)
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		m.moveFocus(-1)
		return m, nil

	case tea.KeyEnter:
		if m.focus < len(m.inputs)-1 {
			m.moveFocus(1)
			return m, nil
		}
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) moveFocus(delta int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	m.banner.Clear()
	m.notice = ""
	m.submitting = true

	if m.mode == modeLogin {
		email := strings.TrimSpace(m.inputs[loginEmail].Value())
		password := m.inputs[loginPassword].Value()
		return m, tea.Batch(m.loginCmd(email, password), m.spinner.Tick)
	}

	name := strings.TrimSpace(m.inputs[signupName].Value())
	username := strings.TrimSpace(m.inputs[signupUsername].Value())
	email := strings.TrimSpace(m.inputs[signupEmail].Value())
	password := m.inputs[signupPassword].Value()
	return m, tea.Batch(m.signupCmd(name, username, email, password), m.spinner.Tick)
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		resp, err := client.Login(ctx, email, password)
		return loginResult{resp: resp, err: err}
	}
}

func (m Model) signupCmd(name, username, email, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return signupResult{err: client.Signup(ctx, name, username, email, password)}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the authentication form centered on screen.
func (m Model) View() string {
	t := m.theme

	title := "Log in to Chatify"
	button := "Log in"
	switchHint := "ctrl+s sign up instead"
	if m.mode == modeSignup {
		title = "Create your account"
		button = "Sign up"
		switchHint = "ctrl+s back to login"
	}

	var b strings.Builder
	b.WriteString(t.FormTitle.Render(title))
	b.WriteString("\n\n")
	for i, in := range m.inputs {
		label := t.FormLabel.Render(in.Placeholder)
		box := t.FormBlurred
		if i == m.focus {
			box = t.FormFocused
		}
		b.WriteString(label + "\n" + box.Render(in.View()) + "\n")
	}
	b.WriteString("\n")

	if m.submitting {
		b.WriteString(m.spinner.View() + t.LoadingText.Render(" Contacting server..."))
	} else {
		style := t.FormButton
		if m.focus == len(m.inputs)-1 {
			style = t.FormButtonHot
		}
		b.WriteString(style.Render("[ " + button + " ]"))
	}
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(styles.RenderSuccess(m.notice) + "\n")
	}
	if m.banner.Visible() {
		b.WriteString(m.banner.Render() + "\n")
	}
	b.WriteString(t.FormSwitchHint.Render(switchHint + "   ctrl+c quit"))

	form := t.FormBox.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return form
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
}
