// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/ticketdesk-tui/internal/api"
	"github.com/jeranaias/ticketdesk-tui/internal/notify"
	"github.com/jeranaias/ticketdesk-tui/internal/session"
	"github.com/jeranaias/ticketdesk-tui/internal/validate"
)

// Login page messages.
const (
	MsgLoginSuccess       = "Login successful!"
	MsgLoginUnreachable   = "Cannot reach the server. Check your connection."
	MsgLoginInvalid       = "Incorrect email or password"
	MsgLoginBadRequest    = "Invalid data. Check email and password"
	MsgLoginFailed        = "Error logging in"
	MsgSessionInvalidated = "Your session has expired. Please log in again."
)

type loginResultMsg struct {
	cred session.Credential
	err  error
}

type loginRedirectMsg struct{}

const (
	loginEmail = iota
	loginPassword
)

// Login is the sign-in form.
type Login struct {
	base

	inputs     []textinput.Model
	focus      int
	spinner    spinner.Model
	submitting bool
	// succeeded blocks a second submit while the redirect is pending.
	succeeded bool
	err       string
}

// NewLogin builds the login page.
func NewLogin(deps Deps, epoch uint64) *Login {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = ""
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 128

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Login{
		base:    newBase(deps, RouteLogin, epoch),
		inputs:  []textinput.Model{email, password},
		spinner: sp,
	}
}

// Init focuses the email field.
func (l *Login) Init() tea.Cmd {
	return l.inputs[loginEmail].Focus()
}

// Capturing is always true; the login form owns the keyboard.
func (l *Login) Capturing() bool { return true }

// Submitting reports whether a login request is in flight.
func (l *Login) Submitting() bool { return l.submitting }

// Error returns the inline error under the form.
func (l *Login) Error() string { return l.err }

// Update handles typing, submission and the login result.
func (l *Login) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return l.handleKey(msg)

	case spinner.TickMsg:
		if !l.submitting {
			return nil
		}
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return cmd

	case loginResultMsg:
		return l.handleResult(msg)

	case loginRedirectMsg:
		return func() tea.Msg { return LoggedInMsg{} }
	}
	return nil
}

func (l *Login) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down", "shift+tab", "up":
		return l.setFocus(1 - l.focus)
	case "enter":
		return l.submit()
	}
	if l.submitting {
		return nil
	}
	var cmd tea.Cmd
	l.inputs[l.focus], cmd = l.inputs[l.focus].Update(msg)
	return cmd
}

func (l *Login) setFocus(i int) tea.Cmd {
	l.inputs[l.focus].Blur()
	l.focus = i
	return l.inputs[i].Focus()
}

// SetCredentials fills the form. Used by tests and the CLI prefill.
func (l *Login) SetCredentials(email, password string) {
	l.inputs[loginEmail].SetValue(email)
	l.inputs[loginPassword].SetValue(password)
}

func (l *Login) email() string    { return strings.TrimSpace(l.inputs[loginEmail].Value()) }
func (l *Login) password() string { return l.inputs[loginPassword].Value() }

func (l *Login) submit() tea.Cmd {
	if l.submitting || l.succeeded {
		return nil
	}
	if err := validate.Login(l.email(), l.password()); err != nil {
		l.err = err.Error()
		l.notify(l.err, notify.KindError)
		return nil
	}

	l.submitting = true
	l.err = ""
	auth := l.deps.Services.Auth
	email, password := l.email(), l.password()
	return tea.Batch(
		l.spinner.Tick,
		l.run(func(ctx context.Context) tea.Msg {
			cred, err := auth.Login(ctx, email, password)
			return loginResultMsg{cred: cred, err: err}
		}),
	)
}

func (l *Login) handleResult(msg loginResultMsg) tea.Cmd {
	l.submitting = false
	if msg.err != nil {
		l.err = LoginErrorMessage(msg.err)
		l.logger.Info("login failed", zap.Int("status", api.StatusCode(msg.err)), zap.Error(msg.err))
		l.notify(l.err, notify.KindError)
		return nil
	}

	l.succeeded = true
	l.inputs[loginPassword].Reset()
	l.logger.Info("login succeeded", zap.String("user", msg.cred.Email))
	l.notify(MsgLoginSuccess, notify.KindSuccess)
	l.after(l.deps.LoginRedirect, loginRedirectMsg{})
	return nil
}

// LoginErrorMessage maps a login failure to the text shown to the user.
func LoginErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, api.ErrUnreachable):
		return MsgLoginUnreachable
	case errors.Is(err, api.ErrInvalidCredentials):
		return MsgLoginInvalid
	}
	switch api.StatusCode(err) {
	case http.StatusUnauthorized:
		return MsgLoginInvalid
	case http.StatusBadRequest:
		return MsgLoginBadRequest
	}
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	return MsgLoginFailed
}

// View renders the form box centred in the available space.
func (l *Login) View(width, height int) string {
	theme := l.deps.Theme

	statuses := []validate.FieldStatus{
		validate.EmailStatus(l.inputs[loginEmail].Value()),
		validate.PasswordStatus(l.password()),
	}
	labels := []string{"Email", "Password"}

	rows := []string{
		theme.Title.Render("ticketdesk"),
		theme.Subtitle.Render("Sign in to the support console"),
		"",
	}
	for i, in := range l.inputs {
		box := theme.Input
		switch statuses[i] {
		case validate.StatusError:
			box = theme.InputError
		case validate.StatusSuccess:
			box = theme.InputOK
		default:
			if i == l.focus {
				box = theme.InputFocus
			}
		}
		rows = append(rows,
			theme.Label.Render(labels[i]),
			box.Width(40).Render(in.View()),
		)
	}

	rows = append(rows, "")
	switch {
	case l.submitting:
		rows = append(rows, l.spinner.View()+" Signing in...")
	case l.err != "":
		rows = append(rows, theme.Error.Render(l.err))
	default:
		rows = append(rows, theme.Hint.Render("[enter] Sign in   [tab] Next field   [ctrl+c] Quit"))
	}

	form := theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	if width <= 0 || height <= 0 {
		return form
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, form)
}
