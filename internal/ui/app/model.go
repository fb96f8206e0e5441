// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/ticketdesk-tui/internal/api"
	"github.com/jeranaias/ticketdesk-tui/internal/notify"
	"github.com/jeranaias/ticketdesk-tui/internal/session"
	"github.com/jeranaias/ticketdesk-tui/internal/ui/components"
	"github.com/jeranaias/ticketdesk-tui/internal/ui/pages"
)

// Messages shown by the controller on the login page.
const (
	MsgLoggedOut     = "You have logged out"
	MsgSignedOutElse = "You were logged out from another terminal"
)

const eventBufferLength = 16

// =============================================================================
// MESSAGES
// =============================================================================

// SessionInvalidatedMsg reports that the server rejected the stored token.
type SessionInvalidatedMsg struct{}

// SessionChangedMsg reports that the session file changed on disk.
type SessionChangedMsg struct{}

// eventMsg wraps a message that arrived through the event channel; the
// listener is re-armed after it is handled.
type eventMsg struct {
	msg tea.Msg
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the top-level controller. It owns the mounted page, the route
// guard and the translation of session signals into navigation.
type Model struct {
	deps   pages.Deps
	store  *session.Store
	gw     *api.Gateway
	logger *zap.Logger
	keys   KeyMap
	help   help.Model

	start pages.Route
	page  pages.Page
	epoch uint64

	width  int
	height int

	events    chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
}

// New builds the controller and mounts the start page, or the login page
// when no credential is stored.
func New(deps pages.Deps, start pages.Route) *Model {
	m := &Model{
		keys:   DefaultKeyMap(),
		help:   help.New(),
		events: make(chan tea.Msg, eventBufferLength),
		done:   make(chan struct{}),
	}
	deps.Send = m.Send
	m.deps = deps.WithDefaults()
	m.store = m.deps.Store
	m.logger = m.deps.Logger.With(zap.String("component", "app"))
	if m.deps.Services != nil {
		m.gw = m.deps.Services.Gateway()
	}

	if r, ok := pages.ParseRoute(string(start)); !ok || r == pages.RouteLogin {
		start = pages.RouteDashboard
	}
	m.start = start
	m.mount(start)
	return m
}

// Init starts the event listener and the first page.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.Start())
}

// Start runs the mounted page's Init.
func (m *Model) Start() tea.Cmd {
	return m.page.Init()
}

// Page returns the mounted page.
func (m *Model) Page() pages.Page { return m.page }

// Route returns the mounted route.
func (m *Model) Route() pages.Route { return m.page.Route() }

// Epoch returns the mount counter.
func (m *Model) Epoch() uint64 { return m.epoch }

// Send posts msg to the update loop from any goroutine without blocking.
func (m *Model) Send(msg tea.Msg) {
	select {
	case m.events <- msg:
		return
	default:
	}
	go func() {
		select {
		case m.events <- msg:
		case <-m.done:
		}
	}()
}

func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.events:
			return eventMsg{msg: msg}
		case <-m.done:
			return nil
		}
	}
}

// Forward relays gateway invalidations and, when watch is set, session file
// changes into the update loop until ctx ends.
func (m *Model) Forward(ctx context.Context, watch bool) error {
	g, ctx := errgroup.WithContext(ctx)
	if m.gw != nil {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-m.done:
					return nil
				case <-m.gw.Invalidated():
					m.Send(SessionInvalidatedMsg{})
				}
			}
		})
	}
	if watch && m.store != nil && m.store.Path() != "" {
		g.Go(func() error {
			return m.store.Watch(ctx, func() { m.Send(SessionChangedMsg{}) })
		})
	}
	return g.Wait()
}

// Close tears down the mounted page and stops the listener.
func (m *Model) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
		if m.page != nil {
			m.page.Close()
		}
	})
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ev, ok := msg.(eventMsg); ok {
		return m, tea.Batch(m.handle(ev.msg), m.listen())
	}
	return m, m.handle(msg)
}

func (m *Model) handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pages.AsyncMsg:
		if msg.Epoch != m.epoch {
			m.logger.Debug("dropping result for unmounted page",
				zap.Uint64("epoch", msg.Epoch),
				zap.Uint64("current", m.epoch),
			)
			return nil
		}
		return m.page.Update(msg.Msg)

	case pages.NavigateMsg:
		return m.navigate(msg.To)

	case pages.LoggedInMsg:
		return m.navigate(m.start)

	case pages.NotificationChangedMsg:
		// Redraw only.
		return nil

	case SessionInvalidatedMsg:
		if m.page.Route() == pages.RouteLogin {
			return nil
		}
		m.logger.Info("session invalidated, returning to login", zap.String("from", string(m.page.Route())))
		cmd := m.navigate(pages.RouteLogin)
		m.page.Notifier().Show(pages.MsgSessionInvalidated, notify.KindWarning)
		return cmd

	case SessionChangedMsg:
		return m.handleSessionChanged()
	}

	return m.page.Update(msg)
}

func (m *Model) handleSessionChanged() tea.Cmd {
	authed := m.store != nil && m.store.Authenticated()
	route := m.page.Route()
	switch {
	case route.Protected() && !authed:
		cmd := m.navigate(pages.RouteLogin)
		m.page.Notifier().Show(MsgSignedOutElse, notify.KindInfo)
		return cmd
	case route == pages.RouteLogin && authed:
		return m.navigate(m.start)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.DismissAny):
		m.page.Notifier().DismissCurrent()
		return nil
	}

	if m.page.Capturing() {
		return m.page.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Dismiss):
		m.page.Notifier().DismissCurrent()
		return nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}

	if m.page.Route().Protected() {
		if key.Matches(msg, m.keys.Logout) {
			return m.logout()
		}
		if route, ok := m.keys.routeFor(msg); ok {
			if route == m.page.Route() {
				return nil
			}
			return m.navigate(route)
		}
	}
	return m.page.Update(msg)
}

func (m *Model) logout() tea.Cmd {
	if m.deps.Services != nil {
		if err := m.deps.Services.Auth.Logout(); err != nil {
			m.logger.Error("logout failed", zap.Error(err))
		}
	}
	m.logger.Info("logged out")
	cmd := m.navigate(pages.RouteLogin)
	m.page.Notifier().Show(MsgLoggedOut, notify.KindInfo)
	return cmd
}

// navigate tears down the mounted page and mounts to. Protected routes
// without a credential and unknown routes lead to the login page.
func (m *Model) navigate(to pages.Route) tea.Cmd {
	m.mount(to)
	return m.page.Init()
}

func (m *Model) mount(to pages.Route) {
	if _, ok := pages.ParseRoute(string(to)); !ok {
		to = pages.RouteLogin
	}
	if to.Protected() && (m.store == nil || !m.store.Authenticated()) {
		to = pages.RouteLogin
	}
	if m.page != nil {
		m.page.Close()
	}
	m.epoch++
	m.page = pages.New(to, m.deps, m.epoch)
	m.logger.Debug("mounted page", zap.String("route", string(to)), zap.Uint64("epoch", m.epoch))
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m *Model) View() string {
	theme := m.deps.Theme
	var sections []string

	if m.page.Route().Protected() {
		sections = append(sections, m.navbar().Render(theme))
	}
	if note := components.RenderNotifier(m.page.Notifier(), m.width); note != "" {
		sections = append(sections, note)
	}

	helpView := m.help.View(m.keys)
	used := 0
	for _, s := range sections {
		used += lipgloss.Height(s)
	}
	bodyHeight := m.height - used - lipgloss.Height(helpView) - 1
	if m.height <= 0 {
		bodyHeight = 0
	}

	sections = append(sections, m.page.View(m.width, bodyHeight))
	if m.page.Route().Protected() {
		sections = append(sections, helpView)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) navbar() components.Navbar {
	nav := components.Navbar{
		Active: string(m.page.Route()),
		Width:  m.width,
	}
	for i, r := range pages.Routes {
		nav.Links = append(nav.Links, components.NavLink{
			Key:   string(rune('1' + i)),
			Title: r.Title(),
			Route: string(r),
		})
	}
	if m.store != nil {
		if cred, ok := m.store.Credential(); ok {
			nav.User = cred.DisplayName()
			if exp, ok := cred.ExpiresAt(); ok {
				if left := exp.Sub(m.deps.Clock.Now()); left > 0 {
					nav.ExpiresIn = left
				}
			}
		}
	}
	return nav
}
