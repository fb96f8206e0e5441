// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ticketdesk-tui/internal/ui/pages"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the controller's global bindings. Single-letter bindings
// only apply while the page is not capturing text input.
type KeyMap struct {
	Quit        key.Binding
	Dismiss     key.Binding
	DismissAny  key.Binding
	Logout      key.Binding
	Help        key.Binding
	Dashboard   key.Binding
	Clients     key.Binding
	Technicians key.Binding
	Tickets     key.Binding
}

// DefaultKeyMap returns the global bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss"),
		),
		DismissAny: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "dismiss"),
		),
		Logout: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "log out"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Dashboard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "dashboard"),
		),
		Clients: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "clients"),
		),
		Technicians: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "technicians"),
		),
		Tickets: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "tickets"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Dismiss, k.Logout, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Dashboard, k.Clients, k.Technicians, k.Tickets},
		{k.Dismiss, k.DismissAny, k.Logout},
		{k.Help, k.Quit},
	}
}

// routeFor maps a navigation key to its route.
func (k KeyMap) routeFor(msg tea.KeyMsg) (pages.Route, bool) {
	switch {
	case key.Matches(msg, k.Dashboard):
		return pages.RouteDashboard, true
	case key.Matches(msg, k.Clients):
		return pages.RouteClients, true
	case key.Matches(msg, k.Technicians):
		return pages.RouteTechnicians, true
	case key.Matches(msg, k.Tickets):
		return pages.RouteTickets, true
	}
	return "", false
}
