// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/ticketdesk-tui/internal/api"
	"github.com/jeranaias/ticketdesk-tui/internal/ui/components"
)

// MsgDashboardFailed is shown when any of the three lists fails to load.
const MsgDashboardFailed = "Error loading dashboard data"

// RecentWindow is how far back a ticket counts as recent.
const RecentWindow = 7 * 24 * time.Hour

// Stats are the dashboard figures.
type Stats struct {
	Clients       int
	Technicians   int
	Tickets       int
	RecentTickets int
}

// ComputeStats derives the figures from the three lists. A ticket is recent
// when it was created strictly after now minus RecentWindow.
func ComputeStats(clients []api.Client, technicians []api.Technician, tickets []api.Ticket, now time.Time) Stats {
	cutoff := now.Add(-RecentWindow)
	recent := 0
	for _, t := range tickets {
		if t.CreatedAt.After(cutoff) {
			recent++
		}
	}
	return Stats{
		Clients:       len(clients),
		Technicians:   len(technicians),
		Tickets:       len(tickets),
		RecentTickets: recent,
	}
}

type statsMsg struct {
	stats Stats
	err   error
}

// Dashboard shows record totals and quick actions.
type Dashboard struct {
	base

	spinner spinner.Model
	loading bool
	loaded  bool
	stats   Stats
}

// NewDashboard builds the dashboard page.
func NewDashboard(deps Deps, epoch uint64) *Dashboard {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &Dashboard{
		base:    newBase(deps, RouteDashboard, epoch),
		spinner: sp,
	}
}

// Init starts the first load.
func (d *Dashboard) Init() tea.Cmd {
	return d.load()
}

// Capturing is false; the dashboard has no text input.
func (d *Dashboard) Capturing() bool { return false }

// Stats returns the last loaded figures.
func (d *Dashboard) Stats() (Stats, bool) { return d.stats, d.loaded }

// Loading reports whether a load is in flight.
func (d *Dashboard) Loading() bool { return d.loading }

func (d *Dashboard) load() tea.Cmd {
	if d.loading {
		return nil
	}
	d.loading = true
	svc := d.deps.Services
	now := d.deps.Clock.Now
	return tea.Batch(d.spinner.Tick, d.run(func(ctx context.Context) tea.Msg {
		var (
			clients     []api.Client
			technicians []api.Technician
			tickets     []api.Ticket
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			clients, err = svc.Clients.List(gctx)
			return err
		})
		g.Go(func() (err error) {
			technicians, err = svc.Technicians.List(gctx)
			return err
		})
		g.Go(func() (err error) {
			tickets, err = svc.Tickets.List(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return statsMsg{err: err}
		}
		return statsMsg{stats: ComputeStats(clients, technicians, tickets, now())}
	}))
}

// Update handles the load result and quick-action keys.
func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case statsMsg:
		d.loading = false
		if msg.err != nil {
			d.failed(msg.err, MsgDashboardFailed)
			return nil
		}
		d.stats = msg.stats
		d.loaded = true
		return nil

	case spinner.TickMsg:
		if !d.loading {
			return nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return d.load()
		case "c":
			return navigate(RouteClients)
		case "t":
			return navigate(RouteTechnicians)
		case "n":
			return navigate(RouteTickets)
		}
	}
	return nil
}

func navigate(to Route) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{To: to} }
}

// View renders the stat cards.
func (d *Dashboard) View(width, height int) string {
	theme := d.deps.Theme

	value := func(n int) string {
		if d.loading && !d.loaded {
			return "..."
		}
		return fmt.Sprintf("%d", n)
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		components.RenderStatCard(theme, "Clients", value(d.stats.Clients), "registered"),
		components.RenderStatCard(theme, "Technicians", value(d.stats.Technicians), "on staff"),
		components.RenderStatCard(theme, "Tickets", value(d.stats.Tickets), "all time"),
		components.RenderStatCard(theme, "Recent tickets", value(d.stats.RecentTickets), "last 7 days"),
	)

	header := theme.Title.Render("Dashboard")
	if d.loading {
		header += " " + d.spinner.View()
	}
	actions := theme.Hint.Render("Quick actions: [c] Clients   [t] Technicians   [n] Tickets   [r] Refresh")

	return lipgloss.JoinVertical(lipgloss.Left, header, "", cards, "", actions)
}
