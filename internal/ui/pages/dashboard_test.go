// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ticketdesk-tui/internal/api"
)

func TestComputeStats(t *testing.T) {
	tickets := []api.Ticket{
		{CreatedAt: testNow.Add(-time.Hour)},
		{CreatedAt: testNow.Add(-6 * 24 * time.Hour)},
		{CreatedAt: testNow.Add(-RecentWindow)},
		{CreatedAt: testNow.Add(-30 * 24 * time.Hour)},
		{},
	}
	got := ComputeStats(make([]api.Client, 2), make([]api.Technician, 3), tickets, testNow)
	assert.Equal(t, Stats{Clients: 2, Technicians: 3, Tickets: 5, RecentTickets: 2}, got)
}

func seed(h *harness) {
	c := h.server.AddClient(api.Client{Nombre: "Luis", Apellido: "Gómez", Cedula: "0102", Email: "luis@example.com", Telefono: "555"})
	tc := h.server.AddTechnician(api.Technician{Nombre: "Marta", Apellido: "Ríos", Especialidad: "Redes"})
	h.server.AddTicket(api.TicketInput{Codigo: 1, Descripcion: "Printer jams", Cliente: c.ID, Tecnico: tc.ID}, testNow.Add(-2*24*time.Hour))
	h.server.AddTicket(api.TicketInput{Codigo: 2, Descripcion: "No network", Cliente: c.ID, Tecnico: tc.ID}, testNow.Add(-20*24*time.Hour))
}

func TestDashboardLoads(t *testing.T) {
	h := newHarness(t).loggedIn()
	seed(h)

	d := NewDashboard(h.deps, 1)
	defer d.Close()
	drain(t, d, d.Init())

	stats, ok := d.Stats()
	require.True(t, ok)
	assert.Equal(t, Stats{Clients: 1, Technicians: 1, Tickets: 2, RecentTickets: 1}, stats)
	assert.False(t, d.Loading())
	assert.Contains(t, d.View(120, 30), "Recent tickets")
}

func TestDashboardFailure(t *testing.T) {
	h := newHarness(t).loggedIn()
	h.server.Fail("GET /tecnicos", http.StatusInternalServerError)

	d := NewDashboard(h.deps, 1)
	defer d.Close()
	drain(t, d, d.Init())

	_, ok := d.Stats()
	assert.False(t, ok)
	assert.Equal(t, MsgDashboardFailed, currentMessage(t, d))
}

func TestDashboardSessionInvalidatedIsSilent(t *testing.T) {
	h := newHarness(t).loggedIn()
	h.server.RotateToken("token-2")

	d := NewDashboard(h.deps, 1)
	defer d.Close()
	drain(t, d, d.Init())

	assert.Empty(t, currentMessage(t, d), "the controller reports invalidation, not the page")
	assert.False(t, h.store.Authenticated())
	select {
	case <-h.gw.Invalidated():
	default:
		t.Fatal("gateway did not signal")
	}
}

func TestDashboardQuickActions(t *testing.T) {
	h := newHarness(t).loggedIn()
	d := NewDashboard(h.deps, 1)
	defer d.Close()

	assert.Equal(t, []any{NavigateMsg{To: RouteClients}}, toAny(press(t, d, "c")))
	assert.Equal(t, []any{NavigateMsg{To: RouteTechnicians}}, toAny(press(t, d, "t")))
	assert.Equal(t, []any{NavigateMsg{To: RouteTickets}}, toAny(press(t, d, "n")))
}
