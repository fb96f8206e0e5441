// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ticketdesk-tui/internal/api"
	"github.com/jeranaias/ticketdesk-tui/internal/notify"
	"github.com/jeranaias/ticketdesk-tui/internal/ui/components"
	"github.com/jeranaias/ticketdesk-tui/internal/validate"
)

// =============================================================================
// PARSERS
// =============================================================================

func TestParseClient(t *testing.T) {
	_, err := ParseClient(map[string]string{"nombre": "Luis", "email": "bad"})
	errs, ok := validate.AsErrors(err)
	require.True(t, ok)
	byField := errs.ByField()
	assert.Equal(t, "is required", byField["apellido"])
	assert.Equal(t, "must be a valid email", byField["email"])
	assert.NotContains(t, byField, "nombre")

	c, err := ParseClient(map[string]string{
		"nombre": "Luis", "apellido": "Gómez", "cedula": "0102",
		"email": "luis@example.com", "telefono": "555",
	})
	require.NoError(t, err)
	assert.Equal(t, "Luis Gómez", c.FullName())
}

func TestParseTechnician(t *testing.T) {
	values := map[string]string{
		"nombre": "Marta", "apellido": "Ríos", "cedula": "0203",
		"fecha_nacimiento": "1990-02-30", "genero": "Femenino", "direccion": "Calle 1",
		"telefono": "555", "email": "marta@example.com", "especialidad": "Redes",
	}
	_, err := ParseTechnician(values)
	errs, ok := validate.AsErrors(err)
	require.True(t, ok)
	assert.Contains(t, errs.ByField(), "fecha_nacimiento")

	values["fecha_nacimiento"] = "1990-02-20"
	values["genero"] = "Robot"
	_, err = ParseTechnician(values)
	errs, _ = validate.AsErrors(err)
	assert.Contains(t, errs.ByField()["genero"], "must be one of")

	values["genero"] = "Otro"
	_, err = ParseTechnician(values)
	assert.NoError(t, err)
}

func TestParseTicket(t *testing.T) {
	_, err := ParseTicket(map[string]string{"codigo": "12a", "descripcion": "Printer"})
	errs, ok := validate.AsErrors(err)
	require.True(t, ok)
	byField := errs.ByField()
	assert.Equal(t, "must be a whole number", byField["codigo"])
	assert.Equal(t, "is required", byField["cliente"])
	assert.Equal(t, "is required", byField["tecnico"])

	in, err := ParseTicket(map[string]string{"codigo": " 42 ", "descripcion": "Printer", "cliente": "c1", "tecnico": "t1"})
	require.NoError(t, err)
	assert.Equal(t, api.TicketInput{Codigo: 42, Descripcion: "Printer", Cliente: "c1", Tecnico: "t1"}, in)
}

// =============================================================================
// CLIENTS PAGE
// =============================================================================

func fillForm(t *testing.T, p Page, values ...string) {
	t.Helper()
	for i, v := range values {
		if i > 0 {
			press(t, p, "tab")
		}
		typeInto(t, p, v)
	}
}

func TestClientsCreateRefetches(t *testing.T) {
	h := newHarness(t).loggedIn()
	p := NewClients(h.deps, 1)
	defer p.Close()
	drain(t, p, p.Init())
	require.Empty(t, p.Items())

	press(t, p, "a")
	require.Equal(t, "form", p.Mode())
	assert.True(t, p.Capturing())

	fillForm(t, p, "Luis", "Gómez", "0102", "luis@example.com", "555")
	press(t, p, "ctrl+s")

	assert.Equal(t, "browse", p.Mode())
	assert.Equal(t, "Client created successfully", currentMessage(t, p))
	require.Len(t, p.Items(), 1)
	assert.Equal(t, "Luis", p.Items()[0].Nombre)

	reqs := h.server.Requests()
	assert.Equal(t, []string{"GET /clientes", "POST /clientes", "GET /clientes"}, reqs,
		"the list is refetched only after the write resolves")
}

func TestClientsInvalidFormStaysOpen(t *testing.T) {
	h := newHarness(t).loggedIn()
	p := NewClients(h.deps, 1)
	defer p.Close()
	drain(t, p, p.Init())

	press(t, p, "a")
	fillForm(t, p, "Luis", "", "", "bad")
	press(t, p, "ctrl+s")

	assert.Equal(t, "form", p.Mode())
	assert.Equal(t, "apellido", p.Form().FocusedKey())
	assert.Equal(t, "must be a valid email", p.Form().Errors()["email"])
	note, ok := p.Notifier().Current()
	require.True(t, ok)
	assert.Equal(t, notify.KindWarning, note.Kind)
	assert.Equal(t, []string{"GET /clientes"}, h.server.Requests())

	press(t, p, "esc")
	assert.Equal(t, "browse", p.Mode())
}

func TestClientsEditAndDelete(t *testing.T) {
	h := newHarness(t).loggedIn()
	c := h.server.AddClient(api.Client{Nombre: "Luis", Apellido: "Gómez", Cedula: "0102", Email: "luis@example.com", Telefono: "555"})
	p := NewClients(h.deps, 1)
	defer p.Close()
	drain(t, p, p.Init())
	require.Len(t, p.Items(), 1)

	press(t, p, "e")
	assert.Equal(t, c.ID, p.Editing())
	assert.Equal(t, "Luis", p.Form().Value("nombre"))
	typeInto(t, p, "ito")
	press(t, p, "ctrl+s")
	assert.Equal(t, "Client updated successfully", currentMessage(t, p))
	assert.Equal(t, "Luisito", h.server.Clients()[0].Nombre)
	assert.Empty(t, p.Editing())

	press(t, p, "d")
	assert.Equal(t, "confirm", p.Mode())
	assert.Contains(t, p.View(120, 30), "Delete client?")
	press(t, p, "n")
	assert.Len(t, h.server.Clients(), 1, "declining keeps the record")

	press(t, p, "d", "y")
	assert.Equal(t, "Client deleted successfully", currentMessage(t, p))
	assert.Empty(t, h.server.Clients())
	assert.Empty(t, p.Items())
}

func TestClientsErrors(t *testing.T) {
	h := newHarness(t).loggedIn()
	h.server.Fail("GET /clientes", http.StatusInternalServerError)
	p := NewClients(h.deps, 1)
	defer p.Close()
	drain(t, p, p.Init())
	assert.Equal(t, "Error loading clients", currentMessage(t, p))

	note, _ := p.Notifier().Current()
	assert.Equal(t, notify.KindError, note.Kind)
	h.clock.Advance(time.Minute)
	assert.Equal(t, "Error loading clients", currentMessage(t, p), "errors stay until dismissed")

	h.server.Fail("GET /clientes", 0)
	h.server.Fail("POST /clientes", http.StatusBadRequest)
	press(t, p, "a")
	fillForm(t, p, "Luis", "Gómez", "0102", "luis@example.com", "555")
	press(t, p, "ctrl+s")
	assert.Equal(t, "Error saving client", currentMessage(t, p))
	assert.Equal(t, "form", p.Mode(), "the form keeps the input after a failed save")
}

func TestClientsCopyRow(t *testing.T) {
	h := newHarness(t).loggedIn()
	h.server.AddClient(api.Client{Nombre: "Luis", Apellido: "Gómez", Cedula: "0102", Email: "luis@example.com", Telefono: "555"})
	p := NewClients(h.deps, 1)
	defer p.Close()
	drain(t, p, p.Init())

	press(t, p, "y")
	assert.Equal(t, "Luis Gómez\t0102\tluis@example.com\t555", h.copied)
	assert.Equal(t, "Row copied to the clipboard", currentMessage(t, p))
}

// =============================================================================
// TECHNICIANS PAGE
// =============================================================================

func TestTechniciansGenderSelect(t *testing.T) {
	h := newHarness(t).loggedIn()
	p := NewTechnicians(h.deps, 1)
	defer p.Close()
	drain(t, p, p.Init())

	press(t, p, "a")
	fillForm(t, p, "Marta", "Ríos", "0203", "1990-02-20")
	press(t, p, "tab", "right", "right")
	assert.Equal(t, "Femenino", p.Form().Value("genero"))
	press(t, p, "tab")
	fillForm(t, p, "Calle 1", "555", "marta@example.com", "Redes")
	press(t, p, "enter")

	assert.Equal(t, "Technician created successfully", currentMessage(t, p))
	techs := h.server.Technicians()
	require.Len(t, techs, 1)
	assert.Equal(t, "Femenino", techs[0].Genero)
	assert.Equal(t, "1990-02-20", techs[0].FechaNacimiento)
}

// =============================================================================
// TICKETS PAGE
// =============================================================================

func TestTicketsLookupsAndCreate(t *testing.T) {
	h := newHarness(t).loggedIn()
	c := h.server.AddClient(api.Client{Nombre: "Luis", Apellido: "Gómez", Cedula: "0102"})
	tc := h.server.AddTechnician(api.Technician{Nombre: "Marta", Apellido: "Ríos", Especialidad: "Redes"})

	p := NewTickets(h.deps, 1)
	defer p.Close()
	drain(t, p, p.Init())

	assert.Equal(t, []string{"Luis Gómez - 0102"}, labels(p.Form().Options("cliente")))
	assert.Equal(t, []string{"Marta Ríos - Redes"}, labels(p.Form().Options("tecnico")))

	press(t, p, "a")
	fillForm(t, p, "17", "Printer jams")
	press(t, p, "tab", "right", "tab", "right", "enter")

	assert.Equal(t, "Ticket created successfully", currentMessage(t, p))
	tickets := h.server.Tickets()
	require.Len(t, tickets, 1)
	assert.Equal(t, 17, tickets[0].Codigo)
	assert.Equal(t, c.ID, tickets[0].Cliente.ID)
	assert.Equal(t, tc.ID, tickets[0].Tecnico.ID)

	require.Len(t, p.Items(), 1)
	view := p.View(140, 30)
	assert.Contains(t, view, "Luis Gómez")
	assert.Contains(t, view, "Marta Ríos")
}

func TestTicketsEditKeepsSelection(t *testing.T) {
	h := newHarness(t).loggedIn()
	c := h.server.AddClient(api.Client{Nombre: "Luis", Apellido: "Gómez", Cedula: "0102"})
	tc := h.server.AddTechnician(api.Technician{Nombre: "Marta", Apellido: "Ríos", Especialidad: "Redes"})
	h.server.AddTicket(api.TicketInput{Codigo: 5, Descripcion: "No network", Cliente: c.ID, Tecnico: tc.ID}, testNow)

	p := NewTickets(h.deps, 1)
	defer p.Close()
	drain(t, p, p.Init())

	press(t, p, "e")
	values := p.Form().Values()
	assert.Equal(t, "5", values["codigo"])
	assert.Equal(t, c.ID, values["cliente"])
	assert.Equal(t, tc.ID, values["tecnico"])
}

func TestTicketsLookupFailure(t *testing.T) {
	h := newHarness(t).loggedIn()
	h.server.Fail("GET /tecnicos", http.StatusInternalServerError)

	p := NewTickets(h.deps, 1)
	defer p.Close()
	drain(t, p, p.Init())
	assert.Equal(t, "Error loading technicians", currentMessage(t, p))
}

func TestRecordsSessionInvalidatedIsSilent(t *testing.T) {
	h := newHarness(t).loggedIn()
	h.server.AddClient(api.Client{Nombre: "Luis"})
	p := NewClients(h.deps, 1)
	defer p.Close()
	drain(t, p, p.Init())

	h.server.RotateToken("token-2")
	press(t, p, "d", "y")
	assert.Empty(t, currentMessage(t, p))
	assert.False(t, h.store.Authenticated())
}

func labels(opts []components.Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, strings.TrimSpace(o.Label))
	}
	return out
}
