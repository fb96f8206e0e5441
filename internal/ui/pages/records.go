// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/jeranaias/ticketdesk-tui/internal/api"
	"github.com/jeranaias/ticketdesk-tui/internal/ui/components"
	"github.com/jeranaias/ticketdesk-tui/internal/validate"
)

// =============================================================================
// CLIENTS
// =============================================================================

// NewClients builds the clients page.
func NewClients(deps Deps, epoch uint64) *Records[api.Client, api.Client] {
	return newRecords(deps, epoch, resource[api.Client, api.Client]{
		route:  RouteClients,
		noun:   "Client",
		plural: "clients",
		svc:    deps.Services.Clients,
		columns: []table.Column{
			{Title: "Name", Width: 24},
			{Title: "ID number", Width: 14},
			{Title: "Email", Width: 28},
			{Title: "Phone", Width: 14},
		},
		row: func(c api.Client) table.Row {
			return table.Row{c.FullName(), c.Cedula, c.Email, c.Telefono}
		},
		id: func(c api.Client) string { return c.ID },
		fields: []components.FieldSpec{
			{Key: "nombre", Label: "First name", CharLimit: 80},
			{Key: "apellido", Label: "Last name", CharLimit: 80},
			{Key: "cedula", Label: "ID number", CharLimit: 20},
			{Key: "email", Label: "Email", Placeholder: "client@example.com", CharLimit: 254},
			{Key: "telefono", Label: "Phone", CharLimit: 20},
		},
		values: func(c api.Client) map[string]string {
			return map[string]string{
				"nombre":   c.Nombre,
				"apellido": c.Apellido,
				"cedula":   c.Cedula,
				"email":    c.Email,
				"telefono": c.Telefono,
			}
		},
		parse: ParseClient,
		copy: func(c api.Client) string {
			return strings.Join([]string{c.FullName(), c.Cedula, c.Email, c.Telefono}, "\t")
		},
	})
}

// ParseClient builds and validates a client from form values.
func ParseClient(v map[string]string) (api.Client, error) {
	c := api.Client{
		Nombre:   v["nombre"],
		Apellido: v["apellido"],
		Cedula:   v["cedula"],
		Email:    v["email"],
		Telefono: v["telefono"],
	}
	return c, validate.Struct(c)
}

// =============================================================================
// TECHNICIANS
// =============================================================================

func genderOptions() []components.Option {
	opts := make([]components.Option, 0, len(api.Genders))
	for _, g := range api.Genders {
		opts = append(opts, components.Option{Value: g, Label: g})
	}
	return opts
}

// NewTechnicians builds the technicians page.
func NewTechnicians(deps Deps, epoch uint64) *Records[api.Technician, api.Technician] {
	return newRecords(deps, epoch, resource[api.Technician, api.Technician]{
		route:  RouteTechnicians,
		noun:   "Technician",
		plural: "technicians",
		svc:    deps.Services.Technicians,
		columns: []table.Column{
			{Title: "Name", Width: 22},
			{Title: "ID number", Width: 12},
			{Title: "Specialty", Width: 18},
			{Title: "Email", Width: 26},
			{Title: "Phone", Width: 12},
		},
		row: func(t api.Technician) table.Row {
			return table.Row{t.FullName(), t.Cedula, t.Especialidad, t.Email, t.Telefono}
		},
		id: func(t api.Technician) string { return t.ID },
		fields: []components.FieldSpec{
			{Key: "nombre", Label: "First name", CharLimit: 80},
			{Key: "apellido", Label: "Last name", CharLimit: 80},
			{Key: "cedula", Label: "ID number", CharLimit: 20},
			{Key: "fecha_nacimiento", Label: "Birth date", Placeholder: "YYYY-MM-DD", CharLimit: 10},
			{Key: "genero", Label: "Gender", Kind: components.FieldSelect, Options: genderOptions(), Placeholder: "select a gender"},
			{Key: "direccion", Label: "Address", CharLimit: 160},
			{Key: "telefono", Label: "Phone", CharLimit: 20},
			{Key: "email", Label: "Email", Placeholder: "tech@example.com", CharLimit: 254},
			{Key: "especialidad", Label: "Specialty", CharLimit: 80},
		},
		values: func(t api.Technician) map[string]string {
			return map[string]string{
				"nombre":           t.Nombre,
				"apellido":         t.Apellido,
				"cedula":           t.Cedula,
				"fecha_nacimiento": t.FechaNacimiento,
				"genero":           t.Genero,
				"direccion":        t.Direccion,
				"telefono":         t.Telefono,
				"email":            t.Email,
				"especialidad":     t.Especialidad,
			}
		},
		parse: ParseTechnician,
		copy: func(t api.Technician) string {
			return strings.Join([]string{t.FullName(), t.Cedula, t.Especialidad, t.Email, t.Telefono}, "\t")
		},
	})
}

// ParseTechnician builds and validates a technician from form values.
func ParseTechnician(v map[string]string) (api.Technician, error) {
	t := api.Technician{
		Nombre:          v["nombre"],
		Apellido:        v["apellido"],
		Cedula:          v["cedula"],
		FechaNacimiento: v["fecha_nacimiento"],
		Genero:          v["genero"],
		Direccion:       v["direccion"],
		Telefono:        v["telefono"],
		Email:           v["email"],
		Especialidad:    v["especialidad"],
	}
	return t, validate.Struct(t)
}

// =============================================================================
// TICKETS
// =============================================================================

// ClientOption labels a client as "Nombre Apellido - cedula".
func ClientOption(c api.Client) components.Option {
	return components.Option{Value: c.ID, Label: c.FullName() + " - " + c.Cedula}
}

// TechnicianOption labels a technician as "Nombre Apellido - especialidad".
func TechnicianOption(t api.Technician) components.Option {
	return components.Option{Value: t.ID, Label: t.FullName() + " - " + t.Especialidad}
}

// NewTickets builds the tickets page. Its form picks the client and the
// technician from the other two collections.
func NewTickets(deps Deps, epoch uint64) *Records[api.Ticket, api.TicketInput] {
	svc := deps.Services
	return newRecords(deps, epoch, resource[api.Ticket, api.TicketInput]{
		route:  RouteTickets,
		noun:   "Ticket",
		plural: "tickets",
		svc:    svc.Tickets,
		columns: []table.Column{
			{Title: "Code", Width: 6},
			{Title: "Description", Width: 34},
			{Title: "Client", Width: 20},
			{Title: "Technician", Width: 20},
			{Title: "Created", Width: 10},
		},
		row: func(t api.Ticket) table.Row {
			created := ""
			if !t.CreatedAt.IsZero() {
				created = t.CreatedAt.Local().Format("2006-01-02")
			}
			return table.Row{
				strconv.Itoa(t.Codigo),
				t.Descripcion,
				refName(t.Cliente),
				refName(t.Tecnico),
				created,
			}
		},
		id: func(t api.Ticket) string { return t.ID },
		fields: []components.FieldSpec{
			{Key: "codigo", Label: "Code", Placeholder: "1001", CharLimit: 9},
			{Key: "descripcion", Label: "Description", CharLimit: 500},
			{Key: "cliente", Label: "Client", Kind: components.FieldSelect, Placeholder: "select a client"},
			{Key: "tecnico", Label: "Technician", Kind: components.FieldSelect, Placeholder: "select a technician"},
		},
		values: func(t api.Ticket) map[string]string {
			in := t.Input()
			return map[string]string{
				"codigo":      strconv.Itoa(in.Codigo),
				"descripcion": in.Descripcion,
				"cliente":     in.Cliente,
				"tecnico":     in.Tecnico,
			}
		},
		parse: ParseTicket,
		copy: func(t api.Ticket) string {
			return fmt.Sprintf("#%d\t%s\t%s\t%s", t.Codigo, t.Descripcion, refName(t.Cliente), refName(t.Tecnico))
		},
		lookups: []lookup{
			{
				field:   "cliente",
				failure: "Error loading clients",
				load: func(ctx context.Context) ([]components.Option, error) {
					clients, err := svc.Clients.List(ctx)
					if err != nil {
						return nil, err
					}
					opts := make([]components.Option, 0, len(clients))
					for _, c := range clients {
						opts = append(opts, ClientOption(c))
					}
					return opts, nil
				},
			},
			{
				field:   "tecnico",
				failure: "Error loading technicians",
				load: func(ctx context.Context) ([]components.Option, error) {
					techs, err := svc.Technicians.List(ctx)
					if err != nil {
						return nil, err
					}
					opts := make([]components.Option, 0, len(techs))
					for _, t := range techs {
						opts = append(opts, TechnicianOption(t))
					}
					return opts, nil
				},
			},
		},
	})
}

// ParseTicket builds and validates a ticket body from form values. The code
// must be a whole number.
func ParseTicket(v map[string]string) (api.TicketInput, error) {
	in := api.TicketInput{
		Descripcion: v["descripcion"],
		Cliente:     v["cliente"],
		Tecnico:     v["tecnico"],
	}
	code, codeErr := validate.Integer("codigo", "Code", v["codigo"])
	in.Codigo = code
	return in, validate.Merge(codeErr, validate.Struct(in))
}

func refName(p api.PersonRef) string {
	if name := p.FullName(); name != "" {
		return name
	}
	if p.ID != "" {
		return p.ID
	}
	return "-"
}
