// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// RECORDS
// =============================================================================

// Client is a customer who opens tickets.
type Client struct {
	ID       string `json:"_id,omitempty"`
	Nombre   string `json:"nombre" validate:"required" label:"First name"`
	Apellido string `json:"apellido" validate:"required" label:"Last name"`
	Cedula   string `json:"cedula" validate:"required" label:"ID number"`
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Telefono string `json:"telefono" validate:"required" label:"Phone"`
}

// FullName returns "Nombre Apellido".
func (c Client) FullName() string {
	return strings.TrimSpace(c.Nombre + " " + c.Apellido)
}

// Genders accepted for technicians.
var Genders = []string{"Masculino", "Femenino", "Otro"}

// Technician is a support engineer tickets are assigned to.
type Technician struct {
	ID              string `json:"_id,omitempty"`
	Nombre          string `json:"nombre" validate:"required" label:"First name"`
	Apellido        string `json:"apellido" validate:"required" label:"Last name"`
	Cedula          string `json:"cedula" validate:"required" label:"ID number"`
	FechaNacimiento string `json:"fecha_nacimiento" validate:"required,datetime=2006-01-02" label:"Birth date"`
	Genero          string `json:"genero" validate:"required,oneof=Masculino Femenino Otro" label:"Gender"`
	Direccion       string `json:"direccion" validate:"required" label:"Address"`
	Telefono        string `json:"telefono" validate:"required" label:"Phone"`
	Email           string `json:"email" validate:"required,email" label:"Email"`
	Especialidad    string `json:"especialidad" validate:"required" label:"Specialty"`
}

// FullName returns "Nombre Apellido".
func (t Technician) FullName() string {
	return strings.TrimSpace(t.Nombre + " " + t.Apellido)
}

// UnmarshalJSON accepts full ISO timestamps for fecha_nacimiento and keeps
// only the date part, which is what the form edits.
func (t *Technician) UnmarshalJSON(data []byte) error {
	type plain Technician
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if len(p.FechaNacimiento) > len("2006-01-02") && p.FechaNacimiento[10] == 'T' {
		p.FechaNacimiento = p.FechaNacimiento[:10]
	}
	*t = Technician(p)
	return nil
}

// PersonRef is the cliente or tecnico of a ticket. Reads return populated
// objects; older records may carry only the id.
type PersonRef struct {
	ID       string `json:"_id"`
	Nombre   string `json:"nombre,omitempty"`
	Apellido string `json:"apellido,omitempty"`
}

// FullName returns "Nombre Apellido", or "" when the reference was not
// populated.
func (p PersonRef) FullName() string {
	return strings.TrimSpace(p.Nombre + " " + p.Apellido)
}

// UnmarshalJSON accepts a bare id string, an object or null.
func (p *PersonRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*p = PersonRef{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*p = PersonRef{ID: id}
		return nil
	}
	type plain PersonRef
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("person reference: %w", err)
	}
	*p = PersonRef(v)
	return nil
}

// Ticket is a support request.
type Ticket struct {
	ID          string    `json:"_id"`
	Codigo      int       `json:"codigo"`
	Descripcion string    `json:"descripcion"`
	Cliente     PersonRef `json:"cliente"`
	Tecnico     PersonRef `json:"tecnico"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TicketInput is the body of ticket create and update requests. Cliente and
// Tecnico are ids.
type TicketInput struct {
	Codigo      int    `json:"codigo" validate:"gte=0" label:"Code"`
	Descripcion string `json:"descripcion" validate:"required" label:"Description"`
	Cliente     string `json:"cliente" validate:"required" label:"Client"`
	Tecnico     string `json:"tecnico" validate:"required" label:"Technician"`
}

// Input returns the write form of t.
func (t Ticket) Input() TicketInput {
	return TicketInput{
		Codigo:      t.Codigo,
		Descripcion: t.Descripcion,
		Cliente:     t.Cliente.ID,
		Tecnico:     t.Tecnico.ID,
	}
}

// =============================================================================
// AUTH
// =============================================================================

// LoginRequest is the body of the login call.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is what the login endpoint returns on success.
type LoginResponse struct {
	Token    string `json:"token"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email"`
}
