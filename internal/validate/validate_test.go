// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ticketdesk-tui/internal/api"
)

func validTechnician() api.Technician {
	return api.Technician{
		Nombre:          "Luis",
		Apellido:        "Gómez",
		Cedula:          "0912345678",
		FechaNacimiento: "1990-05-04",
		Genero:          "Masculino",
		Direccion:       "Av. Central 12",
		Telefono:        "0999999999",
		Email:           "luis@example.com",
		Especialidad:    "Networking",
	}
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, Struct(validTechnician()))
	assert.NoError(t, Struct(&api.Client{
		Nombre: "Ana", Apellido: "Pérez", Cedula: "1", Email: "ana@example.com", Telefono: "2",
	}))
}

func TestStructReportsEveryField(t *testing.T) {
	err := Struct(api.Client{Nombre: "Ana", Email: "not-an-email"})
	errs, ok := AsErrors(err)
	require.True(t, ok)

	byField := errs.ByField()
	assert.Equal(t, "is required", byField["apellido"])
	assert.Equal(t, "is required", byField["cedula"])
	assert.Equal(t, "must be a valid email", byField["email"])
	assert.Equal(t, "is required", byField["telefono"])
	assert.NotContains(t, byField, "nombre")
	assert.Equal(t, "Last name is required", errs.First())
}

func TestTechnicianRules(t *testing.T) {
	tech := validTechnician()
	tech.Genero = "Robot"
	tech.FechaNacimiento = "04/05/1990"

	errs, ok := AsErrors(Struct(tech))
	require.True(t, ok)
	byField := errs.ByField()
	assert.Equal(t, "must be one of Masculino, Femenino, Otro", byField["genero"])
	assert.Equal(t, "must be a date (YYYY-MM-DD)", byField["fecha_nacimiento"])
}

func TestTicketInput(t *testing.T) {
	errs, ok := AsErrors(Struct(api.TicketInput{Codigo: 3}))
	require.True(t, ok)
	assert.Len(t, errs, 3)
	assert.Equal(t, "Description", errs[0].Label)
}

func TestInteger(t *testing.T) {
	n, err := Integer("codigo", "Code", " 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = Integer("codigo", "Code", "")
	assert.EqualError(t, err, "Code is required")

	_, err = Integer("codigo", "Code", "4.2")
	assert.EqualError(t, err, "Code must be a whole number")

	_, err = Integer("codigo", "Code", "-1")
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	a := Errors{{Field: "a", Label: "A", Message: "is required"}}
	b := Errors{{Field: "b", Label: "B", Message: "is required"}}

	assert.NoError(t, Merge(nil, nil))

	merged, ok := AsErrors(Merge(a, nil, b))
	require.True(t, ok)
	assert.Len(t, merged, 2)

	other := errors.New("boom")
	assert.Equal(t, other, Merge(a, other))
}

func TestLogin(t *testing.T) {
	assert.EqualError(t, Login("", "secret"), MsgFillAllFields)
	assert.EqualError(t, Login("ana@example.com", ""), MsgFillAllFields)
	assert.EqualError(t, Login("ana@", "secret"), MsgInvalidEmail)
	assert.NoError(t, Login("ana@example.com", "abc"), "short passwords are left to the server")
}

func TestFieldStatus(t *testing.T) {
	assert.Equal(t, StatusEmpty, EmailStatus(""))
	assert.Equal(t, StatusError, EmailStatus("ana"))
	assert.Equal(t, StatusSuccess, EmailStatus("ana@example.com"))

	assert.Equal(t, StatusEmpty, PasswordStatus(""))
	assert.Equal(t, StatusError, PasswordStatus("12345"))
	assert.Equal(t, StatusSuccess, PasswordStatus("123456"))
	assert.Equal(t, "success", StatusSuccess.String())
}
