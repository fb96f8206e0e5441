// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package validate

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// FieldStatus is the live styling state of a login input.
type FieldStatus int

const (
	// StatusEmpty means nothing typed yet. Neutral styling.
	StatusEmpty FieldStatus = iota
	// StatusError means the value would be rejected.
	StatusError
	// StatusSuccess means the value looks right.
	StatusSuccess
)

// String returns the status name.
func (s FieldStatus) String() string {
	switch s {
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "empty"
	}
}

// EmailStatus classifies the email input as the operator types.
func EmailStatus(email string) FieldStatus {
	switch {
	case email == "":
		return StatusEmpty
	case !Email(email):
		return StatusError
	default:
		return StatusSuccess
	}
}

// PasswordStatus classifies the password input as the operator types.
func PasswordStatus(password string) FieldStatus {
	switch {
	case password == "":
		return StatusEmpty
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return StatusError
	default:
		return StatusSuccess
	}
}

// Login checks the login form before submission. Only missing fields and a
// malformed email block it; a short password is left for the server.
func Login(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return errors.New(MsgFillAllFields)
	}
	if !Email(email) {
		return errors.New(MsgInvalidEmail)
	}
	return nil
}
