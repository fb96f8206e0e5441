// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package validate checks form input before it is sent to the API.
//
// Record types carry `validate:` and `label:` struct tags; Struct runs
// go-playground/validator over them and returns Errors keyed by the JSON
// field name, which is also the key the TUI forms use for their inputs.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// User-facing messages for the login form.
const (
	MsgFillAllFields = "Please fill in all fields"
	MsgInvalidEmail  = "Please enter a valid email"
)

// MinPasswordLength is where the password field turns from error to success
// styling. It does not block submission.
const MinPasswordLength = 6

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// =============================================================================
// ERRORS
// =============================================================================

// FieldError is one failed check.
type FieldError struct {
	// Field is the JSON name of the field.
	Field string
	// Label is the human name of the field.
	Label string
	// Message completes "<Label> ...".
	Message string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return e.Label + " " + e.Message
}

// Errors collects every failed check of one form.
type Errors []FieldError

// Error implements the error interface.
func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

// ByField returns the messages keyed by field, first error per field.
func (e Errors) ByField() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// First returns the first error's full sentence, or "".
func (e Errors) First() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Error()
}

// AsErrors extracts Errors from err.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

// =============================================================================
// STRUCT VALIDATION
// =============================================================================

// Struct validates v, a struct or pointer to struct with validate tags. It
// returns nil or Errors.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	labels := labelsOf(v)
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		label := labels[fe.StructField()]
		if label == "" {
			label = fe.Field()
		}
		out = append(out, FieldError{
			Field:   fe.Field(),
			Label:   label,
			Message: describe(fe),
		})
	}
	return out
}

func labelsOf(v any) map[string]string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	labels := map[string]string{}
	if t == nil || t.Kind() != reflect.Struct {
		return labels
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		labels[f.Name] = f.Tag.Get("label")
	}
	return labels
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a date (YYYY-MM-DD)"
	case "gte":
		return "must be at least " + fe.Param()
	case "number", "numeric":
		return "must be a whole number"
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

// =============================================================================
// SINGLE VALUES
// =============================================================================

// Email reports whether s is a well formed address.
func Email(s string) bool {
	return instance().Var(strings.TrimSpace(s), "required,email") == nil
}

// Integer parses a required whole number field.
func Integer(field, label, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, Errors{{Field: field, Label: label, Message: "is required"}}
	}
	if instance().Var(raw, "number") != nil {
		return 0, Errors{{Field: field, Label: label, Message: "must be a whole number"}}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, Errors{{Field: field, Label: label, Message: "is out of range"}}
	}
	return n, nil
}

// Merge joins validation errors, skipping nils. Non-validation errors are
// returned as is.
func Merge(errs ...error) error {
	var out Errors
	for _, err := range errs {
		if err == nil {
			continue
		}
		fe, ok := AsErrors(err)
		if !ok {
			return err
		}
		out = append(out, fe...)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
