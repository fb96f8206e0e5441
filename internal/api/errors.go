// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error variables for the failure classes the console distinguishes.
var (
	// ErrUnreachable indicates the request never got an HTTP response
	// (connection refused, DNS failure, timeout).
	ErrUnreachable = errors.New("cannot reach the server")

	// ErrSessionInvalidated indicates the server rejected the stored token.
	// The session has been cleared and the controller signalled.
	ErrSessionInvalidated = errors.New("session invalidated")

	// ErrInvalidCredentials indicates the login endpoint answered without a
	// token.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// StatusError is a non-2xx response from the API.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: HTTP %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// StatusCode returns the HTTP status of err if it wraps a *StatusError, or
// 0 otherwise.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// ServerMessage returns the message the API put in its error body, if err
// carries one.
func ServerMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}

// IsSessionInvalidated reports whether err means the operator was logged
// out by the server. Callers skip their own error rendering for it.
func IsSessionInvalidated(err error) bool {
	return errors.Is(err, ErrSessionInvalidated)
}

// errorBody covers the error shapes the API returns: {"message": "..."}
// and {"error": "..."}.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func newStatusError(method, path string, status int, body []byte) *StatusError {
	se := &StatusError{Method: method, Path: path, Status: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Message != "" {
			se.Message = eb.Message
		} else {
			se.Message = eb.Error
		}
	}
	se.Message = strings.TrimSpace(se.Message)
	return se
}
