// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output for scripts and monitoring.
package cli

import (
	"encoding/json"
	"io"
	"time"
)

// JSONResponse is the envelope every --json output uses.
type JSONResponse struct {
	Success   bool    `json:"success"`
	Data      any     `json:"data"`
	Error     *string `json:"error"`
	Timestamp string  `json:"timestamp"`
	Command   string  `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data any) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Write encodes the response to w, indented.
func (r *JSONResponse) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// =============================================================================
// COMMAND DATA
// =============================================================================

// StatusData is the --json output of status.
type StatusData struct {
	ConfigFile string            `json:"config_file,omitempty"`
	API        StatusAPIInfo     `json:"api"`
	Session    StatusSessionInfo `json:"session"`
}

// StatusAPIInfo describes the API and whether it answered.
type StatusAPIInfo struct {
	BaseURL   string `json:"base_url"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

// StatusSessionInfo describes the stored session.
type StatusSessionInfo struct {
	File      string     `json:"file"`
	LoggedIn  bool       `json:"logged_in"`
	User      string     `json:"user,omitempty"`
	Email     string     `json:"email,omitempty"`
	SavedAt   *time.Time `json:"saved_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	// Rejected is set when the API refused the stored token during the
	// check; the session has been cleared.
	Rejected bool `json:"rejected,omitempty"`
}

// VersionData is the --json output of version.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}
