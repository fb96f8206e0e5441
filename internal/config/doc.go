// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for ticketdesk.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Remote API location, timeout and request pacing
//   - UIConfig: Theme, start page and notification timing
//   - SessionConfig: Where the login credential is persisted
//   - LoggingConfig: Rotating log file settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command line flags (--api-url)
//   - Environment variables (TICKETDESK_*)
//   - ~/.ticketdesk/config.toml
//   - ~/.ticketdesk/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	timeout := cfg.API.Timeout()
package config
