// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses the ticketdesk command line and runs its commands.
//
// # Key Types
//
//   - Command: enumeration of the available commands
//   - Args: parsed global and command-specific flags
//   - IO: the streams a command reads and writes, swappable in tests
//
// # Usage
//
//	os.Exit(cli.Run(os.Args[1:]))
//
// # Commands
//
//   - (none), tui: start the console
//   - login: store a session without opening the console
//   - logout: forget the stored session
//   - status, s: show configuration, session and API reachability
//   - config: show, get or set configuration values
//   - version: print build information
//   - help: print usage
//
// status, config and version accept --json.
package cli
