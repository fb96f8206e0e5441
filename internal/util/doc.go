// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the ticketdesk packages.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: display-width aware truncation with ellipsis
//   - PadRight: pad a cell to a display width
//   - FirstNonEmpty: pick the first non-blank value
//
// File Operations:
//   - AtomicWriteFile, AtomicWriteFileWithDir: crash-safe file writes
//
// # Usage
//
//	// Fit a customer name into a table column
//	cell := util.PadRight(util.TruncateWidth(name, 20), 20)
//
//	// Persist the session with owner-only permissions
//	err := util.AtomicWriteFileWithDir(path, data, 0600, 0700)
package util
