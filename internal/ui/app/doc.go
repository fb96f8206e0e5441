// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the top-level bubbletea model of the console.
//
// The controller mounts one page at a time. Every navigation closes the
// outgoing page, which stops its notification timer and any pending delayed
// action, and mounts the new page with a fresh epoch. Page results carry the
// epoch they were issued under; results for an earlier epoch are dropped.
//
// Messages from outside the update loop (notifier redraws, delayed page
// actions, gateway session invalidation, session file changes) go through
// Model.Send into a buffered channel that a listener command drains.
//
// Protected routes need a stored credential. Without one, or for an unknown
// route, the login page is mounted instead. When the gateway signals that
// the server rejected the session, the controller mounts the login page and
// shows a warning there.
package app
