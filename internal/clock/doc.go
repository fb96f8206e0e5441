// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clock provides an injectable time source for ticketdesk.
//
// Components that schedule work (notification auto-dismiss, delayed
// navigation) take a Clock instead of calling time.AfterFunc directly.
// Production code uses Real(); tests use Fake() and move time forward with
// Advance, which fires due callbacks synchronously in deadline order.
//
// # Usage
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	t := c.AfterFunc(4*time.Second, func() { fired = true })
//	c.Advance(4 * time.Second) // fired == true
//	t.Stop()                   // false: already fired
package clock
