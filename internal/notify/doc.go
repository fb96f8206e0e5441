// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify implements the single-slot transient notification used by
// every ticketdesk screen.
//
// A Notifier holds at most one notification. Showing a new one replaces the
// previous one; there is no queue. Success, warning and info notifications
// dismiss themselves after a fixed delay (DefaultDelay, 4s). Error
// notifications stay until the user closes them.
//
// # Timer Lifecycle
//
// Each visible, non-error notification owns exactly one clock.Timer. The
// timer is stopped before a replacement is shown, on manual dismissal and on
// Close. The expiry callback also carries the generation it was scheduled
// for, so a timer that fired concurrently with a replacement cannot hide
// the newer notification.
//
// # Usage
//
//	n := notify.New(notify.WithOnChange(func(note notify.Notification, visible bool) {
//	    program.Send(redrawMsg{})
//	}))
//	defer n.Close()
//
//	n.Show("Ticket created", notify.KindSuccess) // gone after 4s
//	h := n.Show("Failed to save ticket", notify.KindError)
//	n.Dismiss(h) // errors only leave on request
package notify
