// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pages implements the screens of the ticketdesk console: login,
// dashboard and the three record pages (clients, technicians, tickets).
//
// Every page owns a notify.Notifier and is mounted with an epoch. Commands a
// page issues return AsyncMsg values tagged with that epoch; the controller
// in package app drops results whose epoch no longer matches the mounted
// page, so a slow request cannot touch a page the user already left.
//
// Record pages follow one loop: fetch the list, render a table, submit a
// form, and refetch once the write has resolved. Errors that end the session
// are not reported by pages; the gateway has already signalled the
// controller, which returns to the login screen.
package pages
