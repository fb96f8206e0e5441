// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the logged-in operator's credential.
//
// A Store is the explicit session context handed to the API gateway: the
// gateway reads the bearer token from it on every request and clears it
// when the server rejects the session. Stores created with NewStore persist
// the credential to disk (~/.ticketdesk/session.json, mode 0600) so that
// the CLI and the TUI share one login.
//
// # Key Types
//
//   - Credential: bearer token plus profile fields returned by the login endpoint
//   - Store: thread-safe credential holder with optional file persistence
//
// # Usage
//
//	store, err := session.NewStore(path)
//	if err != nil {
//	    return err
//	}
//	_ = store.Save(session.Credential{Token: resp.Token, Nombre: resp.Nombre})
//	token := store.Token()
//
// Watch reloads the store when another process rewrites or removes the
// session file:
//
//	go store.Watch(ctx, func() { program.Send(sessionChangedMsg{}) })
package session
