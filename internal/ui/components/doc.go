// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable pieces the console pages are built
from. Components render with a *styles.Theme and hold no network state.

# Components

Form (form.go) - Labelled text and select fields with focus cycling and
per-field errors.
Navbar (navbar.go) - Page links, logged-in user and session time remaining.
RenderNotification (notification.go) - The global notification box.
NewTable (table.go) - bubbles/table preset used by the list pages.

# Usage

	form := components.NewForm(theme,
		components.FieldSpec{Key: "email", Label: "Email"},
		components.FieldSpec{Key: "status", Label: "Status", Kind: components.FieldSelect, Options: opts},
	)
	cmd := form.SetErrors(map[string]string{"email": "required"})
	view := form.View()

RenderNotifier draws nothing when no notification is visible.
*/
package components
