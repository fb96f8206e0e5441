// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the ticketdesk TUI.

# Color System (colors.go)

All colors are lipgloss.AdaptiveColor values with a light and a dark
variant. Semantic use:

  - Purple: active navigation, titles
  - Cyan: info notifications, focused inputs
  - Emerald: success notifications, valid inputs
  - Amber: warnings
  - Rose: errors, invalid inputs, delete confirmation

Colors are never the only signal: StatusIndicators adds an ASCII marker
([OK], [X], [!], [i]) to every notification.

# Theme (theme.go)

NewTheme("auto") asks the terminal for its background through termenv;
"dark" and "light" force a variant. The choice is pushed into lipgloss so
AdaptiveColor resolves consistently.
*/
package styles
