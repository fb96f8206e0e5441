// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ticketdesk-tui/internal/ui/styles"
)

// NavLink is one entry of the navbar.
type NavLink struct {
	Key   string
	Title string
	Route string
}

// Navbar is the strip at the top of every protected page.
type Navbar struct {
	User   string
	Active string
	Links  []NavLink
	// ExpiresIn is the token lifetime left; zero hides it.
	ExpiresIn time.Duration
	Width     int
}

// Render draws the navbar.
func (n Navbar) Render(theme *styles.Theme) string {
	welcome := theme.Title.Render("Welcome - " + n.User)

	links := make([]string, 0, len(n.Links)+1)
	for _, link := range n.Links {
		label := fmt.Sprintf("[%s] %s", link.Key, link.Title)
		if link.Route == n.Active {
			links = append(links, theme.NavActive.Render(label))
		} else {
			links = append(links, theme.NavInactive.Render(label))
		}
	}
	links = append(links, theme.NavInactive.Render("[o] Log out"))
	right := strings.Join(links, " ")

	if n.ExpiresIn > 0 {
		right += "  " + theme.Hint.Render("session "+FormatRemaining(n.ExpiresIn))
	}

	gap := n.Width - lipgloss.Width(welcome) - lipgloss.Width(right) - 2
	if gap < 1 {
		return theme.NavBar.Render(welcome + "\n" + right)
	}
	return theme.NavBar.Render(welcome + strings.Repeat(" ", gap) + right)
}

// FormatRemaining renders a duration as "45m" or "2h05m".
func FormatRemaining(d time.Duration) string {
	if d < time.Minute {
		return "<1m"
	}
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
