// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ticketdesk-tui/internal/ui/styles"
	"github.com/jeranaias/ticketdesk-tui/internal/util"
)

// NewTable returns a focused record table with the console's styles.
func NewTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Overlay).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Purple)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.SelectionBg).
		Bold(false)
	t.SetStyles(s)
	return t
}

// Cell fits a value into a column of the given width.
func Cell(value string, width int) string {
	return util.TruncateWidth(util.SingleLine(value), width)
}

// RenderConfirm draws a yes/no question box.
func RenderConfirm(theme *styles.Theme, question string) string {
	body := theme.Error.Render(question) + "\n" +
		theme.Hint.Render("[y] Yes   [n] No")
	return theme.Confirm.Render(body)
}

// RenderStatCard draws one dashboard figure.
func RenderStatCard(theme *styles.Theme, title, value, note string) string {
	body := theme.Label.Render(title) + "\n" +
		theme.CardValue.Render(value)
	if note != "" {
		body += "\n" + theme.Hint.Render(note)
	}
	return theme.Card.Render(body)
}
