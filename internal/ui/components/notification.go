// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ticketdesk-tui/internal/notify"
	"github.com/jeranaias/ticketdesk-tui/internal/ui/styles"
)

// =============================================================================
// NOTIFICATION PRESENTATION
// =============================================================================

// notificationLook is how one presentation class is drawn.
type notificationLook struct {
	color lipgloss.AdaptiveColor
	icon  string
}

var notificationLooks = map[string]notificationLook{
	notify.ClassSuccess: {color: styles.Emerald, icon: styles.StatusIndicators.Success},
	notify.ClassError:   {color: styles.Rose, icon: styles.StatusIndicators.Error},
	notify.ClassWarning: {color: styles.Amber, icon: styles.StatusIndicators.Warning},
	notify.ClassInfo:    {color: styles.Cyan, icon: styles.StatusIndicators.Info},
}

// lookFor resolves a kind to its look. Anything unknown is drawn as info.
func lookFor(kind notify.Kind) notificationLook {
	if look, ok := notificationLooks[notify.ClassFor(kind)]; ok {
		return look
	}
	return notificationLooks[notify.ClassInfo]
}

// RenderNotification draws the notification banner shown under the navbar.
// Every notification carries the close hint; errors only leave through it.
func RenderNotification(note notify.Notification, width int) string {
	maxWidth := 72
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 24 {
		maxWidth = 24
	}

	look := lookFor(note.Kind)

	iconStyle := lipgloss.NewStyle().
		Foreground(look.color).
		Bold(true)
	messageStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)
	hintStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	message := wrapText(note.Message, maxWidth-10)
	content := iconStyle.Render(look.icon+" ") + messageStyle.Render(message)
	content += "\n" + hintStyle.Render("[x] Dismiss")

	box := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(look.color).
		Padding(0, 2).
		MaxWidth(maxWidth)

	return box.Render(content)
}

// RenderNotifier draws the notifier's current notification, or "" when it
// is hidden.
func RenderNotifier(n *notify.Notifier, width int) string {
	if n == nil {
		return ""
	}
	note, visible := n.Current()
	if !visible {
		return ""
	}
	return RenderNotification(note, width)
}

// wrapText performs simple word wrapping on display width.
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	var line strings.Builder
	for _, word := range words {
		switch {
		case line.Len() == 0:
			line.WriteString(word)
		case lipgloss.Width(line.String())+1+lipgloss.Width(word) <= maxWidth:
			line.WriteString(" ")
			line.WriteString(word)
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
		}
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
