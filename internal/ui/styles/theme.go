// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components shared by the console pages.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Label       lipgloss.Style
	Hint        lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	NavBar      lipgloss.Style
	NavActive   lipgloss.Style
	NavInactive lipgloss.Style
	Card        lipgloss.Style
	CardValue   lipgloss.Style
	Input       lipgloss.Style
	InputFocus  lipgloss.Style
	InputError  lipgloss.Style
	InputOK     lipgloss.Style
	Confirm     lipgloss.Style
}

// NewTheme builds the theme for mode: "dark", "light", or "auto" to ask the
// terminal. The background choice is applied to lipgloss globally so that
// AdaptiveColor resolves the same way everywhere.
func NewTheme(mode string) *Theme {
	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.Subtitle = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)
	t.Label = lipgloss.NewStyle().Foreground(TextSecondary).Bold(true)
	t.Hint = lipgloss.NewStyle().Foreground(TextMuted)
	t.Error = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.Success = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.Warning = lipgloss.NewStyle().Foreground(Amber).Bold(true)

	t.NavBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.NavActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 1)
	t.NavInactive = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2).
		Width(22)
	t.CardValue = lipgloss.NewStyle().Bold(true).Foreground(Cyan)

	input := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1)
	t.Input = input.BorderForeground(Overlay)
	t.InputFocus = input.BorderForeground(FocusRing)
	t.InputError = input.BorderForeground(Rose)
	t.InputOK = input.BorderForeground(Emerald)

	t.Confirm = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 2)
}
