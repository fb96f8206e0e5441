// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewThemeForcedModes(t *testing.T) {
	dark := NewTheme("dark")
	if !dark.IsDark || !lipgloss.HasDarkBackground() {
		t.Error("dark theme should report a dark background")
	}

	light := NewTheme("LIGHT")
	if light.IsDark || lipgloss.HasDarkBackground() {
		t.Error("light theme should report a light background")
	}
}

func TestThemeStylesRender(t *testing.T) {
	th := NewTheme("dark")
	for name, style := range map[string]lipgloss.Style{
		"title":  th.Title,
		"error":  th.Error,
		"navbar": th.NavBar,
		"card":   th.Card,
		"input":  th.InputFocus,
	} {
		if style.Render("x") == "" {
			t.Errorf("%s style rendered nothing", name)
		}
	}
}

func TestStatusIndicatorsAreASCII(t *testing.T) {
	for _, s := range []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
	} {
		for _, r := range s {
			if r > 127 {
				t.Errorf("indicator %q contains non-ASCII rune %q", s, r)
			}
		}
	}
}
