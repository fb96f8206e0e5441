// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// UNICODE: Customer names and addresses carry accents and the occasional
// wide character. All column math goes through display width, never bytes.

const ellipsis = "..."

// columns ignores the locale's East Asian ambiguous setting so accented
// Latin letters are always one column wide.
var columns = &runewidth.Condition{EastAsianWidth: false}

// TruncateWidth truncates s to at most maxWidth terminal columns, appending
// "..." when something was cut and there is room for it.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if columns.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= len(ellipsis) {
		return columns.Truncate(s, maxWidth, "")
	}
	return columns.Truncate(s, maxWidth, ellipsis)
}

// PadRight pads s with spaces to width columns. Longer strings are returned
// unchanged; callers truncate first.
func PadRight(s string, width int) string {
	return columns.FillRight(s, width)
}

// StringWidth returns the display width of s.
func StringWidth(s string) int {
	return columns.StringWidth(s)
}

// FirstNonEmpty returns the first value that is not blank after trimming.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// SingleLine collapses newlines and runs of whitespace so free text fits in
// one table row.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
