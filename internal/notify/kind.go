// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import "strings"

// Kind is the severity of a notification.
type Kind int

const (
	// KindInfo is a neutral, informational notification.
	KindInfo Kind = iota
	// KindError reports a failure. Never auto-dismissed.
	KindError
	// KindWarning reports something that needs attention.
	KindWarning
	// KindSuccess confirms a completed action.
	KindSuccess
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindWarning:
		return "warning"
	case KindSuccess:
		return "success"
	case KindInfo:
		return "info"
	default:
		return "unknown"
	}
}

// AutoDismiss reports whether notifications of this kind close on their own.
func (k Kind) AutoDismiss() bool {
	return k != KindError
}

// ParseKind maps a kind name to a Kind. Unknown names return KindInfo and
// false.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success":
		return KindSuccess, true
	case "error":
		return KindError, true
	case "warning":
		return KindWarning, true
	case "info":
		return KindInfo, true
	}
	return KindInfo, false
}

// Presentation classes, one per kind.
const (
	ClassSuccess = "alert-success"
	ClassError   = "alert-error"
	ClassWarning = "alert-warning"
	ClassInfo    = "alert-info"
)

// ClassFor returns the presentation class for k. Unknown kinds get the info
// class.
func ClassFor(k Kind) string {
	switch k {
	case KindSuccess:
		return ClassSuccess
	case KindError:
		return ClassError
	case KindWarning:
		return ClassWarning
	default:
		return ClassInfo
	}
}
