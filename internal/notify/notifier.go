// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"sync"
	"time"

	"github.com/jeranaias/ticketdesk-tui/internal/clock"
)

// DefaultDelay is how long a non-error notification stays visible.
const DefaultDelay = 4 * time.Second

// =============================================================================
// NOTIFICATION TYPES
// =============================================================================

// State is the visibility of a Notifier.
type State int

const (
	// StateHidden means no notification is shown. Initial state.
	StateHidden State = iota
	// StateVisible means a notification is shown.
	StateVisible
)

// String returns the state name.
func (s State) String() string {
	if s == StateVisible {
		return "visible"
	}
	return "hidden"
}

// Notification is a message shown to the user.
type Notification struct {
	ID        uint64
	Message   string
	Kind      Kind
	StartedAt time.Time
}

// Handle identifies one Show call. The zero Handle refers to nothing.
type Handle struct {
	id uint64
}

// IsZero reports whether h was returned by a Show that was ignored.
func (h Handle) IsZero() bool { return h.id == 0 }

// =============================================================================
// NOTIFIER
// =============================================================================

// Notifier owns one notification slot and its dismiss timer.
type Notifier struct {
	// emitMu serialises onChange calls and lets Close wait for one in flight.
	// Lock order: emitMu, then mu.
	emitMu sync.Mutex
	mu     sync.Mutex

	clock    clock.Clock
	delay    time.Duration
	onChange func(Notification, bool)

	current Notification
	visible bool
	timer   *clock.Timer
	gen     uint64
	closed  bool
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithClock sets the clock used for auto-dismiss timers.
func WithClock(c clock.Clock) Option {
	return func(n *Notifier) {
		if c != nil {
			n.clock = c
		}
	}
}

// WithDelay overrides DefaultDelay. Non-positive values are ignored.
func WithDelay(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.delay = d
		}
	}
}

// WithOnChange registers a callback run after every transition with the
// affected notification and whether it is now visible. The callback must
// not block and must not call back into the Notifier.
func WithOnChange(f func(Notification, bool)) Option {
	return func(n *Notifier) {
		n.onChange = f
	}
}

// New creates a hidden Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		clock: clock.Real(),
		delay: DefaultDelay,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Show replaces the current notification with a new one. Non-error kinds
// schedule an automatic dismissal. After Close, Show does nothing and
// returns the zero Handle.
func (n *Notifier) Show(message string, kind Kind) Handle {
	n.emitMu.Lock()
	defer n.emitMu.Unlock()

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return Handle{}
	}

	n.stopTimerLocked()
	n.gen++
	gen := n.gen
	n.current = Notification{
		ID:        gen,
		Message:   message,
		Kind:      kind,
		StartedAt: n.clock.Now(),
	}
	n.visible = true
	if kind.AutoDismiss() {
		n.timer = n.clock.AfterFunc(n.delay, func() { n.expire(gen) })
	}
	note := n.current
	n.mu.Unlock()

	n.emit(note, true)
	return Handle{id: gen}
}

// Dismiss hides the notification identified by h. It returns false if h is
// no longer the visible notification.
func (n *Notifier) Dismiss(h Handle) bool {
	if h.IsZero() {
		return false
	}
	return n.hide(func(cur Notification) bool { return cur.ID == h.id })
}

// DismissCurrent hides whatever is visible. It backs the close control.
func (n *Notifier) DismissCurrent() bool {
	return n.hide(func(Notification) bool { return true })
}

// Close tears the Notifier down: the pending timer is stopped, and no
// onChange call happens once Close has returned. Close is idempotent.
func (n *Notifier) Close() {
	n.emitMu.Lock()
	defer n.emitMu.Unlock()

	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopTimerLocked()
	n.closed = true
	n.visible = false
}

// Current returns the visible notification, if any.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.visible
}

// State returns StateVisible while a notification is shown.
func (n *Notifier) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.visible {
		return StateVisible
	}
	return StateHidden
}

// Remaining returns the time left before the visible notification closes
// itself. It is zero when nothing is visible or the kind never expires.
func (n *Notifier) Remaining() time.Duration {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.visible || !n.current.Kind.AutoDismiss() {
		return 0
	}
	left := n.delay - n.clock.Now().Sub(n.current.StartedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Closed reports whether Close has been called.
func (n *Notifier) Closed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}

// =============================================================================
// INTERNALS
// =============================================================================

func (n *Notifier) hide(match func(Notification) bool) bool {
	n.emitMu.Lock()
	defer n.emitMu.Unlock()

	n.mu.Lock()
	if n.closed || !n.visible || !match(n.current) {
		n.mu.Unlock()
		return false
	}
	n.stopTimerLocked()
	n.visible = false
	note := n.current
	n.mu.Unlock()

	n.emit(note, false)
	return true
}

// expire runs on the clock's goroutine when the timer for gen fires.
func (n *Notifier) expire(gen uint64) {
	n.emitMu.Lock()
	defer n.emitMu.Unlock()

	n.mu.Lock()
	if n.closed || !n.visible || n.gen != gen {
		n.mu.Unlock()
		return
	}
	n.timer = nil
	n.visible = false
	note := n.current
	n.mu.Unlock()

	n.emit(note, false)
}

func (n *Notifier) stopTimerLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// emit must be called with emitMu held and mu released.
func (n *Notifier) emit(note Notification, visible bool) {
	if n.onChange != nil {
		n.onChange(note, visible)
	}
}
