// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ticketdesk-tui/internal/clock"
)

var epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

type change struct {
	id      uint64
	visible bool
}

// recorder collects onChange calls.
type recorder struct {
	mu      sync.Mutex
	changes []change
}

func (r *recorder) record(note Notification, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change{id: note.ID, visible: visible})
}

func (r *recorder) all() []change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]change(nil), r.changes...)
}

func newTestNotifier(t *testing.T) (*Notifier, *clock.FakeClock, *recorder) {
	t.Helper()
	c := clock.Fake(epoch)
	rec := &recorder{}
	n := New(WithClock(c), WithOnChange(rec.record))
	t.Cleanup(n.Close)
	return n, c, rec
}

// =============================================================================
// AUTO-DISMISS POLICY
// =============================================================================

func TestSuccessHiddenAfterDelay(t *testing.T) {
	n, c, _ := newTestNotifier(t)

	n.Show("Saved", KindSuccess)
	require.Equal(t, StateVisible, n.State())

	c.Advance(DefaultDelay - time.Millisecond)
	assert.Equal(t, StateVisible, n.State(), "should still be visible just before the delay")

	c.Advance(time.Millisecond)
	assert.Equal(t, StateHidden, n.State())
}

func TestNonErrorKindsAutoDismiss(t *testing.T) {
	for _, kind := range []Kind{KindSuccess, KindWarning, KindInfo} {
		t.Run(kind.String(), func(t *testing.T) {
			n, c, _ := newTestNotifier(t)
			n.Show("message", kind)
			c.Advance(DefaultDelay)
			assert.Equal(t, StateHidden, n.State())
		})
	}
}

func TestErrorNeverAutoDismisses(t *testing.T) {
	n, c, _ := newTestNotifier(t)

	n.Show("Invalid credentials", KindError)
	c.Advance(10 * time.Second)
	assert.Equal(t, StateVisible, n.State())

	c.Advance(24 * time.Hour)
	assert.Equal(t, StateVisible, n.State())
	assert.Zero(t, c.PendingCount(), "error notifications must not schedule a timer")
}

func TestCustomDelay(t *testing.T) {
	c := clock.Fake(epoch)
	n := New(WithClock(c), WithDelay(time.Second))
	defer n.Close()

	n.Show("quick", KindInfo)
	c.Advance(time.Second)
	assert.Equal(t, StateHidden, n.State())
}

// =============================================================================
// REPLACEMENT
// =============================================================================

func TestShowTwiceLeavesOneTimer(t *testing.T) {
	n, c, rec := newTestNotifier(t)

	n.Show("first", KindSuccess)
	c.Advance(3 * time.Second)
	second := n.Show("second", KindSuccess)

	require.Equal(t, 1, c.PendingCount())

	// The first timer would have fired here.
	c.Advance(1 * time.Second)
	cur, visible := n.Current()
	require.True(t, visible, "stale timer closed the newer notification")
	assert.Equal(t, "second", cur.Message)

	c.Advance(3 * time.Second)
	assert.Equal(t, StateHidden, n.State())

	changes := rec.all()
	require.Len(t, changes, 3)
	assert.Equal(t, change{id: second.id, visible: false}, changes[2])
}

func TestErrorReplacingSuccessCancelsTimer(t *testing.T) {
	n, c, _ := newTestNotifier(t)

	n.Show("Saved", KindSuccess)
	n.Show("Failed to save", KindError)
	assert.Zero(t, c.PendingCount())

	c.Advance(time.Minute)
	cur, visible := n.Current()
	require.True(t, visible)
	assert.Equal(t, KindError, cur.Kind)
}

func TestSuccessReplacingErrorStartsTimer(t *testing.T) {
	n, c, _ := newTestNotifier(t)

	n.Show("Failed", KindError)
	n.Show("Recovered", KindSuccess)
	c.Advance(DefaultDelay)
	assert.Equal(t, StateHidden, n.State())
}

// =============================================================================
// MANUAL DISMISSAL AND TEARDOWN
// =============================================================================

func TestDismissThenTimerExpiryIsNoop(t *testing.T) {
	n, c, rec := newTestNotifier(t)

	h := n.Show("Saved", KindSuccess)
	require.True(t, n.Dismiss(h))
	assert.Equal(t, StateHidden, n.State())
	assert.Zero(t, c.PendingCount())

	c.Advance(DefaultDelay * 2)
	assert.Len(t, rec.all(), 2, "expiry after dismissal produced another change")

	assert.False(t, n.Dismiss(h), "second dismissal should be a no-op")
}

func TestDismissStaleHandle(t *testing.T) {
	n, _, _ := newTestNotifier(t)

	old := n.Show("old", KindError)
	n.Show("new", KindError)

	assert.False(t, n.Dismiss(old))
	cur, visible := n.Current()
	require.True(t, visible)
	assert.Equal(t, "new", cur.Message)
}

func TestDismissZeroHandle(t *testing.T) {
	n, _, _ := newTestNotifier(t)
	n.Show("x", KindInfo)
	assert.False(t, n.Dismiss(Handle{}))
	assert.Equal(t, StateVisible, n.State())
}

func TestDismissCurrentClosesError(t *testing.T) {
	n, _, _ := newTestNotifier(t)
	n.Show("Failed", KindError)
	assert.True(t, n.DismissCurrent())
	assert.Equal(t, StateHidden, n.State())
	assert.False(t, n.DismissCurrent())
}

func TestCloseCancelsPendingTimer(t *testing.T) {
	n, c, rec := newTestNotifier(t)

	n.Show("Saved", KindSuccess)
	n.Close()

	assert.Zero(t, c.PendingCount())
	c.Advance(DefaultDelay * 2)
	assert.Len(t, rec.all(), 1, "callback ran after teardown")
	assert.True(t, n.Closed())
}

func TestShowAfterCloseIgnored(t *testing.T) {
	n, c, rec := newTestNotifier(t)
	n.Close()

	h := n.Show("late", KindSuccess)
	assert.True(t, h.IsZero())
	assert.Equal(t, StateHidden, n.State())
	assert.Zero(t, c.PendingCount())
	assert.Empty(t, rec.all())

	n.Close()
}

func TestRemaining(t *testing.T) {
	n, c, _ := newTestNotifier(t)

	assert.Zero(t, n.Remaining())

	n.Show("Saved", KindSuccess)
	c.Advance(time.Second)
	assert.Equal(t, 3*time.Second, n.Remaining())

	n.Show("Failed", KindError)
	assert.Zero(t, n.Remaining())
}

func TestRealClockExpiry(t *testing.T) {
	done := make(chan struct{})
	n := New(WithDelay(20*time.Millisecond), WithOnChange(func(_ Notification, visible bool) {
		if !visible {
			close(done)
		}
	}))
	defer n.Close()

	n.Show("Saved", KindSuccess)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification did not expire on the real clock")
	}
	assert.Equal(t, StateHidden, n.State())
}

// =============================================================================
// KIND MAPPING
// =============================================================================

func TestClassFor(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindSuccess, "alert-success"},
		{KindError, "alert-error"},
		{KindWarning, "alert-warning"},
		{KindInfo, "alert-info"},
		{Kind(42), "alert-info"},
		{Kind(-1), "alert-info"},
	}
	for _, tt := range tests {
		if got := ClassFor(tt.kind); got != tt.want {
			t.Errorf("ClassFor(%d) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind(" Error ")
	assert.True(t, ok)
	assert.Equal(t, KindError, k)

	k, ok = ParseKind("fatal")
	assert.False(t, ok)
	assert.Equal(t, KindInfo, k)
}
