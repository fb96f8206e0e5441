// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ticketdesk-tui/internal/api"
	"github.com/jeranaias/ticketdesk-tui/internal/api/apitest"
	"github.com/jeranaias/ticketdesk-tui/internal/clock"
	"github.com/jeranaias/ticketdesk-tui/internal/session"
	"github.com/jeranaias/ticketdesk-tui/internal/ui/styles"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type harness struct {
	t      *testing.T
	server *apitest.Server
	store  *session.Store
	gw     *api.Gateway
	clock  *clock.FakeClock
	deps   Deps

	mu     sync.Mutex
	sent   []tea.Msg
	copied string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		server: apitest.NewServer(t),
		store:  session.NewMemoryStore(),
		clock:  clock.Fake(testNow),
	}
	h.gw = api.NewGateway(h.server.URL, h.store)
	h.deps = Deps{
		Services: api.NewServices(h.gw),
		Store:    h.store,
		Clock:    h.clock,
		Theme:    styles.NewTheme("dark"),
		Timeout:  5 * time.Second,
		Send: func(msg tea.Msg) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.sent = append(h.sent, msg)
		},
		Clipboard: func(s string) error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.copied = s
			return nil
		},
	}.WithDefaults()
	return h
}

// loggedIn stores the server's token as the current session.
func (h *harness) loggedIn() *harness {
	require.NoError(h.t, h.store.Save(session.Credential{Token: apitest.Token, Nombre: "Ana", Apellido: "Pérez"}))
	return h
}

// asyncSent returns the AsyncMsg values posted through Send.
func (h *harness) asyncSent() []AsyncMsg {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []AsyncMsg
	for _, m := range h.sent {
		if a, ok := m.(AsyncMsg); ok {
			out = append(out, a)
		}
	}
	return out
}

// drain runs cmd and every command it leads to, delivering AsyncMsg
// results of page p's epoch back into p. Messages addressed to the
// controller are returned. Spinner ticks and cursor blinks are dropped so
// the loop ends.
func drain(t *testing.T, p Page, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		results := make([]tea.Msg, len(queue))
		var wg sync.WaitGroup
		for i, c := range queue {
			if c == nil {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = c()
			}()
		}
		wg.Wait()

		queue = nil
		for _, msg := range results {
			switch msg := msg.(type) {
			case nil:
			case tea.BatchMsg:
				queue = append(queue, msg...)
			case AsyncMsg:
				if msg.Epoch == p.Epoch() {
					queue = append(queue, p.Update(msg.Msg))
				}
			case NavigateMsg:
				out = append(out, msg)
			case spinner.TickMsg:
			default:
				// cursor blinks and other widget internals
			}
		}
	}
	return out
}

func press(t *testing.T, p Page, keys ...string) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	for _, k := range keys {
		out = append(out, drain(t, p, p.Update(keyMsg(k)))...)
	}
	return out
}

func typeInto(t *testing.T, p Page, text string) {
	t.Helper()
	for _, r := range text {
		drain(t, p, p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func currentMessage(t *testing.T, p Page) string {
	t.Helper()
	note, ok := p.Notifier().Current()
	if !ok {
		return ""
	}
	return note.Message
}
