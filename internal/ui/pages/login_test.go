// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ticketdesk-tui/internal/api"
	"github.com/jeranaias/ticketdesk-tui/internal/api/apitest"
	"github.com/jeranaias/ticketdesk-tui/internal/notify"
	"github.com/jeranaias/ticketdesk-tui/internal/validate"
)

func TestLoginErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unreachable", fmt.Errorf("POST /auth/login: %w: connection refused", api.ErrUnreachable), MsgLoginUnreachable},
		{"no token", api.ErrInvalidCredentials, MsgLoginInvalid},
		{"401", &api.StatusError{Status: http.StatusUnauthorized, Message: "nope"}, MsgLoginInvalid},
		{"400", &api.StatusError{Status: http.StatusBadRequest}, MsgLoginBadRequest},
		{"server message", &api.StatusError{Status: http.StatusInternalServerError, Message: "Database down"}, "Database down"},
		{"fallback", &api.StatusError{Status: http.StatusBadGateway}, MsgLoginFailed},
		{"unknown", errors.New("boom"), MsgLoginFailed},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LoginErrorMessage(tt.err))
		})
	}
}

func TestLoginValidationBlocksSubmit(t *testing.T) {
	h := newHarness(t)
	p := NewLogin(h.deps, 1)
	defer p.Close()
	drain(t, p, p.Init())

	press(t, p, "enter")
	assert.Equal(t, validate.MsgFillAllFields, currentMessage(t, p))
	assert.Equal(t, validate.MsgFillAllFields, p.Error())

	p.SetCredentials("not-an-email", "secret123")
	press(t, p, "enter")
	assert.Equal(t, validate.MsgInvalidEmail, currentMessage(t, p))

	assert.Empty(t, h.server.Requests(), "invalid forms never reach the API")
}

func TestLoginShortPasswordIsNotBlocked(t *testing.T) {
	h := newHarness(t)
	p := NewLogin(h.deps, 1)
	defer p.Close()

	p.SetCredentials(apitest.Email, "abc")
	press(t, p, "enter")

	assert.Equal(t, []string{"POST /auth/login"}, h.server.Requests())
	assert.Equal(t, MsgLoginInvalid, currentMessage(t, p))
	note, _ := p.Notifier().Current()
	assert.Equal(t, notify.KindError, note.Kind)
}

func TestLoginSuccessRedirectsAfterDelay(t *testing.T) {
	h := newHarness(t)
	p := NewLogin(h.deps, 7)
	defer p.Close()
	drain(t, p, p.Init())

	typeInto(t, p, apitest.Email)
	press(t, p, "tab")
	typeInto(t, p, apitest.Password)
	nav := press(t, p, "enter")
	assert.Empty(t, nav, "navigation waits for the redirect delay")

	assert.Equal(t, MsgLoginSuccess, currentMessage(t, p))
	cred, ok := h.store.Credential()
	require.True(t, ok)
	assert.Equal(t, apitest.Token, cred.Token)
	assert.Equal(t, "Ana Pérez", cred.DisplayName())

	h.clock.Advance(DefaultLoginRedirect - 1)
	assert.Empty(t, h.asyncSent())

	h.clock.Advance(1)
	sent := h.asyncSent()
	require.Len(t, sent, 1)
	assert.Equal(t, uint64(7), sent[0].Epoch)

	msgs := drain(t, p, p.Update(sent[0].Msg))
	assert.Equal(t, []any{LoggedInMsg{}}, toAny(msgs))

	press(t, p, "enter")
	assert.Len(t, h.server.Requests(), 1, "no second submit after success")
}

func TestLoginCloseCancelsRedirect(t *testing.T) {
	h := newHarness(t)
	p := NewLogin(h.deps, 1)

	p.SetCredentials(apitest.Email, apitest.Password)
	press(t, p, "enter")
	require.Equal(t, MsgLoginSuccess, currentMessage(t, p))

	p.Close()
	h.clock.Advance(DefaultLoginRedirect * 2)
	assert.Empty(t, h.asyncSent())
	assert.Zero(t, h.clock.PendingCount())
	assert.True(t, p.Notifier().Closed())
}

func TestLoginUnreachable(t *testing.T) {
	h := newHarness(t)
	h.server.Close()
	p := NewLogin(h.deps, 1)
	defer p.Close()

	p.SetCredentials(apitest.Email, apitest.Password)
	press(t, p, "enter")

	assert.Equal(t, MsgLoginUnreachable, currentMessage(t, p))
	assert.False(t, p.Submitting())
	assert.False(t, h.store.Authenticated())
}

func TestLoginBadRequest(t *testing.T) {
	h := newHarness(t)
	h.server.Fail("POST /auth/login", http.StatusBadRequest)
	p := NewLogin(h.deps, 1)
	defer p.Close()

	p.SetCredentials(apitest.Email, apitest.Password)
	press(t, p, "enter")
	assert.Equal(t, MsgLoginBadRequest, p.Error())
}

func TestLoginView(t *testing.T) {
	h := newHarness(t)
	p := NewLogin(h.deps, 1)
	defer p.Close()

	p.SetCredentials(apitest.Email, "secret123")
	out := p.View(100, 30)
	assert.Contains(t, out, "Sign in")
	assert.NotContains(t, out, "secret123", "the password is masked")
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
