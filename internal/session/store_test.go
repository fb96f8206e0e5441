// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCredential(token string) Credential {
	return Credential{
		Token:    token,
		Nombre:   "Ana",
		Apellido: "Pérez",
		Email:    "ana@example.com",
	}
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	first, err := NewStore(path)
	require.NoError(t, err)
	assert.False(t, first.Authenticated())

	require.NoError(t, first.Save(sampleCredential("tok-1")))

	second, err := NewStore(path)
	require.NoError(t, err)
	cred, ok := second.Credential()
	require.True(t, ok)
	assert.Equal(t, "tok-1", cred.Token)
	assert.Equal(t, "Ana Pérez", cred.DisplayName())
	assert.False(t, cred.SavedAt.IsZero())
}

func TestStoreFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(sampleCredential("tok")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStoreClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(sampleCredential("tok")))

	require.NoError(t, s.Clear())
	assert.False(t, s.Authenticated())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	require.NoError(t, s.Clear())
}

func TestStoreRejectsEmptyToken(t *testing.T) {
	s := NewMemoryStore()
	assert.Error(t, s.Save(Credential{Nombre: "x"}))
	assert.False(t, s.Authenticated())
}

func TestClearIfToken(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Save(sampleCredential("new-token")))

	matched, err := s.ClearIfToken("old-token")
	require.NoError(t, err)
	assert.False(t, matched, "stale token must not clear a newer session")
	assert.Equal(t, "new-token", s.Token())

	matched, err = s.ClearIfToken("new-token")
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Empty(t, s.Token())

	// Second request carrying the same token: already cleared.
	matched, err = s.ClearIfToken("new-token")
	require.NoError(t, err)
	assert.False(t, matched)

	// Unauthenticated request against an empty store.
	matched, err = s.ClearIfToken("")
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestRequire(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Require()
	assert.ErrorIs(t, err, ErrNoCredential)

	require.NoError(t, s.Save(sampleCredential("tok")))
	cred, err := s.Require()
	require.NoError(t, err)
	assert.Equal(t, "tok", cred.Token)
}

func TestReloadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewStore(path)
	assert.Error(t, err)
}

func TestDisplayNameFallsBackToEmail(t *testing.T) {
	cred := Credential{Token: "t", Email: "ops@example.com"}
	assert.Equal(t, "ops@example.com", cred.DisplayName())
}

func TestExpiresAt(t *testing.T) {
	exp := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "64f0c2",
		"exp": exp.Unix(),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)

	got, ok := Credential{Token: signed}.ExpiresAt()
	require.True(t, ok)
	assert.True(t, got.Equal(exp), "got %v, want %v", got, exp)

	_, ok = Credential{Token: "opaque-token"}.ExpiresAt()
	assert.False(t, ok)

	_, ok = Credential{}.ExpiresAt()
	assert.False(t, ok)
}

func TestWatchSeesExternalLogout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	tui, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, tui.Save(sampleCredential("tok")))

	changed := make(chan struct{}, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = tui.Watch(ctx, func() { changed <- struct{}{} }) }()

	// Give the watcher time to register before the other process writes.
	time.Sleep(100 * time.Millisecond)

	cli, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, cli.Clear())

	deadline := time.After(5 * time.Second)
	for tui.Authenticated() {
		select {
		case <-changed:
		case <-deadline:
			t.Fatal("watcher did not observe the session file removal")
		}
	}
}

func TestReloadReportsTokenChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := NewStore(path)
	require.NoError(t, err)

	require.NoError(t, s.Save(sampleCredential("tok")))
	changed, err := s.Reload()
	require.NoError(t, err)
	assert.False(t, changed, "own save reads back unchanged")

	other, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, other.Save(sampleCredential("tok-2")))
	changed, err = s.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "tok-2", s.Token())

	matched, err := s.ClearIfToken("tok-2")
	require.NoError(t, err)
	require.True(t, matched)
	changed, err = s.Reload()
	require.NoError(t, err)
	assert.False(t, changed, "own clear reads back unchanged")

	require.NoError(t, other.Save(sampleCredential("tok-3")))
	require.NoError(t, other.Clear())
	changed, err = s.Reload()
	require.NoError(t, err)
	assert.False(t, changed, "logged out before and after")
}

func TestReloadDoesNotResurrectClearedSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := NewStore(path)
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		require.NoError(t, s.Save(sampleCredential("tok")))

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.ClearIfToken("tok")
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Reload()
		}()
		wg.Wait()

		require.False(t, s.Authenticated(), "iteration %d: reload restored a cleared token", i)
	}
}

func TestWatchSkipsOwnWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	tui, err := NewStore(path)
	require.NoError(t, err)

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = tui.Watch(ctx, func() { calls.Add(1) }) }()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, tui.Save(sampleCredential("tok")))
	_, err = tui.ClearIfToken("tok")
	require.NoError(t, err)
	require.NoError(t, tui.Save(sampleCredential("tok-2")))

	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, calls.Load(), "the watcher reported this store's own writes")

	cli, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, cli.Clear())

	require.Eventually(t, func() bool { return calls.Load() > 0 }, 5*time.Second, 10*time.Millisecond)
	assert.False(t, tui.Authenticated())
}

func TestWatchMemoryStore(t *testing.T) {
	err := NewMemoryStore().Watch(context.Background(), nil)
	assert.Error(t, err)
}
