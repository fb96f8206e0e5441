// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jeranaias/ticketdesk-tui/internal/util"
)

// =============================================================================
// CREDENTIAL
// =============================================================================

// Credential is what the login endpoint returns for a successful login.
type Credential struct {
	Token    string    `json:"token"`
	Nombre   string    `json:"nombre"`
	Apellido string    `json:"apellido"`
	Email    string    `json:"email"`
	SavedAt  time.Time `json:"saved_at"`
}

// DisplayName returns "Nombre Apellido", falling back to the email.
func (c Credential) DisplayName() string {
	name := strings.TrimSpace(c.Nombre + " " + c.Apellido)
	if name == "" {
		return c.Email
	}
	return name
}

// ExpiresAt returns the exp claim of a JWT token. The signature is not
// verified; the server stays the authority on validity.
func (c Credential) ExpiresAt() (time.Time, bool) {
	if c.Token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// =============================================================================
// STORE
// =============================================================================

// ErrNoCredential is returned by Require when nobody is logged in.
var ErrNoCredential = errors.New("not logged in")

// Store holds at most one Credential. The zero value is not usable; use
// NewStore or NewMemoryStore.
type Store struct {
	mu   sync.RWMutex
	path string
	cred *Credential
}

// DefaultPath returns ~/.ticketdesk/session.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".ticketdesk", "session.json"), nil
}

// NewStore creates a Store persisted at path and loads any saved credential.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("session: empty store path")
	}
	s := &Store{path: path}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemoryStore creates a Store that never touches the disk.
func NewMemoryStore() *Store {
	return &Store{}
}

// Path returns the backing file, or "" for memory stores.
func (s *Store) Path() string {
	return s.path
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return ""
	}
	return s.cred.Token
}

// Credential returns the stored credential.
func (s *Store) Credential() (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return Credential{}, false
	}
	return *s.cred, true
}

// Require returns the stored credential or ErrNoCredential.
func (s *Store) Require() (Credential, error) {
	cred, ok := s.Credential()
	if !ok {
		return Credential{}, ErrNoCredential
	}
	return cred, nil
}

// Authenticated reports whether a token is stored.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// Save replaces the stored credential. An empty token is rejected.
func (s *Store) Save(cred Credential) error {
	if strings.TrimSpace(cred.Token) == "" {
		return errors.New("session: refusing to save empty token")
	}
	if cred.SavedAt.IsZero() {
		cred.SavedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persistLocked(&cred); err != nil {
		return err
	}
	s.cred = &cred
	return nil
}

// Clear forgets the credential and removes the session file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

// ClearIfToken clears the store only if it still holds token. It reports
// whether the store matched. An empty token matches an empty store, so a
// rejected unauthenticated request still counts as a dead session.
func (s *Store) ClearIfToken(token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := ""
	if s.cred != nil {
		current = s.cred.Token
	}
	if current != token {
		return false, nil
	}
	return true, s.clearLocked()
}

// Reload re-reads the session file. A missing file means logged out. It
// reports whether the stored token changed, so writes made through this
// Store read back as no change.
func (s *Store) Reload() (bool, error) {
	if s.path == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := ""
	if s.cred != nil {
		before = s.cred.Token
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.cred = nil
		return before != "", nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read session file: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return false, fmt.Errorf("failed to decode session file: %w", err)
	}
	if cred.Token == "" {
		s.cred = nil
		return before != "", nil
	}
	s.cred = &cred
	return cred.Token != before, nil
}

func (s *Store) clearLocked() error {
	s.cred = nil
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// persistLocked writes cred with owner-only permissions.
func (s *Store) persistLocked(cred *Credential) error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(s.path, data, 0600, 0700); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
