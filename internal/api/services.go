// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jeranaias/ticketdesk-tui/internal/session"
)

// Resource paths.
const (
	ClientsPath     = "/clientes"
	TechniciansPath = "/tecnicos"
	TicketsPath     = "/tickets"
)

// Services bundles the typed endpoints of the API.
type Services struct {
	Auth        *Auth
	Clients     *Resource[Client, Client]
	Technicians *Resource[Technician, Technician]
	Tickets     *Resource[Ticket, TicketInput]

	gw *Gateway
}

// NewServices builds every service on top of gw.
func NewServices(gw *Gateway) *Services {
	return &Services{
		Auth:        &Auth{gw: gw},
		Clients:     NewResource[Client, Client](gw, ClientsPath),
		Technicians: NewResource[Technician, Technician](gw, TechniciansPath),
		Tickets:     NewResource[Ticket, TicketInput](gw, TicketsPath),
		gw:          gw,
	}
}

// Gateway returns the gateway the services share.
func (s *Services) Gateway() *Gateway {
	return s.gw
}

// =============================================================================
// AUTH
// =============================================================================

// Auth talks to the login endpoint.
type Auth struct {
	gw *Gateway
}

// Login exchanges email and password for a token and stores the resulting
// credential. A 401 comes back as *StatusError, never as a session
// invalidation.
func (a *Auth) Login(ctx context.Context, email, password string) (session.Credential, error) {
	var resp LoginResponse
	req := LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := a.gw.Post(ctx, a.gw.loginPath, req, &resp); err != nil {
		return session.Credential{}, err
	}
	if resp.Token == "" {
		return session.Credential{}, ErrInvalidCredentials
	}

	cred := session.Credential{
		Token:    resp.Token,
		Nombre:   resp.Nombre,
		Apellido: resp.Apellido,
		Email:    resp.Email,
	}
	if a.gw.store != nil {
		if err := a.gw.store.Save(cred); err != nil {
			return session.Credential{}, fmt.Errorf("failed to save session: %w", err)
		}
		// Pick up SavedAt.
		if saved, ok := a.gw.store.Credential(); ok {
			cred = saved
		}
	}
	return cred, nil
}

// Logout forgets the stored credential. The API has no logout endpoint.
func (a *Auth) Logout() error {
	if a.gw.store == nil {
		return nil
	}
	return a.gw.store.Clear()
}

// =============================================================================
// RESOURCES
// =============================================================================

// Resource is a REST collection of T records written as In bodies.
type Resource[T any, In any] struct {
	gw   *Gateway
	path string
}

// NewResource returns the collection mounted at path.
func NewResource[T any, In any](gw *Gateway, path string) *Resource[T, In] {
	return &Resource[T, In]{gw: gw, path: path}
}

// Path returns the collection path.
func (r *Resource[T, In]) Path() string {
	return r.path
}

// List fetches every record.
func (r *Resource[T, In]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.gw.Get(ctx, r.path, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Create adds a record.
func (r *Resource[T, In]) Create(ctx context.Context, in In) error {
	return r.gw.Post(ctx, r.path, in, nil)
}

// Update replaces the record with the given id.
func (r *Resource[T, In]) Update(ctx context.Context, id string, in In) error {
	if id == "" {
		return fmt.Errorf("update %s: empty id", r.path)
	}
	return r.gw.Put(ctx, r.itemPath(id), in, nil)
}

// Delete removes the record with the given id.
func (r *Resource[T, In]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete %s: empty id", r.path)
	}
	return r.gw.Delete(ctx, r.itemPath(id))
}

func (r *Resource[T, In]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}
