// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apitest runs an in-memory ticketing API for tests. It speaks the
// same wire format as the real backend: bearer tokens, /auth/login and the
// /clientes, /tecnicos and /tickets collections.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/ticketdesk-tui/internal/api"
)

// Default login of a new Server.
const (
	Email    = "admin@ticketdesk.test"
	Password = "secret123"
	Token    = "token-1"
)

// Server is a fake API backed by slices.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	token       string
	clients     []api.Client
	technicians []api.Technician
	tickets     []api.Ticket
	failures    map[string]int
	requests    []string
	nextID      int
	now         func() time.Time
}

// NewServer starts a Server closed at test cleanup.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		token:    Token,
		failures: map[string]int{},
		now:      time.Now,
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.login)

	mux.HandleFunc("GET /clientes", s.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.clients)
	}))
	mux.HandleFunc("POST /clientes", s.authed(func(w http.ResponseWriter, r *http.Request) {
		var c api.Client
		if !decode(w, r, &c) {
			return
		}
		c.ID = s.newID("c")
		s.clients = append(s.clients, c)
		writeJSON(w, http.StatusCreated, c)
	}))
	mux.HandleFunc("PUT /clientes/{id}", s.authed(func(w http.ResponseWriter, r *http.Request) {
		var c api.Client
		if !decode(w, r, &c) {
			return
		}
		c.ID = r.PathValue("id")
		if !replace(s.clients, c.ID, func(x api.Client) string { return x.ID }, c) {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}))
	mux.HandleFunc("DELETE /clientes/{id}", s.authed(func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		s.clients, ok = remove(s.clients, r.PathValue("id"), func(x api.Client) string { return x.ID })
		if !ok {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
	}))

	mux.HandleFunc("GET /tecnicos", s.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.technicians)
	}))
	mux.HandleFunc("POST /tecnicos", s.authed(func(w http.ResponseWriter, r *http.Request) {
		var t api.Technician
		if !decode(w, r, &t) {
			return
		}
		t.ID = s.newID("t")
		s.technicians = append(s.technicians, t)
		writeJSON(w, http.StatusCreated, t)
	}))
	mux.HandleFunc("PUT /tecnicos/{id}", s.authed(func(w http.ResponseWriter, r *http.Request) {
		var t api.Technician
		if !decode(w, r, &t) {
			return
		}
		t.ID = r.PathValue("id")
		if !replace(s.technicians, t.ID, func(x api.Technician) string { return x.ID }, t) {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}))
	mux.HandleFunc("DELETE /tecnicos/{id}", s.authed(func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		s.technicians, ok = remove(s.technicians, r.PathValue("id"), func(x api.Technician) string { return x.ID })
		if !ok {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
	}))

	mux.HandleFunc("GET /tickets", s.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.tickets)
	}))
	mux.HandleFunc("POST /tickets", s.authed(func(w http.ResponseWriter, r *http.Request) {
		var in api.TicketInput
		if !decode(w, r, &in) {
			return
		}
		t := s.ticketFrom(in)
		t.ID = s.newID("k")
		t.CreatedAt = s.now()
		s.tickets = append(s.tickets, t)
		writeJSON(w, http.StatusCreated, t)
	}))
	mux.HandleFunc("PUT /tickets/{id}", s.authed(func(w http.ResponseWriter, r *http.Request) {
		var in api.TicketInput
		if !decode(w, r, &in) {
			return
		}
		id := r.PathValue("id")
		for i := range s.tickets {
			if s.tickets[i].ID == id {
				t := s.ticketFrom(in)
				t.ID, t.CreatedAt = id, s.tickets[i].CreatedAt
				s.tickets[i] = t
				writeJSON(w, http.StatusOK, t)
				return
			}
		}
		notFound(w)
	}))
	mux.HandleFunc("DELETE /tickets/{id}", s.authed(func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		s.tickets, ok = remove(s.tickets, r.PathValue("id"), func(x api.Ticket) string { return x.ID })
		if !ok {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
	}))

	return s.record(mux)
}

// =============================================================================
// CONTROLS
// =============================================================================

// AddClient stores c and returns it with its id.
func (s *Server) AddClient(c api.Client) api.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.newID("c")
	s.clients = append(s.clients, c)
	return c
}

// AddTechnician stores t and returns it with its id.
func (s *Server) AddTechnician(t api.Technician) api.Technician {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.newID("t")
	s.technicians = append(s.technicians, t)
	return t
}

// AddTicket stores a ticket created at the given time.
func (s *Server) AddTicket(in api.TicketInput, createdAt time.Time) api.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.ticketFrom(in)
	t.ID = s.newID("k")
	t.CreatedAt = createdAt
	s.tickets = append(s.tickets, t)
	return t
}

// Clients returns the stored clients.
func (s *Server) Clients() []api.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Client(nil), s.clients...)
}

// Technicians returns the stored technicians.
func (s *Server) Technicians() []api.Technician {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Technician(nil), s.technicians...)
}

// Tickets returns the stored tickets.
func (s *Server) Tickets() []api.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Ticket(nil), s.tickets...)
}

// Fail makes every request matching "METHOD /path" answer status until
// cleared with status 0.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = status
}

// RotateToken makes the server accept only token from now on, so requests
// carrying the old one get 401.
func (s *Server) RotateToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Requests returns "METHOD /path" for every request received, in order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.requests = append(s.requests, route)
		status := s.failures[route]
		s.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer "+s.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			return
		}
		h(w, r)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "email and password are required"})
		return
	}
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if !strings.EqualFold(req.Email, Email) || req.Password != Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, api.LoginResponse{
		Token:    token,
		Nombre:   "Ana",
		Apellido: "Pérez",
		Email:    Email,
	})
}

// ticketFrom populates the client and technician references of in. Must
// be called with mu held.
func (s *Server) ticketFrom(in api.TicketInput) api.Ticket {
	t := api.Ticket{
		Codigo:      in.Codigo,
		Descripcion: in.Descripcion,
		Cliente:     api.PersonRef{ID: in.Cliente},
		Tecnico:     api.PersonRef{ID: in.Tecnico},
	}
	for _, c := range s.clients {
		if c.ID == in.Cliente {
			t.Cliente = api.PersonRef{ID: c.ID, Nombre: c.Nombre, Apellido: c.Apellido}
		}
	}
	for _, tc := range s.technicians {
		if tc.ID == in.Tecnico {
			t.Tecnico = api.PersonRef{ID: tc.ID, Nombre: tc.Nombre, Apellido: tc.Apellido}
		}
	}
	return t
}

// newID must be called with mu held.
func (s *Server) newID(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s%d", prefix, s.nextID)
}

func replace[T any](items []T, id string, idOf func(T) string, v T) bool {
	for i := range items {
		if idOf(items[i]) == id {
			items[i] = v
			return true
		}
	}
	return false
}

func remove[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	for i := range items {
		if idOf(items[i]) == id {
			return append(items[:i], items[i+1:]...), true
		}
	}
	return items, false
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed body"})
		return false
	}
	return true
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
