// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fake

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mia-platform/pkgsync/internal/entity"
)

const (
	// ClientID is the only client id accepted by the fake server.
	ClientID = "test-client-id"
	// ClientSecret is the only client secret accepted by the fake server.
	ClientSecret = "test-client-secret"
	// AccessToken is the token issued by the fake server.
	AccessToken = "test-access-token"
)

// Request records a call received by the fake server.
type Request struct {
	Method    string
	Path      string
	Query     string
	RequestID string
}

// Server is an in memory implementation of the subset of the Port API used by
// the sync, backed by an httptest.Server.
type Server struct {
	tb testing.TB
	*httptest.Server

	lock     sync.Mutex
	entities map[string]map[string]entity.Entity
	requests []Request

	// FailingEntities makes upserts of the given identifiers answer with a 422.
	FailingEntities map[string]bool
}

// NewServer starts a fake Port API that is closed at the end of the test.
func NewServer(tb testing.TB) *Server {
	tb.Helper()

	server := &Server{
		tb:              tb,
		entities:        make(map[string]map[string]entity.Entity),
		FailingEntities: make(map[string]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/access_token", server.accessToken)
	mux.HandleFunc("POST /blueprints/{blueprint}/entities", server.upsertEntity)
	mux.HandleFunc("GET /blueprints/{blueprint}/entities/{identifier}", server.getEntity)

	server.Server = httptest.NewServer(server.recordRequests(mux))
	tb.Cleanup(server.Close)
	return server
}

// AddEntity stores data under blueprint as if it was already in the catalog.
func (s *Server) AddEntity(blueprint string, data entity.Entity) {
	s.tb.Helper()

	s.lock.Lock()
	defer s.lock.Unlock()
	s.store(blueprint, data)
}

// Entity returns the stored entity with identifier in blueprint.
func (s *Server) Entity(blueprint, identifier string) (entity.Entity, bool) {
	s.tb.Helper()

	s.lock.Lock()
	defer s.lock.Unlock()
	data, found := s.entities[blueprint][identifier]
	return data, found
}

// Entities returns the number of entities stored in blueprint.
func (s *Server) Entities(blueprint string) int {
	s.tb.Helper()

	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.entities[blueprint])
}

// Requests returns the calls received so far.
func (s *Server) Requests() []Request {
	s.tb.Helper()

	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) store(blueprint string, data entity.Entity) bool {
	if s.entities[blueprint] == nil {
		s.entities[blueprint] = make(map[string]entity.Entity)
	}

	_, found := s.entities[blueprint][data.Identifier]
	s.entities[blueprint][data.Identifier] = data
	return found
}

func (s *Server) recordRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lock.Lock()
		s.requests = append(s.requests, Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
			RequestID: r.Header.Get("x-request-id"),
		})
		s.lock.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) accessToken(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		ClientID     string `json:"clientId"`
		ClientSecret string `json:"clientSecret"`
	}

	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if credentials.ClientID != ClientID || credentials.ClientSecret != ClientSecret {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"accessToken": AccessToken,
		"expiresIn":   3600,
		"tokenType":   "Bearer",
	})
}

func (s *Server) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer "+AccessToken {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}

	return true
}

func (s *Server) upsertEntity(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}

	if r.URL.Query().Get("upsert") != "true" {
		writeError(w, http.StatusConflict, "entity already exists")
		return
	}

	var data entity.Entity
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || strings.TrimSpace(data.Identifier) == "" {
		writeError(w, http.StatusUnprocessableEntity, "invalid entity")
		return
	}

	if s.FailingEntities[data.Identifier] {
		writeError(w, http.StatusUnprocessableEntity, "entity rejected")
		return
	}

	blueprint := r.PathValue("blueprint")
	data.Blueprint = blueprint

	s.lock.Lock()
	existing := s.store(blueprint, data)
	s.lock.Unlock()

	status := http.StatusCreated
	if existing {
		status = http.StatusOK
	}

	writeJSON(w, status, map[string]any{"ok": true, "entity": data})
}

func (s *Server) getEntity(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}

	s.lock.Lock()
	data, found := s.entities[r.PathValue("blueprint")][r.PathValue("identifier")]
	s.lock.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, "entity not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "entity": data})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"ok":      false,
		"error":   http.StatusText(status),
		"message": message,
	})
}
