// Package server exposes the snapshot store over HTTP. It is a thin JSON
// layer: request validation and status mapping live here, all storage
// semantics live in the internal package.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iksnae/var-manager/internal"
)

// MaxBodyBytes caps JSON request bodies (2 MB, matching typical snapshot sizes)
const MaxBodyBytes = 2 << 20

// Service handles HTTP requests against a snapshot store
type Service struct {
	store *internal.Store
}

// NewService creates a Service backed by the given store
func NewService(store *internal.Store) *Service {
	return &Service{store: store}
}

// Router builds the chi router with all API routes mounted under /api
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/probe", s.handleProbe)

		r.Post("/snapshots", s.handleSaveSnapshot)
		r.Post("/snapshots/cleanup", s.handleCleanupSnapshots)
		r.Get("/snapshots/{identifier}", s.handleGetSnapshot)
		r.Delete("/snapshots/{identifier}", s.handleDeleteSnapshot)
		r.Delete("/chats/{chatFile}", s.handleDeleteChatSnapshots)

		r.Post("/global-snapshots", s.handleSaveGlobalSnapshot)
		r.Get("/global-snapshots", s.handleListGlobalSnapshots)
		r.Get("/global-snapshots/{snapshotId}", s.handleGetGlobalSnapshot)
		r.Delete("/global-snapshots/{snapshotId}", s.handleDeleteGlobalSnapshot)

		r.Post("/templates", s.handleUpsertTemplate)
		r.Get("/templates/{characterName}", s.handleGetTemplate)
	})

	return r
}

func (s *Service) handleProbe(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		internal.LogDebug("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// decodeBody parses a JSON request body into dst, enforcing MaxBodyBytes
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		internal.LogError("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeStoreError maps the storage error taxonomy to HTTP statuses:
// validation failures are the caller's fault, everything else is internal.
func writeStoreError(w http.ResponseWriter, err error, fallback string) {
	var validation *internal.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, validation.Error())
		return
	}
	internal.LogError("%s: %v", fallback, err)
	writeError(w, http.StatusInternalServerError, fallback)
}
