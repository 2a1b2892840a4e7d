package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/iksnae/var-manager/internal"
)

// handleUpsertTemplate stores a variable template for a character.
// POST /api/templates
func (s *Service) handleUpsertTemplate(w http.ResponseWriter, r *http.Request) {
	var params internal.TemplateParams
	if !decodeBody(w, r, &params) {
		return
	}

	record, err := s.store.UpsertTemplate(params)
	if err != nil {
		writeStoreError(w, err, "Failed to store template")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleGetTemplate reads the stored template for a character.
// GET /api/templates/{characterName}
func (s *Service) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	characterName := chi.URLParam(r, "characterName")

	record, err := s.store.GetTemplate(characterName)
	if err != nil {
		writeStoreError(w, err, "Failed to read template")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}
