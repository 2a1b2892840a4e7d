package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/iksnae/var-manager/internal"
)

// handleSaveSnapshot saves a per-message snapshot.
// POST /api/snapshots
func (s *Service) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var params internal.SnapshotParams
	if !decodeBody(w, r, &params) {
		return
	}

	result, err := s.store.SaveSnapshot(params)
	if err != nil {
		writeStoreError(w, err, "Failed to save snapshot")
		return
	}

	status := http.StatusCreated
	if result.Replaced {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

// handleGetSnapshot reads a snapshot by identifier.
// GET /api/snapshots/{identifier}
func (s *Service) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	record, err := s.store.GetSnapshot(identifier)
	if err != nil {
		writeStoreError(w, err, "Failed to read snapshot")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "Snapshot not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleDeleteSnapshot removes a single snapshot binding.
// DELETE /api/snapshots/{identifier}
func (s *Service) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	if err := s.store.DeleteSnapshot(identifier); err != nil {
		writeStoreError(w, err, "Failed to delete snapshot")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteChatSnapshots removes every snapshot for one chat file.
// DELETE /api/chats/{chatFile}
func (s *Service) handleDeleteChatSnapshots(w http.ResponseWriter, r *http.Request) {
	chatFile := chi.URLParam(r, "chatFile")

	deleted, err := s.store.DeleteSnapshotsByChatFile(chatFile)
	if err != nil {
		writeStoreError(w, err, "Failed to delete snapshots")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

// handleCleanupSnapshots sweeps bindings for chat files no longer present.
// POST /api/snapshots/cleanup
func (s *Service) handleCleanupSnapshots(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ActiveChatFiles []string `json:"activeChatFiles"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	result, err := s.store.CleanupOrphanedSnapshots(body.ActiveChatFiles)
	if err != nil {
		writeStoreError(w, err, "Failed to clean up snapshots")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
