package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/iksnae/var-manager/internal"
)

// handleSaveGlobalSnapshot saves a named global snapshot.
// POST /api/global-snapshots
func (s *Service) handleSaveGlobalSnapshot(w http.ResponseWriter, r *http.Request) {
	var params internal.GlobalSnapshotParams
	if !decodeBody(w, r, &params) {
		return
	}

	result, err := s.store.SaveGlobalSnapshot(params)
	if err != nil {
		writeStoreError(w, err, "Failed to save global snapshot")
		return
	}

	status := http.StatusCreated
	if result.Replaced {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

// handleListGlobalSnapshots lists global snapshots with optional tag filter
// and pagination.
// GET /api/global-snapshots?tag=&limit=&offset=
func (s *Service) handleListGlobalSnapshots(w http.ResponseWriter, r *http.Request) {
	opts := internal.ListGlobalSnapshotsOptions{
		Tag: r.URL.Query().Get("tag"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		opts.Limit = limit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid offset")
			return
		}
		opts.Offset = offset
	}

	result, err := s.store.ListGlobalSnapshots(opts)
	if err != nil {
		writeStoreError(w, err, "Failed to list global snapshots")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetGlobalSnapshot reads a global snapshot by id.
// GET /api/global-snapshots/{snapshotId}
func (s *Service) handleGetGlobalSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshotID := chi.URLParam(r, "snapshotId")

	record, err := s.store.GetGlobalSnapshot(snapshotID)
	if err != nil {
		writeStoreError(w, err, "Failed to read global snapshot")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "Global snapshot not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleDeleteGlobalSnapshot removes a global snapshot binding.
// DELETE /api/global-snapshots/{snapshotId}
func (s *Service) handleDeleteGlobalSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshotID := chi.URLParam(r, "snapshotId")

	if err := s.store.DeleteGlobalSnapshot(snapshotID); err != nil {
		writeStoreError(w, err, "Failed to delete global snapshot")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
