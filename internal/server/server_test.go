package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iksnae/var-manager/internal"
	"github.com/iksnae/var-manager/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewService(testutil.NewTestStore(t)).Router()
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(testutil.JSONMarshal(t, body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	testutil.JSONUnmarshal(t, rec.Body.Bytes(), dst)
}

func TestProbe(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/probe", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("probe status = %d, want 204", rec.Code)
	}
}

func TestSaveSnapshot_CreatedThenReplaced(t *testing.T) {
	router := newTestRouter(t)

	payload := map[string]interface{}{
		"identifier": "snap-http-1",
		"chatFile":   "chat.jsonl",
		"messageId":  "42",
		"payload":    map[string]interface{}{"hp": 100},
	}

	rec := doRequest(t, router, http.MethodPost, "/api/snapshots", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first save status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	var result internal.SaveSnapshotResult
	decodeResponse(t, rec, &result)
	if result.Identifier != "snap-http-1" {
		t.Errorf("identifier = %s, want snap-http-1", result.Identifier)
	}
	if result.Replaced {
		t.Error("first save reported replaced")
	}

	rec = doRequest(t, router, http.MethodPost, "/api/snapshots", payload)
	if rec.Code != http.StatusOK {
		t.Errorf("replace status = %d, want 200", rec.Code)
	}
	decodeResponse(t, rec, &result)
	if !result.Replaced {
		t.Error("second save did not report replaced")
	}
}

func TestSaveSnapshot_ValidationError(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/snapshots", map[string]interface{}{
		"payload": map[string]interface{}{"hp": 1},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var body map[string]string
	decodeResponse(t, rec, &body)
	if body["error"] == "" {
		t.Error("error body missing message")
	}
}

func TestSaveSnapshot_MalformedJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/snapshots", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetSnapshot(t *testing.T) {
	router := newTestRouter(t)

	doRequest(t, router, http.MethodPost, "/api/snapshots", map[string]interface{}{
		"identifier": "snap-read",
		"chatFile":   "chat.jsonl",
		"payload":    map[string]interface{}{"mood": "calm"},
	})

	rec := doRequest(t, router, http.MethodGet, "/api/snapshots/snap-read", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}

	var record internal.SnapshotRecord
	decodeResponse(t, rec, &record)
	if record.ChatFile != "chat.jsonl" {
		t.Errorf("chatFile = %s, want chat.jsonl", record.ChatFile)
	}
	payload, ok := record.Payload.(map[string]interface{})
	if !ok || payload["mood"] != "calm" {
		t.Errorf("payload = %#v, want mood=calm", record.Payload)
	}
}

func TestGetSnapshot_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/snapshots/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteSnapshot(t *testing.T) {
	router := newTestRouter(t)

	doRequest(t, router, http.MethodPost, "/api/snapshots", map[string]interface{}{
		"identifier": "snap-del",
		"chatFile":   "chat.jsonl",
		"payload":    map[string]interface{}{"v": 1},
	})

	rec := doRequest(t, router, http.MethodDelete, "/api/snapshots/snap-del", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/snapshots/snap-del", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestDeleteChatSnapshots(t *testing.T) {
	router := newTestRouter(t)

	for _, id := range []string{"a", "b"} {
		doRequest(t, router, http.MethodPost, "/api/snapshots", map[string]interface{}{
			"identifier": id,
			"chatFile":   "doomed.jsonl",
			"payload":    map[string]interface{}{"id": id},
		})
	}

	rec := doRequest(t, router, http.MethodDelete, "/api/chats/doomed.jsonl", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]int64
	decodeResponse(t, rec, &body)
	if body["deleted"] != 2 {
		t.Errorf("deleted = %d, want 2", body["deleted"])
	}
}

func TestCleanupSnapshots(t *testing.T) {
	router := newTestRouter(t)

	for _, chat := range []string{"keep.jsonl", "orphan.jsonl"} {
		doRequest(t, router, http.MethodPost, "/api/snapshots", map[string]interface{}{
			"chatFile": chat,
			"payload":  map[string]interface{}{"chat": chat},
		})
	}

	rec := doRequest(t, router, http.MethodPost, "/api/snapshots/cleanup", map[string]interface{}{
		"activeChatFiles": []string{"keep.jsonl"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("cleanup status = %d, want 200", rec.Code)
	}

	var result internal.CleanupResult
	decodeResponse(t, rec, &result)
	if result.DeletedCount != 1 {
		t.Errorf("DeletedCount = %d, want 1", result.DeletedCount)
	}
	if len(result.DeletedChatFiles) != 1 || result.DeletedChatFiles[0] != "orphan.jsonl" {
		t.Errorf("DeletedChatFiles = %v, want [orphan.jsonl]", result.DeletedChatFiles)
	}
}

func TestGlobalSnapshotLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/global-snapshots", map[string]interface{}{
		"snapshotId":   "gs-1",
		"name":         "Checkpoint",
		"snapshotBody": map[string]interface{}{"scene": "castle"},
		"tags":         []string{"story"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/api/global-snapshots/gs-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var record internal.GlobalSnapshotRecord
	decodeResponse(t, rec, &record)
	if record.Name != "Checkpoint" {
		t.Errorf("name = %s, want Checkpoint", record.Name)
	}

	rec = doRequest(t, router, http.MethodDelete, "/api/global-snapshots/gs-1", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/global-snapshots/gs-1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestListGlobalSnapshots_QueryParams(t *testing.T) {
	router := newTestRouter(t)

	saves := []struct {
		name string
		tags []string
	}{
		{"alpha", []string{"x"}},
		{"beta", []string{"xyz"}},
		{"gamma", nil},
	}
	for _, save := range saves {
		body := map[string]interface{}{
			"name":         save.name,
			"snapshotBody": map[string]interface{}{"n": save.name},
		}
		if save.tags != nil {
			body["tags"] = save.tags
		}
		doRequest(t, router, http.MethodPost, "/api/global-snapshots", body)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/global-snapshots?tag=x", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var result internal.ListGlobalSnapshotsResult
	decodeResponse(t, rec, &result)
	if result.Total != 1 || len(result.Snapshots) != 1 || result.Snapshots[0].Name != "alpha" {
		t.Errorf("tag filter result = %+v, want only alpha", result)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/global-snapshots?limit=2", nil)
	decodeResponse(t, rec, &result)
	if result.Total != 3 || len(result.Snapshots) != 2 {
		t.Errorf("limit result: total=%d page=%d, want 3 and 2", result.Total, len(result.Snapshots))
	}

	rec = doRequest(t, router, http.MethodGet, "/api/global-snapshots?limit=nope", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rec.Code)
	}
}

func TestTemplateLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/templates", map[string]interface{}{
		"characterName": "Alice",
		"template":      map[string]interface{}{"hp": 100},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/api/templates/Alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var record internal.TemplateRecord
	decodeResponse(t, rec, &record)
	if record.CharacterName != "Alice" {
		t.Errorf("characterName = %s, want Alice", record.CharacterName)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/templates/Nobody", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing template status = %d, want 404", rec.Code)
	}
}
