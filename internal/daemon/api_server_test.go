package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"greenroom/internal/api"
	"greenroom/internal/logging"
	"greenroom/internal/session"
	"greenroom/internal/testsupport"
	"greenroom/internal/workflow"
)

func newTestAPIServer(t *testing.T) (*apiServer, *session.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Paths.APIBind = "127.0.0.1:0"
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	wf := workflow.NewManager(cfg, store, logger)
	d, err := New(cfg, store, logger, wf, "", nil, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.api == nil {
		t.Fatal("expected api server when bind address configured")
	}
	return d.api, store
}

func TestNewAPIServerDisabledWithoutBind(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	wf := workflow.NewManager(cfg, store, logger)
	d, err := New(cfg, store, logger, wf, "", nil, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.api != nil {
		t.Fatal("api server should be nil when bind address is empty")
	}
}

func TestHandleStatus(t *testing.T) {
	srv, _ := newTestAPIServer(t)

	rec := httptest.NewRecorder()
	srv.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload api.DaemonStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if payload.Running {
		t.Fatal("daemon should not report running before Start")
	}
	if payload.SessionDBPath == "" || payload.LockFilePath == "" {
		t.Fatalf("status paths missing: %+v", payload)
	}
}

func TestHandleSessionsFiltersByStatus(t *testing.T) {
	srv, store := newTestAPIServer(t)
	testsupport.NewSession(t, store, "Software Engineer", "technical", 2)
	failed := testsupport.NewSession(t, store, "Data Engineer", "behavioral", 2)
	failed.Status = session.StatusFailed
	if err := store.Update(context.Background(), failed); err != nil {
		t.Fatalf("Update: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.handleSessions(rec, httptest.NewRequest(http.MethodGet, "/api/sessions?status=failed", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload api.SessionListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode sessions: %v", err)
	}
	if len(payload.Items) != 1 || payload.Items[0].Status != "failed" {
		t.Fatalf("unexpected filtered items: %+v", payload.Items)
	}
}

func TestHandleSessionNotFound(t *testing.T) {
	srv, _ := newTestAPIServer(t)

	rec := httptest.NewRecorder()
	srv.handleSession(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/999", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleSessionReportPassthrough(t *testing.T) {
	srv, store := newTestAPIServer(t)
	sess := testsupport.NewSession(t, store, "Software Engineer", "technical", 2)
	sess.Status = session.StatusCompleted
	sess.ReportJSON = `{"overall_score":7.5}`
	if err := store.Update(context.Background(), sess); err != nil {
		t.Fatalf("Update: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.handleSession(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/sessions/%d/report", sess.ID), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var report map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report["overall_score"] != 7.5 {
		t.Fatalf("unexpected report payload: %v", report)
	}
}

func TestHandleSessionReportMissing(t *testing.T) {
	srv, store := newTestAPIServer(t)
	sess := testsupport.NewSession(t, store, "Software Engineer", "technical", 2)

	rec := httptest.NewRecorder()
	srv.handleSession(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/sessions/%d/report", sess.ID), nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for session without a report, got %d", rec.Code)
	}
}

func TestHandleLogsWithoutHub(t *testing.T) {
	srv, _ := newTestAPIServer(t)

	rec := httptest.NewRecorder()
	srv.handleLogs(rec, httptest.NewRequest(http.MethodGet, "/api/logs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload api.LogStreamResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	if len(payload.Events) != 0 || payload.Next != 0 {
		t.Fatalf("expected empty log payload, got %+v", payload)
	}
}

func TestAuthMiddleware(t *testing.T) {
	called := false
	handler := authMiddleware("secret", func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	handler(rec, req)
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 with bad token, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	handler(rec, req)
	if rec.Code != http.StatusOK || !called {
		t.Fatalf("expected pass-through with valid token, got %d", rec.Code)
	}
}
