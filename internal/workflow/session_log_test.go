package workflow

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"greenroom/internal/session"
	"greenroom/internal/testsupport"
)

func TestSessionLoggerEnsureBuildsPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	logs := NewSessionLogger(cfg, nil)

	sess := &session.Session{ID: 7, Token: "abc123", Role: "Software Engineer"}
	path, created, err := logs.Ensure(sess)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if !created {
		t.Fatal("expected a fresh log path")
	}
	if !strings.Contains(path, "abc123") || !strings.Contains(path, "software-engineer") {
		t.Fatalf("unexpected log path: %q", path)
	}
	if sess.SessionLogPath != path {
		t.Fatalf("path not stored on session: %q vs %q", sess.SessionLogPath, path)
	}
}

func TestCreateHandlerStampsSessionToken(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Logging.Format = "json"
	logs := NewSessionLogger(cfg, nil)

	sess := &session.Session{ID: 8, Token: "tok-42", Role: "Software Engineer"}
	path, _, err := logs.Ensure(sess)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	handler, err := logs.CreateHandler(path, sess.Token)
	if err != nil {
		t.Fatalf("CreateHandler: %v", err)
	}
	slog.New(handler).Info("interview underway")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read session log: %v", err)
	}
	if !strings.Contains(string(data), `"session_token":"tok-42"`) {
		t.Fatalf("expected session token on every record, got: %s", data)
	}
}
