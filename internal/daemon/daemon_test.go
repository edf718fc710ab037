package daemon

import (
	"context"
	"strings"
	"testing"

	"greenroom/internal/config"
	"greenroom/internal/logging"
	"greenroom/internal/session"
	"greenroom/internal/testsupport"
	"greenroom/internal/workflow"
)

func newTestDaemon(t *testing.T) (*Daemon, *config.Config, *session.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	wf := workflow.NewManager(cfg, store, logger)
	d, err := New(cfg, store, logger, wf, "", nil, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d, cfg, store
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(nil, nil, nil, nil, "", nil, nil, nil); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}

func TestCreateSessionValidatesInterviewType(t *testing.T) {
	d, _, _ := newTestDaemon(t)

	if _, err := d.CreateSession(context.Background(), "Software Engineer", "stress", 3); err == nil {
		t.Fatal("expected error for unknown interview type")
	}
}

func TestCreateSessionAppliesDefaults(t *testing.T) {
	d, cfg, _ := newTestDaemon(t)

	sess, err := d.CreateSession(context.Background(), "", "", 0)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.Role != cfg.Interview.DefaultRole {
		t.Fatalf("expected default role %q, got %q", cfg.Interview.DefaultRole, sess.Role)
	}
	if sess.QuestionsTotal != cfg.Interview.QuestionsPerSession {
		t.Fatalf("expected default question count %d, got %d", cfg.Interview.QuestionsPerSession, sess.QuestionsTotal)
	}
	if sess.Status != session.StatusPending {
		t.Fatalf("expected pending session, got %s", sess.Status)
	}
}

func TestSubmitAnswerRejectsMissingSession(t *testing.T) {
	d, _, _ := newTestDaemon(t)

	err := d.SubmitAnswer(context.Background(), 999, "my answer")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestSubmitAnswerRejectsEmptyText(t *testing.T) {
	d, _, store := newTestDaemon(t)
	sess := testsupport.NewSession(t, store, "Software Engineer", "technical", 2)

	if err := d.SubmitAnswer(context.Background(), sess.ID, "   "); err == nil {
		t.Fatal("expected error for blank answer")
	}
}

func TestSubmitAnswerRejectsTerminalSession(t *testing.T) {
	d, _, store := newTestDaemon(t)
	sess := testsupport.NewSession(t, store, "Software Engineer", "technical", 2)
	sess.Status = session.StatusCompleted
	if err := store.Update(context.Background(), sess); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := d.SubmitAnswer(context.Background(), sess.ID, "too late"); err == nil {
		t.Fatal("expected error for completed session")
	}
}

func TestCancelSessionsParksInReview(t *testing.T) {
	d, _, store := newTestDaemon(t)
	active := testsupport.NewSession(t, store, "Software Engineer", "technical", 2)
	done := testsupport.NewSession(t, store, "Data Engineer", "behavioral", 2)
	done.Status = session.StatusCompleted
	if err := store.Update(context.Background(), done); err != nil {
		t.Fatalf("Update: %v", err)
	}

	updated, err := d.CancelSessions(context.Background(), []int64{active.ID, done.ID, 999})
	if err != nil {
		t.Fatalf("CancelSessions: %v", err)
	}
	if updated != 1 {
		t.Fatalf("expected 1 cancelled session, got %d", updated)
	}

	stopped, err := store.GetByID(context.Background(), active.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stopped.Status != session.StatusReview || !stopped.NeedsReview {
		t.Fatalf("session not parked in review: %+v", stopped)
	}
	if !session.IsUserStopReason(stopped.ReviewReason) {
		t.Fatalf("unexpected review reason: %q", stopped.ReviewReason)
	}

	untouched, err := store.GetByID(context.Background(), done.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if untouched.Status != session.StatusCompleted {
		t.Fatalf("completed session should not change, got %s", untouched.Status)
	}
}

func TestRetryFailedOnlyTouchesFailedSessions(t *testing.T) {
	d, _, store := newTestDaemon(t)
	failed := testsupport.NewSession(t, store, "Software Engineer", "technical", 2)
	failed.Status = session.StatusFailed
	if err := store.Update(context.Background(), failed); err != nil {
		t.Fatalf("Update: %v", err)
	}
	pending := testsupport.NewSession(t, store, "Data Engineer", "behavioral", 2)

	updated, err := d.RetryFailed(context.Background(), []int64{failed.ID, pending.ID})
	if err != nil {
		t.Fatalf("RetryFailed: %v", err)
	}
	if updated != 1 {
		t.Fatalf("expected 1 retried session, got %d", updated)
	}
}

func TestStatusReportsPaths(t *testing.T) {
	d, cfg, _ := newTestDaemon(t)

	status := d.Status(context.Background())
	if status.Running {
		t.Fatal("daemon should not report running before Start")
	}
	if status.PID <= 0 {
		t.Fatalf("expected a pid, got %d", status.PID)
	}
	if !strings.HasPrefix(status.SessionDBPath, cfg.Paths.DataDir) {
		t.Fatalf("unexpected db path: %q", status.SessionDBPath)
	}
	if !strings.HasSuffix(status.LockFilePath, "greenroomd.lock") {
		t.Fatalf("unexpected lock path: %q", status.LockFilePath)
	}
}

func TestTestNotificationWithoutTopic(t *testing.T) {
	d, _, _ := newTestDaemon(t)

	sent, message, err := d.TestNotification(context.Background())
	if err != nil {
		t.Fatalf("TestNotification: %v", err)
	}
	if sent {
		t.Fatal("notification should not send without a topic")
	}
	if !strings.Contains(message, "not configured") {
		t.Fatalf("unexpected message: %q", message)
	}
}
