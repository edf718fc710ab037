package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"greenroom/internal/config"
	"greenroom/internal/logging"
	"greenroom/internal/services"
	"greenroom/internal/session"
	"greenroom/internal/stage"
	"greenroom/internal/testsupport"
)

type stubHandler struct {
	name    string
	prepare func(context.Context, *session.Session) error
	execute func(context.Context, *session.Session) error
}

func (s *stubHandler) Prepare(ctx context.Context, sess *session.Session) error {
	if s.prepare != nil {
		return s.prepare(ctx, sess)
	}
	return nil
}

func (s *stubHandler) Execute(ctx context.Context, sess *session.Session) error {
	if s.execute != nil {
		return s.execute(ctx, sess)
	}
	return nil
}

func (s *stubHandler) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy(s.name)
}

func newTestManager(t *testing.T, cfg *config.Config, store *session.Store) *Manager {
	t.Helper()
	cfg.Workflow.QueuePollInterval = 0
	cfg.Workflow.ErrorRetryInterval = 0
	mgr := NewManagerWithNotifier(cfg, store, logging.NewNop(), nil)
	return mgr
}

func waitForStatus(t *testing.T, store *session.Store, id int64, want session.Status) *session.Session {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		sess, err := store.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if sess != nil && sess.Status == want {
			return sess
		}
		select {
		case <-deadline:
			current := session.Status("<missing>")
			if sess != nil {
				current = sess.Status
			}
			t.Fatalf("session %d never reached %q, currently %q", id, want, current)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestConfigureStagesBuildsLanes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	mgr := newTestManager(t, cfg, store)

	mgr.ConfigureStages(StageSet{
		Preparer:    &stubHandler{name: "preparer"},
		Interviewer: &stubHandler{name: "interviewer"},
		Reporter:    &stubHandler{name: "reporter"},
	})

	foreground := mgr.lanes[laneForeground]
	if foreground == nil {
		t.Fatal("foreground lane missing")
	}
	if len(foreground.statusOrder) != 2 ||
		foreground.statusOrder[0] != session.StatusPending ||
		foreground.statusOrder[1] != session.StatusPrepared {
		t.Fatalf("unexpected foreground status order: %v", foreground.statusOrder)
	}
	if !foreground.runReclaimer {
		t.Fatal("foreground lane should reclaim stale sessions")
	}

	background := mgr.lanes[laneBackground]
	if background == nil {
		t.Fatal("background lane missing")
	}
	if len(background.statusOrder) != 1 || background.statusOrder[0] != session.StatusInterviewed {
		t.Fatalf("unexpected background status order: %v", background.statusOrder)
	}
}

func TestManagerRunsSessionToCompletion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	sess := testsupport.NewSession(t, store, "Software Engineer", "technical", 2)

	mgr := newTestManager(t, cfg, store)
	mgr.ConfigureStages(StageSet{
		Preparer: &stubHandler{name: "preparer", execute: func(ctx context.Context, s *session.Session) error {
			s.SetProgressComplete("Preparing", "Questions planned")
			return nil
		}},
		Interviewer: &stubHandler{name: "interviewer", execute: func(ctx context.Context, s *session.Session) error {
			s.QuestionsAsked = s.QuestionsTotal
			s.SetProgressComplete("Interviewing", "Interview complete")
			return nil
		}},
		Reporter: &stubHandler{name: "reporter", execute: func(ctx context.Context, s *session.Session) error {
			s.ReportPath = "/tmp/report.json"
			s.SetProgressComplete("Reporting", "Report ready")
			return nil
		}},
	})

	if err := mgr.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer mgr.Stop()

	final := waitForStatus(t, store, sess.ID, session.StatusCompleted)
	if final.ProgressPercent != 100 {
		t.Fatalf("expected complete progress, got %.1f", final.ProgressPercent)
	}
	if final.ReportPath == "" {
		t.Fatal("report path not carried through reporting stage")
	}
	if final.LastHeartbeat != nil {
		t.Fatal("heartbeat should clear on completion")
	}
}

func TestManagerParksValidationFailuresInReview(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	sess := testsupport.NewSession(t, store, "Software Engineer", "technical", 2)

	mgr := newTestManager(t, cfg, store)
	mgr.ConfigureStages(StageSet{
		Preparer: &stubHandler{name: "preparer", execute: func(ctx context.Context, s *session.Session) error {
			return services.Wrap(services.ErrValidation, "preparing", "validate role", "Session has no usable role", nil)
		}},
	})

	if err := mgr.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer mgr.Stop()

	final := waitForStatus(t, store, sess.ID, session.StatusReview)
	if !final.NeedsReview {
		t.Fatal("expected needs_review flag")
	}
	if final.ReviewReason == "" {
		t.Fatal("expected review reason")
	}
}

func TestManagerMarksTransientFailuresFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	sess := testsupport.NewSession(t, store, "Software Engineer", "technical", 2)

	mgr := newTestManager(t, cfg, store)
	mgr.ConfigureStages(StageSet{
		Preparer: &stubHandler{name: "preparer", execute: func(ctx context.Context, s *session.Session) error {
			return services.Wrap(services.ErrTransient, "preparing", "store plan", "Failed to persist question plan", nil)
		}},
	})

	if err := mgr.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer mgr.Stop()

	final := waitForStatus(t, store, sess.ID, session.StatusFailed)
	if final.ErrorMessage == "" {
		t.Fatal("expected error message")
	}
	if final.ProgressStage != "Failed" {
		t.Fatalf("expected Failed progress stage, got %q", final.ProgressStage)
	}
}

func TestRunPreflightChecksWrapsFailuresAsConfiguration(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	mgr := newTestManager(t, cfg, store)

	// Point the work dir at a regular file so the directory check fails.
	notADir := filepath.Join(t.TempDir(), "work")
	if err := os.WriteFile(notADir, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Paths.WorkDir = notADir

	err := mgr.RunPreflightChecks(context.Background(), logging.NewNop())
	if err == nil {
		t.Fatal("expected error for unusable work directory")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
}

func TestRunPreflightChecksPassesWithValidDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	mgr := newTestManager(t, cfg, store)

	if err := mgr.RunPreflightChecks(context.Background(), logging.NewNop()); err != nil {
		t.Fatalf("RunPreflightChecks: %v", err)
	}
}

func TestStatusReportsStageHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	mgr := newTestManager(t, cfg, store)
	mgr.ConfigureStages(StageSet{
		Preparer: &stubHandler{name: "preparer"},
		Reporter: &stubHandler{name: "reporter"},
	})

	summary := mgr.Status(context.Background())
	if summary.Running {
		t.Fatal("manager should not report running before Start")
	}
	if len(summary.StageHealth) != 2 {
		t.Fatalf("expected health for 2 stages, got %d", len(summary.StageHealth))
	}
	if !summary.StageHealth["preparer"].Ready {
		t.Fatal("preparer should report ready")
	}
}
