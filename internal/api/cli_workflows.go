package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"greenroom/internal/config"
	"greenroom/internal/interview"
	"greenroom/internal/logging"
	"greenroom/internal/notifications"
	"greenroom/internal/oracle"
	"greenroom/internal/services"
	"greenroom/internal/session"
	"greenroom/internal/speech"
	"greenroom/internal/stageexec"
)

// PracticeSessionRequest runs a full rehearsal in the calling process instead
// of handing the session to the daemon.
type PracticeSessionRequest struct {
	Config        *config.Config
	Logger        *slog.Logger
	Role          string
	InterviewType string
	Questions     int
	// TextOnly disables microphone capture for this run; answers come from
	// the terminal regardless of the configured speech settings.
	TextOnly bool
}

// PracticeSessionResult reports the finished session and its artefacts.
type PracticeSessionResult struct {
	SessionID  int64
	Token      string
	Status     string
	ReportPath string
	ReportJSON string
}

// RunPracticeSession creates a session and drives it through the preparer,
// interviewer, and reporter stages in the foreground. The daemon must not be
// processing sessions concurrently; callers are expected to check first.
func RunPracticeSession(ctx context.Context, req PracticeSessionRequest) (PracticeSessionResult, error) {
	cfg := req.Config
	if cfg == nil {
		return PracticeSessionResult{}, fmt.Errorf("configuration is required")
	}
	logger := req.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if req.TextOnly {
		// Copy so the caller's config is untouched.
		clone := *cfg
		clone.Speech.CaptureEnabled = false
		cfg = &clone
	}

	store, err := session.Open(cfg)
	if err != nil {
		return PracticeSessionResult{}, fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = strings.TrimSpace(cfg.Interview.DefaultRole)
	}
	interviewType := strings.TrimSpace(req.InterviewType)
	if interviewType == "" {
		interviewType = strings.TrimSpace(cfg.Interview.DefaultType)
	}
	questions := req.Questions
	if questions <= 0 {
		questions = cfg.Interview.QuestionsPerSession
	}

	sess, err := store.NewSession(ctx, role, interviewType, questions)
	if err != nil {
		return PracticeSessionResult{}, fmt.Errorf("create session: %w", err)
	}
	baseCtx := services.WithSessionID(ctx, sess.ID)

	client, err := oracle.New(oracle.SettingsFromConfig(cfg.GetOracle()), oracle.WithLogger(logger))
	if err != nil {
		return PracticeSessionResult{}, fmt.Errorf("create oracle client: %w", err)
	}
	speechSvc, err := speech.NewService(cfg.Speech, logger)
	if err != nil {
		return PracticeSessionResult{}, fmt.Errorf("create speech service: %w", err)
	}
	notifier := notifications.NewService(cfg)

	stages := []struct {
		name       string
		handler    stageexec.Handler
		processing session.Status
		done       session.Status
	}{
		{
			name:       "preparer",
			handler:    interview.NewPreparer(cfg, store, client, logger, notifier),
			processing: session.StatusPreparing,
			done:       session.StatusPrepared,
		},
		{
			name:       "interviewer",
			handler:    interview.NewInterviewer(cfg, store, client, speechSvc, logger, notifier),
			processing: session.StatusInterviewing,
			done:       session.StatusInterviewed,
		},
		{
			name:       "reporter",
			handler:    interview.NewReporter(cfg, store, logger, notifier),
			processing: session.StatusReporting,
			done:       session.StatusCompleted,
		},
	}

	for _, stg := range stages {
		if err := stageexec.Run(baseCtx, stageexec.Options{
			Logger:     logger,
			Store:      store,
			Notifier:   notifier,
			Handler:    stg.handler,
			StageName:  stg.name,
			Processing: stg.processing,
			Done:       stg.done,
			Session:    sess,
		}); err != nil {
			if sess.NeedsReview {
				return PracticeSessionResult{}, fmt.Errorf("%s requires review: %s", stg.name, strings.TrimSpace(sess.ReviewReason))
			}
			return PracticeSessionResult{}, fmt.Errorf("%s failed: %w", stg.name, err)
		}
	}

	return PracticeSessionResult{
		SessionID:  sess.ID,
		Token:      sess.Token,
		Status:     string(sess.Status),
		ReportPath: sess.ReportPath,
		ReportJSON: sess.ReportJSON,
	}, nil
}
