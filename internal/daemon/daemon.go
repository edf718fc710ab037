package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"greenroom/internal/config"
	"greenroom/internal/deps"
	"greenroom/internal/logging"
	"greenroom/internal/notifications"
	"greenroom/internal/preflight"
	"greenroom/internal/roles"
	"greenroom/internal/session"
	"greenroom/internal/workflow"
)

// Daemon coordinates the background processing services and enforces
// single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *session.Store
	workflow *workflow.Manager
	notifier notifications.Service
	logPath  string

	logHub     *logging.StreamHub
	logArchive *logging.EventArchive

	lockPath string
	lock     *flock.Flock

	api     *apiServer
	monitor *soundMonitor

	running    atomic.Bool
	audioReady atomic.Bool
	ctx        context.Context
	cancel     context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running           bool
	PID               int
	Workflow          workflow.StatusSummary
	SessionDBPath     string
	LockFilePath      string
	AudioCaptureReady bool
	Dependencies      []deps.Status
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *session.Store, logger *slog.Logger, wf *workflow.Manager, logPath string, logHub *logging.StreamHub, logArchive *logging.EventArchive, notifier notifications.Service) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil || wf == nil {
		return nil, errors.New("daemon requires config, store, logger, and workflow manager")
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "greenroomd.lock")
	d := &Daemon{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		workflow:   wf,
		notifier:   notifier,
		logPath:    logPath,
		logHub:     logHub,
		logArchive: logArchive,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}
	d.audioReady.Store(cfg.Speech.CaptureEnabled)

	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	d.monitor = newSoundMonitor(cfg, logger, d.setAudioReady)
	return d, nil
}

// Start launches the workflow manager and acquires the daemon lock.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another greenroom daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.workflow.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start workflow: %w", err)
	}

	if d.api != nil {
		if err := d.api.start(d.ctx); err != nil {
			d.logger.Warn("api server start failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "api_start_failed"),
				logging.String(logging.FieldErrorHint, "check api bind address availability"),
				logging.String(logging.FieldImpact, "HTTP API unavailable"),
			)
		}
	}
	if d.monitor != nil {
		if err := d.monitor.Start(d.ctx); err != nil {
			d.logger.Warn("sound monitor start failed", logging.Error(err))
		}
	}

	d.running.Store(true)
	d.logger.Info("greenroom daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.monitor != nil {
		d.monitor.Stop()
	}
	if d.api != nil {
		d.api.stop()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.workflow.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("greenroom daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

func (d *Daemon) setAudioReady(ready bool) {
	d.audioReady.Store(ready)
}

// ListSessions returns sessions filtered by optional statuses.
func (d *Daemon) ListSessions(ctx context.Context, statuses []session.Status) ([]*session.Session, error) {
	if d.store == nil {
		return nil, errors.New("session store unavailable")
	}
	return d.store.List(ctx, statuses...)
}

// GetSession fetches a single session by id.
func (d *Daemon) GetSession(ctx context.Context, id int64) (*session.Session, error) {
	if d.store == nil {
		return nil, errors.New("session store unavailable")
	}
	return d.store.GetByID(ctx, id)
}

// SessionAnswers returns the recorded answers for a session in ask order.
func (d *Daemon) SessionAnswers(ctx context.Context, id int64) ([]*session.AnswerRecord, error) {
	if d.store == nil {
		return nil, errors.New("session store unavailable")
	}
	return d.store.AnswersForSession(ctx, id)
}

// CreateSession validates the requested role and interview type and enqueues a
// new pending session for the workflow.
func (d *Daemon) CreateSession(ctx context.Context, role, interviewType string, questions int) (*session.Session, error) {
	if d.store == nil {
		return nil, errors.New("session store unavailable")
	}
	role = strings.TrimSpace(role)
	if role == "" {
		role = d.cfg.Interview.DefaultRole
	}
	if matched, ok := roles.Find(role); ok {
		role = matched.Name
	}
	interviewType = strings.TrimSpace(interviewType)
	if interviewType == "" {
		interviewType = d.cfg.Interview.DefaultType
	}
	parsedType, ok := roles.ParseInterviewType(interviewType)
	if !ok {
		return nil, fmt.Errorf("unsupported interview type %q", interviewType)
	}
	if questions <= 0 {
		questions = d.cfg.Interview.QuestionsPerSession
	}
	if questions > 50 {
		return nil, fmt.Errorf("question count %d exceeds the per-session limit", questions)
	}

	sess, err := d.store.NewSession(ctx, role, string(parsedType), questions)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	d.logger.Info("session created",
		logging.Int64(logging.FieldSessionID, sess.ID),
		logging.String("role", role),
		logging.String("interview_type", string(parsedType)),
		logging.Int("questions", questions),
	)
	return sess, nil
}

// SubmitAnswer queues a typed answer for the session's current question.
func (d *Daemon) SubmitAnswer(ctx context.Context, id int64, text string) error {
	if d.store == nil {
		return errors.New("session store unavailable")
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("answer text is required")
	}
	sess, err := d.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("session %d not found", id)
	}
	switch sess.Status {
	case session.StatusCompleted, session.StatusFailed, session.StatusReview:
		return fmt.Errorf("session %d is %s and no longer accepts answers", id, sess.Status)
	}
	return d.store.SubmitPendingAnswer(ctx, id, text)
}

// CancelSessions parks the given sessions in review so the workflow stops
// touching them. Completed and failed sessions are left alone.
func (d *Daemon) CancelSessions(ctx context.Context, ids []int64) (int64, error) {
	if d.store == nil {
		return 0, errors.New("session store unavailable")
	}
	var updated int64
	for _, id := range ids {
		sess, err := d.store.GetByID(ctx, id)
		if err != nil {
			return updated, err
		}
		if sess == nil {
			continue
		}
		switch sess.Status {
		case session.StatusCompleted, session.StatusFailed, session.StatusReview:
			continue
		}
		sess.Status = session.StatusReview
		sess.NeedsReview = true
		sess.ReviewReason = session.UserStopReason
		sess.ErrorMessage = session.UserStopReason
		sess.ProgressStage = "Stopped"
		sess.ProgressMessage = session.UserStopReason
		sess.LastHeartbeat = nil
		if err := d.store.Update(ctx, sess); err != nil {
			return updated, fmt.Errorf("stop session %d: %w", id, err)
		}
		if _, err := d.store.ClearPendingAnswers(ctx, id); err != nil {
			d.logger.Warn("failed to clear pending answers for stopped session",
				logging.Error(err),
				logging.Int64(logging.FieldSessionID, id),
			)
		}
		updated++
		d.logger.Info("session stopped by user",
			logging.Int64(logging.FieldSessionID, id),
			logging.String(logging.FieldEventType, "session_stopped"),
		)
	}
	return updated, nil
}

// ClearSessions removes all sessions.
func (d *Daemon) ClearSessions(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("session store unavailable")
	}
	return d.store.Clear(ctx)
}

// ClearCompleted removes only completed sessions.
func (d *Daemon) ClearCompleted(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("session store unavailable")
	}
	return d.store.ClearCompleted(ctx)
}

// ClearFailed removes only failed sessions.
func (d *Daemon) ClearFailed(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("session store unavailable")
	}
	return d.store.ClearFailed(ctx)
}

// ResetStuck transitions in-flight sessions back to their lane entry statuses.
func (d *Daemon) ResetStuck(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("session store unavailable")
	}
	return d.store.ResetStuckProcessing(ctx)
}

// RetryFailed resets failed sessions (optionally a subset) back to pending.
func (d *Daemon) RetryFailed(ctx context.Context, ids []int64) (int64, error) {
	if d.store == nil {
		return 0, errors.New("session store unavailable")
	}
	return d.store.RetryFailed(ctx, ids...)
}

// SessionHealth returns aggregate session diagnostics.
func (d *Daemon) SessionHealth(ctx context.Context) (session.HealthSummary, error) {
	if d.store == nil {
		return session.HealthSummary{}, errors.New("session store unavailable")
	}
	return d.store.Health(ctx)
}

// DatabaseHealth returns detailed database diagnostics.
func (d *Daemon) DatabaseHealth(ctx context.Context) (session.DatabaseHealth, error) {
	if d.store == nil {
		return session.DatabaseHealth{}, errors.New("session store unavailable")
	}
	return d.store.CheckHealth(ctx)
}

// Preflight runs the configured feature checks and returns their results.
func (d *Daemon) Preflight(ctx context.Context) []preflight.Result {
	return preflight.RunFeatureChecks(ctx, d.cfg)
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if d.cfg == nil {
		return false, "configuration unavailable", errors.New("configuration unavailable")
	}
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	if err := d.notifier.Test(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// LogStream returns the in-memory event hub serving live log queries.
func (d *Daemon) LogStream() *logging.StreamHub {
	return d.logHub
}

// LogArchive returns the on-disk event archive backing historical log queries.
func (d *Daemon) LogArchive() *logging.EventArchive {
	return d.logArchive
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	summary := d.workflow.Status(ctx)
	return Status{
		Running:           d.running.Load(),
		PID:               os.Getpid(),
		Workflow:          summary,
		SessionDBPath:     filepath.Join(d.cfg.Paths.DataDir, "sessions.db"),
		LockFilePath:      d.lockPath,
		AudioCaptureReady: d.cfg.Speech.CaptureEnabled && d.audioReady.Load(),
		Dependencies:      preflight.CheckSystemDeps(ctx, d.cfg),
	}
}
