package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"greenroom/internal/logging"
	"greenroom/internal/session"
	"greenroom/internal/stage"
)

func (m *Manager) processSession(ctx context.Context, lane *laneState, laneLogger *slog.Logger, sess *session.Session) error {
	stg, ok := lane.stageForStatus(sess.Status)
	if !ok {
		if laneLogger == nil {
			laneLogger = m.logger
		}
		if laneLogger == nil {
			laneLogger = logging.NewNop()
		}
		laneLogger.Warn("no stage configured for status", logging.String("status", string(sess.Status)))
		m.waitForSessionOrShutdown(ctx)
		return nil
	}

	requestID := uuid.NewString()
	stageCtx := withStageContext(ctx, lane, stg.name, sess, requestID)
	stageLogger := m.stageLoggerForLane(stageCtx, lane, laneLogger, sess)
	if aware, ok := stg.handler.(stage.LoggerAware); ok {
		aware.SetLogger(stageLogger)
	}

	if err := m.transitionToProcessing(stageCtx, lane, stg.processingStatus, stg.name, sess); err != nil {
		stageLogger.Error("failed to transition session to processing", logging.Error(err))
		m.setLastError(err)
		return err
	}

	return m.executeStage(stageCtx, lane, stageLogger, stg, sess)
}

func (m *Manager) executeStage(ctx context.Context, lane *laneState, stageLogger *slog.Logger, stg pipelineStage, sess *session.Session) error {
	stageStart := time.Now()
	stageLogger.Info(
		"stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("processing_status", string(stg.processingStatus)),
		logging.String("role", strings.TrimSpace(sess.Role)),
		logging.String("interview_type", strings.TrimSpace(sess.InterviewType)),
	)
	if lane != nil && lane.kind == laneBackground && lane.logger != nil {
		logging.WithContext(ctx, lane.logger).Debug(
			"background stage started",
			logging.String(logging.FieldStage, stg.name),
			logging.Int64(logging.FieldSessionID, sess.ID),
			logging.String("log_file", strings.TrimSpace(sess.SessionLogPath)),
		)
	}

	handler := stg.handler
	if handler == nil {
		stageLogger.Warn("missing stage handler", logging.String("stage", stg.name))
		sess.Status = session.StatusFailed
		sess.ErrorMessage = fmt.Sprintf("stage %s missing handler", stg.name)
		if err := m.store.Update(ctx, sess); err != nil {
			stageLogger.Error("failed to persist missing handler failure", logging.Error(err))
		}
		m.setLastError(errors.New("stage handler unavailable"))
		return errors.New("stage handler unavailable")
	}

	if err := handler.Prepare(ctx, sess); err != nil {
		m.handleStageFailure(ctx, stg.name, sess, err)
		m.setLastError(err)
		return err
	}
	if err := m.store.Update(ctx, sess); err != nil {
		wrapped := fmt.Errorf("persist stage preparation: %w", err)
		stageLogger.Error("failed to persist stage preparation", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}

	execErr := m.executeWithHeartbeat(ctx, handler, sess)
	if execErr != nil {
		if errors.Is(execErr, context.Canceled) {
			stageLogger.Debug("stage interrupted by shutdown")
			return execErr
		}
		m.handleStageFailure(ctx, stg.name, sess, execErr)
		m.setLastError(execErr)
		return execErr
	}

	if sess.Status == stg.processingStatus || sess.Status == "" {
		sess.Status = stg.doneStatus
	}
	sess.LastHeartbeat = nil
	if sess.Status == session.StatusCompleted {
		currentLabel := strings.TrimSpace(sess.ProgressStage)
		if !sess.NeedsReview && !strings.Contains(strings.ToLower(currentLabel), "review") {
			sess.ProgressStage = deriveStageLabel(session.StatusCompleted)
		}
		if sess.ProgressPercent < 100 {
			sess.ProgressPercent = 100
		}
		if strings.TrimSpace(sess.ProgressMessage) == "" {
			sess.ProgressMessage = deriveStageLabel(session.StatusCompleted)
		}
	}
	if err := m.store.Update(ctx, sess); err != nil {
		wrapped := fmt.Errorf("persist stage result: %w", err)
		stageLogger.Error("failed to persist stage result", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}
	stageLogger.Info(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(sess.Status)),
		logging.String("progress_stage", strings.TrimSpace(sess.ProgressStage)),
		logging.String("progress_message", strings.TrimSpace(sess.ProgressMessage)),
		logging.Duration("stage_duration", time.Since(stageStart)),
	)
	if lane != nil && lane.kind == laneBackground && lane.logger != nil {
		logging.WithContext(ctx, lane.logger).Debug(
			"background stage completed",
			logging.String(logging.FieldStage, stg.name),
			logging.Int64(logging.FieldSessionID, sess.ID),
			logging.Duration("stage_duration", time.Since(stageStart)),
		)
	}
	m.setLastSession(sess)
	m.checkQueueCompletion(ctx)
	return nil
}

func (m *Manager) executeWithHeartbeat(ctx context.Context, handler stage.Handler, sess *session.Session) error {
	hbCtx, hbCancel := context.WithCancel(ctx)
	var hbWG sync.WaitGroup
	hbWG.Add(1)
	go m.heartbeat.StartLoop(hbCtx, &hbWG, sess.ID)

	execErr := handler.Execute(ctx, sess)
	hbCancel()
	hbWG.Wait()
	return execErr
}

func (m *Manager) transitionToProcessing(ctx context.Context, lane *laneState, processing session.Status, stageName string, sess *session.Session) error {
	if processing == "" {
		return errors.New("processing status must not be empty")
	}

	m.setSessionProcessingState(sess, processing)
	if err := m.store.Update(ctx, sess); err != nil {
		return fmt.Errorf("persist processing transition: %w", err)
	}
	m.setLastSession(sess)
	if lane == nil || lane.notificationsEnabled {
		m.onSessionStarted(ctx)
	}
	return nil
}

func (m *Manager) setSessionProcessingState(sess *session.Session, processing session.Status) {
	now := time.Now().UTC()
	sess.Status = processing
	if sess.ProgressStage == "" {
		sess.ProgressStage = deriveStageLabel(processing)
	}
	if sess.ProgressMessage == "" {
		sess.ProgressMessage = fmt.Sprintf("%s started", deriveStageLabel(processing))
	}
	sess.ProgressPercent = 0
	sess.ErrorMessage = ""
	sess.LastHeartbeat = &now
}
