package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"greenroom/internal/logging"
	"greenroom/internal/notifications"
	"greenroom/internal/services"
	"greenroom/internal/session"
)

func (m *Manager) handleStageFailure(ctx context.Context, stageName string, sess *session.Session, stageErr error) {
	base := m.logger
	if base == nil {
		base = logging.NewNop()
	}
	logger := m.stageLoggerForLane(ctx, nil, base, sess).With(logging.String("component", "workflow-manager"))

	message := m.classifyStageFailure(stageName, stageErr)
	resolved := services.FailureStatus(stageErr)
	m.setSessionFailureState(sess, resolved, message)

	details := services.Details(stageErr)
	attrs := []logging.Attr{
		logging.String("resolved_status", string(resolved)),
		logging.String("error_message", strings.TrimSpace(message)),
		logging.Alert("stage_failure"),
		logging.String("operation", details.Operation),
		logging.Error(stageErr),
		logging.String(logging.FieldEventType, "stage_failure"),
	}
	logger.Error("stage failed", logging.Args(attrs...)...)

	if err := m.store.Update(ctx, sess); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not update stage failure")
		} else {
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}

	m.setLastSession(sess)
	if resolved == session.StatusReview {
		m.notifySessionReview(ctx, sess, message)
	} else {
		m.notifyStageError(ctx, stageName, sess, stageErr)
	}
	m.checkQueueCompletion(ctx)
}

func (m *Manager) classifyStageFailure(stageName string, stageErr error) string {
	if stageErr == nil {
		return m.getStageFailureMessage(stageName, "failed without error detail")
	}

	details := services.Details(stageErr)
	message := strings.TrimSpace(details.Message)
	if message == "" {
		message = strings.TrimSpace(stageErr.Error())
	}
	if message == "" {
		message = m.getStageFailureMessage(stageName, "failed")
	}
	return message
}

func (m *Manager) getStageFailureMessage(stageName, defaultMsg string) string {
	if stageName != "" {
		return fmt.Sprintf("%s %s", stageName, defaultMsg)
	}
	return fmt.Sprintf("workflow %s", defaultMsg)
}

// setSessionFailureState parks the session in failed or review. Review keeps
// the reason visible so the CLI can explain what the user must fix before a
// retry.
func (m *Manager) setSessionFailureState(sess *session.Session, resolved session.Status, message string) {
	if resolved == session.StatusReview {
		sess.Status = session.StatusReview
		sess.NeedsReview = true
		sess.ReviewReason = message
		sess.ErrorMessage = message
		sess.ProgressStage = "Review"
		sess.ProgressMessage = message
		sess.ProgressPercent = 0
		sess.LastHeartbeat = nil
		return
	}
	sess.SetFailed(message)
}

func (m *Manager) notifySessionReview(ctx context.Context, sess *session.Session, reason string) {
	if m.notifier == nil {
		return
	}
	logger := logging.WithContext(ctx, m.logger.With(logging.String("component", "workflow-manager")))
	if err := m.notifier.Publish(ctx, notifications.EventSessionReview, notifications.Payload{
		"role":          sess.Role,
		"interviewType": sess.InterviewType,
		"reason":        reason,
	}); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not send review notification")
		} else {
			logger.Debug("session review notification failed", logging.Error(err))
		}
	}
}
