package stageexec

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"greenroom/internal/logging"
	"greenroom/internal/notifications"
	"greenroom/internal/services"
	"greenroom/internal/session"
	"greenroom/internal/stage"
)

// Handler is the stage contract used by the execution helper.
type Handler interface {
	Prepare(context.Context, *session.Session) error
	Execute(context.Context, *session.Session) error
}

// Options controls stage execution and session persistence behavior.
type Options struct {
	Logger     *slog.Logger
	Store      *session.Store
	Notifier   notifications.Service
	Handler    Handler
	StageName  string
	Processing session.Status
	Done       session.Status
	Session    *session.Session
}

// Run executes a stage and applies session transition semantics used by one-shot workflows.
func Run(ctx context.Context, opts Options) error {
	if opts.Handler == nil {
		return fmt.Errorf("stage handler unavailable: %s", opts.StageName)
	}
	if opts.Store == nil {
		return fmt.Errorf("session store is required")
	}
	if opts.Session == nil {
		return fmt.Errorf("session is required")
	}

	stageCtx := services.WithStage(ctx, opts.StageName)
	stageLogger := logging.WithContext(stageCtx, opts.Logger)
	if aware, ok := opts.Handler.(stage.LoggerAware); ok {
		aware.SetLogger(stageLogger)
	}

	stageLogger.Info(
		"stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("processing_status", string(opts.Processing)),
		logging.String("role", strings.TrimSpace(opts.Session.Role)),
		logging.String("interview_type", strings.TrimSpace(opts.Session.InterviewType)),
	)

	setSessionProcessingState(opts.Session, opts.Processing)
	if err := opts.Store.Update(stageCtx, opts.Session); err != nil {
		return fmt.Errorf("persist processing transition: %w", err)
	}

	if err := opts.Handler.Prepare(stageCtx, opts.Session); err != nil {
		return handleFailure(stageCtx, stageLogger, opts.Store, opts.Notifier, opts.StageName, opts.Session, err)
	}
	if err := opts.Store.Update(stageCtx, opts.Session); err != nil {
		return fmt.Errorf("persist stage preparation: %w", err)
	}

	if err := opts.Handler.Execute(stageCtx, opts.Session); err != nil {
		return handleFailure(stageCtx, stageLogger, opts.Store, opts.Notifier, opts.StageName, opts.Session, err)
	}

	if opts.Session.Status == opts.Processing || opts.Session.Status == "" {
		opts.Session.Status = opts.Done
	}
	opts.Session.LastHeartbeat = nil
	if err := opts.Store.Update(stageCtx, opts.Session); err != nil {
		return fmt.Errorf("persist stage result: %w", err)
	}

	stageLogger.Info(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(opts.Session.Status)),
		logging.String("progress_stage", strings.TrimSpace(opts.Session.ProgressStage)),
		logging.String("progress_message", strings.TrimSpace(opts.Session.ProgressMessage)),
	)

	return nil
}

func handleFailure(ctx context.Context, logger *slog.Logger, store *session.Store, notifier notifications.Service, stageName string, sess *session.Session, stageErr error) error {
	message := "stage failed"
	if stageErr != nil {
		details := services.Details(stageErr)
		message = strings.TrimSpace(details.Message)
		if message == "" {
			message = strings.TrimSpace(stageErr.Error())
		}
	}
	resolved := services.FailureStatus(stageErr)
	if resolved == session.StatusReview {
		sess.Status = session.StatusReview
		sess.NeedsReview = true
		sess.ReviewReason = message
		sess.ErrorMessage = message
		sess.ProgressStage = "Review"
		sess.LastHeartbeat = nil
	} else {
		sess.SetFailed(message)
	}

	logger.Error(
		"stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String("resolved_status", string(resolved)),
		logging.String("error_message", strings.TrimSpace(message)),
		logging.Error(stageErr),
	)
	if err := store.Update(ctx, sess); err != nil {
		logger.Error("failed to persist stage failure", logging.Error(err))
	}

	if notifier != nil && stageErr != nil {
		contextLabel := fmt.Sprintf("%s (session #%d)", stageName, sess.ID)
		if err := notifier.Publish(ctx, notifications.EventError, notifications.Payload{
			"error":   stageErr,
			"context": contextLabel,
		}); err != nil {
			logger.Debug("stage error notification failed", logging.Error(err))
		}
	}

	return stageErr
}

func setSessionProcessingState(sess *session.Session, processing session.Status) {
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

func deriveStageLabel(status session.Status) string {
	if status == "" {
		return ""
	}
	parts := strings.Fields(strings.ReplaceAll(string(status), "_", " "))
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(strings.ToLower(part))
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
