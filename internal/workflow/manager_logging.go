package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"greenroom/internal/logging"
	"greenroom/internal/services"
	"greenroom/internal/session"
)

func (m *Manager) laneLogger(lane *laneState) *slog.Logger {
	if m.logger == nil {
		return logging.NewNop()
	}
	name := lane.name
	if name == "" {
		name = string(lane.kind)
	}
	return m.logger.With(
		logging.String("component", fmt.Sprintf("workflow-%s-runner", name)),
		logging.String("lane", name),
	)
}

func (m *Manager) stageLoggerForLane(ctx context.Context, lane *laneState, laneLogger *slog.Logger, sess *session.Session) *slog.Logger {
	base := laneLogger
	if base == nil {
		base = m.logger
	}
	if base == nil {
		base = logging.NewNop()
	}

	if sess != nil {
		path, _, err := m.sessionLogs.Ensure(sess)
		if err != nil {
			base.Warn("session log unavailable", logging.Error(err))
		} else {
			handler, logErr := m.sessionLogs.CreateHandler(path, sess.Token)
			if logErr != nil {
				base.Warn("failed to create session log writer", logging.Error(logErr))
			} else {
				// Session processing logs only to the session log, not the
				// daemon log. session_id is baked in so every record is tagged.
				base = slog.New(handler).With(logging.Int64(logging.FieldSessionID, sess.ID))
			}
		}
	}

	logger := logging.WithContext(ctx, base)
	if m != nil && m.cfg != nil {
		if stageName, ok := services.StageFromContext(ctx); ok {
			if override := stageOverrideLevel(m.cfg.Logging.StageOverrides, stageName); override != "" {
				logger = logging.WithLevelOverride(logger, parseStageLevel(override))
			}
		}
	}
	return logger
}

func stageOverrideLevel(overrides map[string]string, stageName string) string {
	if len(overrides) == 0 {
		return ""
	}
	stageName = strings.ToLower(strings.TrimSpace(stageName))
	if stageName == "" {
		return ""
	}
	for key, value := range overrides {
		if strings.ToLower(strings.TrimSpace(key)) == stageName {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func parseStageLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func withStageContext(ctx context.Context, lane *laneState, stageName string, sess *session.Session, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if sess != nil {
		ctx = services.WithSessionID(ctx, sess.ID)
	}
	if stageName != "" {
		ctx = services.WithStage(ctx, stageName)
	}
	if lane != nil {
		laneLabel := strings.TrimSpace(lane.name)
		if laneLabel == "" {
			laneLabel = string(lane.kind)
		}
		ctx = services.WithLane(ctx, laneLabel)
	}
	if requestID != "" {
		ctx = services.WithRequestID(ctx, requestID)
	}
	return ctx
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
