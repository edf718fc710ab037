package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"greenroom/internal/config"
	"greenroom/internal/logging"
	"greenroom/internal/notifications"
	"greenroom/internal/report"
	"greenroom/internal/services"
	"greenroom/internal/session"
	"greenroom/internal/stage"
)

// Reporter aggregates a finished interview into the exported feedback report.
type Reporter struct {
	cfg      *config.Config
	store    *session.Store
	notifier notifications.Service
	logger   *slog.Logger
}

// NewReporter constructs the reporting handler.
func NewReporter(cfg *config.Config, store *session.Store, logger *slog.Logger, notifier notifications.Service) *Reporter {
	if logger != nil {
		logger = logger.With(logging.String("component", "reporter"))
	}
	return &Reporter{cfg: cfg, store: store, notifier: notifier, logger: logger}
}

// SetLogger installs the stage-scoped logger.
func (r *Reporter) SetLogger(logger *slog.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

func (r *Reporter) Prepare(ctx context.Context, sess *session.Session) error {
	sess.InitProgress("Reporting", "Generating feedback")
	return nil
}

func (r *Reporter) Execute(ctx context.Context, sess *session.Session) error {
	logger := logging.WithContext(ctx, r.logger)

	stored, err := r.store.AnswersForSession(ctx, sess.ID)
	if err != nil {
		return services.Wrap(services.ErrTransient, "reporting", "load answers", "Failed to load recorded answers", err)
	}
	records := make([]session.AnswerRecord, 0, len(stored))
	for _, rec := range stored {
		records = append(records, *rec)
	}

	model := report.Build(sess, records, time.Now().UTC())

	path, err := report.Export(r.cfg.Paths.ReportsDir, model)
	if err != nil {
		return services.Wrap(services.ErrTransient, "reporting", "export report", "Failed to write report file", err)
	}

	compact, err := json.Marshal(model)
	if err != nil {
		return services.Wrap(services.ErrTransient, "reporting", "encode report", "Failed to serialize report", err)
	}

	sess.ReportJSON = string(compact)
	sess.ReportPath = path
	sess.SetProgressComplete("Reporting", "Report ready")

	logger.Info("report exported",
		logging.String("report_path", path),
		logging.Int("answers", model.TotalAnswers),
		logging.Float64("overall_score", model.OverallScore),
		logging.String("performance_level", model.PerformanceLevel))

	if r.notifier != nil {
		if err := r.notifier.Publish(ctx, notifications.EventReportReady, notifications.Payload{
			"role":          sess.Role,
			"interviewType": sess.InterviewType,
			"score":         fmt.Sprintf("%.1f", model.OverallScore),
			"reportPath":    path,
		}); err != nil {
			logger.Debug("report ready notification failed", logging.Error(err))
		}
	}
	return nil
}

func (r *Reporter) HealthCheck(ctx context.Context) stage.Health {
	if err := os.MkdirAll(r.cfg.Paths.ReportsDir, 0o755); err != nil {
		return stage.Unhealthy("reporter", fmt.Sprintf("reports directory unavailable: %v", err))
	}
	return stage.Healthy("reporter")
}
