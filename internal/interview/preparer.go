package interview

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"greenroom/internal/config"
	"greenroom/internal/logging"
	"greenroom/internal/notifications"
	"greenroom/internal/oracle"
	"greenroom/internal/roles"
	"greenroom/internal/services"
	"greenroom/internal/session"
	"greenroom/internal/stage"
)

// Preparer validates a pending session and plans its question list.
type Preparer struct {
	cfg      *config.Config
	store    *session.Store
	oracle   *oracle.Oracle
	notifier notifications.Service
	logger   *slog.Logger
}

// NewPreparer constructs the preparation handler.
func NewPreparer(cfg *config.Config, store *session.Store, client *oracle.Oracle, logger *slog.Logger, notifier notifications.Service) *Preparer {
	if logger != nil {
		logger = logger.With(logging.String("component", "preparer"))
	}
	return &Preparer{cfg: cfg, store: store, oracle: client, notifier: notifier, logger: logger}
}

// SetLogger installs the stage-scoped logger.
func (p *Preparer) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

func (p *Preparer) Prepare(ctx context.Context, sess *session.Session) error {
	sess.InitProgress("Preparing", "Planning questions")
	return nil
}

func (p *Preparer) Execute(ctx context.Context, sess *session.Session) error {
	logger := logging.WithContext(ctx, p.logger)

	role := strings.Join(strings.Fields(sess.Role), " ")
	if role == "" {
		role = strings.TrimSpace(p.cfg.Interview.DefaultRole)
	}
	if role == "" {
		return services.Wrap(
			services.ErrValidation, "preparing", "validate role",
			"Session has no role; create it with --role or set interview.default_role", nil)
	}
	role = roles.CanonicalName(role)

	interviewType, known := roles.ParseInterviewType(sess.InterviewType)
	if !known && strings.TrimSpace(sess.InterviewType) != "" {
		logger.Warn("unrecognized interview type, defaulting",
			logging.String("requested", sess.InterviewType),
			logging.String("resolved", string(interviewType)))
	}

	total := sess.QuestionsTotal
	if total <= 0 {
		total = p.cfg.Interview.QuestionsPerSession
	}
	if total <= 0 {
		return services.Wrap(
			services.ErrValidation, "preparing", "validate question count",
			"Question count must be positive; set interview.questions_per_session", nil)
	}

	plan := Plan{
		Role:          role,
		InterviewType: string(interviewType),
		Questions:     planQuestions(role, interviewType, total),
		Source:        PlanSourceBank,
		CreatedAt:     time.Now().UTC(),
	}

	sourceReason := "oracle_offline"
	if p.oracle.Available() {
		opener, err := p.oracle.GenerateQuestion(ctx, role, string(interviewType), nil)
		switch {
		case err == nil:
			plan.Questions[0] = opener
			plan.Source = PlanSourceOracle
			sourceReason = "oracle_opener"
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			sourceReason = "oracle_error"
			logger.Warn("oracle opener unavailable, using question bank", logging.Error(err))
		}
	}

	encoded, err := plan.Encode()
	if err != nil {
		return services.Wrap(services.ErrTransient, "preparing", "store plan", "Failed to serialize question plan", err)
	}

	sess.Role = role
	sess.InterviewType = string(interviewType)
	sess.QuestionsTotal = total
	sess.PlanData = encoded
	sess.SetProgressComplete("Preparing", fmt.Sprintf("%d questions planned", total))

	attrs := append(logging.DecisionAttrsWithOptions("plan_source", plan.Source, sourceReason, "oracle,bank"),
		logging.String("role", role),
		logging.String("interview_type", string(interviewType)),
		logging.Int("questions", total))
	logger.Info("session prepared", logging.Args(attrs...)...)

	if p.notifier != nil {
		if err := p.notifier.Publish(ctx, notifications.EventSessionReady, notifications.Payload{
			"role":          role,
			"interviewType": string(interviewType),
			"questions":     total,
		}); err != nil {
			logger.Debug("session ready notification failed", logging.Error(err))
		}
	}
	return nil
}

func (p *Preparer) HealthCheck(ctx context.Context) stage.Health {
	// The question bank backs every plan, so the preparer stays ready even
	// with the oracle offline.
	return stage.Healthy("preparer")
}

// planQuestions fills the plan from the fallback bank, cycling when the bank
// is shorter than the requested count.
func planQuestions(role string, interviewType roles.InterviewType, total int) []string {
	questions := make([]string, 0, total)
	for len(questions) < total {
		questions = append(questions, roles.PickQuestion(role, interviewType, questions))
	}
	return questions
}
