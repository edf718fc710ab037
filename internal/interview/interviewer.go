package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"greenroom/internal/config"
	"greenroom/internal/logging"
	"greenroom/internal/notifications"
	"greenroom/internal/oracle"
	"greenroom/internal/persona"
	"greenroom/internal/roles"
	"greenroom/internal/services"
	"greenroom/internal/session"
	"greenroom/internal/speech"
	"greenroom/internal/stage"
	"greenroom/internal/transcript"
)

// Answer source values stored on answer records.
const (
	sourceVoice = "voice"
	sourceText  = "text"
)

const defaultAnswerPollInterval = time.Second

// Interviewer runs the question/answer loop for a prepared session.
type Interviewer struct {
	cfg      *config.Config
	store    *session.Store
	oracle   *oracle.Oracle
	speech   *speech.Service
	notifier notifications.Service
	logger   *slog.Logger

	// answerPoll is the typed-answer polling cadence, shortened in tests.
	answerPoll time.Duration
}

// NewInterviewer constructs the interviewing handler.
func NewInterviewer(cfg *config.Config, store *session.Store, client *oracle.Oracle, speechSvc *speech.Service, logger *slog.Logger, notifier notifications.Service) *Interviewer {
	if logger != nil {
		logger = logger.With(logging.String("component", "interviewer"))
	}
	return &Interviewer{
		cfg:        cfg,
		store:      store,
		oracle:     client,
		speech:     speechSvc,
		notifier:   notifier,
		logger:     logger,
		answerPoll: defaultAnswerPollInterval,
	}
}

// SetLogger installs the stage-scoped logger.
func (i *Interviewer) SetLogger(logger *slog.Logger) {
	if logger != nil {
		i.logger = logger
	}
}

func (i *Interviewer) Prepare(ctx context.Context, sess *session.Session) error {
	plan, err := ParsePlan(sess.PlanData)
	if err != nil {
		return err
	}
	if len(plan.Questions) == 0 {
		return services.Wrap(
			services.ErrValidation, "interviewing", "load plan",
			"Session has no question plan; rerun preparation", nil)
	}
	sess.InitProgress("Interviewing", "Starting interview")
	return nil
}

// Execute asks each remaining planned question, records the answer, and
// appends one scored record per answer. Answer records already present are
// treated as completed work so an interrupted session resumes where it
// stopped.
func (i *Interviewer) Execute(ctx context.Context, sess *session.Session) error {
	logger := logging.WithContext(ctx, i.logger)
	started := time.Now()

	plan, err := ParsePlan(sess.PlanData)
	if err != nil {
		return err
	}
	interviewType := roles.InterviewType(plan.InterviewType)

	existing, err := i.store.AnswersForSession(ctx, sess.ID)
	if err != nil {
		return services.Wrap(services.ErrTransient, "interviewing", "load answers", "Failed to load recorded answers", err)
	}
	mainAsked := 0
	answerCount := len(existing)
	asked := make([]string, 0, sess.QuestionsTotal)
	for _, rec := range existing {
		if !rec.IsFollowup {
			mainAsked++
			asked = append(asked, rec.Question)
		}
	}

	if answerCount == 0 && i.notifier != nil {
		if err := i.notifier.Publish(ctx, notifications.EventInterviewStarted, notifications.Payload{
			"role":          sess.Role,
			"interviewType": plan.InterviewType,
		}); err != nil {
			logger.Debug("interview start notification failed", logging.Error(err))
		}
	}

	workDir := filepath.Join(i.cfg.Paths.WorkDir, sess.Token)
	total := sess.QuestionsTotal
	if total <= 0 {
		total = len(plan.Questions)
	}

	for mainIdx := mainAsked; mainIdx < total; mainIdx++ {
		question := i.nextQuestion(ctx, logger, plan, interviewType, mainIdx, asked)
		asked = append(asked, question)

		answerCount++
		rec, eval, err := i.askOne(ctx, logger, sess, workDir, question, answerCount, false)
		if err != nil {
			return err
		}

		if i.shouldFollowUp(rec, eval) {
			answerCount++
			if _, _, err := i.askOne(ctx, logger, sess, workDir, eval.FollowUp, answerCount, true); err != nil {
				return err
			}
		}

		sess.QuestionsAsked = mainIdx + 1
		sess.SetProgress("Interviewing",
			fmt.Sprintf("Question %d of %d answered", mainIdx+1, total),
			float64(mainIdx+1)/float64(total)*100)
		if err := i.store.UpdateProgress(ctx, sess); err != nil {
			logger.Warn("failed to persist interview progress", logging.Error(err))
		}
	}

	sess.SetProgressComplete("Interviewing", "Interview complete")

	if i.notifier != nil {
		if err := i.notifier.Publish(ctx, notifications.EventInterviewCompleted, notifications.Payload{
			"role":            sess.Role,
			"interviewType":   plan.InterviewType,
			"answers":         answerCount,
			"durationSeconds": int(time.Since(started).Seconds()),
		}); err != nil {
			logger.Debug("interview complete notification failed", logging.Error(err))
		}
	}
	return nil
}

func (i *Interviewer) HealthCheck(ctx context.Context) stage.Health {
	if i.speech.CaptureEnabled() && i.speech.TranscriberName() == "" {
		return stage.Unhealthy("interviewer", "speech capture enabled but no transcriber configured")
	}
	return stage.Healthy("interviewer")
}

// nextQuestion picks the next main question: the planned opener first, then
// history-aware oracle generations, with the plan and the bank as fallbacks.
func (i *Interviewer) nextQuestion(ctx context.Context, logger *slog.Logger, plan Plan, interviewType roles.InterviewType, mainIdx int, asked []string) string {
	if mainIdx > 0 && i.oracle.Available() {
		question, err := i.oracle.GenerateQuestion(ctx, plan.Role, plan.InterviewType, asked)
		if err == nil {
			return question
		}
		if ctx.Err() == nil {
			logger.Warn("oracle question unavailable, using question bank", logging.Error(err))
		}
	}
	if mainIdx < len(plan.Questions) {
		return plan.Questions[mainIdx]
	}
	return roles.PickQuestion(plan.Role, interviewType, asked)
}

// shouldFollowUp applies the one-follow-up rule: only main answers get one,
// and only when the evaluation suggested a question and the answer was not an
// edge case.
func (i *Interviewer) shouldFollowUp(rec session.AnswerRecord, eval oracle.Evaluation) bool {
	if !i.cfg.Interview.FollowUpsEnabled {
		return false
	}
	if rec.IsFollowup || eval.FollowUp == "" {
		return false
	}
	return rec.Persona != string(persona.LabelEdgeCase)
}

// askOne runs one question through the full pipeline: speak, capture or
// collect a typed answer, transcribe, evaluate, classify, and append the
// record. Capture and transcription failures become marker transcripts and
// still produce a record; only context cancellation and store failures
// surface as errors.
func (i *Interviewer) askOne(ctx context.Context, logger *slog.Logger, sess *session.Session, workDir, question string, position int, isFollowup bool) (session.AnswerRecord, oracle.Evaluation, error) {
	logger.Info("asking question",
		logging.Int("position", position),
		logging.Bool("followup", isFollowup),
		logging.String("question", question))

	i.speech.SpeakQuestion(ctx, question)

	started := time.Now()
	raw, audioPath, source, err := i.collectAnswer(ctx, sess, workDir, position)
	if err != nil {
		return session.AnswerRecord{}, oracle.Evaluation{}, err
	}
	duration := time.Since(started).Seconds()

	norm := transcript.Normalize(raw)
	dontKnow := !norm.Failed && persona.ContainsDontKnowPhrase(raw)

	eval, err := i.oracle.EvaluateAnswer(ctx, oracle.EvaluationRequest{
		Question:      question,
		Transcript:    raw,
		Role:          sess.Role,
		InterviewType: sess.InterviewType,
		FollowUp:      isFollowup,
		DontKnow:      dontKnow,
		Failed:        norm.Failed,
	})
	if err != nil {
		if ctx.Err() != nil {
			return session.AnswerRecord{}, oracle.Evaluation{}, ctx.Err()
		}
		return session.AnswerRecord{}, oracle.Evaluation{}, services.Wrap(
			services.ErrEvaluation, "interviewing", "evaluate answer",
			"Answer evaluation failed", err)
	}

	decision := persona.Decide(raw, float64(eval.Score), isFollowup)

	evalJSON, err := json.Marshal(eval)
	if err != nil {
		return session.AnswerRecord{}, oracle.Evaluation{}, services.Wrap(
			services.ErrTransient, "interviewing", "encode evaluation",
			"Failed to serialize evaluation", err)
	}

	rec := session.AnswerRecord{
		SessionID:          sess.ID,
		QuestionIndex:      position,
		Question:           question,
		Transcript:         raw,
		TranscriptMarker:   norm.Marker,
		IsFollowup:         isFollowup,
		Score:              float64(eval.Score),
		CommunicationScore: float64(eval.CommunicationScore),
		Persona:            string(decision.Label),
		PersonaRule:        decision.Rule,
		PersonaConfidence:  decision.Confidence,
		EvaluationJSON:     string(evalJSON),
		Source:             source,
		AudioPath:          audioPath,
		DurationSeconds:    duration,
	}
	if err := i.store.AppendAnswer(ctx, &rec); err != nil {
		return session.AnswerRecord{}, oracle.Evaluation{}, services.Wrap(
			services.ErrTransient, "interviewing", "append answer",
			"Failed to persist answer record", err)
	}

	attrs := append(logging.DecisionAttrs("persona_classification", rec.Persona, rec.PersonaRule),
		logging.Int("position", position),
		logging.Float64("score", rec.Score),
		logging.Float64("communication_score", rec.CommunicationScore),
		logging.Float64("persona_confidence", rec.PersonaConfidence),
		logging.Bool("fallback_eval", eval.FallbackUsed),
		logging.String("source", source))
	logger.Info("answer recorded", logging.Args(attrs...)...)

	return rec, eval, nil
}

// collectAnswer obtains one answer: microphone capture when enabled, a typed
// answer over IPC otherwise. No answer inside the timeout reads as silence.
func (i *Interviewer) collectAnswer(ctx context.Context, sess *session.Session, workDir string, position int) (text, audioPath, source string, err error) {
	if i.speech.CaptureEnabled() {
		capture, err := i.speech.CaptureAnswer(ctx, workDir, position)
		if err != nil {
			return "", "", "", err
		}
		return capture.Transcript, capture.AudioPath, sourceVoice, nil
	}

	answer, ok, err := i.awaitTypedAnswer(ctx, sess.ID)
	if err != nil {
		return "", "", "", err
	}
	if !ok {
		return transcript.MarkerNoSpeech, "", sourceText, nil
	}
	return answer, "", sourceText, nil
}

func (i *Interviewer) awaitTypedAnswer(ctx context.Context, sessionID int64) (string, bool, error) {
	timeout := time.Duration(i.cfg.Interview.AnswerTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	poll := i.answerPoll
	if poll <= 0 {
		poll = defaultAnswerPollInterval
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	waitStart := time.Now()
	sampler := logging.NewProgressSampler(25)

	for {
		answer, ok, err := i.store.TakePendingAnswer(ctx, sessionID)
		if err != nil {
			return "", false, services.Wrap(services.ErrTransient, "interviewing", "poll typed answer", "Failed to read pending answers", err)
		}
		if ok {
			return answer, true, nil
		}
		select {
		case <-ctx.Done():
			return "", false, ctx.Err()
		case <-deadline.C:
			return "", false, nil
		case <-ticker.C:
			elapsed := time.Since(waitStart)
			if sampler.ShouldLog(elapsed.Seconds()/timeout.Seconds()*100, "Waiting for answer", "") && i.logger != nil {
				i.logger.Info("waiting for typed answer",
					logging.Int64(logging.FieldSessionID, sessionID),
					logging.Duration("waited", elapsed.Round(time.Second)),
					logging.Duration("remaining", (timeout-elapsed).Round(time.Second)),
				)
			}
		}
	}
}
