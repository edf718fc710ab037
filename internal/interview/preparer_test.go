package interview

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"greenroom/internal/logging"
	"greenroom/internal/oracle"
	"greenroom/internal/services"
	"greenroom/internal/session"
	"greenroom/internal/testsupport"
)

type fakeOracleCompleter struct {
	text string
	err  error
}

func (f *fakeOracleCompleter) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeOracleCompleter) CompleteText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.text, f.err
}

func (f *fakeOracleCompleter) HealthCheck(ctx context.Context) error {
	return nil
}

func offlineOracle(t *testing.T) *oracle.Oracle {
	t.Helper()
	orc, err := oracle.New(oracle.Settings{})
	if err != nil {
		t.Fatalf("oracle.New: %v", err)
	}
	return orc
}

func TestPreparerPlansFromBank(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	sess := testsupport.NewSession(t, store, "software engineer", "technical", 3)

	prep := NewPreparer(cfg, store, offlineOracle(t), logging.NewNop(), nil)
	ctx := context.Background()

	if err := prep.Prepare(ctx, sess); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := prep.Execute(ctx, sess); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if sess.Role != "Software Engineer" {
		t.Fatalf("expected canonical role, got %q", sess.Role)
	}
	if sess.InterviewType != "technical" {
		t.Fatalf("expected technical interview, got %q", sess.InterviewType)
	}
	if sess.QuestionsTotal != 3 {
		t.Fatalf("expected 3 questions total, got %d", sess.QuestionsTotal)
	}
	if sess.ProgressPercent != 100 {
		t.Fatalf("expected complete progress, got %.1f", sess.ProgressPercent)
	}

	plan, err := ParsePlan(sess.PlanData)
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	if plan.Source != PlanSourceBank {
		t.Fatalf("expected bank plan, got %q", plan.Source)
	}
	if len(plan.Questions) != 3 {
		t.Fatalf("expected 3 planned questions, got %d", len(plan.Questions))
	}
	for idx, question := range plan.Questions {
		if question == "" {
			t.Fatalf("question %d is empty", idx)
		}
	}
}

func TestPreparerUsesDefaultRoleAndCount(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Interview.DefaultRole = "data engineer"
	cfg.Interview.QuestionsPerSession = 2
	store := testsupport.MustOpenStore(t, cfg)
	sess := testsupport.NewSession(t, store, "", "behavioral", 0)

	prep := NewPreparer(cfg, store, offlineOracle(t), logging.NewNop(), nil)
	if err := prep.Execute(context.Background(), sess); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if sess.Role != "Data Engineer" {
		t.Fatalf("expected default role, got %q", sess.Role)
	}
	if sess.QuestionsTotal != 2 {
		t.Fatalf("expected default question count, got %d", sess.QuestionsTotal)
	}
}

func TestPreparerRejectsMissingRole(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Interview.DefaultRole = ""
	store := testsupport.MustOpenStore(t, cfg)
	sess := testsupport.NewSession(t, store, "", "technical", 2)

	prep := NewPreparer(cfg, store, offlineOracle(t), logging.NewNop(), nil)
	err := prep.Execute(context.Background(), sess)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if services.FailureStatus(err) != session.StatusReview {
		t.Fatalf("expected review status, got %q", services.FailureStatus(err))
	}
}

func TestPreparerOracleOpener(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	sess := testsupport.NewSession(t, store, "Software Engineer", "technical", 2)

	orc := oracle.NewWithCompleter(&fakeOracleCompleter{text: "How do you profile a slow service?"})
	prep := NewPreparer(cfg, store, orc, logging.NewNop(), nil)
	if err := prep.Execute(context.Background(), sess); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	plan, err := ParsePlan(sess.PlanData)
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	if plan.Source != PlanSourceOracle {
		t.Fatalf("expected oracle plan source, got %q", plan.Source)
	}
	if plan.Questions[0] != "How do you profile a slow service?" {
		t.Fatalf("expected oracle opener, got %q", plan.Questions[0])
	}
}

func TestPreparerLogsPlanSourceDecision(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	sess := testsupport.NewSession(t, store, "Software Engineer", "technical", 2)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	orc := oracle.NewWithCompleter(&fakeOracleCompleter{text: "How do you profile a slow service?"})
	prep := NewPreparer(cfg, store, orc, logger, nil)
	if err := prep.Execute(context.Background(), sess); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		`"decision_type":"plan_source"`,
		`"decision_result":"oracle"`,
		`"decision_reason":"oracle_opener"`,
		`"decision_options":"oracle,bank"`,
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %s in log output, got: %s", want, output)
		}
	}
}

func TestPreparerOracleFailureFallsBackToBank(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	sess := testsupport.NewSession(t, store, "Software Engineer", "technical", 2)

	orc := oracle.NewWithCompleter(&fakeOracleCompleter{err: errors.New("provider down")})
	prep := NewPreparer(cfg, store, orc, logging.NewNop(), nil)
	if err := prep.Execute(context.Background(), sess); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	plan, err := ParsePlan(sess.PlanData)
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	if plan.Source != PlanSourceBank {
		t.Fatalf("expected bank fallback, got %q", plan.Source)
	}
	if len(plan.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(plan.Questions))
	}
}
