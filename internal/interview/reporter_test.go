package interview

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"greenroom/internal/logging"
	"greenroom/internal/persona"
	"greenroom/internal/report"
	"greenroom/internal/session"
	"greenroom/internal/testsupport"
)

func TestReporterExportsFeedback(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	sess := testsupport.NewSession(t, store, "Software Engineer", "technical", 2)

	ctx := context.Background()
	answers := []session.AnswerRecord{
		{
			SessionID:          sess.ID,
			QuestionIndex:      1,
			Question:           "How do you design a schema?",
			Transcript:         "I normalize the core entities and index the hot paths.",
			Persona:            string(persona.LabelEfficient),
			Score:              8,
			CommunicationScore: 9,
			Source:             "text",
		},
		{
			SessionID:          sess.ID,
			QuestionIndex:      2,
			Question:           "How do you debug a slow query?",
			Transcript:         "Well, it depends on a lot of things really.",
			Persona:            string(persona.LabelChatty),
			Score:              4,
			CommunicationScore: 6,
			Source:             "text",
		},
	}
	for idx := range answers {
		if err := store.AppendAnswer(ctx, &answers[idx]); err != nil {
			t.Fatalf("AppendAnswer: %v", err)
		}
	}

	rep := NewReporter(cfg, store, logging.NewNop(), nil)
	if err := rep.Prepare(ctx, sess); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := rep.Execute(ctx, sess); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if sess.ReportPath == "" {
		t.Fatal("report path not set")
	}
	wantPath := filepath.Join(cfg.Paths.ReportsDir, report.FileName(sess.Token))
	if sess.ReportPath != wantPath {
		t.Fatalf("report path = %q, want %q", sess.ReportPath, wantPath)
	}
	if _, err := os.Stat(sess.ReportPath); err != nil {
		t.Fatalf("exported report missing: %v", err)
	}

	var model report.DisplayModel
	if err := json.Unmarshal([]byte(sess.ReportJSON), &model); err != nil {
		t.Fatalf("decode stored report: %v", err)
	}
	if model.TotalAnswers != 2 {
		t.Fatalf("expected 2 answers in report, got %d", model.TotalAnswers)
	}
	if model.OverallScore != 6 {
		t.Fatalf("expected overall score 6, got %.1f", model.OverallScore)
	}
	if model.SessionToken != sess.Token {
		t.Fatalf("report token = %q, want %q", model.SessionToken, sess.Token)
	}
	if len(model.Questions) != 2 {
		t.Fatalf("expected 2 question rows, got %d", len(model.Questions))
	}

	if sess.ProgressPercent != 100 {
		t.Fatalf("expected complete progress, got %.1f", sess.ProgressPercent)
	}
}

func TestReporterHandlesEmptySession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	sess := testsupport.NewSession(t, store, "Software Engineer", "behavioral", 2)

	rep := NewReporter(cfg, store, logging.NewNop(), nil)
	ctx := context.Background()
	if err := rep.Execute(ctx, sess); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var model report.DisplayModel
	if err := json.Unmarshal([]byte(sess.ReportJSON), &model); err != nil {
		t.Fatalf("decode stored report: %v", err)
	}
	if !model.NoData {
		t.Fatal("expected no-data report")
	}
	if _, err := os.Stat(sess.ReportPath); err != nil {
		t.Fatalf("exported report missing: %v", err)
	}
}
