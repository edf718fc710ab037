package main

import (
	"os"
	"testing"
	"time"

	"greenroom/internal/api"
)

func TestLogsLines(t *testing.T) {
	env := setupCLITestEnv(t)

	if err := os.WriteFile(env.logPath, []byte("first\nsecond\nthird\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	out, _, err := runCLI(t, []string{"logs", "--lines", "2"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("logs --lines: %v", err)
	}
	requireContains(t, out, "second")
	requireContains(t, out, "third")
}

func TestFormatAPILogEvent(t *testing.T) {
	evt := api.LogEvent{
		Timestamp: time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC),
		Level:     "info",
		Component: "interviewer",
		Stage:     "Asking question",
		SessionID: 7,
		Message:   "question asked",
		Details: []api.DetailField{
			{Label: "question", Value: "Tell me about a project"},
		},
	}
	got := formatAPILogEvent(evt)
	requireContains(t, got, "2026-03-04 09:30:00 INFO [interviewer] Session #7 (Asking question) – question asked")
	requireContains(t, got, "\n    - question: Tell me about a project")
}

func TestComposeSubject(t *testing.T) {
	if got := composeSubject(0, ""); got != "" {
		t.Fatalf("expected empty subject, got %q", got)
	}
	if got := composeSubject(3, ""); got != "Session #3" {
		t.Fatalf("unexpected subject %q", got)
	}
	if got := composeSubject(0, "Scoring"); got != "Scoring" {
		t.Fatalf("unexpected subject %q", got)
	}
}
