package api

import (
	"testing"
	"time"

	"greenroom/internal/session"
	"greenroom/internal/stage"
	"greenroom/internal/workflow"
)

func TestFromSessionMapsFields(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	sess := &session.Session{
		ID:              7,
		Token:           "a1b2c3d4",
		Role:            "Software Engineer",
		InterviewType:   "technical",
		Status:          session.StatusInterviewed,
		QuestionsTotal:  5,
		QuestionsAsked:  5,
		ReportJSON:      `{"overall_score":7.5}`,
		ReportPath:      "/data/reports/interview_a1b2c3d4.json",
		ProgressStage:   "Interviewing",
		ProgressPercent: 100,
		ProgressMessage: "Interview complete",
		CreatedAt:       created,
		UpdatedAt:       created.Add(10 * time.Minute),
	}

	dto := FromSession(sess)
	if dto.ID != 7 || dto.Token != "a1b2c3d4" {
		t.Fatalf("identity fields not mapped: %+v", dto)
	}
	if dto.Status != "interviewed" {
		t.Fatalf("unexpected status: %q", dto.Status)
	}
	if dto.ProcessingLane != string(session.LaneBackground) {
		t.Fatalf("unexpected lane: %q", dto.ProcessingLane)
	}
	if dto.Progress.Stage != "Interviewing" || dto.Progress.Percent != 100 {
		t.Fatalf("progress not mapped: %+v", dto.Progress)
	}
	if dto.CreatedAt == "" || dto.UpdatedAt == "" {
		t.Fatal("expected formatted timestamps")
	}
	if string(dto.Report) != `{"overall_score":7.5}` {
		t.Fatalf("report payload not passed through: %s", dto.Report)
	}
}

func TestFromSessionNil(t *testing.T) {
	dto := FromSession(nil)
	if dto.ID != 0 || dto.Status != "" {
		t.Fatalf("expected zero DTO for nil session, got %+v", dto)
	}
}

func TestFromStatusSummary(t *testing.T) {
	last := &session.Session{ID: 3, Token: "tok", Status: session.StatusCompleted}
	summary := workflow.StatusSummary{
		Running:      true,
		LastError:    "boom",
		LastSession:  last,
		SessionStats: map[session.Status]int{session.StatusPending: 2},
		StageHealth: map[string]stage.Health{
			"reporter": {Name: "reporter", Ready: true},
			"preparer": {Name: "preparer", Ready: false, Detail: "oracle offline"},
		},
	}

	wf := FromStatusSummary(summary)
	if !wf.Running || wf.LastError != "boom" {
		t.Fatalf("summary fields not mapped: %+v", wf)
	}
	if wf.SessionStats["pending"] != 2 {
		t.Fatalf("stats not merged: %+v", wf.SessionStats)
	}
	if wf.LastSession == nil || wf.LastSession.ID != 3 {
		t.Fatalf("last session not mapped: %+v", wf.LastSession)
	}
	if len(wf.StageHealth) != 2 || wf.StageHealth[0].Name != "preparer" {
		t.Fatalf("stage health not sorted: %+v", wf.StageHealth)
	}
}

func TestFromAnswerRecordMapsFields(t *testing.T) {
	record := &session.AnswerRecord{
		ID:                 11,
		SessionID:          7,
		QuestionIndex:      2,
		Question:           "Tell me about a production incident.",
		Transcript:         "We lost a shard and restored from replicas.",
		Score:              8,
		CommunicationScore: 7,
		Persona:            "efficient",
		PersonaRule:        "direct_answer",
		Source:             "voice",
		DurationSeconds:    31.5,
	}
	dto := FromAnswerRecord(record)
	if dto.ID != 11 || dto.QuestionIndex != 2 {
		t.Fatalf("identity fields not mapped: %+v", dto)
	}
	if dto.Persona != "efficient" || dto.Score != 8 {
		t.Fatalf("scoring fields not mapped: %+v", dto)
	}
}

func TestSortSessionsNewestFirst(t *testing.T) {
	items := []SessionItem{
		{ID: 1, CreatedAt: "2026-01-01T10:00:00.000Z"},
		{ID: 3, CreatedAt: "2026-01-02T10:00:00.000Z"},
		{ID: 2, CreatedAt: "2026-01-02T10:00:00.000Z"},
	}
	sorted := SortSessionsNewestFirst(items)
	if sorted[0].ID != 3 || sorted[1].ID != 2 || sorted[2].ID != 1 {
		t.Fatalf("unexpected order: %+v", sorted)
	}
}
