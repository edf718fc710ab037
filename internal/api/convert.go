package api

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"greenroom/internal/session"
	"greenroom/internal/stage"
	"greenroom/internal/workflow"
)

// FromSession converts a session record to its API representation.
func FromSession(sess *session.Session) SessionItem {
	if sess == nil {
		return SessionItem{}
	}

	dto := SessionItem{
		ID:             sess.ID,
		Token:          sess.Token,
		Role:           sess.Role,
		InterviewType:  sess.InterviewType,
		Status:         string(sess.Status),
		ProcessingLane: string(session.LaneForSession(sess)),
		QuestionsTotal: sess.QuestionsTotal,
		QuestionsAsked: sess.QuestionsAsked,
		Progress: SessionProgress{
			Stage:   sess.ProgressStage,
			Percent: sess.ProgressPercent,
			Message: sess.ProgressMessage,
		},
		ErrorMessage:   sess.ErrorMessage,
		ReportPath:     sess.ReportPath,
		SessionLogPath: sess.SessionLogPath,
		NeedsReview:    sess.NeedsReview,
		ReviewReason:   sess.ReviewReason,
	}
	if !sess.CreatedAt.IsZero() {
		dto.CreatedAt = sess.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !sess.UpdatedAt.IsZero() {
		dto.UpdatedAt = sess.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	if raw := strings.TrimSpace(sess.ReportJSON); raw != "" {
		dto.Report = json.RawMessage(raw)
	}
	return dto
}

// FromSessions converts a slice of session records into API DTOs.
func FromSessions(sessions []*session.Session) []SessionItem {
	if len(sessions) == 0 {
		return nil
	}
	out := make([]SessionItem, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, FromSession(sess))
	}
	return out
}

// FromAnswerRecord converts an answer record to its API representation.
func FromAnswerRecord(record *session.AnswerRecord) AnswerItem {
	if record == nil {
		return AnswerItem{}
	}
	dto := AnswerItem{
		ID:                 record.ID,
		QuestionIndex:      record.QuestionIndex,
		Question:           record.Question,
		Transcript:         record.Transcript,
		TranscriptMarker:   record.TranscriptMarker,
		IsFollowup:         record.IsFollowup,
		Score:              record.Score,
		CommunicationScore: record.CommunicationScore,
		Persona:            record.Persona,
		PersonaRule:        record.PersonaRule,
		Source:             record.Source,
		DurationSeconds:    record.DurationSeconds,
	}
	if !record.CreatedAt.IsZero() {
		dto.CreatedAt = record.CreatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromAnswerRecords converts a slice of answer records into API DTOs.
func FromAnswerRecords(records []*session.AnswerRecord) []AnswerItem {
	if len(records) == 0 {
		return nil
	}
	out := make([]AnswerItem, 0, len(records))
	for _, record := range records {
		out = append(out, FromAnswerRecord(record))
	}
	return out
}

// FromStatusSummary converts a workflow status summary to API payload.
func FromStatusSummary(summary workflow.StatusSummary) WorkflowStatus {
	wf := WorkflowStatus{
		Running:      summary.Running,
		SessionStats: MergeSessionStats(summary.SessionStats),
		StageHealth:  StageHealthSlice(summary.StageHealth),
	}
	if summary.LastError != "" {
		wf.LastError = summary.LastError
	}
	if summary.LastSession != nil {
		last := FromSession(summary.LastSession)
		wf.LastSession = &last
	}
	return wf
}

// MergeSessionStats produces a string-keyed representation of session stats.
func MergeSessionStats(stats map[session.Status]int) map[string]int {
	out := make(map[string]int, len(stats))
	for status, count := range stats {
		out[string(status)] = count
	}
	return out
}

// StageHealthSlice converts a stage health map into a deterministic slice.
func StageHealthSlice(health map[string]stage.Health) []StageHealth {
	if len(health) == 0 {
		return nil
	}
	names := make([]string, 0, len(health))
	for name := range health {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]StageHealth, 0, len(names))
	for _, name := range names {
		h := health[name]
		out = append(out, StageHealth{Name: name, Ready: h.Ready, Detail: h.Detail})
	}
	return out
}

// FormatTime converts a time to RFC3339 or returns empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
