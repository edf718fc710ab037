package session

import (
	"database/sql"
	"errors"
	"time"
)

const sessionColumns = "id, token, role, interview_type, status, questions_total, questions_asked, plan_data, report_json, report_path, session_log_path, error_message, created_at, updated_at, progress_stage, progress_percent, progress_message, last_heartbeat, needs_review, review_reason"

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		id               int64
		token            sql.NullString
		role             sql.NullString
		interviewType    sql.NullString
		statusStr        string
		questionsTotal   sql.NullInt64
		questionsAsked   sql.NullInt64
		planData         sql.NullString
		reportJSON       sql.NullString
		reportPath       sql.NullString
		sessionLogPath   sql.NullString
		errorMessage     sql.NullString
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
		progressStage    sql.NullString
		progressPercent  sql.NullFloat64
		progressMessage  sql.NullString
		lastHeartbeatRaw sql.NullString
		needsReview      sql.NullInt64
		reviewReason     sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&token,
		&role,
		&interviewType,
		&statusStr,
		&questionsTotal,
		&questionsAsked,
		&planData,
		&reportJSON,
		&reportPath,
		&sessionLogPath,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
		&progressStage,
		&progressPercent,
		&progressMessage,
		&lastHeartbeatRaw,
		&needsReview,
		&reviewReason,
	); err != nil {
		return nil, err
	}

	sess := &Session{
		ID:              id,
		Token:           token.String,
		Role:            role.String,
		InterviewType:   interviewType.String,
		Status:          Status(statusStr),
		QuestionsTotal:  int(questionsTotal.Int64),
		QuestionsAsked:  int(questionsAsked.Int64),
		PlanData:        planData.String,
		ReportJSON:      reportJSON.String,
		ReportPath:      reportPath.String,
		SessionLogPath:  sessionLogPath.String,
		ErrorMessage:    errorMessage.String,
		ProgressStage:   progressStage.String,
		ProgressPercent: progressPercent.Float64,
		ProgressMessage: progressMessage.String,
	}
	if needsReview.Valid {
		sess.NeedsReview = needsReview.Int64 != 0
	}
	sess.ReviewReason = reviewReason.String

	if created, err := parseTimeString(createdRaw.String); err == nil {
		sess.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		sess.UpdatedAt = updated
	}
	if lastHeartbeatRaw.Valid {
		if heartbeat, err := parseTimeString(lastHeartbeatRaw.String); err == nil {
			sess.LastHeartbeat = &heartbeat
		}
	}
	return sess, nil
}

const answerColumns = "id, session_id, question_index, question, transcript, transcript_marker, is_followup, score, communication_score, persona, persona_rule, persona_confidence, evaluation_json, source, audio_path, duration_seconds, created_at"

func scanAnswer(scanner interface{ Scan(dest ...any) error }) (*AnswerRecord, error) {
	var (
		id                 int64
		sessionID          int64
		questionIndex      sql.NullInt64
		question           sql.NullString
		transcript         sql.NullString
		transcriptMarker   sql.NullString
		isFollowup         sql.NullInt64
		score              sql.NullFloat64
		communicationScore sql.NullFloat64
		persona            sql.NullString
		personaRule        sql.NullString
		personaConfidence  sql.NullFloat64
		evaluationJSON     sql.NullString
		source             sql.NullString
		audioPath          sql.NullString
		durationSeconds    sql.NullFloat64
		createdRaw         sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&sessionID,
		&questionIndex,
		&question,
		&transcript,
		&transcriptMarker,
		&isFollowup,
		&score,
		&communicationScore,
		&persona,
		&personaRule,
		&personaConfidence,
		&evaluationJSON,
		&source,
		&audioPath,
		&durationSeconds,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	record := &AnswerRecord{
		ID:                 id,
		SessionID:          sessionID,
		QuestionIndex:      int(questionIndex.Int64),
		Question:           question.String,
		Transcript:         transcript.String,
		TranscriptMarker:   transcriptMarker.String,
		IsFollowup:         isFollowup.Int64 != 0,
		Score:              score.Float64,
		CommunicationScore: communicationScore.Float64,
		Persona:            persona.String,
		PersonaRule:        personaRule.String,
		PersonaConfidence:  personaConfidence.Float64,
		EvaluationJSON:     evaluationJSON.String,
		Source:             source.String,
		AudioPath:          audioPath.String,
		DurationSeconds:    durationSeconds.Float64,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		record.CreatedAt = created
	}
	return record, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	v := value.UTC().Format(time.RFC3339Nano)
	return v
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
