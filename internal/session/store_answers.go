package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AppendAnswer persists a scored answer record for a session. The record's
// ID and CreatedAt are populated on success.
func (s *Store) AppendAnswer(ctx context.Context, record *AnswerRecord) error {
	if record == nil {
		return errors.New("answer record is nil")
	}
	if record.SessionID == 0 {
		return errors.New("answer record requires a session id")
	}
	if strings.TrimSpace(record.Question) == "" {
		return errors.New("answer record requires a question")
	}

	now := time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO answer_records (
            session_id, question_index, question, transcript, transcript_marker,
            is_followup, score, communication_score, persona, persona_rule,
            persona_confidence, evaluation_json, source, audio_path,
            duration_seconds, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.SessionID,
		record.QuestionIndex,
		record.Question,
		nullableString(record.Transcript),
		nullableString(record.TranscriptMarker),
		boolToInt(record.IsFollowup),
		record.Score,
		record.CommunicationScore,
		nullableString(record.Persona),
		nullableString(record.PersonaRule),
		record.PersonaConfidence,
		nullableString(record.EvaluationJSON),
		nullableString(record.Source),
		nullableString(record.AudioPath),
		record.DurationSeconds,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert answer record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	record.ID = id
	record.CreatedAt = now
	return nil
}

// AnswersForSession returns all answer records for a session in question order.
func (s *Store) AnswersForSession(ctx context.Context, sessionID int64) ([]*AnswerRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+answerColumns+` FROM answer_records WHERE session_id = ? ORDER BY question_index, id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query answer records: %w", err)
	}
	defer rows.Close()

	var records []*AnswerRecord
	for rows.Next() {
		record, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// SubmitPendingAnswer queues a typed answer for the interviewer to consume.
// Sessions accept typed answers only while they are waiting on an answer, but
// the store does not enforce that; the interviewer discards stale entries.
func (s *Store) SubmitPendingAnswer(ctx context.Context, sessionID int64, text string) error {
	if sessionID == 0 {
		return errors.New("session id is required")
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("answer text is required")
	}
	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO pending_answers (session_id, answer_text, created_at) VALUES (?, ?, ?)`,
		sessionID,
		text,
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert pending answer: %w", err)
	}
	return nil
}

// TakePendingAnswer removes and returns the oldest queued answer for a
// session. The boolean reports whether an answer was available.
func (s *Store) TakePendingAnswer(ctx context.Context, sessionID int64) (string, bool, error) {
	ctx = ensureContext(ctx)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("begin pending answer tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		id   int64
		text string
	)
	row := tx.QueryRowContext(
		ctx,
		`SELECT id, answer_text FROM pending_answers WHERE session_id = ? ORDER BY id LIMIT 1`,
		sessionID,
	)
	if err := row.Scan(&id, &text); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("scan pending answer: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM pending_answers WHERE id = ?`, id); err != nil {
		return "", false, fmt.Errorf("consume pending answer: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("commit pending answer: %w", err)
	}
	return text, true, nil
}

// ClearPendingAnswers drops any queued answers for a session, used when a
// question times out or the session ends.
func (s *Store) ClearPendingAnswers(ctx context.Context, sessionID int64) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM pending_answers WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("clear pending answers: %w", err)
	}
	return res.RowsAffected()
}
