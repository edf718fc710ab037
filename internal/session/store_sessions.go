package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewSession inserts a new session awaiting preparation.
func (s *Store) NewSession(ctx context.Context, role, interviewType string, questionsTotal int) (*Session, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, errors.New("role is required")
	}
	interviewType = strings.ToLower(strings.TrimSpace(interviewType))
	if interviewType == "" {
		return nil, errors.New("interview type is required")
	}
	if questionsTotal < 1 {
		return nil, errors.New("questions total must be >= 1")
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO sessions (
            token, role, interview_type, status, questions_total, questions_asked,
            created_at, updated_at, progress_stage, progress_percent, progress_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		role,
		interviewType,
		StatusPending,
		questionsTotal,
		0,
		timestamp,
		timestamp,
		nil,
		0.0,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a session by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// FindByToken returns the session matching an access token.
func (s *Store) FindByToken(ctx context.Context, token string) (*Session, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token = ? ORDER BY id LIMIT 1`,
		token,
	)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by token: %w", err)
	}
	return sess, nil
}

// Update persists changes to an existing session.
func (s *Store) Update(ctx context.Context, sess *Session) error {
	if sess == nil {
		return errors.New("session is nil")
	}
	sess.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE sessions
         SET token = ?, role = ?, interview_type = ?, status = ?, questions_total = ?,
             questions_asked = ?, plan_data = ?, report_json = ?, report_path = ?,
             session_log_path = ?, error_message = ?, updated_at = ?, progress_stage = ?,
             progress_percent = ?, progress_message = ?, last_heartbeat = ?,
             needs_review = ?, review_reason = ?
         WHERE id = ?`,
		sess.Token,
		sess.Role,
		sess.InterviewType,
		sess.Status,
		sess.QuestionsTotal,
		sess.QuestionsAsked,
		nullableString(sess.PlanData),
		nullableString(sess.ReportJSON),
		nullableString(sess.ReportPath),
		nullableString(sess.SessionLogPath),
		nullableString(sess.ErrorMessage),
		sess.UpdatedAt.Format(time.RFC3339Nano),
		nullableString(sess.ProgressStage),
		sess.ProgressPercent,
		nullableString(sess.ProgressMessage),
		nullableTime(sess.LastHeartbeat),
		boolToInt(sess.NeedsReview),
		nullableString(sess.ReviewReason),
		sess.ID,
	); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// UpdateProgress persists only progress fields, preserving the heartbeat and
// other columns so concurrent stage updates do not clobber each other.
func (s *Store) UpdateProgress(ctx context.Context, sess *Session) error {
	if sess == nil {
		return errors.New("session is nil")
	}
	sess.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE sessions
         SET progress_stage = ?, progress_percent = ?, progress_message = ?,
             questions_asked = ?, updated_at = ?
         WHERE id = ?`,
		nullableString(sess.ProgressStage),
		sess.ProgressPercent,
		nullableString(sess.ProgressMessage),
		sess.QuestionsAsked,
		sess.UpdatedAt.Format(time.RFC3339Nano),
		sess.ID,
	); err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

// SessionsByStatus returns sessions matching a status ordered by creation time.
func (s *Store) SessionsByStatus(ctx context.Context, status Status) ([]*Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE status = ? ORDER BY created_at`, status)
	if err != nil {
		return nil, fmt.Errorf("query by status: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// List returns sessions filtered by status set (or all sessions when no status is provided).
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Session, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + sessionColumns + ` FROM sessions`
	orderClause := ` ORDER BY created_at`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// NextForStatuses returns the oldest session matching any of the provided statuses.
func (s *Store) NextForStatuses(ctx context.Context, statuses ...Status) (*Session, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := makePlaceholders(len(statuses))
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = status
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE status IN (` + placeholders + `) ORDER BY created_at LIMIT 1`
	row := s.db.QueryRowContext(ctx, query, args...)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Remove deletes a session by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClearCompleted removes only completed sessions.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM sessions WHERE status = ?`, StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all sessions.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM sessions`)
	if err != nil {
		return 0, fmt.Errorf("clear sessions: %w", err)
	}
	return res.RowsAffected()
}

// ClearFailed removes only failed sessions.
func (s *Store) ClearFailed(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM sessions WHERE status = ?`, StatusFailed)
	if err != nil {
		return 0, fmt.Errorf("clear failed: %w", err)
	}
	return res.RowsAffected()
}
