package session

import (
	"context"
	"fmt"
	"time"
)

// ResetStuckProcessing resets sessions in processing states back to the start of their current stage.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE sessions
         SET status = CASE status
             WHEN ? THEN ?
             WHEN ? THEN ?
             WHEN ? THEN ?
             ELSE status
         END,
             progress_stage = 'Reset from stuck processing',
             progress_percent = 0, progress_message = NULL, last_heartbeat = NULL, updated_at = ?
         WHERE status IN (?, ?, ?)`,
		StatusPreparing, StatusPending,
		StatusInterviewing, StatusPrepared,
		StatusReporting, StatusInterviewed,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusPreparing,
		StatusInterviewing,
		StatusReporting,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck sessions: %w", err)
	}
	return res.RowsAffected()
}

// UpdateHeartbeat updates the last heartbeat timestamp for an in-flight session.
func (s *Store) UpdateHeartbeat(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE sessions SET last_heartbeat = ?, updated_at = ? WHERE id = ?`,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
		id,
	); err != nil {
		return fmt.Errorf("update heartbeat: %w", err)
	}
	return nil
}

// ReclaimStaleProcessing returns sessions stuck in processing back to the
// start of their current stage when heartbeats expire. When statuses are
// provided only those processing states are considered; otherwise all
// processing states are eligible.
func (s *Store) ReclaimStaleProcessing(ctx context.Context, cutoff time.Time, statuses ...Status) (int64, error) {
	targets := statuses
	if len(targets) == 0 {
		targets = []Status{StatusPreparing, StatusInterviewing, StatusReporting}
	}
	filtered := make([]Status, 0, len(targets))
	for _, status := range targets {
		if IsProcessingStatus(status) {
			filtered = append(filtered, status)
		}
	}
	if len(filtered) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	args := make([]any, 0, len(filtered)+8)
	args = append(args,
		StatusPreparing, StatusPending,
		StatusInterviewing, StatusPrepared,
		StatusReporting, StatusInterviewed,
		now.Format(time.RFC3339Nano),
	)
	for _, status := range filtered {
		args = append(args, status)
	}
	args = append(args, cutoff.UTC().Format(time.RFC3339Nano))

	query := `UPDATE sessions
        SET status = CASE status
            WHEN ? THEN ?
            WHEN ? THEN ?
            WHEN ? THEN ?
            ELSE status
        END,
            progress_stage = 'Reclaimed from stale processing',
            progress_percent = 0, progress_message = NULL, last_heartbeat = NULL, updated_at = ?
        WHERE status IN (` + makePlaceholders(len(filtered)) + `) AND last_heartbeat IS NOT NULL AND last_heartbeat < ?`
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale sessions: %w", err)
	}
	return res.RowsAffected()
}

// RetryFailed moves failed and stopped sessions back to pending for
// reprocessing. Review flags are cleared so the retried session is not picked
// up as stopped again.
func (s *Store) RetryFailed(ctx context.Context, ids ...int64) (int64, error) {
	if len(ids) == 0 {
		res, err := s.execWithRetry(
			ctx,
			`UPDATE sessions
            SET status = ?, progress_stage = 'Retry requested', progress_percent = 0,
                progress_message = NULL, error_message = NULL,
                needs_review = 0, review_reason = NULL, updated_at = ?
            WHERE status IN (?, ?)`,
			StatusPending,
			time.Now().UTC().Format(time.RFC3339Nano),
			StatusFailed,
			StatusReview,
		)
		if err != nil {
			return 0, fmt.Errorf("retry failed sessions: %w", err)
		}
		return res.RowsAffected()
	}

	placeholders := makePlaceholders(len(ids))
	args := make([]any, 0, len(ids)+2)
	args = append(args, StatusPending, time.Now().UTC().Format(time.RFC3339Nano))
	for _, id := range ids {
		args = append(args, id)
	}
	query := `UPDATE sessions
        SET status = ?, progress_stage = 'Retry requested', progress_percent = 0,
            progress_message = NULL, error_message = NULL,
            needs_review = 0, review_reason = NULL, updated_at = ?
        WHERE id IN (` + placeholders + `) AND status IN ('` + string(StatusFailed) + `', '` + string(StatusReview) + `')`
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("retry selected sessions: %w", err)
	}
	return res.RowsAffected()
}
