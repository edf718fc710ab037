package api

import (
	"context"

	"greenroom/internal/session"
)

// SessionActionService captures session operations needed by per-session retry/cancel workflows.
type SessionActionService interface {
	Describe(ctx context.Context, id int64) (*SessionItem, error)
	Retry(ctx context.Context, ids []int64) (int64, error)
	Cancel(ctx context.Context, ids []int64) (int64, error)
}

type RetrySessionOutcome string

const (
	RetrySessionUpdated   RetrySessionOutcome = "retried"
	RetrySessionNotFound  RetrySessionOutcome = "not_found"
	RetrySessionNotFailed RetrySessionOutcome = "not_failed"
)

type RetrySessionResult struct {
	ID        int64               `json:"id"`
	Outcome   RetrySessionOutcome `json:"outcome"`
	NewStatus string              `json:"new_status,omitempty"`
}

type RetrySessionsResult struct {
	UpdatedCount int64                `json:"updatedCount"`
	Items        []RetrySessionResult `json:"items"`
}

type CancelSessionOutcome string

const (
	CancelSessionUpdated          CancelSessionOutcome = "cancelled"
	CancelSessionNotFound         CancelSessionOutcome = "not_found"
	CancelSessionAlreadyCompleted CancelSessionOutcome = "already_completed"
	CancelSessionAlreadyFailed    CancelSessionOutcome = "already_failed"
)

type CancelSessionResult struct {
	ID          int64                `json:"id"`
	Outcome     CancelSessionOutcome `json:"outcome"`
	PriorStatus string               `json:"prior_status,omitempty"`
}

type CancelSessionsResult struct {
	UpdatedCount int64                 `json:"updatedCount"`
	Items        []CancelSessionResult `json:"items"`
}

// RetryFailedSessionsByID validates IDs and retries only failed or stopped
// sessions.
func RetryFailedSessionsByID(ctx context.Context, service SessionActionService, ids []int64) (RetrySessionsResult, error) {
	result := RetrySessionsResult{Items: make([]RetrySessionResult, 0, len(ids))}
	for _, id := range ids {
		sess, err := service.Describe(ctx, id)
		if err != nil {
			return RetrySessionsResult{}, err
		}
		if sess == nil {
			result.Items = append(result.Items, RetrySessionResult{ID: id, Outcome: RetrySessionNotFound})
			continue
		}
		status, ok := session.ParseStatus(sess.Status)
		if !ok || (status != session.StatusFailed && status != session.StatusReview) {
			result.Items = append(result.Items, RetrySessionResult{ID: id, Outcome: RetrySessionNotFailed})
			continue
		}
		updated, err := service.Retry(ctx, []int64{id})
		if err != nil {
			return RetrySessionsResult{}, err
		}
		if updated > 0 {
			result.UpdatedCount += updated
			result.Items = append(result.Items, RetrySessionResult{ID: id, Outcome: RetrySessionUpdated})
			continue
		}
		result.Items = append(result.Items, RetrySessionResult{ID: id, Outcome: RetrySessionNotFailed})
	}
	return result, nil
}

// CancelSessionsByID validates IDs and cancels sessions unless already terminal.
func CancelSessionsByID(ctx context.Context, service SessionActionService, ids []int64) (CancelSessionsResult, error) {
	result := CancelSessionsResult{Items: make([]CancelSessionResult, 0, len(ids))}
	for _, id := range ids {
		sess, err := service.Describe(ctx, id)
		if err != nil {
			return CancelSessionsResult{}, err
		}
		if sess == nil {
			result.Items = append(result.Items, CancelSessionResult{ID: id, Outcome: CancelSessionNotFound})
			continue
		}
		status := sess.Status
		parsed, ok := session.ParseStatus(status)
		if ok {
			switch parsed {
			case session.StatusCompleted:
				result.Items = append(result.Items, CancelSessionResult{ID: id, Outcome: CancelSessionAlreadyCompleted, PriorStatus: status})
				continue
			case session.StatusFailed:
				result.Items = append(result.Items, CancelSessionResult{ID: id, Outcome: CancelSessionAlreadyFailed, PriorStatus: status})
				continue
			}
		}

		updated, err := service.Cancel(ctx, []int64{id})
		if err != nil {
			return CancelSessionsResult{}, err
		}
		if updated > 0 {
			result.UpdatedCount += updated
			result.Items = append(result.Items, CancelSessionResult{ID: id, Outcome: CancelSessionUpdated, PriorStatus: status})
			continue
		}
		result.Items = append(result.Items, CancelSessionResult{ID: id, Outcome: CancelSessionAlreadyFailed, PriorStatus: status})
	}
	return result, nil
}
