package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"greenroom/internal/api"
)

func parsePositiveIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid session id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func writeSessionRetryResultJSON(cmd *cobra.Command, result api.RetrySessionsResult) error {
	type jsonItem struct {
		ID      int64  `json:"id"`
		Outcome string `json:"outcome"`
	}
	items := make([]jsonItem, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, jsonItem{ID: item.ID, Outcome: string(item.Outcome)})
	}
	return writeJSON(cmd, map[string]any{"items": items})
}

func printSessionRetryResult(out io.Writer, result api.RetrySessionsResult) {
	for _, item := range result.Items {
		switch item.Outcome {
		case api.RetrySessionNotFound:
			fmt.Fprintf(out, "Session %d not found\n", item.ID)
		case api.RetrySessionNotFailed:
			fmt.Fprintf(out, "Session %d is not in a retryable state (only failed or stopped sessions can be retried)\n", item.ID)
		case api.RetrySessionUpdated:
			fmt.Fprintf(out, "Session %d reset for retry\n", item.ID)
		}
	}
}

func writeSessionCancelResultJSON(cmd *cobra.Command, result api.CancelSessionsResult) error {
	type jsonItem struct {
		ID          int64  `json:"id"`
		Outcome     string `json:"outcome"`
		PriorStatus string `json:"prior_status,omitempty"`
	}
	items := make([]jsonItem, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, jsonItem{
			ID:          item.ID,
			Outcome:     string(item.Outcome),
			PriorStatus: item.PriorStatus,
		})
	}
	return writeJSON(cmd, map[string]any{"items": items})
}

func printSessionCancelResult(out io.Writer, result api.CancelSessionsResult) {
	for _, item := range result.Items {
		switch item.Outcome {
		case api.CancelSessionNotFound:
			fmt.Fprintf(out, "Session %d not found\n", item.ID)
		case api.CancelSessionAlreadyCompleted:
			fmt.Fprintf(out, "Session %d is already completed\n", item.ID)
		case api.CancelSessionAlreadyFailed:
			fmt.Fprintf(out, "Session %d is already failed\n", item.ID)
		case api.CancelSessionUpdated:
			message := fmt.Sprintf("Session %d stopped", item.ID)
			if status := strings.TrimSpace(item.PriorStatus); status != "" {
				message = fmt.Sprintf("Session %d stopped (was %s)", item.ID, formatStatusLabel(status))
			}
			fmt.Fprintln(out, message)
		}
	}
}

func bulkClearLabel(completed, failed bool) string {
	switch {
	case completed:
		return "completed sessions"
	case failed:
		return "failed sessions"
	default:
		return "sessions"
	}
}
