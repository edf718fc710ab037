package main

import (
	"bytes"
	"testing"

	"greenroom/internal/api"
)

func TestParsePositiveIDs(t *testing.T) {
	ids, err := parsePositiveIDs([]string{"1", " 42 "})
	if err != nil {
		t.Fatalf("parsePositiveIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 42 {
		t.Fatalf("unexpected ids: %v", ids)
	}

	for _, bad := range []string{"0", "-1", "abc", ""} {
		if _, err := parsePositiveIDs([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestPrintSessionRetryResult(t *testing.T) {
	var buf bytes.Buffer
	printSessionRetryResult(&buf, api.RetrySessionsResult{Items: []api.RetrySessionResult{
		{ID: 1, Outcome: api.RetrySessionUpdated},
		{ID: 2, Outcome: api.RetrySessionNotFailed},
		{ID: 3, Outcome: api.RetrySessionNotFound},
	}})
	out := buf.String()
	requireContains(t, out, "Session 1 reset for retry")
	requireContains(t, out, "Session 2 is not in a retryable state")
	requireContains(t, out, "Session 3 not found")
}

func TestPrintSessionCancelResult(t *testing.T) {
	var buf bytes.Buffer
	printSessionCancelResult(&buf, api.CancelSessionsResult{Items: []api.CancelSessionResult{
		{ID: 1, Outcome: api.CancelSessionUpdated, PriorStatus: "interviewing"},
		{ID: 2, Outcome: api.CancelSessionAlreadyCompleted},
		{ID: 3, Outcome: api.CancelSessionNotFound},
	}})
	out := buf.String()
	requireContains(t, out, "Session 1 stopped (was Interviewing)")
	requireContains(t, out, "Session 2 is already completed")
	requireContains(t, out, "Session 3 not found")
}

func TestBulkClearLabel(t *testing.T) {
	if got := bulkClearLabel(true, false); got != "completed sessions" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := bulkClearLabel(false, true); got != "failed sessions" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := bulkClearLabel(false, false); got != "sessions" {
		t.Fatalf("unexpected label %q", got)
	}
}
