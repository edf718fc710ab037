package services_test

import (
	"errors"
	"strings"
	"testing"

	"greenroom/internal/services"
	"greenroom/internal/session"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "interviewing", "capture", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"interviewing", "capture", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "reporting", "export", "no marker", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestFailureStatusMapping(t *testing.T) {
	validationErr := services.Wrap(services.ErrValidation, "preparing", "prepare", "invalid role", nil)
	if status := services.FailureStatus(validationErr); status != session.StatusReview {
		t.Fatalf("expected review for validation error, got %s", status)
	}

	evalErr := services.Wrap(services.ErrEvaluation, "interviewing", "evaluate", "oracle unreachable", errors.New("io"))
	if status := services.FailureStatus(evalErr); status != session.StatusFailed {
		t.Fatalf("expected failed for evaluation error, got %s", status)
	}

	transientErr := services.Wrap(services.ErrTransient, "reporting", "export", "write failed", errors.New("io"))
	if status := services.FailureStatus(transientErr); status != session.StatusFailed {
		t.Fatalf("expected failed for transient error, got %s", status)
	}

	if status := services.FailureStatus(nil); status != session.StatusFailed {
		t.Fatalf("expected failed for nil error, got %s", status)
	}
}
