package services

import (
	"errors"
	"fmt"
	"strings"

	"greenroom/internal/session"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")

	// ErrTranscription marks speech-to-text backend failures. The capture
	// service converts these into the service-unavailable transcript marker;
	// they never abort a session on their own.
	ErrTranscription = errors.New("transcription failure")

	// ErrEvaluation marks oracle evaluation failures for the current question.
	// Callers retry the question or fall back to the heuristic evaluator.
	ErrEvaluation = errors.New("evaluation failure")
)

// StageError carries the structured context Wrap attaches to a failure. The
// marker and the cause both participate in errors.Is/As matching.
type StageError struct {
	Marker    error
	Stage     string
	Operation string
	Message   string
	Err       error
}

func (e *StageError) Error() string {
	detail := buildDetail(e.Stage, e.Operation, e.Message)
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Marker.Error(), detail, e.Err.Error())
	}
	return fmt.Sprintf("%s: %s", e.Marker.Error(), detail)
}

func (e *StageError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Marker, e.Err}
	}
	return []error{e.Marker}
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	return &StageError{
		Marker:    marker,
		Stage:     strings.TrimSpace(stage),
		Operation: strings.TrimSpace(operation),
		Message:   strings.TrimSpace(message),
		Err:       err,
	}
}

// ErrorDetails is the user-facing portion of a stage failure.
type ErrorDetails struct {
	Stage     string
	Operation string
	Message   string
}

// Details extracts the structured context from a wrapped stage error. For
// plain errors the full error text becomes the message.
func Details(err error) ErrorDetails {
	var se *StageError
	if errors.As(err, &se) {
		message := se.Message
		if message == "" {
			message = se.Operation
		}
		return ErrorDetails{Stage: se.Stage, Operation: se.Operation, Message: message}
	}
	if err != nil {
		return ErrorDetails{Message: err.Error()}
	}
	return ErrorDetails{}
}

// FailureStatus maps a stage error to the session status the workflow manager
// should persist after the stage fails. Validation, configuration, and
// not-found errors need user action and park the session in review; everything
// else is retryable and lands in failed.
func FailureStatus(err error) session.Status {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration), errors.Is(err, ErrNotFound):
		return session.StatusReview
	default:
		return session.StatusFailed
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
