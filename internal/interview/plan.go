package interview

import (
	"encoding/json"
	"fmt"
	"time"

	"greenroom/internal/stage"
)

// Plan source values recorded for observability.
const (
	PlanSourceOracle = "oracle"
	PlanSourceBank   = "bank"
)

// Plan is the prepared question list stored on the session row between the
// preparer and the interviewer.
type Plan struct {
	Role          string    `json:"role"`
	InterviewType string    `json:"interview_type"`
	Questions     []string  `json:"questions"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"created_at"`
}

// ParsePlan decodes a stored plan. Empty input yields a zero plan; malformed
// input yields a validation error.
func ParsePlan(raw string) (Plan, error) {
	var plan Plan
	if err := stage.DecodePlan(raw, &plan); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// Encode serializes the plan for the session row.
func (p Plan) Encode() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode question plan: %w", err)
	}
	return string(data), nil
}
