package stage

import (
	"encoding/json"
	"strings"

	"greenroom/internal/services"
)

// DecodePlan parses the question plan JSON stored on a session into dst.
// Empty input leaves dst untouched. On failure it returns a
// services.ErrValidation suitable for stage Execute methods.
func DecodePlan(raw string, dst any) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return services.Wrap(
			services.ErrValidation, "stage", "parse question plan",
			"Question plan missing or invalid; rerun preparation", err)
	}
	return nil
}
