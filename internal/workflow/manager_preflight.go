package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"greenroom/internal/logging"
	"greenroom/internal/preflight"
	"greenroom/internal/services"
)

// RunPreflightChecks validates external readiness before the daemon starts
// processing sessions. Returns nil when all checks pass, or an error
// describing all failures.
func (m *Manager) RunPreflightChecks(ctx context.Context, logger *slog.Logger) error {
	results := preflight.RunFeatureChecks(ctx, m.cfg)
	if len(results) == 0 {
		return nil
	}

	var failures []string
	for _, r := range results {
		if r.Passed {
			logger.Info("preflight check passed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
				logging.String(logging.FieldEventType, "preflight_passed"),
			)
		} else {
			logging.ErrorWithContext(logger, "preflight check failed", "preflight_failed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
				logging.String(logging.FieldErrorHint, "fix the reported issue and restart the daemon"),
			)
			failures = append(failures, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}

	if len(failures) > 0 {
		return services.Wrap(services.ErrConfiguration, "preflight", "feature checks", strings.Join(failures, "; "), nil)
	}
	return nil
}
