package preflight

import (
	"context"
	"strings"

	"greenroom/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunFeatureChecks executes all applicable preflight checks for the given
// config. Checks are only run when the corresponding feature is enabled.
func RunFeatureChecks(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Data directory (always checked; holds the session database)
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))

	// Log directory (always checked; per-session logs land here)
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	// Work directory (always checked; captured audio is staged here)
	results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))

	// Reports directory (when configured)
	if cfg.Paths.ReportsDir != "" {
		results = append(results, CheckDirectoryAccess("Reports directory", cfg.Paths.ReportsDir))
	}

	// Oracle provider (only when a credential is configured; the offline
	// heuristic evaluator needs nothing)
	if cfg.OracleConfigured() {
		results = append(results, CheckOracle(ctx, "Oracle", cfg.GetOracle()))
	}

	// Voxtral transcription endpoint
	if cfg.Speech.CaptureEnabled && usesVoxtral(cfg) {
		results = append(results, CheckVoxtral(ctx, cfg.Speech.VoxtralURL, cfg.Speech.VoxtralAPIKey))
	}

	return results
}

func usesVoxtral(cfg *config.Config) bool {
	return strings.EqualFold(strings.TrimSpace(cfg.Speech.Transcriber), "voxtral")
}
