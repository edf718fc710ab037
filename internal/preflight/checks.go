package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"greenroom/internal/config"
	"greenroom/internal/deps"
	"greenroom/internal/oracle"
)

// CheckOracle verifies that the oracle provider is reachable and the key is
// valid. It uses a 30-second timeout and a single attempt (no retries).
func CheckOracle(ctx context.Context, name string, cfg config.OracleConfig) Result {
	if cfg.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := oracle.New(oracle.SettingsFromConfig(cfg), oracle.WithRetryMaxAttempts(1))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeOracleError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckVoxtral verifies Voxtral endpoint connectivity and authentication.
func CheckVoxtral(ctx context.Context, baseURL, apiKey string) Result {
	const name = "Voxtral"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	if strings.TrimSpace(apiKey) == "" {
		return Result{Name: name, Detail: "missing api key"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, base+"/v1/models", nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%v)", err)}
	}
	req.Header.Set("x-api-key", strings.TrimSpace(apiKey))

	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%v)", err)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	case http.StatusUnauthorized, http.StatusForbidden:
		return Result{Name: name, Detail: "auth failed (invalid api key)"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%d)", resp.StatusCode)}
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates all system-level dependencies for the given config.
// Both the daemon and the CLI status command use this to avoid duplicating
// the requirements list. Oracle checks are not included here because only the
// CLI status path uses them.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	var requirements []deps.Requirement
	usesWhisper := strings.EqualFold(strings.TrimSpace(cfg.Speech.Transcriber), "whisper")

	if cfg.Speech.CaptureEnabled {
		requirements = append(requirements, deps.Requirement{
			Name:        "Recorder",
			Command:     cfg.Speech.RecorderBinary,
			Description: "Required for microphone capture",
		})
		if usesWhisper {
			requirements = append(requirements, deps.Requirement{
				Name:        "Whisper",
				Command:     cfg.Speech.WhisperBinary,
				Description: "Required for local transcription",
			})
		}
	}
	if cfg.Speech.SpeakQuestions {
		requirements = append(requirements, deps.Requirement{
			Name:        "Synthesizer",
			Command:     cfg.Speech.SynthesizerBinary,
			Description: "Speaks questions aloud during interviews",
			Optional:    true,
		})
	}

	statuses := deps.CheckBinaries(requirements)
	if cfg.Speech.CaptureEnabled && usesWhisper {
		statuses = append(statuses, deps.CheckFFmpegForWhisper(cfg.Speech.WhisperBinary))
	}
	return statuses
}

// summarizeOracleError produces a human-readable summary for oracle health
// check failures.
func summarizeOracleError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (oracle API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (oracle API unreachable)"
	}
	return err.Error()
}
