package preflight

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"greenroom/internal/config"
)

// CheckOracleFromConfig evaluates oracle status from config and connectivity.
func CheckOracleFromConfig(cfg *config.Config) Result {
	const name = "Oracle"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if !cfg.OracleConfigured() {
		return Result{Name: name, Passed: true, Detail: "Offline (heuristic evaluator)"}
	}
	check := CheckOracle(context.Background(), name, cfg.GetOracle())
	if check.Passed {
		return Result{Name: name, Passed: true, Detail: check.Detail}
	}
	return Result{Name: name, Detail: check.Detail}
}

// CheckVoxtralFromConfig evaluates Voxtral status from config and connectivity.
func CheckVoxtralFromConfig(cfg *config.Config) Result {
	const name = "Voxtral"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if !cfg.Speech.CaptureEnabled || !usesVoxtral(cfg) {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	if strings.TrimSpace(cfg.Speech.VoxtralURL) == "" {
		return Result{Name: name, Detail: "Missing URL"}
	}
	if strings.TrimSpace(cfg.Speech.VoxtralAPIKey) == "" {
		return Result{Name: name, Detail: "Missing API key"}
	}
	check := CheckVoxtral(context.Background(), cfg.Speech.VoxtralURL, cfg.Speech.VoxtralAPIKey)
	if check.Passed {
		return Result{Name: name, Passed: true, Detail: check.Detail}
	}
	return Result{Name: name, Detail: check.Detail}
}

// MicProbe reports the current microphone detection snapshot.
type MicProbe struct {
	Detected bool
	Device   string
	Card     string
}

// ProbeMicrophone attempts to detect an ALSA capture device via arecord.
func ProbeMicrophone(device string) MicProbe {
	device = strings.TrimSpace(device)
	if device == "" {
		device = "default"
	}
	if _, err := exec.LookPath("arecord"); err != nil {
		return MicProbe{Device: device}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "arecord", "-l")
	output, err := cmd.Output()
	if err != nil {
		return MicProbe{Device: device}
	}
	card := firstCaptureCard(string(output))
	if card == "" {
		return MicProbe{Device: device}
	}
	return MicProbe{
		Detected: true,
		Device:   device,
		Card:     card,
	}
}

// firstCaptureCard extracts the first card name from `arecord -l` output.
// Lines look like: "card 1: Device [USB Audio Device], device 0: ...".
func firstCaptureCard(output string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "card ") {
			continue
		}
		start := strings.Index(line, "[")
		end := strings.Index(line, "]")
		if start >= 0 && end > start+1 {
			return line[start+1 : end]
		}
		return "Unknown"
	}
	return ""
}

// MicDetail renders a display-friendly summary for status UIs.
func (p MicProbe) MicDetail() string {
	if !p.Detected {
		return "No capture device detected"
	}
	return fmt.Sprintf("Capture device '%s' via %s", p.Card, p.Device)
}
