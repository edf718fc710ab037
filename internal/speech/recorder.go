package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"greenroom/internal/config"
	"greenroom/internal/services"
)

// CommandRunner executes an external command. Tests substitute fakes.
type CommandRunner func(ctx context.Context, name string, args ...string) error

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Recorder captures microphone audio to mono WAV files via ffmpeg.
type Recorder struct {
	binary     string
	device     string
	sampleRate int
	runner     CommandRunner
}

// NewRecorder builds a recorder from the speech configuration.
func NewRecorder(cfg config.Speech) *Recorder {
	return &Recorder{
		binary:     cfg.RecorderBinary,
		device:     cfg.InputDevice,
		sampleRate: cfg.SampleRate,
		runner:     defaultCommandRunner,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *Recorder) WithCommandRunner(runner CommandRunner) {
	if runner != nil {
		r.runner = runner
	}
}

// Record captures up to maxSeconds of audio into dest. The output is mono WAV
// at the configured sample rate, which both transcriber backends accept
// without resampling.
func (r *Recorder) Record(ctx context.Context, dest string, maxSeconds int) error {
	if strings.TrimSpace(dest) == "" {
		return fmt.Errorf("record: dest path required")
	}
	if maxSeconds <= 0 {
		return fmt.Errorf("record: max seconds must be positive")
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("record: ensure output dir: %w", err)
	}
	args := buildRecordArgs(r.device, r.sampleRate, maxSeconds, dest)
	if err := r.runner(ctx, r.binary, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "speech", "record answer", "Audio capture command failed", err)
	}
	info, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("record: capture produced no file: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("record: capture produced an empty file")
	}
	return nil
}

// buildRecordArgs assembles the ffmpeg capture invocation. ALSA capture with
// a hard duration cap; -y so retried questions overwrite the previous take.
func buildRecordArgs(device string, sampleRate, maxSeconds int, dest string) []string {
	if strings.TrimSpace(device) == "" {
		device = "default"
	}
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "alsa",
		"-i", device,
		"-t", strconv.Itoa(maxSeconds),
		"-ar", strconv.Itoa(sampleRate),
		"-ac", "1",
		"-y",
		dest,
	}
}
