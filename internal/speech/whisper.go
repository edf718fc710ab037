package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"greenroom/internal/services"
)

// whisperTranscriber runs the local whisper CLI against a captured WAV file
// and reads the JSON it writes next to the audio.
type whisperTranscriber struct {
	binary string
	model  string
	runner CommandRunner
}

func newWhisperTranscriber(binary, model string, runner CommandRunner) *whisperTranscriber {
	if runner == nil {
		runner = defaultCommandRunner
	}
	return &whisperTranscriber{binary: binary, model: model, runner: runner}
}

func (w *whisperTranscriber) Name() string { return "whisper" }

// Transcribe runs whisper over the audio file and returns the raw transcript
// text. workDir receives whisper's output files.
func (w *whisperTranscriber) Transcribe(ctx context.Context, audioPath, workDir string) (string, error) {
	if strings.TrimSpace(audioPath) == "" {
		return "", fmt.Errorf("whisper: audio path required")
	}
	if workDir == "" {
		workDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("whisper: ensure output dir: %w", err)
	}

	args := buildWhisperArgs(audioPath, w.model, workDir)
	if err := w.runner(ctx, w.binary, args...); err != nil {
		return "", services.Wrap(services.ErrTranscription, "speech", "whisper transcribe", "Whisper run failed", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(workDir, baseName+".json")
	text, err := loadWhisperText(jsonPath)
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, "speech", "whisper transcribe", "Whisper produced no readable transcript", err)
	}
	return text, nil
}

func buildWhisperArgs(audioPath, model, outputDir string) []string {
	args := []string{
		audioPath,
		"--model", model,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--language", "en",
		"--fp16", "False",
	}
	return args
}

// whisperSegment is one span of the whisper JSON output.
type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// whisperPayload is the JSON structure whisper writes alongside the audio.
type whisperPayload struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
}

// loadWhisperText reads a whisper JSON file, preferring the top-level text
// and falling back to joining segment texts.
func loadWhisperText(jsonPath string) (string, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return "", err
	}
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("parse whisper json: %w", err)
	}
	if text := strings.TrimSpace(payload.Text); text != "" {
		return text, nil
	}
	var parts []string
	for _, seg := range payload.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}
