package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"greenroom/internal/services"
)

const (
	voxtralTranscribePath = "/v1/audio/transcriptions"
	voxtralHeaderAPIKey   = "x-api-key"
	voxtralHTTPTimeout    = 5 * time.Minute
)

// voxtralTranscriber posts captured audio to a Voxtral-compatible HTTP
// transcription endpoint.
type voxtralTranscriber struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func newVoxtralTranscriber(baseURL, apiKey, model string) *voxtralTranscriber {
	return &voxtralTranscriber{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		model:   strings.TrimSpace(model),
		http:    &http.Client{Timeout: voxtralHTTPTimeout},
	}
}

// withHTTPClient overrides the HTTP client (for testing).
func (v *voxtralTranscriber) withHTTPClient(client *http.Client) {
	if client != nil {
		v.http = client
	}
}

func (v *voxtralTranscriber) Name() string { return "voxtral" }

// voxtralResponse mirrors the subset of the transcription response we need.
type voxtralResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Text string `json:"text"`
	} `json:"segments"`
}

// Transcribe uploads the audio file and returns the transcript text. workDir
// is unused; the backend needs no scratch space.
func (v *voxtralTranscriber) Transcribe(ctx context.Context, audioPath, workDir string) (string, error) {
	if strings.TrimSpace(audioPath) == "" {
		return "", fmt.Errorf("voxtral: audio path required")
	}
	if v.baseURL == "" {
		return "", fmt.Errorf("voxtral: base url required")
	}
	if v.apiKey == "" {
		return "", fmt.Errorf("voxtral: api key required")
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("voxtral: open audio: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("model", v.model); err != nil {
		return "", fmt.Errorf("voxtral: write model field: %w", err)
	}
	if err := writer.WriteField("language", "en"); err != nil {
		return "", fmt.Errorf("voxtral: write language field: %w", err)
	}
	field, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("voxtral: create file field: %w", err)
	}
	if _, err := io.Copy(field, file); err != nil {
		return "", fmt.Errorf("voxtral: copy audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("voxtral: close multipart writer: %w", err)
	}

	endpoint := v.baseURL + voxtralTranscribePath
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("voxtral: build request: %w", err)
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())
	request.Header.Set(voxtralHeaderAPIKey, v.apiKey)

	resp, err := v.http.Do(request)
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, "speech", "voxtral transcribe", "Voxtral request failed", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, "speech", "voxtral transcribe", "Failed to read Voxtral response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", services.Wrap(services.ErrTranscription, "speech", "voxtral transcribe",
			fmt.Sprintf("Voxtral returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload))), nil)
	}

	var parsed voxtralResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", services.Wrap(services.ErrTranscription, "speech", "voxtral transcribe", "Failed to decode Voxtral response", err)
	}
	if text := strings.TrimSpace(parsed.Text); text != "" {
		return text, nil
	}
	var parts []string
	for _, seg := range parsed.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}
