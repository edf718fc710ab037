package speech

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"greenroom/internal/services"
)

func TestVoxtralTranscribeUploadsMultipart(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "answer.wav")
	if err := os.WriteFile(audioPath, []byte("RIFFdata"), 0o644); err != nil {
		t.Fatal(err)
	}

	var gotPath, gotKey, gotModel, gotFilename string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		if _, header, err := r.FormFile("file"); err == nil {
			gotFilename = header.Filename
		}
		_, _ = w.Write([]byte(`{"text": "The answer is a mutex."}`))
	}))
	defer server.Close()

	transcriber := newVoxtralTranscriber(server.URL, "vox-key", "voxtral-mini-latest")
	text, err := transcriber.Transcribe(context.Background(), audioPath, dir)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "The answer is a mutex." {
		t.Fatalf("unexpected text: %q", text)
	}
	if gotPath != voxtralTranscribePath {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotKey != "vox-key" {
		t.Fatalf("unexpected api key: %q", gotKey)
	}
	if gotModel != "voxtral-mini-latest" {
		t.Fatalf("unexpected model: %q", gotModel)
	}
	if gotFilename != "answer.wav" {
		t.Fatalf("unexpected filename: %q", gotFilename)
	}
}

func TestVoxtralTranscribeJoinsSegments(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "answer.wav")
	if err := os.WriteFile(audioPath, []byte("RIFFdata"), 0o644); err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"segments": [{"text": "part one"}, {"text": " part two "}]}`))
	}))
	defer server.Close()

	transcriber := newVoxtralTranscriber(server.URL, "vox-key", "voxtral-mini-latest")
	text, err := transcriber.Transcribe(context.Background(), audioPath, dir)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "part one part two" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestVoxtralTranscribeSurfacesHTTPError(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "answer.wav")
	if err := os.WriteFile(audioPath, []byte("RIFFdata"), 0o644); err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "invalid key"}`))
	}))
	defer server.Close()

	transcriber := newVoxtralTranscriber(server.URL, "bad-key", "voxtral-mini-latest")
	_, err := transcriber.Transcribe(context.Background(), audioPath, dir)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !errors.Is(err, services.ErrTranscription) {
		t.Fatalf("expected transcription marker, got %v", err)
	}
}

func TestVoxtralTranscribeRequiresCredentials(t *testing.T) {
	transcriber := newVoxtralTranscriber("https://example.invalid", "", "model")
	if _, err := transcriber.Transcribe(context.Background(), "audio.wav", ""); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
