package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"greenroom/internal/config"
	"greenroom/internal/services"
	"greenroom/internal/transcript"
)

func speechConfig() config.Speech {
	return config.Speech{
		CaptureEnabled: true,
		CaptureSeconds: 30,
		InputDevice:    "default",
		SampleRate:     16000,
		RecorderBinary: "ffmpeg",
		Transcriber:    "whisper",
		WhisperBinary:  "whisper",
		WhisperModel:   "base",
	}
}

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Name() string { return "stub" }

func (s *stubTranscriber) Transcribe(ctx context.Context, audioPath, workDir string) (string, error) {
	return s.text, s.err
}

func newTestService(t *testing.T, recordErr error, transcriber Transcriber) *Service {
	t.Helper()
	service, err := NewService(speechConfig(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	recorder := NewRecorder(speechConfig())
	recorder.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		if recordErr != nil {
			return recordErr
		}
		return os.WriteFile(args[len(args)-1], []byte("RIFFdata"), 0o644)
	})
	service.WithRecorder(recorder)
	service.WithTranscriber(transcriber)
	return service
}

func TestNewServiceSelectsBackend(t *testing.T) {
	cfg := speechConfig()
	service, err := NewService(cfg, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if service.TranscriberName() != "whisper" {
		t.Fatalf("unexpected backend: %q", service.TranscriberName())
	}

	cfg.Transcriber = "voxtral"
	cfg.VoxtralURL = "https://example.invalid"
	service, err = NewService(cfg, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if service.TranscriberName() != "voxtral" {
		t.Fatalf("unexpected backend: %q", service.TranscriberName())
	}

	cfg.Transcriber = "carrier-pigeon"
	_, err = NewService(cfg, nil)
	if err == nil {
		t.Fatal("expected error for unknown transcriber")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
}

func TestCaptureAnswerReturnsTranscript(t *testing.T) {
	service := newTestService(t, nil, &stubTranscriber{text: "  I would add an index.  "})

	capture, err := service.CaptureAnswer(context.Background(), t.TempDir(), 1)
	if err != nil {
		t.Fatalf("CaptureAnswer: %v", err)
	}
	if capture.Failed() {
		t.Fatalf("unexpected failure marker: %q", capture.Marker)
	}
	if capture.Transcript != "I would add an index." {
		t.Fatalf("unexpected transcript: %q", capture.Transcript)
	}
	if filepath.Base(capture.AudioPath) != "answer_01.wav" {
		t.Fatalf("unexpected audio path: %q", capture.AudioPath)
	}
}

func TestCaptureAnswerMapsRecordFailureToMarker(t *testing.T) {
	service := newTestService(t, errors.New("device busy"), &stubTranscriber{text: "unused"})

	capture, err := service.CaptureAnswer(context.Background(), t.TempDir(), 2)
	if err != nil {
		t.Fatalf("CaptureAnswer: %v", err)
	}
	if capture.Marker != transcript.MarkerRecordingFailed {
		t.Fatalf("expected recording-failed marker, got %q", capture.Marker)
	}
	if capture.Transcript != transcript.MarkerRecordingFailed {
		t.Fatalf("transcript should carry the marker, got %q", capture.Transcript)
	}
}

func TestCaptureAnswerMapsTranscribeFailureToMarker(t *testing.T) {
	backendErr := services.Wrap(services.ErrTranscription, "speech", "whisper transcribe", "Whisper run failed", errors.New("model missing"))
	service := newTestService(t, nil, &stubTranscriber{err: backendErr})

	capture, err := service.CaptureAnswer(context.Background(), t.TempDir(), 3)
	if err != nil {
		t.Fatalf("CaptureAnswer: %v", err)
	}
	if capture.Marker != transcript.MarkerServiceUnavailable {
		t.Fatalf("expected service-unavailable marker, got %q", capture.Marker)
	}
	if capture.AudioPath == "" {
		t.Fatal("audio path should survive a transcription failure")
	}
}

func TestCaptureAnswerMapsUnusableAudioToMarker(t *testing.T) {
	service := newTestService(t, nil, &stubTranscriber{err: errors.New("sample rate mismatch")})

	capture, err := service.CaptureAnswer(context.Background(), t.TempDir(), 3)
	if err != nil {
		t.Fatalf("CaptureAnswer: %v", err)
	}
	if capture.Marker != transcript.MarkerUnintelligible {
		t.Fatalf("expected unintelligible marker, got %q", capture.Marker)
	}
}

func TestCaptureAnswerMapsSilenceToMarker(t *testing.T) {
	service := newTestService(t, nil, &stubTranscriber{text: "   "})

	capture, err := service.CaptureAnswer(context.Background(), t.TempDir(), 4)
	if err != nil {
		t.Fatalf("CaptureAnswer: %v", err)
	}
	if capture.Marker != transcript.MarkerNoSpeech {
		t.Fatalf("expected no-speech marker, got %q", capture.Marker)
	}
}

func TestCaptureAnswerPassesThroughBackendMarkers(t *testing.T) {
	service := newTestService(t, nil, &stubTranscriber{text: "[Could Not Understand Audio]"})

	capture, err := service.CaptureAnswer(context.Background(), t.TempDir(), 5)
	if err != nil {
		t.Fatalf("CaptureAnswer: %v", err)
	}
	if capture.Marker != transcript.MarkerUnintelligible {
		t.Fatalf("expected unintelligible marker, got %q", capture.Marker)
	}
}

func TestCaptureAnswerPropagatesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	service := newTestService(t, context.Canceled, &stubTranscriber{text: "unused"})
	cancel()

	if _, err := service.CaptureAnswer(ctx, t.TempDir(), 6); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSynthesizerSpeak(t *testing.T) {
	cfg := speechConfig()
	cfg.SpeakQuestions = true
	cfg.SynthesizerBinary = "espeak-ng"
	cfg.Voice = "en-us"

	synth := NewSynthesizer(cfg)
	var gotArgs []string
	synth.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotArgs = args
		return nil
	})

	if err := synth.Speak(context.Background(), "What is a goroutine?"); err != nil {
		t.Fatalf("Speak: %v", err)
	}
	want := []string{"-v", "en-us", "What is a goroutine?"}
	if len(gotArgs) != len(want) {
		t.Fatalf("args mismatch: got %v want %v", gotArgs, want)
	}
	for i := range want {
		if gotArgs[i] != want[i] {
			t.Fatalf("args mismatch at %d: got %v want %v", i, gotArgs, want)
		}
	}
}

func TestSynthesizerDisabledIsNoOp(t *testing.T) {
	cfg := speechConfig()
	cfg.SpeakQuestions = false

	synth := NewSynthesizer(cfg)
	synth.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		t.Fatal("runner should not be invoked when disabled")
		return nil
	})
	if err := synth.Speak(context.Background(), "hello"); err != nil {
		t.Fatalf("Speak: %v", err)
	}
}
