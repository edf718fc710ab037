package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"greenroom/internal/config"
	"greenroom/internal/logging"
	"greenroom/internal/services"
	"greenroom/internal/transcript"
)

// Transcriber converts captured audio into raw transcript text.
type Transcriber interface {
	// Name identifies the backend in logs and session records.
	Name() string
	// Transcribe returns the raw transcript for the audio file. workDir may
	// receive scratch files.
	Transcribe(ctx context.Context, audioPath, workDir string) (string, error)
}

// Capture is the outcome of recording and transcribing one answer.
type Capture struct {
	// Transcript is the raw transcript text, or a canonical failure marker.
	Transcript string
	// AudioPath is the captured WAV file, empty when recording failed.
	AudioPath string
	// Marker holds the failure marker when the capture produced no usable
	// speech, empty on success.
	Marker string
}

// Failed reports whether the capture produced no usable transcript.
func (c Capture) Failed() bool {
	return c.Marker != ""
}

// Service bundles the recorder, transcriber backend, and synthesizer behind
// one surface for the interviewer stage.
type Service struct {
	cfg         config.Speech
	recorder    *Recorder
	transcriber Transcriber
	synthesizer *Synthesizer
	logger      *slog.Logger
}

// NewService wires the configured backends. The transcriber value has been
// validated by config, so an unknown one here is a programming error.
func NewService(cfg config.Speech, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	service := &Service{
		cfg:         cfg,
		recorder:    NewRecorder(cfg),
		synthesizer: NewSynthesizer(cfg),
		logger:      logger,
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Transcriber)) {
	case "whisper":
		service.transcriber = newWhisperTranscriber(cfg.WhisperBinary, cfg.WhisperModel, nil)
	case "voxtral":
		service.transcriber = newVoxtralTranscriber(cfg.VoxtralURL, cfg.VoxtralAPIKey, cfg.VoxtralModel)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "speech", "configure transcriber",
			fmt.Sprintf("unknown transcriber %q; set speech.transcriber to whisper or voxtral", cfg.Transcriber), nil)
	}
	return service, nil
}

// WithRecorder replaces the recorder (for testing).
func (s *Service) WithRecorder(recorder *Recorder) {
	if recorder != nil {
		s.recorder = recorder
	}
}

// WithTranscriber replaces the transcriber backend (for testing).
func (s *Service) WithTranscriber(transcriber Transcriber) {
	if transcriber != nil {
		s.transcriber = transcriber
	}
}

// WithSynthesizer replaces the synthesizer (for testing).
func (s *Service) WithSynthesizer(synthesizer *Synthesizer) {
	if synthesizer != nil {
		s.synthesizer = synthesizer
	}
}

// CaptureEnabled reports whether spoken answers are captured at all. When
// false, answers arrive typed through the control surface instead.
func (s *Service) CaptureEnabled() bool {
	return s != nil && s.cfg.CaptureEnabled
}

// TranscriberName identifies the active backend for logs and reports.
func (s *Service) TranscriberName() string {
	if s == nil || s.transcriber == nil {
		return ""
	}
	return s.transcriber.Name()
}

// SpeakQuestion reads the question aloud when synthesis is enabled. Failures
// are logged and swallowed; a silent speaker must not block the interview.
func (s *Service) SpeakQuestion(ctx context.Context, text string) {
	if err := s.synthesizer.Speak(ctx, text); err != nil {
		s.logger.Warn("question synthesis failed", logging.Error(err))
	}
}

// CaptureAnswer records one answer into workDir and transcribes it. Capture
// and transcription failures come back as marker transcripts, never as
// errors; only context cancellation aborts.
func (s *Service) CaptureAnswer(ctx context.Context, workDir string, questionIndex int) (Capture, error) {
	audioPath := filepath.Join(workDir, fmt.Sprintf("answer_%02d.wav", questionIndex))

	if err := s.recorder.Record(ctx, audioPath, s.cfg.CaptureSeconds); err != nil {
		if ctx.Err() != nil {
			return Capture{}, ctx.Err()
		}
		s.logger.Warn("answer capture failed",
			logging.Int("question_index", questionIndex),
			logging.Error(err))
		return Capture{Transcript: transcript.MarkerRecordingFailed, Marker: transcript.MarkerRecordingFailed}, nil
	}

	text, err := s.transcriber.Transcribe(ctx, audioPath, workDir)
	if err != nil {
		if ctx.Err() != nil {
			return Capture{}, ctx.Err()
		}
		s.logger.Warn("transcription failed",
			logging.String("transcriber", s.transcriber.Name()),
			logging.Int("question_index", questionIndex),
			logging.Error(err))
		// Backend failures carry ErrTranscription and read as the service
		// being down; anything else means the audio itself was unusable.
		marker := transcript.MarkerUnintelligible
		if errors.Is(err, services.ErrTranscription) {
			marker = transcript.MarkerServiceUnavailable
		}
		return Capture{
			Transcript: marker,
			AudioPath:  audioPath,
			Marker:     marker,
		}, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Capture{
			Transcript: transcript.MarkerNoSpeech,
			AudioPath:  audioPath,
			Marker:     transcript.MarkerNoSpeech,
		}, nil
	}
	if transcript.IsFailureMarker(text) {
		norm := transcript.Normalize(text)
		return Capture{Transcript: norm.Text, AudioPath: audioPath, Marker: norm.Marker}, nil
	}
	return Capture{Transcript: text, AudioPath: audioPath}, nil
}
