package speech

import (
	"context"
	"strings"

	"greenroom/internal/config"
	"greenroom/internal/services"
)

// Synthesizer speaks interview questions aloud through a TTS CLI
// (espeak-ng by default). Synthesis is best-effort: a dead speaker should
// never fail a question, so callers log errors and move on.
type Synthesizer struct {
	binary  string
	voice   string
	enabled bool
	runner  CommandRunner
}

// NewSynthesizer builds a synthesizer from the speech configuration.
func NewSynthesizer(cfg config.Speech) *Synthesizer {
	return &Synthesizer{
		binary:  cfg.SynthesizerBinary,
		voice:   cfg.Voice,
		enabled: cfg.SpeakQuestions,
		runner:  defaultCommandRunner,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Synthesizer) WithCommandRunner(runner CommandRunner) {
	if runner != nil {
		s.runner = runner
	}
}

// Enabled reports whether questions should be spoken at all.
func (s *Synthesizer) Enabled() bool {
	return s != nil && s.enabled
}

// Speak reads the text aloud. No-op when synthesis is disabled.
func (s *Synthesizer) Speak(ctx context.Context, text string) error {
	if !s.Enabled() {
		return nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	args := make([]string, 0, 3)
	if s.voice != "" {
		args = append(args, "-v", s.voice)
	}
	args = append(args, text)
	if err := s.runner(ctx, s.binary, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "speech", "speak question", "Speech synthesis command failed", err)
	}
	return nil
}
