package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOracle(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	if err := c.validateInterview(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	if strings.TrimSpace(c.Paths.ReportsDir) == "" {
		return errors.New("paths.reports_dir must be set")
	}
	return nil
}

// validateOracle deliberately does not require an API key. Sessions run
// against the offline question bank and heuristic evaluator when no
// credential is configured; 'greenroom preflight' reports the gap.
func (c *Config) validateOracle() error {
	switch c.Oracle.Provider {
	case "gemini", "openrouter":
	default:
		return fmt.Errorf("oracle.provider %q is not supported (expected gemini or openrouter)", c.Oracle.Provider)
	}
	if c.Oracle.TimeoutSeconds <= 0 {
		return errors.New("oracle.timeout_seconds must be positive")
	}
	if c.Oracle.MaxAttempts < 1 {
		return errors.New("oracle.max_attempts must be >= 1")
	}
	return nil
}

func (c *Config) validateSpeech() error {
	if c.Speech.CaptureSeconds <= 0 {
		return errors.New("speech.capture_seconds must be positive")
	}
	if c.Speech.SampleRate <= 0 {
		return errors.New("speech.sample_rate must be positive")
	}
	switch c.Speech.Transcriber {
	case "whisper", "voxtral":
	default:
		return fmt.Errorf("speech.transcriber %q is not supported (expected whisper or voxtral)", c.Speech.Transcriber)
	}
	if c.Speech.Transcriber == "voxtral" && strings.TrimSpace(c.Speech.VoxtralURL) == "" {
		return errors.New("speech.voxtral_url must be set when speech.transcriber is voxtral")
	}
	return nil
}

func (c *Config) validateInterview() error {
	switch c.Interview.DefaultType {
	case "technical", "behavioral", "hr":
	default:
		return fmt.Errorf("interview.default_type %q is not supported (expected technical, behavioral, or hr)", c.Interview.DefaultType)
	}
	if c.Interview.QuestionsPerSession < 1 {
		return errors.New("interview.questions_per_session must be >= 1")
	}
	if c.Interview.AnswerTimeoutSeconds <= 0 {
		return errors.New("interview.answer_timeout_seconds must be positive")
	}
	if c.Interview.AnswerTimeoutSeconds < c.Speech.CaptureSeconds {
		return errors.New("interview.answer_timeout_seconds must be at least speech.capture_seconds")
	}
	if c.Interview.MaxEvalAttempts < 1 {
		return errors.New("interview.max_eval_attempts must be >= 1")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if err := ensurePositiveMap(map[string]int{
		"notifications.request_timeout":  c.Notifications.RequestTimeout,
		"workflow.sound_monitor_timeout": c.Workflow.SoundMonitorTimeout,
		"workflow.queue_poll_interval":   c.Workflow.QueuePollInterval,
		"workflow.error_retry_interval":  c.Workflow.ErrorRetryInterval,
	}); err != nil {
		return err
	}
	if c.Workflow.HeartbeatInterval <= 0 {
		return errors.New("workflow.heartbeat_interval must be positive")
	}
	if c.Workflow.HeartbeatTimeout <= 0 {
		return errors.New("workflow.heartbeat_timeout must be positive")
	}
	if c.Workflow.HeartbeatTimeout <= c.Workflow.HeartbeatInterval {
		return errors.New("workflow.heartbeat_timeout must be greater than workflow.heartbeat_interval")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.MinInterviewSeconds < 0 {
		return errors.New("notifications.min_interview_seconds must be >= 0")
	}
	if c.Notifications.QueueMinItems < 1 {
		return errors.New("notifications.queue_min_items must be >= 1")
	}
	if c.Notifications.DedupWindowSeconds < 0 {
		return errors.New("notifications.dedup_window_seconds must be >= 0")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
