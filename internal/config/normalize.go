package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeOracle(); err != nil {
		return err
	}
	if err := c.normalizeSpeech(); err != nil {
		return err
	}
	c.normalizeInterview()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.ReportsDir, err = expandPath(c.Paths.ReportsDir); err != nil {
		return fmt.Errorf("paths.reports_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir()
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if value := firstEnv("GREENROOM_API_TOKEN"); value != "" {
		c.Paths.APIToken = value
	}
	return nil
}

func (c *Config) normalizeOracle() error {
	c.Oracle.Provider = strings.ToLower(strings.TrimSpace(c.Oracle.Provider))
	if c.Oracle.Provider == "" {
		c.Oracle.Provider = defaultOracleProvider
	}
	c.Oracle.APIKey = strings.TrimSpace(c.Oracle.APIKey)
	if value := firstEnv("GREENROOM_ORACLE_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"); value != "" {
		c.Oracle.APIKey = value
	}
	c.Oracle.BaseURL = strings.TrimSpace(c.Oracle.BaseURL)
	if c.Oracle.BaseURL == "" {
		c.Oracle.BaseURL = defaultOracleBaseURL
	}
	c.Oracle.Model = strings.TrimSpace(c.Oracle.Model)
	if c.Oracle.Model == "" {
		c.Oracle.Model = defaultOracleModel
	}
	c.Oracle.Referer = strings.TrimSpace(c.Oracle.Referer)
	c.Oracle.Title = strings.TrimSpace(c.Oracle.Title)
	if c.Oracle.TimeoutSeconds <= 0 {
		c.Oracle.TimeoutSeconds = defaultOracleTimeoutSeconds
	}
	if c.Oracle.MaxAttempts <= 0 {
		c.Oracle.MaxAttempts = defaultOracleMaxAttempts
	}
	return nil
}

func (c *Config) normalizeSpeech() error {
	c.Speech.InputDevice = strings.TrimSpace(c.Speech.InputDevice)
	if c.Speech.InputDevice == "" {
		c.Speech.InputDevice = defaultInputDevice
	}
	c.Speech.RecorderBinary = strings.TrimSpace(c.Speech.RecorderBinary)
	if c.Speech.RecorderBinary == "" {
		c.Speech.RecorderBinary = defaultRecorderBinary
	}
	c.Speech.Transcriber = strings.ToLower(strings.TrimSpace(c.Speech.Transcriber))
	if c.Speech.Transcriber == "" {
		c.Speech.Transcriber = defaultTranscriber
	}
	c.Speech.WhisperBinary = strings.TrimSpace(c.Speech.WhisperBinary)
	if c.Speech.WhisperBinary == "" {
		c.Speech.WhisperBinary = defaultWhisperBinary
	}
	c.Speech.WhisperModel = strings.TrimSpace(c.Speech.WhisperModel)
	if c.Speech.WhisperModel == "" {
		c.Speech.WhisperModel = defaultWhisperModel
	}
	c.Speech.VoxtralURL = strings.TrimSpace(c.Speech.VoxtralURL)
	c.Speech.VoxtralAPIKey = strings.TrimSpace(c.Speech.VoxtralAPIKey)
	if value := firstEnv("VOXTRAL_API_KEY", "MISTRAL_API_KEY"); value != "" {
		c.Speech.VoxtralAPIKey = value
	}
	c.Speech.VoxtralModel = strings.TrimSpace(c.Speech.VoxtralModel)
	if c.Speech.VoxtralModel == "" {
		c.Speech.VoxtralModel = defaultVoxtralModel
	}
	c.Speech.SynthesizerBinary = strings.TrimSpace(c.Speech.SynthesizerBinary)
	if c.Speech.SynthesizerBinary == "" {
		c.Speech.SynthesizerBinary = defaultSynthesizerBinary
	}
	c.Speech.Voice = strings.TrimSpace(c.Speech.Voice)
	return nil
}

func (c *Config) normalizeInterview() {
	c.Interview.DefaultRole = strings.TrimSpace(c.Interview.DefaultRole)
	if c.Interview.DefaultRole == "" {
		c.Interview.DefaultRole = defaultInterviewRole
	}
	c.Interview.DefaultType = strings.ToLower(strings.TrimSpace(c.Interview.DefaultType))
	if c.Interview.DefaultType == "" {
		c.Interview.DefaultType = defaultInterviewType
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

// firstEnv returns the first non-empty value among the named variables.
// Environment values take precedence over config file entries.
func firstEnv(names ...string) string {
	for _, name := range names {
		if value, ok := os.LookupEnv(name); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
