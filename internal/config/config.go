package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	ReportsDir string `toml:"reports_dir"`
	WorkDir    string `toml:"work_dir"`
	APIBind    string `toml:"api_bind"`
	APIToken   string `toml:"api_token"`
}

// Oracle contains connection settings for the generative interview oracle.
type Oracle struct {
	Provider       string `toml:"provider"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxAttempts    int    `toml:"max_attempts"`
}

// Speech contains audio capture, transcription, and synthesis settings.
type Speech struct {
	CaptureEnabled bool   `toml:"capture_enabled"`
	CaptureSeconds int    `toml:"capture_seconds"`
	InputDevice    string `toml:"input_device"`
	SampleRate     int    `toml:"sample_rate"`
	RecorderBinary string `toml:"recorder_binary"`
	// Transcriber selects the speech-to-text backend: "whisper" runs a local
	// CLI, "voxtral" posts captured audio to an HTTP endpoint.
	Transcriber       string `toml:"transcriber"`
	WhisperBinary     string `toml:"whisper_binary"`
	WhisperModel      string `toml:"whisper_model"`
	VoxtralURL        string `toml:"voxtral_url"`
	VoxtralAPIKey     string `toml:"voxtral_api_key"`
	VoxtralModel      string `toml:"voxtral_model"`
	SpeakQuestions    bool   `toml:"speak_questions"`
	SynthesizerBinary string `toml:"synthesizer_binary"`
	Voice             string `toml:"voice"`
}

// Interview contains session shape defaults.
type Interview struct {
	DefaultRole          string `toml:"default_role"`
	DefaultType          string `toml:"default_type"`
	QuestionsPerSession  int    `toml:"questions_per_session"`
	AnswerTimeoutSeconds int    `toml:"answer_timeout_seconds"`
	FollowUpsEnabled     bool   `toml:"follow_ups_enabled"`
	MaxEvalAttempts      int    `toml:"max_eval_attempts"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic           string `toml:"ntfy_topic"`
	RequestTimeout      int    `toml:"request_timeout"`
	SessionReady        bool   `toml:"session_ready"`
	InterviewComplete   bool   `toml:"interview_complete"`
	ReportReady         bool   `toml:"report_ready"`
	Queue               bool   `toml:"queue"`
	Review              bool   `toml:"review"`
	Errors              bool   `toml:"errors"`
	MinInterviewSeconds int    `toml:"min_interview_seconds"`
	QueueMinItems       int    `toml:"queue_min_items"`
	DedupWindowSeconds  int    `toml:"dedup_window_seconds"`
}

// Workflow contains configuration for daemon timing and intervals.
type Workflow struct {
	QueuePollInterval   int `toml:"queue_poll_interval"`
	ErrorRetryInterval  int `toml:"error_retry_interval"`
	HeartbeatInterval   int `toml:"heartbeat_interval"`
	HeartbeatTimeout    int `toml:"heartbeat_timeout"`
	SoundMonitorTimeout int `toml:"sound_monitor_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format         string            `toml:"format"`
	Level          string            `toml:"level"`
	RetentionDays  int               `toml:"retention_days"`
	StageOverrides map[string]string `toml:"stage_overrides"`
}

// Config encapsulates all configuration values for Greenroom.
//
// Configuration sections by subsystem:
//   - Paths: directories and API bind address
//   - Oracle: generative endpoint for questions and answer evaluation
//   - Speech: microphone capture, transcription, and question read-out
//   - Interview: session shape (role, question count, timeouts, follow-ups)
//   - Notifications: ntfy push notification settings
//   - Workflow: daemon polling intervals and timeouts
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Oracle        Oracle        `toml:"oracle"`
	Speech        Speech        `toml:"speech"`
	Interview     Interview     `toml:"interview"`
	Notifications Notifications `toml:"notifications"`
	Workflow      Workflow      `toml:"workflow"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/greenroom/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	loadDotEnv(resolvedPath)

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/greenroom/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("greenroom.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// loadDotEnv reads .env files so the env fallbacks in normalize see their
// values. Real environment variables always win; godotenv never overrides.
func loadDotEnv(configPath string) {
	candidates := []string{".env"}
	if dir := filepath.Dir(configPath); dir != "" && dir != "." {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			_ = godotenv.Load(candidate)
		}
	}
}

// EnsureDirectories creates required directories for daemon operation.
// ReportsDir is created on a best-effort basis so the daemon can run when
// the report destination is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.WorkDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.ReportsDir) != "" {
		// Best-effort to avoid failing config load when storage is offline.
		_ = os.MkdirAll(c.Paths.ReportsDir, 0o755)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultWorkDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "greenroom", "audio")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/greenroom/audio"
	}
	return filepath.Join(home, ".cache", "greenroom", "audio")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// OracleConfig contains the oracle connection settings consumed by clients.
type OracleConfig struct {
	Provider       string
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
	MaxAttempts    int
}

// GetOracle returns the oracle connection settings.
func (c *Config) GetOracle() OracleConfig {
	return OracleConfig{
		Provider:       strings.TrimSpace(c.Oracle.Provider),
		APIKey:         strings.TrimSpace(c.Oracle.APIKey),
		BaseURL:        strings.TrimSpace(c.Oracle.BaseURL),
		Model:          strings.TrimSpace(c.Oracle.Model),
		Referer:        strings.TrimSpace(c.Oracle.Referer),
		Title:          strings.TrimSpace(c.Oracle.Title),
		TimeoutSeconds: c.Oracle.TimeoutSeconds,
		MaxAttempts:    c.Oracle.MaxAttempts,
	}
}

// OracleConfigured reports whether an oracle credential is available. The
// interview falls back to offline question banks and heuristic evaluation
// when it is not.
func (c *Config) OracleConfigured() bool {
	return strings.TrimSpace(c.Oracle.APIKey) != ""
}
