package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"greenroom/internal/config"
)

func clearOracleEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GREENROOM_ORACLE_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultConfigUsesEnvOracleKeyAndExpandsPaths(t *testing.T) {
	clearOracleEnv(t)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("XDG_CACHE_HOME", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "greenroom")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.ReportsDir != filepath.Join(tempHome, "greenroom", "reports") {
		t.Fatalf("unexpected reports dir: %q", cfg.Paths.ReportsDir)
	}
	if cfg.Paths.WorkDir != filepath.Join(tempHome, ".cache", "greenroom", "audio") {
		t.Fatalf("unexpected work dir: %q", cfg.Paths.WorkDir)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7317" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Oracle.APIKey != "test-key" {
		t.Fatalf("expected oracle key from env, got %q", cfg.Oracle.APIKey)
	}
	if !cfg.OracleConfigured() {
		t.Fatal("expected oracle to be configured")
	}
	if cfg.Oracle.BaseURL != config.Default().Oracle.BaseURL {
		t.Fatalf("unexpected oracle base url: %q", cfg.Oracle.BaseURL)
	}
	if cfg.Oracle.Model != "gemini-2.0-flash" {
		t.Fatalf("unexpected oracle model: %q", cfg.Oracle.Model)
	}
	if !cfg.Speech.CaptureEnabled {
		t.Fatal("expected speech capture enabled by default")
	}
	if cfg.Speech.CaptureSeconds != 120 {
		t.Fatalf("unexpected capture cap: %d", cfg.Speech.CaptureSeconds)
	}
	if cfg.Speech.Transcriber != "whisper" {
		t.Fatalf("expected whisper transcriber default, got %q", cfg.Speech.Transcriber)
	}
	if cfg.Speech.VoxtralAPIKey != "" {
		t.Fatalf("expected Voxtral key to be empty by default, got %q", cfg.Speech.VoxtralAPIKey)
	}
	if cfg.Interview.QuestionsPerSession != 6 {
		t.Fatalf("unexpected question count: %d", cfg.Interview.QuestionsPerSession)
	}
	if !cfg.Interview.FollowUpsEnabled {
		t.Fatal("expected follow-ups enabled by default")
	}
	if cfg.Interview.DefaultRole != "Software Engineer" {
		t.Fatalf("unexpected default role: %q", cfg.Interview.DefaultRole)
	}
	if cfg.Workflow.HeartbeatInterval != config.Default().Workflow.HeartbeatInterval {
		t.Fatalf("unexpected heartbeat interval: %d", cfg.Workflow.HeartbeatInterval)
	}
	if cfg.Workflow.HeartbeatTimeout != config.Default().Workflow.HeartbeatTimeout {
		t.Fatalf("unexpected heartbeat timeout: %d", cfg.Workflow.HeartbeatTimeout)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.WorkDir, cfg.Paths.ReportsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearOracleEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "greenroom.toml")

	type payload struct {
		Oracle struct {
			APIKey string `toml:"api_key"`
			Model  string `toml:"model"`
		} `toml:"oracle"`
		Interview struct {
			DefaultRole         string `toml:"default_role"`
			QuestionsPerSession int    `toml:"questions_per_session"`
		} `toml:"interview"`
		Workflow struct {
			HeartbeatInterval int `toml:"heartbeat_interval"`
			HeartbeatTimeout  int `toml:"heartbeat_timeout"`
		} `toml:"workflow"`
	}
	custom := payload{}
	custom.Oracle.APIKey = "abc123"
	custom.Oracle.Model = "gemini-2.0-pro"
	custom.Interview.DefaultRole = "Data Scientist"
	custom.Interview.QuestionsPerSession = 4
	custom.Workflow.HeartbeatInterval = 20
	custom.Workflow.HeartbeatTimeout = 200
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Oracle.APIKey != "abc123" {
		t.Fatalf("expected oracle key from file, got %q", cfg.Oracle.APIKey)
	}
	if cfg.Oracle.Model != "gemini-2.0-pro" {
		t.Fatalf("expected oracle model override, got %q", cfg.Oracle.Model)
	}
	if cfg.Interview.DefaultRole != "Data Scientist" {
		t.Fatalf("expected default role override, got %q", cfg.Interview.DefaultRole)
	}
	if cfg.Interview.QuestionsPerSession != 4 {
		t.Fatalf("expected 4 questions, got %d", cfg.Interview.QuestionsPerSession)
	}
	if cfg.Workflow.HeartbeatInterval != 20 {
		t.Fatalf("expected heartbeat interval 20, got %d", cfg.Workflow.HeartbeatInterval)
	}
	if cfg.Workflow.HeartbeatTimeout != 200 {
		t.Fatalf("expected heartbeat timeout 200, got %d", cfg.Workflow.HeartbeatTimeout)
	}
}

func TestEnvVarOverridesConfigFileForAPIKeys(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "greenroom.toml")

	type payload struct {
		Paths struct {
			APIToken string `toml:"api_token"`
		} `toml:"paths"`
		Oracle struct {
			APIKey string `toml:"api_key"`
		} `toml:"oracle"`
		Speech struct {
			VoxtralAPIKey string `toml:"voxtral_api_key"`
		} `toml:"speech"`
	}
	custom := payload{}
	custom.Paths.APIToken = "file-token"
	custom.Oracle.APIKey = "file-oracle"
	custom.Speech.VoxtralAPIKey = "file-voxtral"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	t.Setenv("GREENROOM_API_TOKEN", "env-token")
	t.Setenv("GEMINI_API_KEY", "env-oracle")
	t.Setenv("VOXTRAL_API_KEY", "env-voxtral")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Paths.APIToken != "env-token" {
		t.Errorf("expected API token from env, got %q", cfg.Paths.APIToken)
	}
	if cfg.Oracle.APIKey != "env-oracle" {
		t.Errorf("expected oracle key from env, got %q", cfg.Oracle.APIKey)
	}
	if cfg.Speech.VoxtralAPIKey != "env-voxtral" {
		t.Errorf("expected Voxtral key from env, got %q", cfg.Speech.VoxtralAPIKey)
	}
}

func TestDotEnvFileSuppliesOracleKey(t *testing.T) {
	clearOracleEnv(t)
	// godotenv only sets variables that are absent, so drop the sentinel
	// values installed above; t.Setenv already registered the restores.
	for _, key := range []string{"GREENROOM_ORACLE_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		os.Unsetenv(key)
	}

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "greenroom.toml")
	envPath := filepath.Join(tempDir, ".env")
	if err := os.WriteFile(envPath, []byte("GEMINI_API_KEY=dotenv-key\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, _, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent")
	}
	if cfg.Oracle.APIKey != "dotenv-key" {
		t.Fatalf("expected oracle key from .env, got %q", cfg.Oracle.APIKey)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your_gemini_api_key_here") {
		t.Fatalf("sample config missing placeholder oracle key: %s", contents)
	}

	// Validate it decodes
	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}

	// On Windows join uses backslashes; skip path expectation specifics when running there to avoid
	// differences in drive letters during CI.
	if runtime.GOOS != "windows" {
		if !strings.Contains(cfg.Paths.DataDir, "greenroom") {
			t.Fatalf("expected data dir to contain greenroom, got %q", cfg.Paths.DataDir)
		}
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Speech.CaptureSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive capture cap")
	}

	cfg = config.Default()
	cfg.Workflow.HeartbeatInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for heartbeat interval")
	}

	cfg = config.Default()
	cfg.Workflow.HeartbeatTimeout = cfg.Workflow.HeartbeatInterval
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when timeout <= interval")
	}

	cfg = config.Default()
	cfg.Oracle.Provider = "openai"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported oracle provider")
	}

	cfg = config.Default()
	cfg.Speech.Transcriber = "voxtral"
	cfg.Speech.VoxtralURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when voxtral transcriber has no URL")
	}

	cfg = config.Default()
	cfg.Interview.QuestionsPerSession = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero questions per session")
	}

	cfg = config.Default()
	cfg.Interview.AnswerTimeoutSeconds = cfg.Speech.CaptureSeconds - 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when answer timeout is below capture cap")
	}

	cfg = config.Default()
	cfg.Interview.DefaultType = "casual"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported interview type")
	}
}

func TestValidateAllowsMissingOracleKey(t *testing.T) {
	cfg := config.Default()
	cfg.Oracle.APIKey = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected config without oracle key to validate, got %v", err)
	}
	if cfg.OracleConfigured() {
		t.Fatal("expected OracleConfigured to be false")
	}
}
