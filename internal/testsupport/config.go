package testsupport

import (
	"path/filepath"
	"testing"

	"greenroom/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Speech capture and question read-out are disabled so tests never touch
// audio devices, and the oracle is left unconfigured (offline fallback).
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ReportsDir = filepath.Join(base, "reports")
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Oracle.APIKey = ""
	cfg.Speech.CaptureEnabled = false
	cfg.Speech.SpeakQuestions = false
	cfg.Notifications.NtfyTopic = ""

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithOracleKey configures an oracle credential on the test config.
func WithOracleKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Oracle.APIKey = key
	}
}

// WithCapture enables speech capture on the test config.
func WithCapture() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Speech.CaptureEnabled = true
	}
}
