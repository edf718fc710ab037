package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSessionTokenHandler(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewJSONHandler(&buf, nil)
	handler := newSessionTokenHandler(base, "token-123")

	logger := slog.New(handler)
	logger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, `"session_token":"token-123"`) {
		t.Errorf("expected session_token in output, got: %s", output)
	}
}

func TestSessionTokenHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewJSONHandler(&buf, nil)
	handler := newSessionTokenHandler(base, "token-abc")

	logger := slog.New(handler).With("extra", "value")
	logger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, `"session_token":"token-abc"`) {
		t.Errorf("expected session_token in output, got: %s", output)
	}
	if !strings.Contains(output, `"extra":"value"`) {
		t.Errorf("expected extra attr in output, got: %s", output)
	}
}

func TestSessionTokenHandler_NilBase(t *testing.T) {
	handler := newSessionTokenHandler(nil, "token-123")
	if _, ok := handler.(NoopHandler); !ok {
		t.Errorf("expected NoopHandler when base is nil, got: %T", handler)
	}
}
