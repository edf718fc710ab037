package workflow

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"greenroom/internal/config"
	"greenroom/internal/logging"
	"greenroom/internal/session"
)

// SessionLogger manages dedicated log files for per-session processing.
type SessionLogger struct {
	baseDir string
	hub     *logging.StreamHub
	cfg     *config.Config
}

// NewSessionLogger creates a new session logger.
func NewSessionLogger(cfg *config.Config, hub *logging.StreamHub) *SessionLogger {
	dir := ""
	if cfg != nil && cfg.Paths.LogDir != "" {
		dir = filepath.Join(cfg.Paths.LogDir, "sessions")
	}
	return &SessionLogger{
		baseDir: dir,
		hub:     hub,
		cfg:     cfg,
	}
}

// Ensure prepares the log directory and file path for a session.
func (b *SessionLogger) Ensure(sess *session.Session) (string, bool, error) {
	if sess == nil {
		return "", false, fmt.Errorf("session is nil")
	}
	if strings.TrimSpace(b.baseDir) == "" {
		return "", false, fmt.Errorf("session log directory not configured")
	}
	created := false
	if strings.TrimSpace(sess.SessionLogPath) == "" {
		filename := b.filename(sess)
		if filename == "" {
			filename = fmt.Sprintf("session-%d.log", sess.ID)
		}
		sess.SessionLogPath = filepath.Join(b.baseDir, filename)
		created = true
	}
	if err := os.MkdirAll(filepath.Dir(sess.SessionLogPath), 0o755); err != nil {
		return "", false, fmt.Errorf("ensure session log directory: %w", err)
	}
	return sess.SessionLogPath, created, nil
}

// CreateHandler builds a slog.Handler writing to the specified path. Every
// record is stamped with the session token so lines stay attributable after
// the stream hub fans them out.
func (b *SessionLogger) CreateHandler(path, token string) (slog.Handler, error) {
	level := "info"
	format := "json"
	if b.cfg != nil {
		if strings.TrimSpace(b.cfg.Logging.Level) != "" {
			level = b.cfg.Logging.Level
		}
		if strings.TrimSpace(b.cfg.Logging.Format) != "" {
			format = b.cfg.Logging.Format
		}
	}
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           format,
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{path},
		Development:      false,
		// Session logs write to per-session files, but still publish to the
		// daemon stream so users can follow progress via the log API and
		// `greenroom show --follow`.
		Stream: b.hub,
	})
	if err != nil {
		return nil, err
	}
	handler := logger.Handler()
	if token = strings.TrimSpace(token); token != "" {
		handler = logging.WithSessionToken(handler, token)
	}
	return handler, nil
}

func (b *SessionLogger) filename(sess *session.Session) string {
	timestamp := time.Now().UTC().Format("20060102T150405")
	token := strings.TrimSpace(sess.Token)
	if token == "" {
		token = fmt.Sprintf("session-%d", sess.ID)
	}
	role := sanitizeSlug(sess.Role)
	if role == "" {
		role = "interview"
	}
	return fmt.Sprintf("%s-%s-%s.log", timestamp, token, role)
}

func sanitizeSlug(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	var builder strings.Builder
	builder.Grow(len(value))
	lastDash := false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
			lastDash = false
		case r >= 'A' && r <= 'Z':
			builder.WriteRune(unicode.ToLower(r))
			lastDash = false
		case unicode.IsDigit(r):
			builder.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				builder.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(builder.String(), "-")
	if slug == "" {
		return ""
	}
	return slug
}
