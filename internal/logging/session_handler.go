package logging

import (
	"context"
	"log/slog"
)

// FieldSessionToken is the standardized structured logging key for session UUID tokens.
const FieldSessionToken = "session_token"

// sessionTokenHandler wraps another handler to inject a session_token attribute into all records.
type sessionTokenHandler struct {
	base  slog.Handler
	token string
}

func newSessionTokenHandler(base slog.Handler, token string) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	return &sessionTokenHandler{
		base:  base,
		token: token,
	}
}

// WithSessionToken returns a handler that stamps every record with the session token.
// The workflow manager uses it to build per-interview log files that stay
// attributable after fanout.
func WithSessionToken(base slog.Handler, token string) slog.Handler {
	return newSessionTokenHandler(base, token)
}

func (h *sessionTokenHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *sessionTokenHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(slog.String(FieldSessionToken, h.token))
	return h.base.Handle(ctx, record)
}

func (h *sessionTokenHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sessionTokenHandler{
		base:  h.base.WithAttrs(attrs),
		token: h.token,
	}
}

func (h *sessionTokenHandler) WithGroup(name string) slog.Handler {
	return &sessionTokenHandler{
		base:  h.base.WithGroup(name),
		token: h.token,
	}
}
