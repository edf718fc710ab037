package stage

import (
	"context"
	"log/slog"

	"greenroom/internal/session"
)

// Handler describes the contract the workflow manager needs from each stage.
type Handler interface {
	Prepare(context.Context, *session.Session) error
	Execute(context.Context, *session.Session) error
	HealthCheck(context.Context) Health
}

// LoggerAware is implemented by handlers that want the stage-scoped logger
// for the session they are processing.
type LoggerAware interface {
	SetLogger(*slog.Logger)
}
