package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"greenroom/internal/config"
	"greenroom/internal/logging"
	"greenroom/internal/notifications"
	"greenroom/internal/session"
)

// Manager coordinates session processing using registered stage handlers.
type Manager struct {
	cfg          *config.Config
	store        *session.Store
	logger       *slog.Logger
	pollInterval time.Duration
	notifier     notifications.Service

	heartbeat   *HeartbeatMonitor
	sessionLogs *SessionLogger

	lanes     map[laneKind]*laneState
	laneOrder []laneKind

	mu          sync.RWMutex
	running     bool
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	lastErr     error
	lastSession *session.Session

	queueActive bool
	queueStart  time.Time
}

// NewManager constructs a new workflow manager.
func NewManager(cfg *config.Config, store *session.Store, logger *slog.Logger) *Manager {
	return NewManagerWithOptions(cfg, store, logger, notifications.NewService(cfg), nil)
}

// NewManagerWithNotifier constructs a workflow manager with a custom notifier (used in tests).
func NewManagerWithNotifier(cfg *config.Config, store *session.Store, logger *slog.Logger, notifier notifications.Service) *Manager {
	return NewManagerWithOptions(cfg, store, logger, notifier, nil)
}

// NewManagerWithOptions constructs a workflow manager with full configuration.
func NewManagerWithOptions(cfg *config.Config, store *session.Store, logger *slog.Logger, notifier notifications.Service, logHub *logging.StreamHub) *Manager {
	return &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logger,
		notifier:     notifier,
		pollInterval: time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		heartbeat: NewHeartbeatMonitor(
			store,
			logger,
			time.Duration(cfg.Workflow.HeartbeatInterval)*time.Second,
			time.Duration(cfg.Workflow.HeartbeatTimeout)*time.Second,
		),
		sessionLogs: NewSessionLogger(cfg, logHub),
		lanes:       make(map[laneKind]*laneState),
	}
}
