package daemon

import (
	"context"
	"path"
	"strings"
	"sync"

	"log/slog"

	"github.com/pilebones/go-udev/netlink"

	"greenroom/internal/config"
	"greenroom/internal/logging"
	"greenroom/internal/preflight"
)

// soundMonitor listens for udev netlink events on the sound subsystem and
// flips audio capture readiness when devices arrive or disappear. Losing the
// netlink socket is non-fatal: the interviewer still probes the recorder
// directly before each capture.
type soundMonitor struct {
	cfg     *config.Config
	logger  *slog.Logger
	onReady func(bool)

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// newSoundMonitor creates a monitor for ALSA capture device hotplug events.
// Returns nil when microphone capture is disabled.
func newSoundMonitor(cfg *config.Config, logger *slog.Logger, onReady func(bool)) *soundMonitor {
	if cfg == nil || !cfg.Speech.CaptureEnabled {
		return nil
	}

	return &soundMonitor{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "sound-monitor"),
		onReady: onReady,
	}
}

// Start begins listening for udev netlink events.
func (m *soundMonitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; capture readiness will rely on per-question probes",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"),
			logging.String(logging.FieldErrorHint, "ensure the daemon has permission to access netlink sockets"),
			logging.String(logging.FieldImpact, "audio device hotplug detection unavailable"),
		)
		return nil // Non-fatal - capture still works if a device is present at start
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	// Pass quit channel to goroutine to avoid reading m.quit without lock
	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("sound monitor started",
		logging.String(logging.FieldEventType, "sound_monitor_started"),
		logging.String("input_device", m.cfg.Speech.InputDevice),
	)

	return nil
}

// Stop shuts down the sound monitor.
func (m *soundMonitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}

	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}

	m.running = false

	m.logger.Info("sound monitor stopped",
		logging.String(logging.FieldEventType, "sound_monitor_stopped"),
	)
}

// Running reports whether the sound monitor is active.
func (m *soundMonitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// monitorLoop reads netlink events and processes sound device changes.
func (m *soundMonitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	events := make(chan netlink.UEvent)
	errs := make(chan error)

	matcher := m.buildMatcher()

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()

	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(events, errs, matcher)

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-events:
			m.handleEvent(uevent)
		case err := <-errs:
			m.logger.Warn("sound monitor error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "sound_monitor_error"),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "audio hotplug detection may be affected"),
			)
		}
	}
}

// buildMatcher creates a matcher for sound subsystem add/remove events.
func (m *soundMonitor) buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "sound",
		},
	})
	return rules
}

// handleEvent processes a matched uevent.
func (m *soundMonitor) handleEvent(uevent netlink.UEvent) {
	node := extractSoundNode(uevent)
	if node == "" {
		return
	}
	if !isCaptureNode(node) {
		m.logger.Debug("ignoring non-capture sound node",
			logging.String("node", node),
			logging.String("action", string(uevent.Action)),
		)
		return
	}

	switch uevent.Action {
	case netlink.ADD:
		m.logger.Info("capture device attached",
			logging.String(logging.FieldEventType, "capture_device_attached"),
			logging.String("node", node),
		)
		if m.onReady != nil {
			m.onReady(true)
		}
	case netlink.REMOVE:
		// Another card may still provide capture, so re-probe instead of
		// declaring audio dead outright.
		probe := preflight.ProbeMicrophone(m.cfg.Speech.InputDevice)
		m.logger.Info("capture device removed",
			logging.String(logging.FieldEventType, "capture_device_removed"),
			logging.String("node", node),
			logging.Bool("capture_still_available", probe.Detected),
		)
		if m.onReady != nil {
			m.onReady(probe.Detected)
		}
	}
}

// extractSoundNode gets the device node name from a uevent.
func extractSoundNode(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return path.Base(devname)
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		devpath = uevent.KObj
	}
	if devpath == "" {
		return ""
	}
	return path.Base(devpath)
}

// isCaptureNode reports whether an ALSA node name refers to a capture stream.
// Capture PCM nodes are named pcmC<card>D<device>c; playback nodes end in p.
func isCaptureNode(node string) bool {
	if strings.HasPrefix(node, "pcmC") {
		return strings.HasSuffix(node, "c")
	}
	// Card-level nodes cover the whole device, capture streams included.
	return strings.HasPrefix(node, "card")
}
