package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"greenroom/internal/config"
	"greenroom/internal/daemon"
	"greenroom/internal/interview"
	"greenroom/internal/ipc"
	"greenroom/internal/logging"
	"greenroom/internal/notifications"
	"greenroom/internal/oracle"
	"greenroom/internal/session"
	"greenroom/internal/speech"
	"greenroom/internal/workflow"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
	Diagnostic  bool
}

// Run starts the greenroom daemon runtime loop.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("greenroom-%s.log", runID))
	eventsPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("greenroom-%s.events", runID))
	logHub := logging.NewStreamHub(4096)
	eventArchive, archiveErr := logging.NewEventArchive(eventsPath)
	if archiveErr != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to initialize log archive: %v\n", archiveErr)
	} else if eventArchive != nil {
		logHub.AddSink(eventArchive)
	}

	var diagSessionID string
	var debugLogPath string
	if opts.Diagnostic {
		diagSessionID = uuid.NewString()
		debugDir := filepath.Join(cfg.Paths.LogDir, "debug")
		if err := os.MkdirAll(debugDir, 0o755); err != nil {
			return fmt.Errorf("create debug log directory: %w", err)
		}
		debugLogPath = filepath.Join(debugDir, fmt.Sprintf("greenroom-%s.log", runID))
	}

	loggerOpts := logging.Options{
		Level:            opts.LogLevel,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
		Development:      opts.Development,
		Stream:           logHub,
		SessionID:        diagSessionID,
	}
	logger, err := logging.New(loggerOpts)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if opts.Diagnostic {
		debugLogger, debugErr := logging.New(logging.Options{
			Level:            "debug",
			Format:           "json",
			OutputPaths:      []string{debugLogPath},
			ErrorOutputPaths: []string{debugLogPath},
			Development:      true,
			SessionID:        diagSessionID,
		})
		if debugErr != nil {
			fmt.Fprintf(os.Stderr, "warn: unable to initialize debug logger: %v\n", debugErr)
		} else {
			logger = logging.TeeLogger(logger, debugLogger.Handler())
			if err := ensureCurrentLogPointer(filepath.Join(cfg.Paths.LogDir, "debug"), debugLogPath); err != nil {
				fmt.Fprintf(os.Stderr, "warn: unable to update debug/greenroom.log link: %v\n", err)
			}
		}
		logger.Info("diagnostic mode enabled",
			logging.String(logging.FieldEventType, "diagnostic_mode_enabled"),
			logging.String("debug_log_path", debugLogPath),
		)
	}

	logDependencySnapshot(logger, cfg)
	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update greenroom.log link: %v\n", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "greenroom-*.log", Exclude: []string{logPath}},
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "greenroom-*.events", Exclude: []string{eventsPath}},
		logging.RetentionTarget{Dir: filepath.Join(cfg.Paths.LogDir, "debug"), Pattern: "*.log", Exclude: []string{debugLogPath}},
	)
	pidPath := filepath.Join(cfg.Paths.LogDir, "greenroom.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := session.Open(cfg)
	if err != nil {
		logger.Error("open session store", logging.Error(err))
		return err
	}
	defer store.Close()

	notifier := notifications.NewService(cfg)
	workflowManager := workflow.NewManagerWithOptions(cfg, store, logger, notifier, logHub)
	registerStages(workflowManager, cfg, store, logger, notifier)

	d, err := daemon.New(cfg, store, logger, workflowManager, logPath, logHub, eventArchive, notifier)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	socketPath := filepath.Join(cfg.Paths.LogDir, "greenroom.sock")
	ipcServer, err := ipc.NewServer(signalCtx, socketPath, d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		logger.Warn("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
			logging.String(logging.FieldErrorHint, "check configuration and session database access"),
			logging.String(logging.FieldImpact, "daemon may not process interview sessions"),
		)
	}

	<-signalCtx.Done()
	logger.Info("greenroom daemon shutting down")
	return nil
}

func registerStages(mgr *workflow.Manager, cfg *config.Config, store *session.Store, logger *slog.Logger, notifier notifications.Service) {
	if mgr == nil || cfg == nil {
		return
	}

	var oracleClient *oracle.Oracle
	client, err := oracle.New(oracle.SettingsFromConfig(cfg.GetOracle()), oracle.WithLogger(logger))
	if err != nil {
		logger.Warn("oracle client unavailable, using offline question bank",
			logging.Error(err),
			logging.String(logging.FieldEventType, "oracle_init_failed"),
		)
	} else {
		oracleClient = client
	}

	var speechSvc *speech.Service
	if cfg.Speech.CaptureEnabled {
		svc, speechErr := speech.NewService(cfg.Speech, logger)
		if speechErr != nil {
			logger.Warn("speech capture unavailable, falling back to typed answers",
				logging.Error(speechErr),
				logging.String(logging.FieldEventType, "speech_init_failed"),
			)
		} else {
			speechSvc = svc
		}
	}

	mgr.ConfigureStages(workflow.StageSet{
		Preparer:    interview.NewPreparer(cfg, store, oracleClient, logger, notifier),
		Interviewer: interview.NewInterviewer(cfg, store, oracleClient, speechSvc, logger, notifier),
		Reporter:    interview.NewReporter(cfg, store, logger, notifier),
	})
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "greenroom.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	recorder := cfg.Speech.RecorderBinary
	whisper := cfg.Speech.WhisperBinary
	synthesizer := cfg.Speech.SynthesizerBinary
	logger.Info("dependency snapshot",
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.Bool("oracle_key_present", cfg.OracleConfigured()),
		logging.String("oracle_provider", strings.TrimSpace(cfg.Oracle.Provider)),
		logging.Bool("capture_enabled", cfg.Speech.CaptureEnabled),
		logging.Bool("recorder_available", binaryAvailable(recorder)),
		logging.String("recorder_binary", recorder),
		logging.String("transcriber", strings.TrimSpace(cfg.Speech.Transcriber)),
		logging.Bool("whisper_available", binaryAvailable(whisper)),
		logging.String("whisper_binary", whisper),
		logging.Bool("voxtral_key_present", strings.TrimSpace(cfg.Speech.VoxtralAPIKey) != ""),
		logging.Bool("synthesizer_available", binaryAvailable(synthesizer)),
		logging.String("synthesizer_binary", synthesizer),
	)
}

func binaryAvailable(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}
