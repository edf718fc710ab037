package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sort"
	"sync"
	"time"

	"log/slog"

	"greenroom/internal/api"
	"greenroom/internal/daemon"
	"greenroom/internal/logging"
	"greenroom/internal/logs"
	"greenroom/internal/session"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Greenroom", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldImpact, "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "Check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldImpact, "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "Remove the socket file manually or rerun greenroom stop"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func convertSessionItem(item *api.SessionItem) *SessionItem {
	if item == nil {
		return nil
	}
	si := SessionItem(*item)
	return &si
}

func (s *service) Ping(_ PingRequest, resp *PingResponse) error {
	resp.Alive = true
	return nil
}

func (s *service) Start(_ StartRequest, resp *StartResponse) error {
	s.log().Debug("daemon start requested")
	if err := s.daemon.Start(s.ctx); err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.Message = "daemon started"
	s.log().Info("daemon started via IPC",
		logging.String(logging.FieldEventType, "daemon_start"))
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via IPC",
		logging.String(logging.FieldEventType, "daemon_stop"))
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.SessionDBPath = status.SessionDBPath
	resp.LockPath = status.LockFilePath
	resp.AudioCaptureReady = status.AudioCaptureReady
	resp.PID = status.PID
	resp.SessionStats = make(map[string]int, len(status.Workflow.SessionStats))
	for k, v := range status.Workflow.SessionStats {
		resp.SessionStats[string(k)] = v
	}
	resp.LastError = status.Workflow.LastError
	if status.Workflow.LastSession != nil {
		item := api.FromSession(status.Workflow.LastSession)
		resp.LastSession = convertSessionItem(&item)
	}
	if len(status.Workflow.StageHealth) > 0 {
		resp.StageHealth = make([]StageHealth, 0, len(status.Workflow.StageHealth))
		names := make([]string, 0, len(status.Workflow.StageHealth))
		for name := range status.Workflow.StageHealth {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			health := status.Workflow.StageHealth[name]
			resp.StageHealth = append(resp.StageHealth, StageHealth{
				Name:   name,
				Ready:  health.Ready,
				Detail: health.Detail,
			})
		}
	}
	if len(status.Dependencies) > 0 {
		resp.Dependencies = make([]DependencyStatus, 0, len(status.Dependencies))
		for _, dep := range status.Dependencies {
			resp.Dependencies = append(resp.Dependencies, DependencyStatus{
				Name:        dep.Name,
				Command:     dep.Command,
				Description: dep.Description,
				Optional:    dep.Optional,
				Available:   dep.Available,
				Detail:      dep.Detail,
			})
		}
	}
	return nil
}

func (s *service) SessionList(req SessionListRequest, resp *SessionListResponse) error {
	statuses := make([]session.Status, 0, len(req.Statuses))
	for _, status := range req.Statuses {
		parsed, ok := session.ParseStatus(status)
		if !ok {
			continue
		}
		statuses = append(statuses, parsed)
	}
	sessions, err := s.daemon.ListSessions(s.ctx, statuses)
	if err != nil {
		return err
	}
	resp.Items = make([]SessionItem, 0, len(sessions))
	for _, sess := range sessions {
		if sess == nil {
			continue
		}
		dto := api.FromSession(sess)
		if si := convertSessionItem(&dto); si != nil {
			resp.Items = append(resp.Items, *si)
		}
	}
	return nil
}

func (s *service) SessionDescribe(req SessionDescribeRequest, resp *SessionDescribeResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid session id %d", req.ID)
	}
	sess, err := s.daemon.GetSession(s.ctx, req.ID)
	if err != nil {
		return err
	}
	if sess == nil {
		// Missing sessions are reported in-band so callers can implement
		// per-id outcomes without parsing error strings.
		resp.Found = false
		return nil
	}
	resp.Found = true
	dto := api.FromSession(sess)
	if si := convertSessionItem(&dto); si != nil {
		resp.Item = *si
	}
	records, err := s.daemon.SessionAnswers(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Answers = api.FromAnswerRecords(records)
	return nil
}

func (s *service) SessionCreate(req SessionCreateRequest, resp *SessionCreateResponse) error {
	s.log().Debug("session create requested",
		logging.String("role", req.Role),
		logging.String("interview_type", req.InterviewType))
	sess, err := s.daemon.CreateSession(s.ctx, req.Role, req.InterviewType, req.Questions)
	if err != nil {
		return err
	}
	dto := api.FromSession(sess)
	if si := convertSessionItem(&dto); si != nil {
		resp.Item = *si
	}
	return nil
}

func (s *service) SessionAnswer(req SessionAnswerRequest, resp *SessionAnswerResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid session id %d", req.ID)
	}
	if err := s.daemon.SubmitAnswer(s.ctx, req.ID, req.Text); err != nil {
		return err
	}
	resp.Accepted = true
	s.log().Info("typed answer accepted",
		logging.String(logging.FieldEventType, "session_answer"),
		logging.Int64(logging.FieldSessionID, req.ID))
	return nil
}

func (s *service) SessionCancel(req SessionCancelRequest, resp *SessionCancelResponse) error {
	if len(req.IDs) == 0 {
		return errors.New("session cancel requires at least one id")
	}
	s.log().Debug("session cancel requested", logging.Int("session_count", len(req.IDs)))
	updated, err := s.daemon.CancelSessions(s.ctx, req.IDs)
	if err != nil {
		return err
	}
	resp.Updated = updated
	s.log().Info("sessions stopped",
		logging.String(logging.FieldEventType, "session_cancel"),
		logging.Int64("updated_count", updated))
	return nil
}

func (s *service) SessionRetry(req SessionRetryRequest, resp *SessionRetryResponse) error {
	s.log().Debug("session retry requested", logging.Int("session_count", len(req.IDs)))
	updated, err := s.daemon.RetryFailed(s.ctx, req.IDs)
	if err != nil {
		return err
	}
	resp.Updated = updated
	s.log().Info("sessions retried",
		logging.String(logging.FieldEventType, "session_retry"),
		logging.Int64("updated_count", updated))
	return nil
}

func (s *service) SessionClear(_ SessionClearRequest, resp *SessionClearResponse) error {
	s.log().Debug("session clear requested")
	removed, err := s.daemon.ClearSessions(s.ctx)
	if err != nil {
		return err
	}
	resp.Removed = removed
	s.log().Info("sessions cleared",
		logging.String(logging.FieldEventType, "session_clear"),
		logging.Int64("removed_count", removed))
	return nil
}

func (s *service) ClearCompleted(_ SessionClearCompletedRequest, resp *SessionClearCompletedResponse) error {
	s.log().Debug("clear completed requested")
	removed, err := s.daemon.ClearCompleted(s.ctx)
	if err != nil {
		return err
	}
	resp.Removed = removed
	s.log().Info("completed sessions cleared",
		logging.String(logging.FieldEventType, "session_clear_completed"),
		logging.Int64("removed_count", removed))
	return nil
}

func (s *service) ClearFailed(_ SessionClearFailedRequest, resp *SessionClearFailedResponse) error {
	s.log().Debug("clear failed requested")
	removed, err := s.daemon.ClearFailed(s.ctx)
	if err != nil {
		return err
	}
	resp.Removed = removed
	s.log().Info("failed sessions cleared",
		logging.String(logging.FieldEventType, "session_clear_failed"),
		logging.Int64("removed_count", removed))
	return nil
}

func (s *service) ResetStuck(_ SessionResetRequest, resp *SessionResetResponse) error {
	s.log().Debug("reset stuck requested")
	updated, err := s.daemon.ResetStuck(s.ctx)
	if err != nil {
		return err
	}
	resp.Updated = updated
	s.log().Info("stuck sessions reset",
		logging.String(logging.FieldEventType, "session_reset_stuck"),
		logging.Int64("updated_count", updated))
	return nil
}

func (s *service) SessionHealth(_ SessionHealthRequest, resp *SessionHealthResponse) error {
	health, err := s.daemon.SessionHealth(s.ctx)
	if err != nil {
		return err
	}
	resp.Total = health.Total
	resp.Pending = health.Pending
	resp.Processing = health.Processing
	resp.Failed = health.Failed
	resp.Review = health.Review
	resp.Completed = health.Completed
	return nil
}

func (s *service) DatabaseHealth(_ DatabaseHealthRequest, resp *DatabaseHealthResponse) error {
	health, err := s.daemon.DatabaseHealth(s.ctx)
	if err != nil && health.Error == "" {
		return err
	}
	resp.DBPath = health.DBPath
	resp.DatabaseExists = health.DatabaseExists
	resp.DatabaseReadable = health.DatabaseReadable
	resp.SchemaVersion = health.SchemaVersion
	resp.TableExists = health.TableExists
	resp.ColumnsPresent = append(resp.ColumnsPresent, health.ColumnsPresent...)
	resp.MissingColumns = append(resp.MissingColumns, health.MissingColumns...)
	resp.IntegrityCheck = health.IntegrityCheck
	resp.TotalSessions = health.TotalSessions
	resp.Error = health.Error
	if err != nil {
		return err
	}
	return nil
}

func (s *service) Preflight(_ PreflightRequest, resp *PreflightResponse) error {
	results := s.daemon.Preflight(s.ctx)
	resp.Results = make([]PreflightResult, 0, len(results))
	for _, result := range results {
		resp.Results = append(resp.Results, PreflightResult{
			Name:   result.Name,
			Passed: result.Passed,
			Detail: result.Detail,
		})
	}
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}

func (s *service) LogTail(req LogTailRequest, resp *LogTailResponse) error {
	logPath := s.daemon.LogPath()
	if logPath == "" {
		resp.Offset = 0
		return nil
	}
	wait := time.Duration(req.WaitMillis) * time.Millisecond
	if wait <= 0 && req.Follow {
		wait = time.Second
	}
	options := logs.TailOptions{
		Offset: req.Offset,
		Limit:  req.Limit,
		Follow: req.Follow,
		Wait:   wait,
	}
	ctx := s.ctx
	if req.Follow && wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, wait+500*time.Millisecond)
		defer cancel()
	}
	result, err := logs.Tail(ctx, logPath, options)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			resp.Offset = result.Offset
			return nil
		}
		return err
	}
	resp.Lines = result.Lines
	resp.Offset = result.Offset
	return nil
}
