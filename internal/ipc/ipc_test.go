package ipc_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"greenroom/internal/daemon"
	"greenroom/internal/ipc"
	"greenroom/internal/logging"
	"greenroom/internal/session"
	"greenroom/internal/stage"
	"greenroom/internal/testsupport"
	"greenroom/internal/workflow"
)

type noopStage struct{}

func (noopStage) Prepare(context.Context, *session.Session) error { return nil }
func (noopStage) Execute(context.Context, *session.Session) error { return nil }
func (noopStage) HealthCheck(context.Context) stage.Health {
	return stage.Healthy("noop")
}

func TestIPCServerClient(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	logPath := filepath.Join(cfg.Paths.LogDir, "ipc-test.log")
	logger := logging.NewNop()
	mgr := workflow.NewManager(cfg, store, logger)
	mgr.ConfigureStages(workflow.StageSet{Reporter: noopStage{}})
	d, err := daemon.New(cfg, store, logger, mgr, logPath, logging.NewStreamHub(128), nil, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	socket := filepath.Join(cfg.Paths.LogDir, "greenroom.sock")
	srv, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() {
		srv.Close()
	})

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	ping, err := client.Ping()
	if err != nil {
		t.Fatalf("Ping RPC failed: %v", err)
	}
	if !ping.Alive {
		t.Fatal("expected ping to report alive")
	}

	startResp, err := client.Start()
	if err != nil {
		t.Fatalf("Start RPC failed: %v", err)
	}
	if !startResp.Started {
		t.Fatalf("expected Started=true, message=%s", startResp.Message)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Running {
		t.Fatal("expected daemon to be running")
	}
	if status.PID <= 0 {
		t.Fatalf("expected pid in status, got %d", status.PID)
	}

	createResp, err := client.SessionCreate("Software Engineer", "technical", 3)
	if err != nil {
		t.Fatalf("SessionCreate failed: %v", err)
	}
	if createResp.Item.Status != string(session.StatusPending) {
		t.Fatalf("expected new session to be pending, got %s", createResp.Item.Status)
	}
	sessA := createResp.Item.ID

	createResp, err = client.SessionCreate("Data Engineer", "behavioral", 2)
	if err != nil {
		t.Fatalf("SessionCreate B failed: %v", err)
	}
	sessB := createResp.Item.ID

	if _, err := client.SessionCreate("Software Engineer", "stress", 3); err == nil {
		t.Fatal("expected error for unknown interview type")
	}

	failing, err := store.GetByID(ctx, sessB)
	if err != nil {
		t.Fatalf("GetByID sessB: %v", err)
	}
	failing.Status = session.StatusFailed
	if err := store.Update(ctx, failing); err != nil {
		t.Fatalf("Update sessB: %v", err)
	}

	listResp, err := client.SessionList(nil)
	if err != nil {
		t.Fatalf("SessionList failed: %v", err)
	}
	if len(listResp.Items) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(listResp.Items))
	}

	failedResp, err := client.SessionList([]string{string(session.StatusFailed)})
	if err != nil {
		t.Fatalf("SessionList failed filter: %v", err)
	}
	if len(failedResp.Items) != 1 || failedResp.Items[0].ID != sessB {
		t.Fatalf("expected failed session %d, got %#v", sessB, failedResp.Items)
	}

	describeResp, err := client.SessionDescribe(sessA)
	if err != nil {
		t.Fatalf("SessionDescribe failed: %v", err)
	}
	if describeResp.Item.Role != "Software Engineer" {
		t.Fatalf("unexpected describe payload: %+v", describeResp.Item)
	}
	if len(describeResp.Answers) != 0 {
		t.Fatalf("expected no answers yet, got %d", len(describeResp.Answers))
	}

	answerResp, err := client.SessionAnswer(sessA, "I would start by profiling the hot path.")
	if err != nil {
		t.Fatalf("SessionAnswer failed: %v", err)
	}
	if !answerResp.Accepted {
		t.Fatal("expected typed answer to be accepted")
	}

	retryResp, err := client.SessionRetry([]int64{sessB})
	if err != nil {
		t.Fatalf("SessionRetry failed: %v", err)
	}
	if retryResp.Updated != 1 {
		t.Fatalf("expected 1 retried session, got %d", retryResp.Updated)
	}

	cancelResp, err := client.SessionCancel([]int64{sessB})
	if err != nil {
		t.Fatalf("SessionCancel failed: %v", err)
	}
	if cancelResp.Updated != 1 {
		t.Fatalf("expected 1 cancelled session, got %d", cancelResp.Updated)
	}
	stopped, err := store.GetByID(ctx, sessB)
	if err != nil {
		t.Fatalf("GetByID stopped: %v", err)
	}
	if stopped.Status != session.StatusReview {
		t.Fatalf("expected stopped session in review, got %s", stopped.Status)
	}

	if _, err := client.SessionCancel(nil); err == nil {
		t.Fatal("expected error for empty cancel request")
	}

	healthResp, err := client.SessionHealth()
	if err != nil {
		t.Fatalf("SessionHealth failed: %v", err)
	}
	if healthResp.Total != 2 || healthResp.Review != 1 {
		t.Fatalf("unexpected health response: %#v", healthResp)
	}

	dbHealth, err := client.DatabaseHealth()
	if err != nil {
		t.Fatalf("DatabaseHealth failed: %v", err)
	}
	if !strings.HasSuffix(dbHealth.DBPath, "sessions.db") {
		t.Fatalf("unexpected db path: %s", dbHealth.DBPath)
	}

	preflightResp, err := client.Preflight()
	if err != nil {
		t.Fatalf("Preflight failed: %v", err)
	}
	if len(preflightResp.Results) == 0 {
		t.Fatal("expected preflight results")
	}

	notifyResp, err := client.TestNotification()
	if err != nil {
		t.Fatalf("TestNotification failed: %v", err)
	}
	if notifyResp == nil || notifyResp.Message == "" {
		t.Fatalf("expected notification message, got %#v", notifyResp)
	}

	if err := os.WriteFile(logPath, []byte("first\nsecond\nthird\n"), 0o644); err != nil {
		t.Fatalf("write log file: %v", err)
	}

	logResp, err := client.LogTail(ipc.LogTailRequest{Offset: -1, Limit: 2})
	if err != nil {
		t.Fatalf("LogTail initial failed: %v", err)
	}
	if len(logResp.Lines) != 2 || logResp.Lines[0] != "second" || logResp.Lines[1] != "third" {
		t.Fatalf("unexpected log tail response: %#v", logResp.Lines)
	}

	followDone := make(chan struct{})
	go func(offset int64) {
		resp, err := client.LogTail(ipc.LogTailRequest{Offset: offset, Follow: true, WaitMillis: 500})
		if err != nil {
			t.Errorf("LogTail follow error: %v", err)
			return
		}
		if len(resp.Lines) != 1 || resp.Lines[0] != "fourth" {
			t.Errorf("unexpected follow lines: %#v", resp.Lines)
		}
		close(followDone)
	}(logResp.Offset)

	time.Sleep(100 * time.Millisecond)
	if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
		_, _ = f.WriteString("fourth\n")
		_ = f.Close()
	} else {
		t.Fatalf("append log: %v", err)
	}

	select {
	case <-followDone:
	case <-time.After(10 * time.Second):
		t.Fatal("log tail follow timed out")
	}

	clearResp, err := client.SessionClear()
	if err != nil {
		t.Fatalf("SessionClear failed: %v", err)
	}
	if clearResp.Removed != 2 {
		t.Fatalf("expected 2 sessions cleared, got %d", clearResp.Removed)
	}

	stopResp, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop RPC failed: %v", err)
	}
	if !stopResp.Stopped {
		t.Fatal("expected stop response to be true")
	}

	status2, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if status2.Running {
		t.Fatal("expected daemon to be stopped")
	}
}
