package ipc

import "greenroom/internal/api"

// PingRequest verifies the daemon socket is live.
type PingRequest struct{}

// PingResponse echoes daemon liveness.
type PingResponse struct {
	Alive bool `json:"alive"`
}

// StartRequest triggers daemon workflow startup.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops daemon workflow.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// SessionItem mirrors the HTTP API session DTO for internal IPC callers.
type SessionItem = api.SessionItem

// AnswerItem mirrors the HTTP API answer DTO for internal IPC callers.
type AnswerItem = api.AnswerItem

// StageHealth describes readiness of a workflow stage.
type StageHealth = api.StageHealth

// DependencyStatus describes availability of an external dependency.
type DependencyStatus = api.DependencyStatus

// StatusResponse represents combined daemon/workflow status information.
type StatusResponse struct {
	Running           bool               `json:"running"`
	SessionStats      map[string]int     `json:"session_stats"`
	LastError         string             `json:"last_error"`
	LastSession       *SessionItem       `json:"last_session"`
	LockPath          string             `json:"lock_path"`
	SessionDBPath     string             `json:"session_db_path"`
	AudioCaptureReady bool               `json:"audio_capture_ready"`
	StageHealth       []StageHealth      `json:"stage_health"`
	Dependencies      []DependencyStatus `json:"dependencies"`
	PID               int                `json:"pid"`
}

// SessionListRequest filters session listing by status.
type SessionListRequest struct {
	Statuses []string `json:"statuses"`
}

// SessionListResponse contains session entries.
type SessionListResponse struct {
	Items []SessionItem `json:"items"`
}

// SessionDescribeRequest fetches a single session by id.
type SessionDescribeRequest struct {
	ID int64 `json:"id"`
}

// SessionDescribeResponse contains a single session plus its recorded
// answers. Found is false when no session has the requested id.
type SessionDescribeResponse struct {
	Found   bool         `json:"found"`
	Item    SessionItem  `json:"item"`
	Answers []AnswerItem `json:"answers"`
}

// SessionCreateRequest enqueues a new interview session.
type SessionCreateRequest struct {
	Role          string `json:"role"`
	InterviewType string `json:"interview_type"`
	Questions     int    `json:"questions"`
}

// SessionCreateResponse contains the created session.
type SessionCreateResponse struct {
	Item SessionItem `json:"item"`
}

// SessionAnswerRequest submits a typed answer for the session's current question.
type SessionAnswerRequest struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// SessionAnswerResponse reports answer acceptance.
type SessionAnswerResponse struct {
	Accepted bool `json:"accepted"`
}

// SessionCancelRequest stops sessions. Empty list is invalid.
type SessionCancelRequest struct {
	IDs []int64 `json:"ids"`
}

// SessionCancelResponse reports number of stopped sessions.
type SessionCancelResponse struct {
	Updated int64 `json:"updated"`
}

// SessionRetryRequest retries failed sessions. Empty list means all failed sessions.
type SessionRetryRequest struct {
	IDs []int64 `json:"ids"`
}

// SessionRetryResponse reports number of retried sessions.
type SessionRetryResponse struct {
	Updated int64 `json:"updated"`
}

// SessionClearRequest removes all sessions.
type SessionClearRequest struct{}

// SessionClearResponse reports number of removed entries.
type SessionClearResponse struct {
	Removed int64 `json:"removed"`
}

// SessionClearCompletedRequest removes completed sessions.
type SessionClearCompletedRequest struct{}

// SessionClearCompletedResponse reports number of removed entries.
type SessionClearCompletedResponse struct {
	Removed int64 `json:"removed"`
}

// SessionClearFailedRequest removes failed sessions.
type SessionClearFailedRequest struct{}

// SessionClearFailedResponse reports number of removed entries.
type SessionClearFailedResponse struct {
	Removed int64 `json:"removed"`
}

// SessionResetRequest resets in-flight sessions.
type SessionResetRequest struct{}

// SessionResetResponse reports number of sessions reset.
type SessionResetResponse struct {
	Updated int64 `json:"updated"`
}

// SessionHealthRequest fetches aggregate diagnostics.
type SessionHealthRequest struct{}

// SessionHealthResponse reports session health information.
type SessionHealthResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Failed     int `json:"failed"`
	Review     int `json:"review"`
	Completed  int `json:"completed"`
}

// DatabaseHealthRequest fetches detailed database diagnostics.
type DatabaseHealthRequest struct{}

// DatabaseHealthResponse reports database health information.
type DatabaseHealthResponse struct {
	DBPath           string   `json:"db_path"`
	DatabaseExists   bool     `json:"database_exists"`
	DatabaseReadable bool     `json:"database_readable"`
	SchemaVersion    string   `json:"schema_version"`
	TableExists      bool     `json:"table_exists"`
	ColumnsPresent   []string `json:"columns_present"`
	MissingColumns   []string `json:"missing_columns"`
	IntegrityCheck   bool     `json:"integrity_check"`
	TotalSessions    int      `json:"total_sessions"`
	Error            string   `json:"error"`
}

// PreflightRequest runs the configured feature checks.
type PreflightRequest struct{}

// PreflightResult reports one feature check outcome.
type PreflightResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// PreflightResponse carries the full check list.
type PreflightResponse struct {
	Results []PreflightResult `json:"results"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}

// LogTailRequest fetches log lines based on offset and follow semantics.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int   `json:"wait_millis"`
}

// LogTailResponse returns log lines and the next offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}
