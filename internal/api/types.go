package api

import (
	"encoding/json"
	"time"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// SessionItem describes an interview session in a transport-friendly format.
type SessionItem struct {
	ID             int64           `json:"id"`
	Token          string          `json:"token"`
	Role           string          `json:"role"`
	InterviewType  string          `json:"interviewType"`
	Status         string          `json:"status"`
	ProcessingLane string          `json:"processingLane"`
	QuestionsTotal int             `json:"questionsTotal"`
	QuestionsAsked int             `json:"questionsAsked"`
	Progress       SessionProgress `json:"progress"`
	ErrorMessage   string          `json:"errorMessage"`
	CreatedAt      string          `json:"createdAt,omitempty"`
	UpdatedAt      string          `json:"updatedAt,omitempty"`
	ReportPath     string          `json:"reportPath,omitempty"`
	SessionLogPath string          `json:"sessionLogPath,omitempty"`
	NeedsReview    bool            `json:"needsReview"`
	ReviewReason   string          `json:"reviewReason,omitempty"`
	Report         json.RawMessage `json:"report,omitempty"`
}

// SessionProgress captures stage progress information for a session.
type SessionProgress struct {
	Stage   string  `json:"stage"`
	Percent float64 `json:"percent"`
	Message string  `json:"message"`
}

// AnswerItem describes a scored answer in a transport-friendly format.
type AnswerItem struct {
	ID                 int64   `json:"id"`
	QuestionIndex      int     `json:"questionIndex"`
	Question           string  `json:"question"`
	Transcript         string  `json:"transcript"`
	TranscriptMarker   string  `json:"transcriptMarker,omitempty"`
	IsFollowup         bool    `json:"isFollowup"`
	Score              float64 `json:"score"`
	CommunicationScore float64 `json:"communicationScore"`
	Persona            string  `json:"persona"`
	PersonaRule        string  `json:"personaRule,omitempty"`
	Source             string  `json:"source"`
	DurationSeconds    float64 `json:"durationSeconds,omitempty"`
	CreatedAt          string  `json:"createdAt,omitempty"`
}

// WorkflowStatus summarizes workflow execution state.
type WorkflowStatus struct {
	Running      bool           `json:"running"`
	SessionStats map[string]int `json:"sessionStats"`
	LastError    string         `json:"lastError,omitempty"`
	LastSession  *SessionItem   `json:"lastSession,omitempty"`
	StageHealth  []StageHealth  `json:"stageHealth"`
}

// StageHealth mirrors readiness reporting for workflow stages.
type StageHealth struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
	Severity    string `json:"severity,omitempty"`
}

// StatusLine is a labelled severity/detail pair rendered by status surfaces.
type StatusLine struct {
	Label    string `json:"label"`
	Severity string `json:"severity"`
	Detail   string `json:"detail"`
}

// DependencySummary aggregates dependency readiness counts.
type DependencySummary struct {
	Total           int    `json:"total"`
	Available       int    `json:"available"`
	MissingRequired int    `json:"missingRequired"`
	MissingOptional int    `json:"missingOptional"`
	Severity        string `json:"severity"`
	Detail          string `json:"detail"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running           bool               `json:"running"`
	PID               int                `json:"pid"`
	SessionDBPath     string             `json:"sessionDbPath"`
	LockFilePath      string             `json:"lockFilePath"`
	AudioCaptureReady bool               `json:"audioCaptureReady"`
	Workflow          WorkflowStatus     `json:"workflow"`
	Dependencies      []DependencyStatus `json:"dependencies"`
}

// SessionStatsResponse provides a normalized session stats payload.
type SessionStatsResponse struct {
	Counts map[string]int `json:"counts"`
}

// SessionListResponse wraps a collection of sessions for API responses.
type SessionListResponse struct {
	Items []SessionItem `json:"items"`
}

// SessionItemResponse wraps a single session.
type SessionItemResponse struct {
	Item SessionItem `json:"item"`
}

// AnswerListResponse wraps the answers recorded for a session.
type AnswerListResponse struct {
	Answers []AnswerItem `json:"answers"`
}

// LogEvent is the transport form of a structured log record.
type LogEvent struct {
	Sequence  uint64            `json:"seq"`
	Timestamp time.Time         `json:"ts"`
	Level     string            `json:"level"`
	Message   string            `json:"msg"`
	Component string            `json:"component,omitempty"`
	Stage     string            `json:"stage,omitempty"`
	SessionID int64             `json:"sessionId,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Details   []DetailField     `json:"details,omitempty"`
}

// DetailField mirrors the console handler's info bullet lines.
type DetailField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// LogStreamResponse carries a batch of log events plus the next cursor.
type LogStreamResponse struct {
	Events []LogEvent `json:"events"`
	Next   uint64     `json:"next"`
}
