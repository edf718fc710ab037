package session

import (
	"strings"
	"time"
)

// Status represents the lifecycle of an interview session.
type Status string

const (
	StatusPending      Status = "pending"
	StatusPreparing    Status = "preparing"
	StatusPrepared     Status = "prepared"
	StatusInterviewing Status = "interviewing"
	StatusInterviewed  Status = "interviewed"
	StatusReporting    Status = "reporting"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
	StatusReview       Status = "review"
)

// UserStopReason is the review reason set when a user explicitly stops a session.
const UserStopReason = "Stop requested by user"

// DaemonStopReason is the error message set when sessions are failed due to daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusPending,
	StatusPreparing,
	StatusPrepared,
	StatusInterviewing,
	StatusInterviewed,
	StatusReporting,
	StatusCompleted,
	StatusFailed,
	StatusReview,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusPreparing:    {},
	StatusInterviewing: {},
	StatusReporting:    {},
}

type statusTransition struct {
	from Status
	to   Status
}

var stageRollbackTransitions = []statusTransition{
	{from: StatusPreparing, to: StatusPending},
	{from: StatusInterviewing, to: StatusPrepared},
	{from: StatusReporting, to: StatusInterviewed},
}

// DatabaseHealth captures diagnostic information about the session database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    string
	TableExists      bool
	ColumnsPresent   []string
	MissingColumns   []string
	IntegrityCheck   bool
	TotalSessions    int
	Error            string
}

// HealthSummary describes aggregated session counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Review     int
	Completed  int
}

// Session represents an interview session persisted in SQLite.
type Session struct {
	ID              int64
	Token           string
	Role            string
	InterviewType   string
	Status          Status
	QuestionsTotal  int
	QuestionsAsked  int
	PlanData        string
	ReportJSON      string
	ReportPath      string
	SessionLogPath  string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ProgressStage   string
	ProgressPercent float64
	ProgressMessage string
	LastHeartbeat   *time.Time
	NeedsReview     bool
	ReviewReason    string
}

// AnswerRecord captures one scored answer within a session.
type AnswerRecord struct {
	ID                 int64
	SessionID          int64
	QuestionIndex      int
	Question           string
	Transcript         string
	TranscriptMarker   string
	IsFollowup         bool
	Score              float64
	CommunicationScore float64
	Persona            string
	PersonaRule        string
	PersonaConfidence  float64
	EvaluationJSON     string
	Source             string
	AudioPath          string
	DurationSeconds    float64
	CreatedAt          time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (s Session) IsProcessing() bool {
	_, ok := processingStatuses[s.Status]
	return ok
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// IsUserStopReason reports whether a review reason represents a user-initiated stop.
func IsUserStopReason(reason string) bool {
	return strings.EqualFold(strings.TrimSpace(reason), UserStopReason)
}

// InitProgress resets progress fields for a new stage.
// If ProgressStage is currently empty, it is set to the provided stage value;
// otherwise the existing stage is preserved (to support resume scenarios).
// ProgressMessage is set to message, ProgressPercent is reset to 0,
// and ErrorMessage is cleared.
func (s *Session) InitProgress(stage, message string) {
	if s.ProgressStage == "" {
		s.ProgressStage = stage
	}
	s.ProgressMessage = message
	s.ProgressPercent = 0
	s.ErrorMessage = ""
}

// SetProgress updates all three progress fields atomically.
// Use this instead of setting ProgressStage, ProgressPercent, and ProgressMessage individually.
func (s *Session) SetProgress(stage, message string, percent float64) {
	s.ProgressStage = stage
	s.ProgressMessage = message
	s.ProgressPercent = percent
}

// SetProgressComplete sets progress to 100% with the given stage and message.
// Convenience method for stage completion.
func (s *Session) SetProgressComplete(stage, message string) {
	s.SetProgress(stage, message, 100)
}

// SetFailed marks the session as failed with the given error message.
// Clears heartbeat and sets progress fields appropriately.
func (s *Session) SetFailed(message string) {
	s.Status = StatusFailed
	s.ErrorMessage = message
	s.ProgressPercent = 0
	s.ProgressMessage = message
	s.LastHeartbeat = nil
	s.ProgressStage = "Failed"
}

// IsInWorkflow returns true when a session is actively progressing (or queued
// to progress) through stages and should not be reset simply because the CLI
// reconnects.
func (s Session) IsInWorkflow() bool {
	if s.IsProcessing() {
		return true
	}
	switch s.Status {
	case StatusPrepared, StatusInterviewed, StatusCompleted:
		return true
	default:
		return false
	}
}

// StageKey returns the normalized stage identifier used in API/CLI presentation.
func (s Status) StageKey() string {
	switch s {
	case "":
		return ""
	case StatusPending:
		return "planned"
	case StatusCompleted:
		return "final"
	case StatusPreparing,
		StatusPrepared,
		StatusInterviewing,
		StatusInterviewed,
		StatusReporting,
		StatusFailed,
		StatusReview:
		return string(s)
	default:
		return ""
	}
}

// ProcessingLane partitions workflow into user-facing foreground stages and background work.
type ProcessingLane string

const (
	LaneForeground ProcessingLane = "foreground"
	LaneBackground ProcessingLane = "background"
)

// LaneForSession maps a session to its processing lane for observability
// purposes. The interview itself is foreground work because it owns the
// microphone; preparation and reporting run in the background.
func LaneForSession(sess *Session) ProcessingLane {
	if sess == nil {
		return LaneForeground
	}
	switch sess.Status {
	case StatusPending, StatusPreparing, StatusPrepared, StatusInterviewing:
		return LaneForeground
	case StatusInterviewed, StatusReporting, StatusCompleted:
		return LaneBackground
	case StatusFailed, StatusReview:
		if sess.SessionLogPath != "" {
			return LaneBackground
		}
		return LaneForeground
	default:
		return LaneForeground
	}
}
