// Package api defines wire-format types and converters for the IPC and HTTP
// API layer. It translates internal session models into transport-friendly
// DTOs that external consumers can render without coupling to internal types.
//
// # Key Types
//
// SessionItem: transport representation of an interview session with progress,
// question counts, and report location.
//
// WorkflowStatus: daemon running state, session stats, stage health, and the
// last processed session.
//
// DaemonStatus: aggregated runtime information including dependencies.
//
// LogEvent/LogStreamResponse: structured log payloads for live tailing.
//
// # Converters
//
// FromSession: session.Session -> SessionItem.
//
// FromStatusSummary: workflow.StatusSummary -> WorkflowStatus.
//
// StageHealthSlice: deterministic ordering of stage health map.
//
// # Design Notes
//
// DTOs use camelCase JSON tags for JavaScript/TypeScript consumers. Internal
// enums (session.Status, session.ProcessingLane) are exposed as lowercase
// strings. Timestamps use RFC3339 with milliseconds. Feedback reports are
// passed through as json.RawMessage to avoid double-encoding.
package api
