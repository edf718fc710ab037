package notifications

// Event enumerates the session milestones that can produce a notification.
type Event string

const (
	EventSessionReady       Event = "session_ready"
	EventInterviewStarted   Event = "interview_started"
	EventInterviewCompleted Event = "interview_completed"
	EventReportReady        Event = "report_ready"
	EventSessionReview      Event = "session_review"
	EventQueueStarted       Event = "queue_started"
	EventQueueCompleted     Event = "queue_completed"
	EventError              Event = "error"
)

// Payload carries event-specific values. Formatting happens inside the
// service so callers never build user-facing strings.
type Payload map[string]any

func (p Payload) stringValue(key string) string {
	if p == nil {
		return ""
	}
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (p Payload) intValue(key string) int {
	if p == nil {
		return 0
	}
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (p Payload) errorValue(key string) error {
	if p == nil {
		return nil
	}
	if v, ok := p[key]; ok {
		if err, ok := v.(error); ok {
			return err
		}
	}
	return nil
}
