package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"greenroom/internal/config"
)

const userAgent = "Greenroom-Go/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
	Test(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	prefs := cfg.Notifications
	topic := strings.TrimSpace(prefs.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(prefs.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		prefs:    prefs,
		recent:   make(map[string]time.Time),
		now:      time.Now,
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	prefs    config.Notifications

	mu     sync.Mutex
	recent map[string]time.Time
	now    func() time.Time
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if !n.enabled(event) {
		return nil
	}
	if event == EventInterviewCompleted && n.prefs.MinInterviewSeconds > 0 {
		if payload.intValue("durationSeconds") < n.prefs.MinInterviewSeconds {
			return nil
		}
	}
	if event == EventQueueStarted && n.prefs.QueueMinItems > 0 {
		if payload.intValue("count") < n.prefs.QueueMinItems {
			return nil
		}
	}

	data := n.format(event, payload)
	if data.body == "" {
		return nil
	}
	if n.suppressed(event, data.body) {
		return nil
	}
	return n.send(ctx, data)
}

func (n *ntfyService) Test(ctx context.Context) error {
	return n.send(ctx, message{
		title:    "Greenroom - Test",
		body:     "Notification system test",
		tags:     []string{"greenroom", "test"},
		priority: "low",
	})
}

func (n *ntfyService) enabled(event Event) bool {
	switch event {
	case EventSessionReady, EventInterviewStarted:
		return n.prefs.SessionReady
	case EventInterviewCompleted:
		return n.prefs.InterviewComplete
	case EventReportReady:
		return n.prefs.ReportReady
	case EventSessionReview:
		return n.prefs.Review
	case EventQueueStarted, EventQueueCompleted:
		return n.prefs.Queue
	case EventError:
		return n.prefs.Errors
	default:
		return true
	}
}

// suppressed drops a repeat of the same event and body inside the dedup
// window so flapping stages do not spam the topic.
func (n *ntfyService) suppressed(event Event, body string) bool {
	window := time.Duration(n.prefs.DedupWindowSeconds) * time.Second
	if window <= 0 {
		return false
	}
	key := string(event) + "\x00" + body
	now := n.now()

	n.mu.Lock()
	defer n.mu.Unlock()
	if last, ok := n.recent[key]; ok && now.Sub(last) < window {
		return true
	}
	for k, at := range n.recent {
		if now.Sub(at) >= window {
			delete(n.recent, k)
		}
	}
	n.recent[key] = now
	return false
}

func (n *ntfyService) format(event Event, payload Payload) message {
	role := strings.TrimSpace(payload.stringValue("role"))
	interviewType := strings.TrimSpace(payload.stringValue("interviewType"))
	label := role
	if label == "" {
		label = "interview"
	}
	if interviewType != "" {
		label = fmt.Sprintf("%s (%s)", label, interviewType)
	}

	switch event {
	case EventSessionReady:
		questions := payload.intValue("questions")
		body := fmt.Sprintf("Session prepared: %s", label)
		if questions > 0 {
			body = fmt.Sprintf("%s, %d questions", body, questions)
		}
		return message{
			title: "Greenroom - Session Ready",
			body:  body,
			tags:  []string{"greenroom", "session", "ready"},
		}
	case EventInterviewStarted:
		return message{
			title: "Greenroom - Interview Started",
			body:  fmt.Sprintf("Interview started: %s", label),
			tags:  []string{"greenroom", "interview", "started"},
		}
	case EventInterviewCompleted:
		answers := payload.intValue("answers")
		body := fmt.Sprintf("Interview complete: %s", label)
		if answers > 0 {
			body = fmt.Sprintf("%s, %d answers", body, answers)
		}
		return message{
			title: "Greenroom - Interview Complete",
			body:  body,
			tags:  []string{"greenroom", "interview", "completed"},
		}
	case EventReportReady:
		body := fmt.Sprintf("Feedback ready: %s", label)
		if score := strings.TrimSpace(payload.stringValue("score")); score != "" {
			body = fmt.Sprintf("%s\nOverall: %s/10", body, score)
		}
		if path := strings.TrimSpace(payload.stringValue("reportPath")); path != "" {
			body = fmt.Sprintf("%s\nReport: %s", body, path)
		}
		return message{
			title:    "Greenroom - Report Ready",
			body:     body,
			tags:     []string{"greenroom", "report", "completed"},
			priority: "high",
		}
	case EventSessionReview:
		reason := strings.TrimSpace(payload.stringValue("reason"))
		body := fmt.Sprintf("Session needs attention: %s", label)
		if reason != "" {
			body = fmt.Sprintf("%s\n%s", body, reason)
		}
		return message{
			title: "Greenroom - Needs Attention",
			body:  body,
			tags:  []string{"greenroom", "session", "review"},
		}
	case EventQueueStarted:
		return message{
			title: "Greenroom - Queue Started",
			body:  fmt.Sprintf("Started processing %d pending sessions", payload.intValue("count")),
			tags:  []string{"greenroom", "queue", "started"},
		}
	case EventQueueCompleted:
		processed := payload.intValue("processed")
		failed := payload.intValue("failed")
		if failed == 0 {
			return message{
				title: "Greenroom - Queue Complete",
				body:  fmt.Sprintf("Queue processing complete: %d sessions processed", processed),
				tags:  []string{"greenroom", "queue", "completed"},
			}
		}
		return message{
			title: "Greenroom - Queue Complete (with errors)",
			body:  fmt.Sprintf("Queue processing complete: %d succeeded, %d failed", processed, failed),
			tags:  []string{"greenroom", "queue", "completed"},
		}
	case EventError:
		var builder strings.Builder
		builder.WriteString("Error")
		if contextLabel := strings.TrimSpace(payload.stringValue("context")); contextLabel != "" {
			builder.WriteString(" with ")
			builder.WriteString(contextLabel)
		}
		builder.WriteString(": ")
		if err := payload.errorValue("error"); err != nil {
			builder.WriteString(strings.TrimSpace(err.Error()))
		} else {
			builder.WriteString("unknown")
		}
		return message{
			title:    "Greenroom - Error",
			body:     builder.String(),
			tags:     []string{"greenroom", "error", "alert"},
			priority: "high",
		}
	default:
		return message{}
	}
}

func (n *ntfyService) send(ctx context.Context, data message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
func (noopService) Test(context.Context) error                    { return nil }
