package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"greenroom/internal/config"
	"greenroom/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.Publish(context.Background(), notifications.EventReportReady, notifications.Payload{"role": "sre"}); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type captured struct {
	title    string
	body     string
	tags     string
	priority string
}

func newCapturingServer(t *testing.T, sink *[]captured) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		*sink = append(*sink, captured{
			title:    r.Header.Get("Title"),
			body:     string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		})
		w.WriteHeader(http.StatusOK)
	}))
}

func newTestService(t *testing.T, sink *[]captured, mutate func(*config.Notifications)) notifications.Service {
	t.Helper()
	server := newCapturingServer(t, sink)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.DedupWindowSeconds = 0
	if mutate != nil {
		mutate(&cfg.Notifications)
	}
	return notifications.NewService(&cfg)
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		event          notifications.Event
		payload        notifications.Payload
		expectTitle    string
		expectBody     string
		expectTags     string
		expectPriority string
	}{
		{
			name:  "session ready",
			event: notifications.EventSessionReady,
			payload: notifications.Payload{
				"role":          "backend engineer",
				"interviewType": "technical",
				"questions":     5,
			},
			expectTitle: "Greenroom - Session Ready",
			expectBody:  "Session prepared: backend engineer (technical), 5 questions",
			expectTags:  "greenroom,session,ready",
		},
		{
			name:  "interview completed",
			event: notifications.EventInterviewCompleted,
			payload: notifications.Payload{
				"role":            "sre",
				"interviewType":   "behavioral",
				"answers":         6,
				"durationSeconds": 900,
			},
			expectTitle: "Greenroom - Interview Complete",
			expectBody:  "Interview complete: sre (behavioral), 6 answers",
			expectTags:  "greenroom,interview,completed",
		},
		{
			name:  "report ready",
			event: notifications.EventReportReady,
			payload: notifications.Payload{
				"role":       "data analyst",
				"score":      "7.3",
				"reportPath": "/tmp/reports/interview_tok.json",
			},
			expectTitle:    "Greenroom - Report Ready",
			expectBody:     "Feedback ready: data analyst\nOverall: 7.3/10\nReport: /tmp/reports/interview_tok.json",
			expectTags:     "greenroom,report,completed",
			expectPriority: "high",
		},
		{
			name:  "queue completed with failures",
			event: notifications.EventQueueCompleted,
			payload: notifications.Payload{
				"processed": 3,
				"failed":    1,
			},
			expectTitle: "Greenroom - Queue Complete (with errors)",
			expectBody:  "Queue processing complete: 3 succeeded, 1 failed",
			expectTags:  "greenroom,queue,completed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []captured
			svc := newTestService(t, &got, nil)

			if err := svc.Publish(context.Background(), tc.event, tc.payload); err != nil {
				t.Fatalf("Publish: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("expected 1 notification, got %d", len(got))
			}
			if got[0].title != tc.expectTitle {
				t.Fatalf("title = %q, want %q", got[0].title, tc.expectTitle)
			}
			if got[0].body != tc.expectBody {
				t.Fatalf("body = %q, want %q", got[0].body, tc.expectBody)
			}
			if got[0].tags != tc.expectTags {
				t.Fatalf("tags = %q, want %q", got[0].tags, tc.expectTags)
			}
			if got[0].priority != tc.expectPriority {
				t.Fatalf("priority = %q, want %q", got[0].priority, tc.expectPriority)
			}
		})
	}
}

func TestNtfyServiceHonorsEventGates(t *testing.T) {
	var got []captured
	svc := newTestService(t, &got, func(prefs *config.Notifications) {
		prefs.Errors = false
	})

	err := svc.Publish(context.Background(), notifications.EventError, notifications.Payload{
		"context": "interviewer (session #4)",
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected gated event to be dropped, got %d notifications", len(got))
	}
}

func TestNtfyServiceSkipsShortInterviews(t *testing.T) {
	var got []captured
	svc := newTestService(t, &got, func(prefs *config.Notifications) {
		prefs.MinInterviewSeconds = 300
	})

	err := svc.Publish(context.Background(), notifications.EventInterviewCompleted, notifications.Payload{
		"role":            "sre",
		"durationSeconds": 30,
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected short interview to be skipped, got %d notifications", len(got))
	}
}

func TestNtfyServiceDeduplicatesRepeats(t *testing.T) {
	var got []captured
	svc := newTestService(t, &got, func(prefs *config.Notifications) {
		prefs.DedupWindowSeconds = 600
	})

	payload := notifications.Payload{"role": "sre"}
	for range 3 {
		if err := svc.Publish(context.Background(), notifications.EventSessionReady, payload); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	if len(got) != 1 {
		t.Fatalf("expected repeats to dedupe to 1, got %d", len(got))
	}
}

func TestTestNotification(t *testing.T) {
	var got []captured
	svc := newTestService(t, &got, nil)

	if err := svc.Test(context.Background()); err != nil {
		t.Fatalf("Test: %v", err)
	}
	if len(got) != 1 || got[0].title != "Greenroom - Test" {
		t.Fatalf("unexpected test notification: %+v", got)
	}
}
