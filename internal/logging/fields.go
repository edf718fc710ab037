package logging

import (
	"fmt"
	"strconv"
	"time"
)

const (
	// FieldEventType categorizes log events for downstream filtering.
	FieldEventType = "event_type"
	// FieldDecisionType names the kind of decision being recorded.
	FieldDecisionType = "decision_type"
	// FieldProgressStage is the human-facing stage label carried on progress events.
	FieldProgressStage = "progress_stage"
	// FieldProgressPercent is the 0-100 completion value carried on progress events.
	FieldProgressPercent = "progress_percent"
	// FieldProgressMessage is the free-text progress description.
	FieldProgressMessage = "progress_message"
	// FieldProgressETA is the estimated remaining duration on progress events.
	FieldProgressETA = "progress_eta"
	// FieldErrorCode is a stable machine-readable error identifier.
	FieldErrorCode = "error_code"
	// FieldErrorHint suggests the next step for a logged failure.
	FieldErrorHint = "error_hint"
	// FieldErrorDetailPath points at a file holding full error output.
	FieldErrorDetailPath = "error_detail_path"
)

func formatBytes(value int64) string {
	const unit = 1024
	if value < unit {
		return strconv.FormatInt(value, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := value / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(value)/float64(div), "KMGTPE"[exp])
}

func formatDurationHuman(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return d.Round(time.Second / 10).String()
	default:
		return d.Round(time.Second).String()
	}
}

func formatPercent(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64) + "%"
}
