package transcript

import "strings"

// Canonical markers the speech layer returns in place of a usable transcript
// when capture or transcription fails. Consumers treat any of these as "no
// answer" rather than literal text.
const (
	MarkerNoSpeech           = "[no speech detected]"
	MarkerUnintelligible     = "[could not understand audio]"
	MarkerServiceUnavailable = "[service unavailable]"
	MarkerRecordingFailed    = "[recording failed]"
)

var failureMarkers = map[string]bool{
	MarkerNoSpeech:           true,
	MarkerUnintelligible:     true,
	MarkerServiceUnavailable: true,
	MarkerRecordingFailed:    true,
}

// Result is a normalized transcript plus its failure classification.
type Result struct {
	// Text is the lower-cased, whitespace-collapsed transcript. Marker text
	// passes through so logs can show what the speech layer reported.
	Text string
	// Failed is true when the transcript is empty or a failure marker.
	Failed bool
	// Marker holds the canonical marker that matched, empty otherwise.
	Marker string
}

// Normalize lowercases a raw transcript, collapses internal whitespace, and
// flags transcription failures. Empty or whitespace-only input and any
// canonical failure marker produce a failed result. Marker comparison runs
// on the normalized form, so case and padding in the raw input never matter.
func Normalize(raw string) Result {
	text := strings.ToLower(strings.TrimSpace(raw))
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return Result{Failed: true}
	}
	if failureMarkers[text] {
		return Result{Text: text, Failed: true, Marker: text}
	}
	return Result{Text: text}
}

// IsFailureMarker reports whether raw normalizes to a canonical failure marker.
func IsFailureMarker(raw string) bool {
	return Normalize(raw).Marker != ""
}
