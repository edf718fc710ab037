package transcript

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantText   string
		wantFailed bool
		wantMarker string
	}{
		{
			name:     "ordinary answer",
			raw:      "I would use a message queue",
			wantText: "i would use a message queue",
		},
		{
			name:     "collapses internal whitespace",
			raw:      "  first   point\tsecond point  ",
			wantText: "first point second point",
		},
		{
			name:       "empty input fails",
			raw:        "",
			wantFailed: true,
		},
		{
			name:       "whitespace only fails",
			raw:        "   \t\n  ",
			wantFailed: true,
		},
		{
			name:       "no speech marker",
			raw:        "[no speech detected]",
			wantText:   MarkerNoSpeech,
			wantFailed: true,
			wantMarker: MarkerNoSpeech,
		},
		{
			name:       "marker survives case and padding",
			raw:        "  [No Speech Detected]  ",
			wantText:   MarkerNoSpeech,
			wantFailed: true,
			wantMarker: MarkerNoSpeech,
		},
		{
			name:       "unintelligible marker",
			raw:        "[could not understand audio]",
			wantText:   MarkerUnintelligible,
			wantFailed: true,
			wantMarker: MarkerUnintelligible,
		},
		{
			name:       "service unavailable marker",
			raw:        "[service unavailable]",
			wantText:   MarkerServiceUnavailable,
			wantFailed: true,
			wantMarker: MarkerServiceUnavailable,
		},
		{
			name:       "recording failed marker",
			raw:        "[recording failed]",
			wantText:   MarkerRecordingFailed,
			wantFailed: true,
			wantMarker: MarkerRecordingFailed,
		},
		{
			name:     "bracketed text that is not a marker passes through",
			raw:      "[inaudible] then we fixed the bug",
			wantText: "[inaudible] then we fixed the bug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if got.Failed != tt.wantFailed {
				t.Errorf("Failed = %v, want %v", got.Failed, tt.wantFailed)
			}
			if got.Marker != tt.wantMarker {
				t.Errorf("Marker = %q, want %q", got.Marker, tt.wantMarker)
			}
		})
	}
}

func TestIsFailureMarker(t *testing.T) {
	if !IsFailureMarker("[NO SPEECH DETECTED]") {
		t.Error("expected uppercase marker to be recognized")
	}
	if IsFailureMarker("") {
		t.Error("empty input is a failure but not a marker")
	}
	if IsFailureMarker("i do not know") {
		t.Error("ordinary text should not be a marker")
	}
}
