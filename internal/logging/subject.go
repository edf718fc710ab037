package logging

import "strings"

// FormatSubject builds the lane/item/stage subject string used in console output.
func FormatSubject(lane, sessionID, stage string) string {
	lane = strings.TrimSpace(lane)
	sessionID = strings.TrimSpace(sessionID)
	stage = strings.TrimSpace(stage)
	parts := make([]string, 0, 3)
	if lane != "" {
		var formattedLane string
		if len(lane) > 1 {
			formattedLane = strings.ToUpper(lane[:1]) + strings.ToLower(lane[1:])
		} else {
			formattedLane = strings.ToUpper(lane)
		}
		parts = append(parts, formattedLane)
	}
	switch {
	case sessionID != "" && stage != "":
		parts = append(parts, "Session #"+sessionID+" ("+stage+")")
	case sessionID != "":
		parts = append(parts, "Session #"+sessionID)
	case stage != "":
		parts = append(parts, stage)
	}
	return strings.Join(parts, " · ")
}
