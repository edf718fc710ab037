package persona

import "strings"

// Label identifies one of the four response styles assigned to an answer.
type Label string

const (
	LabelEfficient Label = "efficient"
	LabelConfused  Label = "confused"
	LabelChatty    Label = "chatty"
	LabelEdgeCase  Label = "edge_case"
)

// AllLabels lists every label in fixed order. The order is load-bearing:
// dominant-persona ties in the aggregator break toward the earliest entry.
var AllLabels = []Label{LabelEfficient, LabelConfused, LabelChatty, LabelEdgeCase}

// ParseLabel normalizes a stored or oracle-provided label string. Returns the
// empty label for unrecognized input.
func ParseLabel(value string) Label {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(LabelEfficient):
		return LabelEfficient
	case string(LabelConfused):
		return LabelConfused
	case string(LabelChatty):
		return LabelChatty
	case string(LabelEdgeCase), "edge case", "edgecase":
		return LabelEdgeCase
	default:
		return ""
	}
}

// DisplayName returns the human-readable form used in reports and tables.
func (l Label) DisplayName() string {
	switch l {
	case LabelEfficient:
		return "Efficient"
	case LabelConfused:
		return "Confused"
	case LabelChatty:
		return "Chatty"
	case LabelEdgeCase:
		return "Edge Case"
	default:
		return "Unknown"
	}
}
