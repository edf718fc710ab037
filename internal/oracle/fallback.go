package oracle

import (
	"strings"

	"greenroom/internal/persona"
	"greenroom/internal/textutil"
	"greenroom/internal/transcript"
)

// qualityIndicators signal substantive answer content. Each match adds a
// point to the heuristic score.
var qualityIndicators = []string{
	"example",
	"situation",
	"result",
	"task",
	"action",
	"implemented",
	"designed",
	"developed",
	"improved",
	"resolved",
	"specifically",
	"exactly",
	"first",
	"second",
	"finally",
	"increased",
	"decreased",
	"reduced",
	"enhanced",
	"optimized",
}

// communicationIndicators signal deliberate communication effort.
var communicationIndicators = []string{
	"clearly",
	"concisely",
	"effectively",
	"collaborated",
	"communicated",
	"explained",
	"presented",
	"discussed",
	"articulated",
	"expressed",
}

// fallbackEvaluator scores answers without a live provider. Scores derive
// from answer length plus quality and communication keyword counts, with a
// different formula per persona. Deterministic: the same transcript always
// produces the same evaluation.
type fallbackEvaluator struct{}

func newFallbackEvaluator() *fallbackEvaluator {
	return &fallbackEvaluator{}
}

// Evaluate produces a heuristic evaluation for the transcript. It never
// fails; unusable input lands in the edge-case path with a zero score.
func (f *fallbackEvaluator) Evaluate(req EvaluationRequest) Evaluation {
	norm := transcript.Normalize(req.Transcript)
	words := textutil.WordCount(norm.Text)
	quality := countIndicators(norm.Text, qualityIndicators)
	comm := countIndicators(norm.Text, communicationIndicators)

	label := persona.Provisional(req.Transcript, req.FollowUp)
	if req.Failed || norm.Failed {
		label = persona.LabelEdgeCase
	}

	switch label {
	case persona.LabelEdgeCase:
		return f.edgeCaseEvaluation(req)
	case persona.LabelChatty:
		score := clampRange(words/20+quality+comm, 3, 10)
		return Evaluation{
			Score:              score,
			CommunicationScore: max(4, score),
			Rationale:          "Plenty of enthusiasm, but the key points are buried in tangents.",
			Strengths:          []string{"Enthusiastic response", "Good communication"},
			Improvements: []string{
				"Focus on key points and be more concise",
				"Stay on topic",
				"Structure your response with clear sections",
			},
			PersonaHint:  persona.LabelChatty,
			FollowUp:     "Can you summarize your main points in two or three sentences?",
			ModelAnswer:  "A focused answer states the situation, the action taken, and the measurable result, without detours.",
			FallbackUsed: true,
		}
	case persona.LabelConfused:
		score := clampRange(words/2+quality, 1, 10)
		if score > 4 {
			// Passable content despite the hedging reads as Efficient.
			return f.efficientEvaluation(score)
		}
		return Evaluation{
			Score:              score,
			CommunicationScore: max(2, score-1),
			Rationale:          "The answer wanders and never lands on the question that was asked.",
			Strengths:          []string{"Attempted to respond", "Showed engagement"},
			Improvements: []string{
				"Answer the question directly",
				"Provide specific examples",
				"Use the STAR method for structured responses",
			},
			PersonaHint:  persona.LabelConfused,
			FollowUp:     "Can you share a specific situation from your experience?",
			ModelAnswer:  "Pick one real example and walk it through the STAR method: situation, task, action, result.",
			FallbackUsed: true,
		}
	default:
		score := clampRange(words/4+quality+comm+2, 5, 10)
		return f.efficientEvaluation(score)
	}
}

func (f *fallbackEvaluator) efficientEvaluation(score int) Evaluation {
	improvement := "Add more technical details and examples"
	if score >= 7 {
		improvement = "Include specific metrics or outcomes"
	}
	return Evaluation{
		Score:              score,
		CommunicationScore: min(10, score+2),
		Rationale:          "Direct, on-topic answer with clear delivery.",
		Strengths:          []string{"Clear and concise response", "Directly addresses the question", "Good communication"},
		Improvements:       []string{improvement, "Provide concrete examples"},
		PersonaHint:        persona.LabelEfficient,
		FollowUp:           "Can you elaborate on one key point with a specific example?",
		ModelAnswer:        "A strong answer names a concrete project, the approach taken, and the measurable outcome it produced.",
		FallbackUsed:       true,
	}
}

// edgeCaseEvaluation handles empty, failed, and "I don't know" answers. An
// honest "I don't know" keeps a middling communication score; a failed or
// empty capture does not.
func (f *fallbackEvaluator) edgeCaseEvaluation(req EvaluationRequest) Evaluation {
	commScore := 1
	rationale := "No usable answer was captured for this question."
	strengths := []string(nil)
	if req.DontKnow || persona.ContainsDontKnowPhrase(req.Transcript) {
		commScore = 5
		rationale = "Honest acknowledgement of a knowledge gap, but no attempt at a partial answer."
		strengths = []string{"Honesty in acknowledging knowledge gaps"}
	}
	return Evaluation{
		Score:              0,
		CommunicationScore: commScore,
		Rationale:          rationale,
		Strengths:          strengths,
		Improvements: []string{
			"Try to provide partial knowledge or related experience even when unsure",
		},
		PersonaHint:  persona.LabelEdgeCase,
		FollowUp:     "Can you tell me about a time you hit a knowledge gap and how you closed it?",
		ModelAnswer:  "When unsure, acknowledge it honestly, then offer related knowledge or describe how you would find the answer.",
		FallbackUsed: true,
	}
}

func countIndicators(text string, indicators []string) int {
	count := 0
	for _, indicator := range indicators {
		if strings.Contains(text, indicator) {
			count++
		}
	}
	return count
}

func clampRange(value, low, high int) int {
	return max(low, min(high, value))
}
