package oracle

import (
	"testing"

	"greenroom/internal/persona"
	"greenroom/internal/transcript"
)

func TestFallbackEvaluateDontKnowKeepsCommunicationCredit(t *testing.T) {
	eval := newFallbackEvaluator().Evaluate(EvaluationRequest{
		Question:   "What is a B-tree?",
		Transcript: "I don't know.",
	})
	if eval.Score != 0 {
		t.Fatalf("expected zero score, got %d", eval.Score)
	}
	if eval.CommunicationScore != 5 {
		t.Fatalf("expected mercy communication score 5, got %d", eval.CommunicationScore)
	}
	if eval.PersonaHint != persona.LabelEdgeCase {
		t.Fatalf("unexpected persona: %q", eval.PersonaHint)
	}
	if !eval.FallbackUsed {
		t.Fatal("expected FallbackUsed")
	}
}

func TestFallbackEvaluateFailedCaptureScoresZero(t *testing.T) {
	eval := newFallbackEvaluator().Evaluate(EvaluationRequest{
		Question:   "What is a B-tree?",
		Transcript: transcript.MarkerNoSpeech,
		Failed:     true,
	})
	if eval.Score != 0 {
		t.Fatalf("expected zero score, got %d", eval.Score)
	}
	if eval.CommunicationScore != 1 {
		t.Fatalf("expected minimal communication score, got %d", eval.CommunicationScore)
	}
	if eval.PersonaHint != persona.LabelEdgeCase {
		t.Fatalf("unexpected persona: %q", eval.PersonaHint)
	}
}

func TestFallbackEvaluateRedirectIsChatty(t *testing.T) {
	// 7 words, no quality or communication keywords: 7/20 = 0, floored to 3.
	eval := newFallbackEvaluator().Evaluate(EvaluationRequest{
		Question:   "What is a B-tree?",
		Transcript: "Can we talk about something else instead?",
	})
	if eval.PersonaHint != persona.LabelChatty {
		t.Fatalf("unexpected persona: %q", eval.PersonaHint)
	}
	if eval.Score != 3 {
		t.Fatalf("expected floored chatty score 3, got %d", eval.Score)
	}
	if eval.CommunicationScore != 4 {
		t.Fatalf("expected communication floor 4, got %d", eval.CommunicationScore)
	}
}

func TestFallbackEvaluateFollowUpIsEfficient(t *testing.T) {
	// 5 words plus one quality keyword ("specifically"): 5/4 + 1 + 0 + 2 = 4,
	// floored to the efficient minimum of 5.
	eval := newFallbackEvaluator().Evaluate(EvaluationRequest{
		Question:   "Which part would you optimize?",
		Transcript: "Yes, specifically the cache layer.",
		FollowUp:   true,
	})
	if eval.PersonaHint != persona.LabelEfficient {
		t.Fatalf("unexpected persona: %q", eval.PersonaHint)
	}
	if eval.Score != 5 {
		t.Fatalf("expected efficient floor 5, got %d", eval.Score)
	}
	if eval.CommunicationScore != 7 {
		t.Fatalf("expected communication bonus 7, got %d", eval.CommunicationScore)
	}
}

func TestFallbackEvaluateHedgedAnswerStaysConfused(t *testing.T) {
	// 6 hedged words: 6/2 = 3, below the reclassification threshold.
	eval := newFallbackEvaluator().Evaluate(EvaluationRequest{
		Question:   "Why is the query slow?",
		Transcript: "I think it might be wrong.",
	})
	if eval.PersonaHint != persona.LabelConfused {
		t.Fatalf("unexpected persona: %q", eval.PersonaHint)
	}
	if eval.Score != 3 {
		t.Fatalf("expected confused score 3, got %d", eval.Score)
	}
	if eval.CommunicationScore != 2 {
		t.Fatalf("expected communication score 2, got %d", eval.CommunicationScore)
	}
}

func TestFallbackEvaluateGoodHedgedAnswerReclassifies(t *testing.T) {
	// 10 hedged words: 10/2 = 5, above 4, so the confused label flips to
	// efficient and keeps the confused-formula score.
	eval := newFallbackEvaluator().Evaluate(EvaluationRequest{
		Question:   "Why is the query slow?",
		Transcript: "I think it is related to the network configuration somehow.",
	})
	if eval.PersonaHint != persona.LabelEfficient {
		t.Fatalf("expected reclassification to efficient, got %q", eval.PersonaHint)
	}
	if eval.Score != 5 {
		t.Fatalf("expected score 5, got %d", eval.Score)
	}
	if eval.CommunicationScore != 7 {
		t.Fatalf("expected communication score 7, got %d", eval.CommunicationScore)
	}
}

func TestFallbackEvaluateIsDeterministic(t *testing.T) {
	req := EvaluationRequest{
		Question:   "Explain indexing.",
		Transcript: "An index lets the database skip scanning every row.",
	}
	evaluator := newFallbackEvaluator()
	first := evaluator.Evaluate(req)
	for i := 0; i < 3; i++ {
		if got := evaluator.Evaluate(req); got.Score != first.Score || got.PersonaHint != first.PersonaHint {
			t.Fatalf("evaluation not deterministic: %+v vs %+v", got, first)
		}
	}
}
