package persona

import (
	"strings"

	"greenroom/internal/textutil"
	"greenroom/internal/transcript"
)

// dontKnowSimilarityThreshold is the fingerprint cosine similarity at which a
// transcript counts as a near-exact "I don't know" phrase. Reorderings like
// "know, i dont" still hit; a sentence that merely mentions uncertainty does
// not.
const dontKnowSimilarityThreshold = 0.85

// ramblingWordLimit is the word count above which an answer is treated as
// off-topic rambling.
const ramblingWordLimit = 150

// Rule names reported in Decision, for logging and session records.
const (
	RuleFollowup = "followup"
	RuleNoAnswer = "no_answer"
	RuleDontKnow = "dont_know"
	RuleRedirect = "redirect"
	RuleRambling = "rambling"
	RuleDirect   = "direct"
	RuleHedged   = "hedged"
	RuleOverride = "score_override"
)

// Decision carries the assigned label plus which rule fired and a rough
// confidence, so logs can explain classifications after the fact.
type Decision struct {
	Label      Label   `json:"label"`
	Rule       string  `json:"rule"`
	Confidence float64 `json:"confidence"`
}

// Classify maps a transcript, its evaluation score, and the follow-up flag to
// exactly one label. Pure and total: the same inputs always produce the same
// label, and no input panics or errors.
func Classify(rawTranscript string, score float64, isFollowup bool) Label {
	return Decide(rawTranscript, score, isFollowup).Label
}

// Decide is Classify plus the rule name and confidence.
//
// Rules apply in strict priority order, first match wins. Follow-up answers
// outrank the empty check, so a failed recording on a follow-up still lands
// Efficient. That ordering is preserved from the original rule table.
func Decide(rawTranscript string, score float64, isFollowup bool) Decision {
	if isFollowup {
		return Decision{Label: LabelEfficient, Rule: RuleFollowup, Confidence: 1}
	}

	norm := transcript.Normalize(rawTranscript)
	if norm.Failed {
		return Decision{Label: LabelEdgeCase, Rule: RuleNoAnswer, Confidence: 1}
	}
	if matched, confidence := dontKnowMatch(norm.Text); matched {
		return Decision{Label: LabelEdgeCase, Rule: RuleDontKnow, Confidence: confidence}
	}

	if containsAny(norm.Text, repeatPhrases) ||
		containsAny(norm.Text, discussionPhrases) ||
		containsAny(norm.Text, topicChangePhrases) {
		return Decision{Label: LabelChatty, Rule: RuleRedirect, Confidence: 0.9}
	}

	words := textutil.WordCount(norm.Text)
	if rambling(norm.Text, words) {
		return Decision{Label: LabelChatty, Rule: RuleRambling, Confidence: 0.75}
	}

	if score > 5 && direct(norm.Text, words) {
		return Decision{Label: LabelEfficient, Rule: RuleDirect, Confidence: 0.8}
	}
	if score > 4 {
		// Confused outcomes with passable scores reclassify to Efficient.
		// Fires once, only here; Chatty and Edge Case are never re-touched.
		return Decision{Label: LabelEfficient, Rule: RuleOverride, Confidence: 0.6}
	}
	return Decision{Label: LabelConfused, Rule: RuleHedged, Confidence: 0.7}
}

// Provisional classifies a transcript without an evaluation score. The
// heuristic evaluator needs a label before any score exists, since its score
// formula depends on the label; it applies the score override itself
// afterwards. Keyword rules match Decide exactly; the score-dependent direct
// check is replaced by a structure check alone.
func Provisional(rawTranscript string, isFollowup bool) Label {
	if isFollowup {
		return LabelEfficient
	}

	norm := transcript.Normalize(rawTranscript)
	if norm.Failed {
		return LabelEdgeCase
	}
	if matched, _ := dontKnowMatch(norm.Text); matched {
		return LabelEdgeCase
	}
	if containsAny(norm.Text, repeatPhrases) ||
		containsAny(norm.Text, discussionPhrases) ||
		containsAny(norm.Text, topicChangePhrases) {
		return LabelChatty
	}

	words := textutil.WordCount(norm.Text)
	if rambling(norm.Text, words) {
		return LabelChatty
	}
	if direct(norm.Text, words) {
		return LabelEfficient
	}
	return LabelConfused
}

// ContainsDontKnowPhrase reports whether the transcript contains any of the
// canonical "I don't know" phrases. The interviewer uses this looser check to
// skip the follow-up and deliver encouragement instead of a scored critique.
func ContainsDontKnowPhrase(rawTranscript string) bool {
	norm := transcript.Normalize(rawTranscript)
	if norm.Failed {
		return false
	}
	return containsAny(norm.Text, dontKnowPhrases)
}

var dontKnowFingerprints []*textutil.Fingerprint

func init() {
	dontKnowFingerprints = make([]*textutil.Fingerprint, 0, len(dontKnowPhrases))
	for _, phrase := range dontKnowPhrases {
		if fp := textutil.NewFingerprint(phrase); fp != nil {
			dontKnowFingerprints = append(dontKnowFingerprints, fp)
		}
	}
}

// dontKnowMatch reports whether the normalized transcript is an "I don't
// know" response, by containment of a pronoun form or by near-exact
// fingerprint similarity to any canonical phrase.
func dontKnowMatch(text string) (bool, float64) {
	for _, phrase := range strongDontKnowPhrases {
		if strings.Contains(text, phrase) {
			return true, 1
		}
	}
	fp := textutil.NewFingerprint(text)
	if fp == nil {
		return false, 0
	}
	var best float64
	for _, phraseFp := range dontKnowFingerprints {
		if sim := textutil.CosineSimilarity(fp, phraseFp); sim > best {
			best = sim
		}
	}
	if best >= dontKnowSimilarityThreshold {
		return true, best
	}
	return false, 0
}

// rambling flags very long answers and filler-heavy answers. Short answers
// never count: four filler words in a row is a hesitant answer, not a ramble.
func rambling(text string, words int) bool {
	if words > ramblingWordLimit {
		return true
	}
	if words < 5 {
		return false
	}
	fillers := countMatches(text, fillerIndicators)
	return fillers >= 3 || (fillers >= 2 && words > 50)
}

// direct reports whether an answer directly addresses the question. Very
// short answers qualify on a clear yes/no style indicator or three or more
// words; longer answers qualify on structured language or on being concise
// without hedging or filler.
func direct(text string, words int) bool {
	if words < 5 {
		return words >= 3 || containsAny(text, clearShortAnswers)
	}

	hedged := containsAny(text, hedgingIndicators)
	fillers := countMatches(text, fillerIndicators)
	if hedged && fillers < 2 {
		return false
	}

	structured := countMatches(text, structuredIndicators)
	if structured >= 2 || containsAny(text, structuredPhrases) {
		return true
	}
	if words >= 20 && structured >= 1 {
		return true
	}
	return words < 20 && !hedged && fillers < 2
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func countMatches(text string, phrases []string) int {
	count := 0
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			count++
		}
	}
	return count
}
