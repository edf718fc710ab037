package oracle

import (
	"fmt"
	"strings"
)

const questionSystemPrompt = `You are an experienced interviewer conducting a %s interview for a %s position.
Ask exactly one question at a time. Keep every question under 15 words.
Do not number the question, add commentary, or repeat a question already asked.
Respond with the question text only.`

const questionUserPromptFirst = `Ask the first question.`

const questionUserPromptNext = `Questions already asked:
%s

Ask the next question. It must cover different ground than the questions above.`

// questionPrompts builds the prompt pair for generating the next interview
// question for the given role.
func questionPrompts(role, interviewType string, asked []string) (string, string) {
	system := fmt.Sprintf(questionSystemPrompt, safePromptValue(interviewType, "technical"), safePromptValue(role, "software engineer"))
	if len(asked) == 0 {
		return system, questionUserPromptFirst
	}
	var listing strings.Builder
	for i, question := range asked {
		fmt.Fprintf(&listing, "%d. %s\n", i+1, strings.TrimSpace(question))
	}
	return system, fmt.Sprintf(questionUserPromptNext, strings.TrimRight(listing.String(), "\n"))
}

const evaluationSystemPrompt = `You are an expert interview coach evaluating a candidate's spoken answer in a %s interview for a %s position.
The answer was transcribed from speech, so ignore transcription artifacts like filler words and minor misrecognitions.
Score fairly but honestly. A vague or evasive answer deserves a low score even if it is long.

Respond with a single JSON object and nothing else, using exactly these keys:
{
  "overall_score": <integer 0-10, quality of the answer content>,
  "communication_skills": <integer 0-10, clarity and structure of delivery>,
  "rationale": "<one or two sentences explaining the scores>",
  "strengths": ["<specific strength>", ...],
  "improvements": ["<specific, actionable improvement>", ...],
  "persona": "<one of: efficient, confused, chatty, edge_case>",
  "follow_up": "<a short follow-up question if the answer warrants probing deeper, else empty string>",
  "perfect_answer": "<a concise model answer to the question, two or three sentences>"
}

Persona guidance: "efficient" answers are direct and on point; "confused" answers wander or misread the question; "chatty" answers bury the point in tangents; "edge_case" covers empty, refused, or unintelligible answers.`

const evaluationUserPrompt = `Question: %s

Candidate's transcribed answer:
%s`

const evaluationFollowUpNote = `

This was a follow-up question probing the candidate's previous answer, so judge depth rather than breadth and do not request another follow-up unless truly necessary.`

// evaluationPrompts builds the prompt pair for scoring a transcribed answer.
func evaluationPrompts(req EvaluationRequest) (string, string) {
	system := fmt.Sprintf(evaluationSystemPrompt, safePromptValue(req.InterviewType, "technical"), safePromptValue(req.Role, "software engineer"))
	user := fmt.Sprintf(evaluationUserPrompt, strings.TrimSpace(req.Question), strings.TrimSpace(req.Transcript))
	if req.FollowUp {
		user += evaluationFollowUpNote
	}
	return system, user
}

func safePromptValue(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
