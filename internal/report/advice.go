package report

import (
	"greenroom/internal/persona"
	"greenroom/internal/scoring"
)

// Guidance is the fixed coaching block shown for each persona that appeared
// in the session.
type Guidance struct {
	Persona         string `json:"persona"`
	Characteristics string `json:"characteristics"`
	Strengths       string `json:"strengths"`
	Improvements    string `json:"improvements"`
	ExampleResponse string `json:"example_response"`
}

// insightFor returns the one-line takeaway for the dominant persona.
func insightFor(label persona.Label) string {
	switch label {
	case persona.LabelEfficient:
		return "You provided clear, concise responses that directly addressed the questions. This shows strong communication skills and subject matter expertise."
	case persona.LabelConfused:
		return "Some of your responses indicated uncertainty. This is normal in interviews - focus on asking clarifying questions when needed."
	case persona.LabelChatty:
		return "You provided detailed responses with lots of context. While this shows enthusiasm, try to be more concise and focus on key points."
	case persona.LabelEdgeCase:
		return "Your responses were very brief or indicated knowledge gaps. Try to provide more context and examples to demonstrate your knowledge fully."
	default:
		return "Your communication style shows a mix of different approaches."
	}
}

// guidanceFor returns the coaching block for one persona.
func guidanceFor(label persona.Label) Guidance {
	switch label {
	case persona.LabelEfficient:
		return Guidance{
			Persona:         label.DisplayName(),
			Characteristics: "Short, direct answers that stay on topic with no off-topic content",
			Strengths:       "Communicates effectively without unnecessary details",
			Improvements:    "Add one specific example or metric to strengthen answers",
			ExampleResponse: "The key concept is X. For example, in my previous project, I implemented Y which resulted in Z improvement.",
		}
	case persona.LabelConfused:
		return Guidance{
			Persona:         label.DisplayName(),
			Characteristics: "Unclear, fragmented, contradictory, or unsure responses with poor structure",
			Strengths:       "Shows engagement and willingness to respond",
			Improvements:    "Practice structuring responses with clear points, ask clarifying questions when needed",
			ExampleResponse: "I'm not entirely sure about this, but here's what I understand: [provide structured explanation]",
		}
	case persona.LabelChatty:
		return Guidance{
			Persona:         label.DisplayName(),
			Characteristics: "Goes off-topic, changes the subject, redirects conversation, or repeats questions",
			Strengths:       "Enthusiastic and shows good communication skills",
			Improvements:    "Focus on key points first, save stories for later networking",
			ExampleResponse: "The main point is X. To illustrate, [brief relevant example]. This approach has several benefits: 1) A, 2) B, 3) C.",
		}
	default:
		return Guidance{
			Persona:         persona.LabelEdgeCase.DisplayName(),
			Characteristics: "Invalid input, audio unclear/missing, empty answer, or says 'I don't know'",
			Strengths:       "Direct and to the point, shows honesty",
			Improvements:    "Provide at least one specific detail or example to demonstrate knowledge, or briefly mention related concepts",
			ExampleResponse: "I'm not familiar with this specific concept, but I know it relates to X and Y. To learn more, I would research A, B, and C resources.",
		}
	}
}

// answerNoteFor returns the per-answer coaching note attached to individual
// question rows, keyed by that answer's persona.
func answerNoteFor(label persona.Label) string {
	switch label {
	case persona.LabelChatty:
		return "Simply repeating the question back to the interviewer doesn't demonstrate understanding. Focus on providing your actual answer with relevant details."
	case persona.LabelConfused:
		return "When unsure, it's okay to ask for clarification or briefly mention related concepts while showing how you'd find the answer."
	case persona.LabelEdgeCase:
		return "Brief responses can be effective, but make sure they're relevant to the question and demonstrate your knowledge."
	default:
		return ""
	}
}

func trendAdviceFor(trend scoring.Trend) string {
	switch trend {
	case scoring.TrendImproving:
		return "Your performance is improving! Keep up the good work."
	case scoring.TrendDeclining:
		return "Your performance has dipped recently. Focus on the feedback provided."
	case scoring.TrendSteady:
		return "Your performance is consistent. Continue practicing to improve further."
	default:
		return ""
	}
}

// suggestionsFor returns general improvement suggestions keyed off the
// session's mean score band.
func suggestionsFor(mean float64) []string {
	switch {
	case mean < 4:
		return []string{
			"Focus on providing more structured responses using frameworks like STAR for behavioral questions",
			"Practice answering questions with specific examples and measurable outcomes",
			"Work on clearly addressing the question being asked rather than providing generic responses",
		}
	case mean < 7:
		return []string{
			"Enhance your answers with more specific details and concrete examples",
			"Practice explaining your thought process and decision-making approach",
			"Focus on demonstrating both technical knowledge and soft skills in your responses",
		}
	default:
		return []string{
			"Continue practicing to maintain your high performance level",
			"Challenge yourself with more difficult questions to further improve",
			"Focus on refining your communication to make even strong answers more impactful",
		}
	}
}
