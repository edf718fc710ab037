package report

import (
	"encoding/json"
	"time"

	"greenroom/internal/oracle"
	"greenroom/internal/persona"
	"greenroom/internal/scoring"
	"greenroom/internal/session"
)

// QuestionRow is the per-question detail line of the report.
type QuestionRow struct {
	Index              int      `json:"index"`
	Question           string   `json:"question"`
	Transcript         string   `json:"transcript"`
	TranscriptMarker   string   `json:"transcript_marker,omitempty"`
	IsFollowup         bool     `json:"is_followup,omitempty"`
	Persona            string   `json:"persona"`
	Score              float64  `json:"score"`
	CommunicationScore float64  `json:"communication_score"`
	Rationale          string   `json:"rationale,omitempty"`
	Strengths          []string `json:"strengths,omitempty"`
	Improvements       []string `json:"improvements,omitempty"`
	ModelAnswer        string   `json:"model_answer,omitempty"`
	Note               string   `json:"note,omitempty"`
	Source             string   `json:"source,omitempty"`
	AudioPath          string   `json:"audio_path,omitempty"`
}

// PersonaBreakdown summarizes one persona bucket for display.
type PersonaBreakdown struct {
	Persona           string  `json:"persona"`
	Count             int     `json:"count"`
	MeanScore         float64 `json:"mean_score"`
	MeanCommunication float64 `json:"mean_communication"`
}

// DisplayModel is everything the report surfaces carry: the exported JSON
// document, the CLI table view, and the API response all render from it.
type DisplayModel struct {
	SessionToken       string             `json:"session_token,omitempty"`
	Role               string             `json:"role,omitempty"`
	InterviewType      string             `json:"interview_type,omitempty"`
	GeneratedAt        time.Time          `json:"generated_at"`
	NoData             bool               `json:"no_data,omitempty"`
	TotalAnswers       int                `json:"total_answers"`
	OverallScore       float64            `json:"overall_score"`
	CommunicationScore float64            `json:"communication_score"`
	PerformanceLevel   string             `json:"performance_level,omitempty"`
	DominantPersona    string             `json:"dominant_persona,omitempty"`
	ConsistencyPercent float64            `json:"consistency_percent"`
	Trend              scoring.Trend      `json:"trend"`
	TrendAdvice        string             `json:"trend_advice,omitempty"`
	Insight            string             `json:"insight,omitempty"`
	Suggestions        []string           `json:"suggestions,omitempty"`
	Guidance           []Guidance         `json:"guidance,omitempty"`
	Personas           []PersonaBreakdown `json:"personas,omitempty"`
	Questions          []QuestionRow      `json:"questions,omitempty"`
	Charts             ChartSet           `json:"charts,omitempty"`
}

// FormatFeedback builds the display model from the aggregate alone: metrics,
// advice, persona breakdown, and chart payloads. Session metadata and
// per-question rows come from Build.
func FormatFeedback(agg scoring.Report) DisplayModel {
	model := DisplayModel{
		NoData:             agg.NoData,
		TotalAnswers:       agg.TotalAnswers,
		OverallScore:       agg.MeanScore,
		CommunicationScore: agg.MeanCommunication,
		PerformanceLevel:   agg.PerformanceLevel,
		ConsistencyPercent: agg.ConsistencyPercent,
		Trend:              agg.Trend,
	}
	if agg.NoData {
		return model
	}

	if agg.DominantPersona != "" {
		model.DominantPersona = agg.DominantPersona.DisplayName()
		model.Insight = insightFor(agg.DominantPersona)
	}
	model.TrendAdvice = trendAdviceFor(agg.Trend)
	model.Suggestions = suggestionsFor(agg.MeanScore)

	for _, label := range persona.AllLabels {
		stats, ok := agg.ByPersona[label]
		if !ok {
			continue
		}
		model.Personas = append(model.Personas, PersonaBreakdown{
			Persona:           label.DisplayName(),
			Count:             stats.Count,
			MeanScore:         stats.MeanScore,
			MeanCommunication: stats.MeanCommunication,
		})
		model.Guidance = append(model.Guidance, guidanceFor(label))
	}

	model.Charts = buildCharts(agg.Series)
	return model
}

// Build produces the full display model for a finished session: the formatted
// aggregate plus session metadata and per-question detail recovered from the
// stored evaluation payloads.
func Build(sess *session.Session, records []session.AnswerRecord, generatedAt time.Time) DisplayModel {
	model := FormatFeedback(scoring.Aggregate(ScoringRecords(records)))
	model.GeneratedAt = generatedAt
	if sess != nil {
		model.SessionToken = sess.Token
		model.Role = sess.Role
		model.InterviewType = sess.InterviewType
	}
	model.Questions = questionRows(records)
	return model
}

// ScoringRecords projects stored answer records onto the aggregator's input.
func ScoringRecords(records []session.AnswerRecord) []scoring.Record {
	out := make([]scoring.Record, 0, len(records))
	for _, rec := range records {
		out = append(out, scoring.Record{
			Question:           rec.Question,
			Persona:            persona.ParseLabel(rec.Persona),
			Score:              rec.Score,
			CommunicationScore: rec.CommunicationScore,
			IsFollowup:         rec.IsFollowup,
		})
	}
	return out
}

func questionRows(records []session.AnswerRecord) []QuestionRow {
	rows := make([]QuestionRow, 0, len(records))
	for i, rec := range records {
		label := persona.ParseLabel(rec.Persona)
		row := QuestionRow{
			Index:              i + 1,
			Question:           rec.Question,
			Transcript:         rec.Transcript,
			TranscriptMarker:   rec.TranscriptMarker,
			IsFollowup:         rec.IsFollowup,
			Persona:            label.DisplayName(),
			Score:              rec.Score,
			CommunicationScore: rec.CommunicationScore,
			Note:               answerNoteFor(label),
			Source:             rec.Source,
			AudioPath:          rec.AudioPath,
		}
		if rec.EvaluationJSON != "" {
			var eval oracle.Evaluation
			if err := json.Unmarshal([]byte(rec.EvaluationJSON), &eval); err == nil {
				row.Rationale = eval.Rationale
				row.Strengths = eval.Strengths
				row.Improvements = eval.Improvements
				row.ModelAnswer = eval.ModelAnswer
			}
		}
		rows = append(rows, row)
	}
	return rows
}
