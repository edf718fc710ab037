package scoring

import "greenroom/internal/persona"

// Record is the aggregator's view of one answered question. Follow-up
// answers count like any other record.
type Record struct {
	Question           string
	Persona            persona.Label
	Score              float64
	CommunicationScore float64
	IsFollowup         bool
}

// Point is one entry of the ordered per-question series.
type Point struct {
	Index              int // 1-based question order
	Question           string
	Persona            persona.Label
	Score              float64
	CommunicationScore float64
	IsFollowup         bool
}

// PersonaStats summarizes the records that landed in one persona bucket.
type PersonaStats struct {
	Count             int
	MeanScore         float64
	MeanCommunication float64
}

// Trend classifies the recent score direction.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendSteady    Trend = "steady"
	// TrendUnknown means fewer than three answers have been scored.
	TrendUnknown Trend = "unknown"
)

// trendBand keeps tiny score wobbles from flipping the trend verdict.
const trendBand = 0.5

// Performance levels derived from the overall mean score.
const (
	PerformanceExcellent        = "Excellent"
	PerformanceGood             = "Good"
	PerformanceAverage          = "Average"
	PerformanceNeedsImprovement = "Needs Improvement"
)

// Report is the aggregate view of one session's answers.
type Report struct {
	// NoData is set when there are no records; all other fields are zero.
	NoData             bool
	TotalAnswers       int
	MeanScore          float64
	MeanCommunication  float64
	ByPersona          map[persona.Label]PersonaStats
	Series             []Point
	DominantPersona    persona.Label
	ConsistencyPercent float64
	Trend              Trend
	PerformanceLevel   string
}

// Aggregate recomputes session metrics from the full ordered record list.
// Zero records produce a report with NoData set rather than a division by
// zero.
func Aggregate(records []Record) Report {
	if len(records) == 0 {
		return Report{NoData: true, Trend: TrendUnknown}
	}

	report := Report{
		TotalAnswers: len(records),
		ByPersona:    make(map[persona.Label]PersonaStats),
		Series:       make([]Point, 0, len(records)),
		Trend:        TrendUnknown,
	}

	var scoreSum, commSum float64
	bucketScore := make(map[persona.Label]float64)
	bucketComm := make(map[persona.Label]float64)
	bucketCount := make(map[persona.Label]int)
	scores := make([]float64, 0, len(records))

	for i, rec := range records {
		scoreSum += rec.Score
		commSum += rec.CommunicationScore
		scores = append(scores, rec.Score)

		bucketScore[rec.Persona] += rec.Score
		bucketComm[rec.Persona] += rec.CommunicationScore
		bucketCount[rec.Persona]++

		report.Series = append(report.Series, Point{
			Index:              i + 1,
			Question:           rec.Question,
			Persona:            rec.Persona,
			Score:              rec.Score,
			CommunicationScore: rec.CommunicationScore,
			IsFollowup:         rec.IsFollowup,
		})
	}

	total := float64(len(records))
	report.MeanScore = scoreSum / total
	report.MeanCommunication = commSum / total
	report.PerformanceLevel = PerformanceLevelFor(report.MeanScore)

	for label, count := range bucketCount {
		report.ByPersona[label] = PersonaStats{
			Count:             count,
			MeanScore:         bucketScore[label] / float64(count),
			MeanCommunication: bucketComm[label] / float64(count),
		}
	}

	report.DominantPersona, report.ConsistencyPercent = dominant(bucketCount, len(records))
	report.Trend = trendOf(scores)

	return report
}

// PerformanceLevelFor maps an overall mean score onto a coarse level.
func PerformanceLevelFor(mean float64) string {
	switch {
	case mean >= 8:
		return PerformanceExcellent
	case mean >= 6:
		return PerformanceGood
	case mean >= 4:
		return PerformanceAverage
	default:
		return PerformanceNeedsImprovement
	}
}

// dominant picks the most frequent persona. Ties break toward the earliest
// entry in persona.AllLabels so the verdict is deterministic.
func dominant(counts map[persona.Label]int, total int) (persona.Label, float64) {
	var best persona.Label
	bestCount := 0
	for _, label := range persona.AllLabels {
		if counts[label] > bestCount {
			best = label
			bestCount = counts[label]
		}
	}
	if bestCount == 0 || total == 0 {
		return "", 0
	}
	return best, float64(bestCount) / float64(total) * 100
}

// trendOf compares the mean of the last three scores against the mean of the
// scores before them. With exactly three scores the baseline is the first
// score alone. Differences inside trendBand read as steady.
func trendOf(scores []float64) Trend {
	if len(scores) < 3 {
		return TrendUnknown
	}

	recent := mean(scores[len(scores)-3:])
	var earlier float64
	if len(scores) > 3 {
		earlier = mean(scores[:len(scores)-3])
	} else {
		earlier = scores[0]
	}

	switch {
	case recent > earlier+trendBand:
		return TrendImproving
	case recent < earlier-trendBand:
		return TrendDeclining
	default:
		return TrendSteady
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
