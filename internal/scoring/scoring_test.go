package scoring

import (
	"math"
	"testing"

	"greenroom/internal/persona"
)

func rec(score, comm float64, label persona.Label) Record {
	return Record{Question: "q", Persona: label, Score: score, CommunicationScore: comm}
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(nil)
	if !report.NoData {
		t.Fatal("expected NoData for empty record list")
	}
	if report.TotalAnswers != 0 || report.MeanScore != 0 {
		t.Fatalf("expected zeroed report, got %+v", report)
	}
	if report.Trend != TrendUnknown {
		t.Fatalf("expected unknown trend, got %q", report.Trend)
	}
}

func TestAggregateMeans(t *testing.T) {
	records := []Record{
		rec(8, 7, persona.LabelEfficient),
		rec(4, 5, persona.LabelConfused),
		rec(10, 9, persona.LabelEfficient),
	}
	report := Aggregate(records)

	if report.NoData {
		t.Fatal("unexpected NoData")
	}
	if report.TotalAnswers != 3 {
		t.Fatalf("TotalAnswers = %d, want 3", report.TotalAnswers)
	}
	if math.Abs(report.MeanScore-7.3333) > 0.001 {
		t.Errorf("MeanScore = %v, want 7.333", report.MeanScore)
	}
	if math.Abs(report.MeanCommunication-7.0) > 0.001 {
		t.Errorf("MeanCommunication = %v, want 7.0", report.MeanCommunication)
	}
	if report.PerformanceLevel != PerformanceGood {
		t.Errorf("PerformanceLevel = %q, want %q", report.PerformanceLevel, PerformanceGood)
	}
}

func TestAggregatePersonaBuckets(t *testing.T) {
	records := []Record{
		rec(8, 8, persona.LabelEfficient),
		rec(6, 7, persona.LabelEfficient),
		rec(2, 3, persona.LabelConfused),
	}
	report := Aggregate(records)

	eff := report.ByPersona[persona.LabelEfficient]
	if eff.Count != 2 {
		t.Fatalf("efficient count = %d, want 2", eff.Count)
	}
	if math.Abs(eff.MeanScore-7.0) > 0.001 {
		t.Errorf("efficient mean = %v, want 7.0", eff.MeanScore)
	}
	if math.Abs(eff.MeanCommunication-7.5) > 0.001 {
		t.Errorf("efficient comm mean = %v, want 7.5", eff.MeanCommunication)
	}

	conf := report.ByPersona[persona.LabelConfused]
	if conf.Count != 1 || conf.MeanScore != 2 {
		t.Errorf("confused bucket = %+v", conf)
	}

	if report.DominantPersona != persona.LabelEfficient {
		t.Errorf("dominant = %q, want efficient", report.DominantPersona)
	}
	if math.Abs(report.ConsistencyPercent-66.666) > 0.01 {
		t.Errorf("consistency = %v, want 66.67", report.ConsistencyPercent)
	}
}

func TestAggregateDominantTieBreaksByLabelOrder(t *testing.T) {
	records := []Record{
		rec(5, 5, persona.LabelChatty),
		rec(5, 5, persona.LabelConfused),
	}
	report := Aggregate(records)
	if report.DominantPersona != persona.LabelConfused {
		t.Fatalf("tie should break toward confused (earlier label), got %q", report.DominantPersona)
	}
}

func TestAggregateSeriesOrder(t *testing.T) {
	records := []Record{
		{Question: "first", Persona: persona.LabelEfficient, Score: 5},
		{Question: "second", Persona: persona.LabelChatty, Score: 6, IsFollowup: true},
	}
	report := Aggregate(records)
	if len(report.Series) != 2 {
		t.Fatalf("series length = %d, want 2", len(report.Series))
	}
	if report.Series[0].Index != 1 || report.Series[0].Question != "first" {
		t.Errorf("unexpected first point %+v", report.Series[0])
	}
	if report.Series[1].Index != 2 || !report.Series[1].IsFollowup {
		t.Errorf("unexpected second point %+v", report.Series[1])
	}
}

func TestTrendOf(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   Trend
	}{
		{"too few", []float64{5, 6}, TrendUnknown},
		{"improving over baseline", []float64{3, 6, 7, 8}, TrendImproving},
		{"declining", []float64{9, 9, 4, 4, 4}, TrendDeclining},
		{"steady within band", []float64{6, 6.2, 6.1, 6.3}, TrendSteady},
		{"exactly three compares against first score", []float64{4, 5, 9}, TrendImproving},
		{"exactly three steady", []float64{6, 6, 6}, TrendSteady},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trendOf(tt.scores); got != tt.want {
				t.Errorf("trendOf(%v) = %q, want %q", tt.scores, got, tt.want)
			}
		})
	}
}

func TestPerformanceLevelFor(t *testing.T) {
	tests := []struct {
		mean float64
		want string
	}{
		{9.5, PerformanceExcellent},
		{8, PerformanceExcellent},
		{7.9, PerformanceGood},
		{6, PerformanceGood},
		{5, PerformanceAverage},
		{4, PerformanceAverage},
		{3.9, PerformanceNeedsImprovement},
		{0, PerformanceNeedsImprovement},
	}
	for _, tt := range tests {
		if got := PerformanceLevelFor(tt.mean); got != tt.want {
			t.Errorf("PerformanceLevelFor(%v) = %q, want %q", tt.mean, got, tt.want)
		}
	}
}
