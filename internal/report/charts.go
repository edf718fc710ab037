package report

import (
	"github.com/asticode/go-astichartjs"

	"greenroom/internal/persona"
	"greenroom/internal/scoring"
)

// ChartSet holds the chart.js payloads embedded in the exported report.
type ChartSet struct {
	// Scores plots answer and communication scores per question.
	Scores *astichartjs.Chart `json:"scores,omitempty"`
	// PersonaMix plots the running share of each persona as the interview
	// progressed.
	PersonaMix *astichartjs.Chart `json:"persona_mix,omitempty"`
}

func buildCharts(series []scoring.Point) ChartSet {
	if len(series) == 0 {
		return ChartSet{}
	}
	return ChartSet{
		Scores:     scoreChart(series),
		PersonaMix: personaMixChart(series),
	}
}

func scoreChart(series []scoring.Point) *astichartjs.Chart {
	score := astichartjs.Dataset{
		BackgroundColor: astichartjs.ChartBackgroundColorGreen,
		BorderColor:     astichartjs.ChartBorderColorGreen,
		Label:           "Answer score",
	}
	comm := astichartjs.Dataset{
		BackgroundColor: astichartjs.ChartBackgroundColorBlue,
		BorderColor:     astichartjs.ChartBorderColorBlue,
		Label:           "Communication",
	}
	for _, p := range series {
		score.Data = append(score.Data, astichartjs.DataPoint{X: float64(p.Index), Y: p.Score})
		comm.Data = append(comm.Data, astichartjs.DataPoint{X: float64(p.Index), Y: p.CommunicationScore})
	}
	return &astichartjs.Chart{
		Data: &astichartjs.Data{Datasets: []astichartjs.Dataset{score, comm}},
		Options: &astichartjs.Options{
			Scales: &astichartjs.Scales{
				XAxes: []astichartjs.Axis{
					{
						Position: astichartjs.ChartAxisPositionsBottom,
						ScaleLabel: &astichartjs.ScaleLabel{
							Display:     boolPtr(true),
							LabelString: "Question",
						},
						Type: astichartjs.ChartAxisTypesLinear,
					},
				},
				YAxes: []astichartjs.Axis{
					{
						ScaleLabel: &astichartjs.ScaleLabel{
							Display:     boolPtr(true),
							LabelString: "Score (0-10)",
						},
					},
				},
			},
			Title: &astichartjs.Title{Display: boolPtr(true)},
		},
		Type: astichartjs.ChartTypeLine,
	}
}

// personaMixChart tracks, after each question, what share of the answers so
// far fell into each persona. Only personas that actually appeared get a
// dataset.
func personaMixChart(series []scoring.Point) *astichartjs.Chart {
	present := make(map[persona.Label]bool, len(series))
	for _, p := range series {
		present[p.Persona] = true
	}

	// One color per persona so no two datasets share a color.
	backgrounds := []string{
		astichartjs.ChartBackgroundColorGreen,
		astichartjs.ChartBackgroundColorBlue,
		astichartjs.ChartBackgroundColorRed,
		astichartjs.ChartBackgroundColorOrange,
	}
	borders := []string{
		astichartjs.ChartBorderColorGreen,
		astichartjs.ChartBorderColorBlue,
		astichartjs.ChartBorderColorRed,
		astichartjs.ChartBorderColorOrange,
	}

	var datasets []astichartjs.Dataset
	colorIdx := 0
	for _, label := range persona.AllLabels {
		if !present[label] {
			continue
		}
		ds := astichartjs.Dataset{
			BackgroundColor: backgrounds[colorIdx%len(backgrounds)],
			BorderColor:     borders[colorIdx%len(borders)],
			Label:           label.DisplayName(),
		}
		colorIdx++
		count := 0
		for i, p := range series {
			if p.Persona == label {
				count++
			}
			share := float64(count) / float64(i+1) * 100
			ds.Data = append(ds.Data, astichartjs.DataPoint{X: float64(p.Index), Y: share})
		}
		datasets = append(datasets, ds)
	}

	return &astichartjs.Chart{
		Data: &astichartjs.Data{Datasets: datasets},
		Options: &astichartjs.Options{
			Scales: &astichartjs.Scales{
				XAxes: []astichartjs.Axis{
					{
						Position: astichartjs.ChartAxisPositionsBottom,
						ScaleLabel: &astichartjs.ScaleLabel{
							Display:     boolPtr(true),
							LabelString: "Question",
						},
						Type: astichartjs.ChartAxisTypesLinear,
					},
				},
				YAxes: []astichartjs.Axis{
					{
						ScaleLabel: &astichartjs.ScaleLabel{
							Display:     boolPtr(true),
							LabelString: "Share of answers (%)",
						},
					},
				},
			},
			Title: &astichartjs.Title{Display: boolPtr(true)},
		},
		Type: astichartjs.ChartTypeLine,
	}
}

func boolPtr(b bool) *bool { return &b }
