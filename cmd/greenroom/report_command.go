package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"greenroom/internal/report"
	"greenroom/internal/sessionaccess"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "report <sessionID>",
		Short: "Display the feedback report for a completed session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parsePositiveIDs(args)
			if err != nil {
				return err
			}

			return ctx.withAccess(func(access sessionaccess.Access) error {
				item, err := access.Describe(cmd.Context(), ids[0])
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("session %d not found", ids[0])
				}
				if len(item.Report) == 0 {
					return fmt.Errorf("session %d has no report yet (status: %s)", ids[0], formatStatusLabel(item.Status))
				}

				if jsonOutput {
					_, err := cmd.OutOrStdout().Write(append(item.Report, '\n'))
					return err
				}

				var model report.DisplayModel
				if err := json.Unmarshal(item.Report, &model); err != nil {
					return fmt.Errorf("decode report for session %d: %w", ids[0], err)
				}
				printReport(cmd.OutOrStdout(), model, shouldColorize(cmd.OutOrStdout()))
				if path := strings.TrimSpace(item.ReportPath); path != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "\nFull report: %s\n", path)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the raw report JSON")
	return cmd
}

func printReport(out io.Writer, model report.DisplayModel, colorize bool) {
	for _, line := range renderSectionHeader("Interview Feedback", colorize) {
		fmt.Fprintln(out, line)
	}
	if token := strings.TrimSpace(model.SessionToken); token != "" {
		fmt.Fprintf(out, "Session: %s\n", token)
	}
	if role := strings.TrimSpace(model.Role); role != "" {
		fmt.Fprintf(out, "Role: %s (%s)\n", role, formatStatusLabel(model.InterviewType))
	}
	if model.NoData {
		fmt.Fprintln(out, "No scored answers were recorded for this session")
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, renderStatusLine("Overall Score", scoreKind(model.OverallScore), fmt.Sprintf("%.1f/10 (%s)", model.OverallScore, model.PerformanceLevel), colorize))
	fmt.Fprintln(out, renderStatusLine("Communication", scoreKind(model.CommunicationScore), fmt.Sprintf("%.1f/10", model.CommunicationScore), colorize))
	fmt.Fprintln(out, renderStatusLine("Consistency", statusInfo, fmt.Sprintf("%.0f%%", model.ConsistencyPercent), colorize))
	fmt.Fprintln(out, renderStatusLine("Trend", statusInfo, formatStatusLabel(string(model.Trend)), colorize))
	if persona := strings.TrimSpace(model.DominantPersona); persona != "" {
		fmt.Fprintln(out, renderStatusLine("Dominant Persona", statusInfo, formatStatusLabel(persona), colorize))
	}
	if insight := strings.TrimSpace(model.Insight); insight != "" {
		fmt.Fprintf(out, "\n%s\n", insight)
	}
	if advice := strings.TrimSpace(model.TrendAdvice); advice != "" {
		fmt.Fprintln(out, advice)
	}

	if len(model.Personas) > 0 {
		fmt.Fprintln(out)
		rows := make([][]string, 0, len(model.Personas))
		for _, p := range model.Personas {
			rows = append(rows, []string{
				formatStatusLabel(p.Persona),
				fmt.Sprintf("%d", p.Count),
				fmt.Sprintf("%.1f", p.MeanScore),
				fmt.Sprintf("%.1f", p.MeanCommunication),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Persona", "Answers", "Score", "Comm"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
		))
	}

	if len(model.Questions) > 0 {
		rows := make([][]string, 0, len(model.Questions))
		for _, q := range model.Questions {
			question := q.Question
			if q.IsFollowup {
				question = "↳ " + question
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", q.Index),
				truncateText(question, 60),
				fmt.Sprintf("%.1f", q.Score),
				formatStatusLabel(q.Persona),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"#", "Question", "Score", "Persona"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
		))
	}

	if len(model.Suggestions) > 0 {
		for _, line := range renderSectionHeader("Suggestions", colorize) {
			fmt.Fprintln(out, line)
		}
		for _, suggestion := range model.Suggestions {
			fmt.Fprintf(out, "  - %s\n", suggestion)
		}
	}
}

func scoreKind(score float64) statusKind {
	switch {
	case score >= 7:
		return statusOK
	case score >= 4:
		return statusWarn
	default:
		return statusError
	}
}
