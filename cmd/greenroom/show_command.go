package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"greenroom/internal/api"
	"greenroom/internal/logs"
	"greenroom/internal/logstream"
	"greenroom/internal/sessionaccess"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <sessionID>",
		Short: "Display session details and recorded answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parsePositiveIDs(args)
			if err != nil {
				return err
			}
			id := ids[0]

			var item *api.SessionItem
			var answers []api.AnswerItem
			err = ctx.withAccess(func(access sessionaccess.Access) error {
				var err error
				item, err = access.Describe(cmd.Context(), id)
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("session %d not found", id)
				}
				answers, err = access.Answers(cmd.Context(), id)
				return err
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, map[string]any{"item": item, "answers": answers})
			}

			out := cmd.OutOrStdout()
			printSessionDetail(out, *item, answers)

			if !follow {
				return nil
			}
			fmt.Fprintln(out)
			return followSessionLogs(cmd, ctx, id)
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow daemon logs for this session")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable output")
	return cmd
}

func printSessionDetail(out io.Writer, item api.SessionItem, answers []api.AnswerItem) {
	fmt.Fprintf(out, "Session %d (%s)\n", item.ID, item.Token)
	fmt.Fprintf(out, "Role: %s\n", item.Role)
	fmt.Fprintf(out, "Type: %s\n", formatStatusLabel(item.InterviewType))
	fmt.Fprintf(out, "Status: %s\n", formatStatusLabel(item.Status))
	fmt.Fprintf(out, "Questions: %d/%d\n", item.QuestionsAsked, item.QuestionsTotal)
	if stage := strings.TrimSpace(item.Progress.Stage); stage != "" {
		progress := stage
		if msg := strings.TrimSpace(item.Progress.Message); msg != "" {
			progress = fmt.Sprintf("%s (%s)", stage, msg)
		}
		fmt.Fprintf(out, "Progress: %s %.0f%%\n", progress, item.Progress.Percent)
	}
	if item.NeedsReview {
		reason := strings.TrimSpace(item.ReviewReason)
		if reason == "" {
			reason = "needs review"
		}
		fmt.Fprintf(out, "Review: %s\n", reason)
	}
	if msg := strings.TrimSpace(item.ErrorMessage); msg != "" && !item.NeedsReview {
		fmt.Fprintf(out, "Error: %s\n", msg)
	}
	if created := formatDisplayTime(item.CreatedAt); created != "" {
		fmt.Fprintf(out, "Created: %s\n", created)
	}
	if path := strings.TrimSpace(item.ReportPath); path != "" {
		fmt.Fprintf(out, "Report: %s\n", path)
	}
	if path := strings.TrimSpace(item.SessionLogPath); path != "" {
		fmt.Fprintf(out, "Session log: %s\n", path)
	}

	if len(answers) == 0 {
		fmt.Fprintln(out, "No answers recorded yet")
		return
	}

	rows := make([][]string, 0, len(answers))
	for _, answer := range answers {
		question := answer.Question
		if answer.IsFollowup {
			question = "↳ " + question
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", answer.QuestionIndex),
			truncateText(question, 60),
			fmt.Sprintf("%.1f", answer.Score),
			fmt.Sprintf("%.1f", answer.CommunicationScore),
			formatStatusLabel(answer.Persona),
			answer.Source,
		})
	}
	table := renderTable(
		[]string{"#", "Question", "Score", "Comm", "Persona", "Source"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	)
	fmt.Fprintln(out, table)
}

func followSessionLogs(cmd *cobra.Command, ctx *commandContext, sessionID int64) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	apiClient, err := logs.NewStreamClient(cfg.Paths.APIBind)
	if err != nil {
		return err
	}

	_, err = logstream.Stream(cmd.Context(), apiClient, nil,
		logstream.Options{
			Follow:  true,
			Filters: logstream.Filters{SessionID: sessionID},
		},
		func(evt api.LogEvent) {
			fmt.Fprintln(cmd.OutOrStdout(), formatAPILogEvent(evt))
		},
		nil,
	)
	if errors.Is(err, logstream.ErrFiltersRequireAPI) || logs.IsAPIUnavailable(err) {
		return fmt.Errorf("session log streaming needs the daemon HTTP API; set api_bind in the config and restart the daemon")
	}
	return err
}

func truncateText(value string, max int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if max <= 3 || len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}
