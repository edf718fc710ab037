package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"greenroom/internal/api"
	"greenroom/internal/ipc"
	"greenroom/internal/report"
	"greenroom/internal/roles"
)

func newPracticeCommand(ctx *commandContext) *cobra.Command {
	var roleFlag string
	var typeFlag string
	var questions int
	var textOnly bool

	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Run an interview session in the foreground",
		Long: "Run a complete rehearsal in the terminal without the daemon: " +
			"questions are asked one at a time, answers are captured from the " +
			"microphone or keyboard, and the feedback report prints when done.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// A running daemon would race the foreground run for pending
			// sessions.
			if client, dialErr := ipc.Dial(ctx.socketPath()); dialErr == nil {
				status, statusErr := client.Status()
				_ = client.Close()
				if statusErr == nil && status != nil && status.Running {
					return fmt.Errorf("the daemon is processing sessions; stop it with `greenroom stop` before practicing in the foreground")
				}
			}

			role := strings.TrimSpace(roleFlag)
			if role == "" {
				role = cfg.Interview.DefaultRole
			}
			role = roles.CanonicalName(role)

			typeValue := strings.TrimSpace(typeFlag)
			if typeValue == "" {
				typeValue = cfg.Interview.DefaultType
			}
			interviewType, ok := roles.ParseInterviewType(typeValue)
			if !ok {
				return fmt.Errorf("unknown interview type %q (expected technical or behavioral)", typeValue)
			}

			result, err := api.RunPracticeSession(cmd.Context(), api.PracticeSessionRequest{
				Config:        cfg,
				Role:          role,
				InterviewType: string(interviewType),
				Questions:     questions,
				TextOnly:      textOnly,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			if strings.TrimSpace(result.ReportJSON) != "" {
				var model report.DisplayModel
				if jsonErr := json.Unmarshal([]byte(result.ReportJSON), &model); jsonErr == nil {
					printReport(out, model, shouldColorize(out))
				}
			}
			if path := strings.TrimSpace(result.ReportPath); path != "" {
				fmt.Fprintf(out, "\nFull report: %s\n", path)
			}
			fmt.Fprintf(out, "Session %d finished (%s)\n", result.SessionID, formatStatusLabel(result.Status))
			return nil
		},
	}

	cmd.Flags().StringVarP(&roleFlag, "role", "r", "", "Role to rehearse for (see `greenroom roles`)")
	cmd.Flags().StringVarP(&typeFlag, "type", "t", "", "Interview type: technical or behavioral")
	cmd.Flags().IntVarP(&questions, "questions", "q", 0, "Number of questions for the session")
	cmd.Flags().BoolVar(&textOnly, "text-only", false, "Type answers instead of speaking them")
	return cmd
}
