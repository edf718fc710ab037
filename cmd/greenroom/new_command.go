package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"greenroom/internal/roles"
	"greenroom/internal/sessionaccess"
)

func newNewCommand(ctx *commandContext) *cobra.Command {
	var roleFlag string
	var typeFlag string
	var questions int

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Queue a new interview session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
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

			count := questions
			if count <= 0 {
				count = cfg.Interview.QuestionsPerSession
			}

			return ctx.withAccess(func(access sessionaccess.Access) error {
				item, err := access.Create(cmd.Context(), role, string(interviewType), count)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Session %d queued (%s, %s, %d questions)\n",
					item.ID, item.Role, formatStatusLabel(item.InterviewType), item.QuestionsTotal)
				fmt.Fprintf(out, "Track progress with `greenroom show %d` or `greenroom session list`\n", item.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&roleFlag, "role", "r", "", "Role to rehearse for (see `greenroom roles`)")
	cmd.Flags().StringVarP(&typeFlag, "type", "t", "", "Interview type: technical or behavioral")
	cmd.Flags().IntVarP(&questions, "questions", "q", 0, "Number of questions for the session")
	return cmd
}

func newAnswerCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "answer <sessionID> <text...>",
		Short: "Submit a typed answer for the session's current question",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parsePositiveIDs(args[:1])
			if err != nil {
				return err
			}
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if text == "" {
				return fmt.Errorf("answer text is required")
			}

			return ctx.withAccess(func(access sessionaccess.Access) error {
				if err := access.Answer(cmd.Context(), ids[0], text); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Answer submitted for session %d\n", ids[0])
				return nil
			})
		},
	}
	return cmd
}
