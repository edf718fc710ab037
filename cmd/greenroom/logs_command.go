package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"greenroom/internal/api"
	"greenroom/internal/ipc"
	"greenroom/internal/logs"
	"greenroom/internal/logstream"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var lines int
	var component string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Display daemon logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			apiClient, err := logs.NewStreamClient(cfg.Paths.APIBind)
			if err != nil {
				return err
			}

			var legacy logstream.TailClient
			client, dialErr := ctx.dialClient()
			if dialErr == nil {
				defer client.Close()
				legacy = client
			}

			printed, err := logstream.Stream(cmd.Context(), apiClient, legacy,
				logstream.Options{
					Lines:  lines,
					Follow: follow,
					Filters: logstream.Filters{
						Component: strings.TrimSpace(component),
					},
				},
				func(evt api.LogEvent) {
					fmt.Fprintln(cmd.OutOrStdout(), formatAPILogEvent(evt))
				},
				func(line string) {
					fmt.Fprintln(cmd.OutOrStdout(), line)
				},
			)
			if errors.Is(err, logstream.ErrFiltersRequireAPI) {
				return fmt.Errorf("the --component filter needs the daemon HTTP API; set api_bind in the config and restart the daemon")
			}
			if logs.IsAPIUnavailable(err) && legacy == nil && dialErr != nil {
				return dialErr
			}
			if err != nil {
				return err
			}
			if !printed && !follow {
				fmt.Fprintln(cmd.OutOrStdout(), "No log entries available")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&lines, "lines", "n", 10, "Number of lines to show (0 for all)")
	cmd.Flags().StringVar(&component, "component", "", "Only show entries from one component (e.g. workflow, interviewer)")
	return cmd
}

func formatAPILogEvent(evt api.LogEvent) string {
	ts := evt.Timestamp.Format("2006-01-02 15:04:05")
	level := strings.ToUpper(strings.TrimSpace(evt.Level))
	if level == "" {
		level = "INFO"
	}
	parts := []string{ts, level}
	if component := strings.TrimSpace(evt.Component); component != "" {
		parts = append(parts, fmt.Sprintf("[%s]", component))
	}
	subject := composeSubject(evt.SessionID, evt.Stage)
	line := strings.Join(parts, " ")
	if subject != "" {
		line += " " + subject
	}
	message := strings.TrimSpace(evt.Message)
	if message != "" {
		line += " – " + message
	}
	if len(evt.Details) == 0 {
		return line
	}
	builder := strings.Builder{}
	builder.WriteString(line)
	for _, detail := range evt.Details {
		if strings.TrimSpace(detail.Label) == "" || strings.TrimSpace(detail.Value) == "" {
			continue
		}
		builder.WriteString("\n    - ")
		builder.WriteString(detail.Label)
		builder.WriteString(": ")
		builder.WriteString(detail.Value)
	}
	return builder.String()
}

func composeSubject(sessionID int64, stage string) string {
	stage = strings.TrimSpace(stage)
	switch {
	case sessionID > 0 && stage != "":
		return fmt.Sprintf("Session #%d (%s)", sessionID, stage)
	case sessionID > 0:
		return fmt.Sprintf("Session #%d", sessionID)
	default:
		return stage
	}
}
