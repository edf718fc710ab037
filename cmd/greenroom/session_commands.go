package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"greenroom/internal/api"
	"greenroom/internal/sessionaccess"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	sessionCmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Inspect and manage interview sessions",
		// Bare `greenroom sessions` lists, matching the most common use.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionList(cmd, ctx, listStatuses)
		},
	}
	sessionCmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by session status (repeatable)")

	sessionCmd.AddCommand(newSessionStatusCommand(ctx))
	sessionCmd.AddCommand(newSessionListCommand(ctx))
	sessionCmd.AddCommand(newSessionClearCommand(ctx))
	sessionCmd.AddCommand(newSessionResetCommand(ctx))
	sessionCmd.AddCommand(newSessionRetryCommand(ctx))
	sessionCmd.AddCommand(newSessionCancelCommand(ctx))
	sessionCmd.AddCommand(newSessionHealthCommand(ctx))

	return sessionCmd
}

func newSessionStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session status summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withAccess(func(access sessionaccess.Access) error {
				stats, err := access.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := buildSessionStatusRows(stats)
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded")
					return nil
				}
				table := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprint(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newSessionListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List interview sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionList(cmd, ctx, listStatuses)
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by session status (repeatable)")
	return cmd
}

func runSessionList(cmd *cobra.Command, ctx *commandContext, statuses []string) error {
	return ctx.withAccess(func(access sessionaccess.Access) error {
		items, err := access.List(cmd.Context(), statuses)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded")
			return nil
		}
		table := renderTable(
			[]string{"ID", "Role", "Type", "Status", "Questions", "Created"},
			buildSessionListRows(items),
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		)
		fmt.Fprint(cmd.OutOrStdout(), table)
		return nil
	})
}

func newSessionClearCommand(ctx *commandContext) *cobra.Command {
	var clearCompleted bool
	var clearFailed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove interview sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearCompleted && clearFailed {
				return errors.New("specify only one of --completed or --failed")
			}
			return ctx.withAccess(func(access sessionaccess.Access) error {
				var removed int64
				var err error
				switch {
				case clearCompleted:
					removed, err = access.ClearCompleted(cmd.Context())
				case clearFailed:
					removed, err = access.ClearFailed(cmd.Context())
				default:
					removed, err = access.ClearAll(cmd.Context())
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d %s\n", removed, bulkClearLabel(clearCompleted, clearFailed))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearCompleted, "completed", false, "Remove only completed sessions")
	cmd.Flags().BoolVar(&clearFailed, "failed", false, "Remove only failed sessions")
	return cmd
}

func newSessionResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-stuck",
		Short: "Return in-flight sessions to pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withAccess(func(access sessionaccess.Access) error {
				updated, err := access.ResetStuck(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d sessions\n", updated)
				return nil
			})
		},
	}
}

func newSessionRetryCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "retry [sessionID...]",
		Short: "Retry failed or stopped sessions",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parsePositiveIDs(args)
			if err != nil {
				return err
			}

			return ctx.withAccess(func(access sessionaccess.Access) error {
				out := cmd.OutOrStdout()
				if len(ids) == 0 {
					updated, err := access.RetryAll(cmd.Context())
					if err != nil {
						return err
					}
					if jsonOutput {
						return writeJSON(cmd, map[string]any{"updated": updated})
					}
					fmt.Fprintf(out, "Retried %d sessions\n", updated)
					return nil
				}

				result, err := api.RetryFailedSessionsByID(cmd.Context(), access, ids)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeSessionRetryResultJSON(cmd, result)
				}
				printSessionRetryResult(out, result)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable output")
	return cmd
}

func newSessionCancelCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "cancel <sessionID...>",
		Aliases: []string{"stop"},
		Short:   "Stop sessions and park them for review",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parsePositiveIDs(args)
			if err != nil {
				return err
			}

			return ctx.withAccess(func(access sessionaccess.Access) error {
				result, err := api.CancelSessionsByID(cmd.Context(), access, ids)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeSessionCancelResultJSON(cmd, result)
				}
				printSessionCancelResult(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable output")
	return cmd
}

func newSessionHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show aggregate session counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withAccess(func(access sessionaccess.Access) error {
				summary, err := access.Health(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Total sessions: %d\n", summary.Total)
				fmt.Fprintf(out, "Pending: %d\n", summary.Pending)
				fmt.Fprintf(out, "Processing: %d\n", summary.Processing)
				fmt.Fprintf(out, "Failed: %d\n", summary.Failed)
				fmt.Fprintf(out, "Review: %d\n", summary.Review)
				fmt.Fprintf(out, "Completed: %d\n", summary.Completed)
				return nil
			})
		},
	}
}
