package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"greenroom/internal/ipc"
	"greenroom/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check that configured features are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			// Prefer the daemon's view; it checks with the credentials it
			// actually runs with.
			var results []ipc.PreflightResult
			if client, err := ipc.Dial(ctx.socketPath()); err == nil {
				resp, respErr := client.Preflight()
				_ = client.Close()
				if respErr == nil && resp != nil {
					results = resp.Results
				}
			}
			if results == nil {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				for _, check := range preflight.RunFeatureChecks(cmd.Context(), cfg) {
					results = append(results, ipc.PreflightResult{
						Name:   check.Name,
						Passed: check.Passed,
						Detail: check.Detail,
					})
				}
			}

			failed := 0
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusWarn
					failed++
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			if failed > 0 {
				fmt.Fprintf(out, "\n%d of %d checks reported problems\n", failed, len(results))
			}
			return nil
		},
	}
}
