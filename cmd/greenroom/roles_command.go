package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"greenroom/internal/roles"
)

func newRolesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "roles",
		Short:       "List the built-in interview roles",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := roles.Catalog()
			if len(catalog) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No roles available")
				return nil
			}

			rows := make([][]string, 0, len(catalog))
			for _, role := range catalog {
				rows = append(rows, []string{
					role.Name,
					role.Industry,
					strings.Join(role.FocusAreas, ", "),
					fmt.Sprintf("%d", len(role.Questions.Technical)),
					fmt.Sprintf("%d", len(role.Questions.Behavioral)),
				})
			}
			table := renderTable(
				[]string{"Role", "Industry", "Focus Areas", "Technical Qs", "Behavioral Qs"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			)
			fmt.Fprint(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
