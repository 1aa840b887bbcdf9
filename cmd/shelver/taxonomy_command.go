package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTaxonomyCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Show the category and sub-genre tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			tax, err := ctx.taxonomy()
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, tax.Tree())
			}

			rows := make([][]string, 0)
			for _, category := range tax.Categories() {
				names := make([]string, 0, len(category.SubGenres))
				for _, sub := range category.SubGenres {
					names = append(names, sub.Name)
				}
				rows = append(rows, []string{category.Name, strings.Join(names, ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Category", "Sub-genres"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
