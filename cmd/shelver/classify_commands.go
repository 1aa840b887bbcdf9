package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelver/internal/api"
	"shelver/internal/batch"
	"shelver/internal/overrides"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Preview, run, or set book classifications",
	}
	cmd.AddCommand(newClassifyPreviewCommand(ctx))
	cmd.AddCommand(newClassifyRunCommand(ctx))
	cmd.AddCommand(newClassifySetCommand(ctx))
	return cmd
}

func newClassifyPreviewCommand(ctx *commandContext) *cobra.Command {
	var scope string
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show proposed placements without saving them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				preview, err := a.service.PreviewClassification(cmd.Context(), api.PreviewClassificationInput{Scope: scope, Limit: limit})
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, preview)
				}
				printPreview(cmd.OutOrStdout(), preview)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Only consider books under this path")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of books (0 uses the configured default)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func printPreview(out io.Writer, preview batch.Preview) {
	if preview.Previewed == 0 {
		fmt.Fprintln(out, "No books to classify")
		return
	}
	rows := make([][]string, 0, preview.Previewed)
	for _, category := range sortedKeys(preview.Tree) {
		subs := preview.Tree[category]
		for _, sub := range sortedKeys(subs) {
			for _, book := range subs[sub] {
				rows = append(rows, []string{
					strconv.FormatInt(book.ID, 10),
					book.Title,
					book.Author,
					formatPlacement(book.Category, book.SubGenre),
					string(book.Source),
					fmt.Sprintf("%.2f", book.Confidence),
				})
			}
		}
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Title", "Author", "Proposed", "Source", "Confidence"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
	fmt.Fprintf(out, "Previewed %d of %d books to classify\n", preview.Previewed, preview.TotalToClassify)
}

func newClassifyRunCommand(ctx *commandContext) *cobra.Command {
	var scope string
	var limit int
	var force bool
	var ids []int64
	var overridesFile string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify books and save the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				input := api.BatchClassifyInput{
					Scope:           scope,
					Limit:           limit,
					ForceReclassify: force,
					EbookIDs:        ids,
				}
				if strings.TrimSpace(overridesFile) != "" {
					ledger, err := overrides.Load(overridesFile, a.tax)
					if err != nil {
						return err
					}
					input.Overrides = overrideInputs(ledger)
				}

				var progress batch.ProgressFunc
				done := func() {}
				if !jsonOutput {
					progress, done = newProgressPrinter(cmd.ErrOrStderr(), "Classifying")
				}
				result, err := a.service.BatchClassify(cmd.Context(), input, progress)
				done()
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				printClassifyResult(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Only consider books under this path")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of books (0 uses the configured default)")
	cmd.Flags().BoolVar(&force, "force", false, "Reclassify books that already have a placement")
	cmd.Flags().Int64SliceVar(&ids, "ids", nil, "Classify exactly these book IDs")
	cmd.Flags().StringVar(&overridesFile, "overrides", "", "Overrides session file to apply first")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func overrideInputs(ledger *overrides.Ledger) []api.OverrideInput {
	entries := ledger.Entries()
	inputs := make([]api.OverrideInput, 0, len(entries))
	for _, entry := range entries {
		inputs = append(inputs, api.OverrideInput{
			EbookID:  entry.EbookID,
			Category: entry.Category,
			SubGenre: entry.SubGenre,
		})
	}
	return inputs
}

func printClassifyResult(out io.Writer, result batch.ClassifyResult) {
	fmt.Fprintf(out, "Run:                %s\n", result.RunID)
	fmt.Fprintf(out, "Processed:          %d\n", result.TotalProcessed)
	fmt.Fprintf(out, "Newly classified:   %d\n", result.NewlyClassified)
	fmt.Fprintf(out, "Already classified: %d\n", result.AlreadyClassified)
	fmt.Fprintf(out, "Uncategorized:      %d\n", result.Uncategorized)
	fmt.Fprintf(out, "Failed:             %d\n", result.Failed)
	printErrors(out, result.Errors)
}

func newClassifySetCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "set <id> <category> [sub-genre]",
		Short: "Assign a placement to one book",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEbookID(args[0])
			if err != nil {
				return err
			}
			input := api.SetClassificationInput{EbookID: id, Category: args[1]}
			if len(args) == 3 {
				input.SubGenre = args[2]
			}
			return ctx.withApp(func(a *app) error {
				book, err := a.service.SetClassification(cmd.Context(), input)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, book)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Book %d set to %s\n", book.ID, formatPlacement(input.Category, input.SubGenre))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
