package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"shelver/internal/api"
	"shelver/internal/config"
	"shelver/internal/library"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect and populate the book index",
	}
	cmd.AddCommand(newLibraryAddCommand(ctx))
	cmd.AddCommand(newLibraryImportCommand(ctx))
	cmd.AddCommand(newLibraryListCommand(ctx))
	cmd.AddCommand(newLibraryStatsCommand(ctx))
	cmd.AddCommand(newLibraryBrowseCommand(ctx))
	return cmd
}

func newLibraryAddCommand(ctx *commandContext) *cobra.Command {
	var book library.NewEbook
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Index a single book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			book.SourcePath = path
			return ctx.withApp(func(a *app) error {
				added, err := a.store.Add(cmd.Context(), book)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, api.FromEbook(*added))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added book %d: %s\n", added.ID, added.SourcePath)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&book.Title, "title", "", "Embedded title")
	cmd.Flags().StringVar(&book.Author, "author", "", "Embedded author")
	cmd.Flags().StringVar(&book.Language, "language", "", "Embedded language")
	cmd.Flags().StringSliceVar(&book.Subjects, "subject", nil, "Embedded subject tag (repeatable)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newLibraryImportCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Index every ebook file below a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			return ctx.withApp(func(a *app) error {
				result, err := a.store.ImportDir(cmd.Context(), root)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Added %d, skipped %d already indexed\n", result.Added, result.Skipped)
				printErrors(out, result.Errors)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	var scope string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed books",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				books, err := a.store.List(cmd.Context(), library.NormalizeScope(scope))
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, api.FromEbooks(books))
				}
				printBooks(cmd.OutOrStdout(), books)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Only list books under this path")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func printBooks(out io.Writer, books []library.Ebook) {
	if len(books) == 0 {
		fmt.Fprintln(out, "No books found")
		return
	}
	rows := make([][]string, 0, len(books))
	for _, book := range books {
		rows = append(rows, []string{
			strconv.FormatInt(book.ID, 10),
			book.Title,
			book.Author,
			book.Format,
			formatPlacement(book.Category, book.SubGenre),
		})
	}
	fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Author", "Format", "Placement"}, rows, []columnAlignment{alignRight}))
}

func newLibraryStatsCommand(ctx *commandContext) *cobra.Command {
	var scope string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show classification coverage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				stats, err := a.store.Stats(cmd.Context(), scope)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, stats)
				}
				out := cmd.OutOrStdout()
				rows := make([][]string, 0, len(stats.BySubGenre))
				for _, key := range sortedKeys(stats.BySubGenre) {
					rows = append(rows, []string{key, strconv.Itoa(stats.BySubGenre[key])})
				}
				if len(rows) > 0 {
					fmt.Fprintln(out, renderTable([]string{"Placement", "Books"}, rows, []columnAlignment{alignLeft, alignRight}))
				}
				fmt.Fprintf(out, "Total:        %d\n", stats.Total)
				fmt.Fprintf(out, "Classified:   %d (%.1f%%)\n", stats.Classified, stats.CoveragePercent)
				fmt.Fprintf(out, "Unclassified: %d\n", stats.Unclassified)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Only count books under this path")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newLibraryBrowseCommand(ctx *commandContext) *cobra.Command {
	var query library.BrowseQuery
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through books in a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				page, err := a.store.Browse(cmd.Context(), query)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, map[string]any{
						"total":  page.Total,
						"offset": page.Offset,
						"limit":  page.Limit,
						"items":  api.FromEbooks(page.Items),
					})
				}
				out := cmd.OutOrStdout()
				printBooks(out, page.Items)
				fmt.Fprintf(out, "Showing %d of %d (offset %d)\n", len(page.Items), page.Total, page.Offset)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&query.Category, "category", "", "Category to browse (_Uncategorized for unclassified books)")
	cmd.Flags().StringVar(&query.SubGenre, "sub-genre", "", "Sub-genre within the category")
	cmd.Flags().StringVar(&query.Scope, "scope", "", "Only browse books under this path")
	cmd.Flags().IntVar(&query.Offset, "offset", 0, "Number of books to skip")
	cmd.Flags().IntVar(&query.Limit, "limit", library.DefaultBrowseLimit, "Page size (max 500)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
