package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"shelver/internal/api"
	"shelver/internal/batch"
	"shelver/internal/reorganize"
)

type reorganizeFlags struct {
	destination         string
	scope               string
	includeUnclassified bool
	operation           string
	onCollision         string
	jsonOutput          bool
}

func (f *reorganizeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.destination, "dest", "", "Destination root (default reorganize.destination)")
	cmd.Flags().StringVar(&f.scope, "scope", "", "Only reorganize books under this path")
	cmd.Flags().BoolVar(&f.includeUnclassified, "include-unclassified", false, "Also place unclassified books")
	cmd.Flags().StringVar(&f.operation, "operation", "", "move or copy (default reorganize.operation)")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Output as JSON")
}

func (f *reorganizeFlags) input(cmd *cobra.Command) api.ReorganizeInput {
	in := api.ReorganizeInput{
		Destination: f.destination,
		Scope:       f.scope,
		Operation:   f.operation,
		OnCollision: f.onCollision,
	}
	if cmd.Flags().Changed("include-unclassified") {
		include := f.includeUnclassified
		in.IncludeUnclassified = &include
	}
	return in
}

func newReorganizeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reorganize",
		Short: "Plan or apply the Category/Sub-genre/Author layout",
	}
	cmd.AddCommand(newReorganizePreviewCommand(ctx))
	cmd.AddCommand(newReorganizeApplyCommand(ctx))
	return cmd
}

func newReorganizePreviewCommand(ctx *commandContext) *cobra.Command {
	flags := &reorganizeFlags{}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show planned moves without touching files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				plan, err := a.service.PreviewReorganize(cmd.Context(), flags.input(cmd))
				if err != nil {
					return err
				}
				if flags.jsonOutput {
					return writeJSON(cmd, plan)
				}
				printPlan(cmd.OutOrStdout(), plan)
				return nil
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func printPlan(out io.Writer, plan reorganize.Plan) {
	if len(plan.Moves) > 0 {
		rows := make([][]string, 0, len(plan.Moves))
		for _, move := range plan.Moves {
			rows = append(rows, []string{move.SourcePath, move.TargetPath, yesNo(move.HasCollision)})
		}
		fmt.Fprintln(out, renderTable([]string{"Source", "Target", "Collision"}, rows, nil))
	}
	fmt.Fprintf(out, "Destination:  %s (%s)\n", plan.Destination, plan.Operation)
	fmt.Fprintf(out, "Planned:      %d\n", plan.TotalFiles)
	fmt.Fprintf(out, "Classified:   %d\n", plan.ClassifiedFiles)
	fmt.Fprintf(out, "Unclassified: %d\n", plan.UnclassifiedFiles)
	fmt.Fprintf(out, "Collisions:   %d\n", plan.Collisions)
	if plan.Collisions > 0 {
		fmt.Fprintln(out, "Resolve collisions or pass --on-collision skip|overwrite|rename when applying")
	}
}

func newReorganizeApplyCommand(ctx *commandContext) *cobra.Command {
	flags := &reorganizeFlags{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Move or copy books into the planned layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				var progress batch.ProgressFunc
				done := func() {}
				if !flags.jsonOutput {
					progress, done = newProgressPrinter(cmd.ErrOrStderr(), "Reorganizing")
				}
				result, err := a.service.ApplyReorganize(cmd.Context(), flags.input(cmd), progress)
				done()
				if err != nil {
					return err
				}
				if flags.jsonOutput {
					return writeJSON(cmd, result)
				}
				printApplyResult(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.onCollision, "on-collision", "", "skip, overwrite, or rename (default reorganize.on_collision)")
	return cmd
}

func printApplyResult(out io.Writer, result reorganize.Result) {
	fmt.Fprintf(out, "Processed: %d\n", result.TotalProcessed)
	fmt.Fprintf(out, "Succeeded: %d\n", result.Succeeded)
	fmt.Fprintf(out, "Skipped:   %d\n", result.Skipped)
	fmt.Fprintf(out, "Failed:    %d\n", result.Failed)
	printErrors(out, result.Errors)
}
