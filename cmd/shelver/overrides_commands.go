package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelver/internal/overrides"
	"shelver/internal/taxonomy"
)

const defaultOverridesFile = "overrides.json"

func newOverridesCommand(ctx *commandContext) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Manage the manual override session file",
	}
	cmd.PersistentFlags().StringVar(&file, "file", "", "Session file (default <data_dir>/overrides.json)")

	cmd.AddCommand(newOverridesSetCommand(ctx, &file))
	cmd.AddCommand(newOverridesClearCommand(ctx, &file))
	cmd.AddCommand(newOverridesListCommand(ctx, &file))
	return cmd
}

// loadSession opens the ledger named by file, defaulting into the data dir.
func loadSession(ctx *commandContext, file string) (*overrides.Ledger, string, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, "", err
	}
	tax, err := ctx.taxonomy()
	if err != nil {
		return nil, "", err
	}
	path := strings.TrimSpace(file)
	if path == "" {
		path = filepath.Join(cfg.Paths.DataDir, defaultOverridesFile)
	}
	ledger, err := overrides.Load(path, tax)
	if err != nil {
		return nil, "", err
	}
	return ledger, path, nil
}

func newOverridesSetCommand(ctx *commandContext, file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <category> [sub-genre]",
		Short: "Record an override for one book",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEbookID(args[0])
			if err != nil {
				return err
			}
			placement := taxonomy.Placement{Category: args[1]}
			if len(args) == 3 {
				placement.SubGenre = args[2]
			}
			ledger, path, err := loadSession(ctx, *file)
			if err != nil {
				return err
			}
			if err := ledger.Set(id, placement); err != nil {
				return err
			}
			if err := ledger.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Override for book %d set to %s (%d total)\n", id, formatPlacement(placement.Category, placement.SubGenre), ledger.Len())
			return nil
		},
	}
}

func newOverridesClearCommand(ctx *commandContext, file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [id]",
		Short: "Remove one override, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, path, err := loadSession(ctx, *file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				ledger.ClearAll()
				if err := ledger.Save(path); err != nil {
					return err
				}
				fmt.Fprintln(out, "All overrides cleared")
				return nil
			}
			id, err := parseEbookID(args[0])
			if err != nil {
				return err
			}
			if !ledger.Clear(id) {
				fmt.Fprintf(out, "No override recorded for book %d\n", id)
				return nil
			}
			if err := ledger.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(out, "Override for book %d cleared\n", id)
			return nil
		},
	}
}

func newOverridesListCommand(ctx *commandContext, file *string) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, _, err := loadSession(ctx, *file)
			if err != nil {
				return err
			}
			entries := ledger.Entries()
			if jsonOutput {
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No overrides recorded")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{strconv.FormatInt(entry.EbookID, 10), entry.Category, entry.SubGenre})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Category", "Sub-genre"}, rows, []columnAlignment{alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
