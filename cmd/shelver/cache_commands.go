package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shelver/internal/openlibrary"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the Open Library lookup cache",
	}
	cmd.AddCommand(newCacheStatsCommand(ctx))
	cmd.AddCommand(newCacheClearCommand(ctx))
	return cmd
}

func withLookupCache(ctx *commandContext, fn func(*openlibrary.Cache) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cache, err := openlibrary.OpenCache(cfg.OpenLibrary.CacheDir)
	if err != nil {
		return err
	}
	defer cache.Close()
	return fn(cache)
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show how many lookups are cached",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLookupCache(ctx, func(cache *openlibrary.Cache) error {
				n, err := cache.Len()
				if err != nil {
					return fmt.Errorf("count cached lookups: %w", err)
				}
				if jsonOutput {
					return writeJSON(cmd, map[string]int{"entries": n})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cached lookups: %d\n", n)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached lookup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLookupCache(ctx, func(cache *openlibrary.Cache) error {
				n, err := cache.Len()
				if err != nil {
					return fmt.Errorf("count cached lookups: %w", err)
				}
				if err := cache.Clear(); err != nil {
					return fmt.Errorf("clear lookup cache: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached lookups\n", n)
				return nil
			})
		},
	}
}
