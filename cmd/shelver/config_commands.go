package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"shelver/internal/config"
	"shelver/internal/taxonomy"
	"shelver/internal/textutil"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set reorganize.destination before running `shelver reorganize`.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			if _, err := taxonomy.Load(cfg.Paths.TaxonomyFile); err != nil {
				return fmt.Errorf("load taxonomy: %w", err)
			}

			source := path
			if !exists {
				source = path + " (not found, defaults used)"
			}
			rows := [][]string{
				{"Config", source},
				{"Library index", cfg.Paths.LibraryDB},
				{"Locks", cfg.Paths.LockDir},
				{"Logs", cfg.Paths.LogDir},
				{"Taxonomy", textutil.Ternary(cfg.Paths.TaxonomyFile == "", "built-in", cfg.Paths.TaxonomyFile)},
				{"Enrichment", textutil.Ternary(cfg.Classification.Enrichment, cfg.OpenLibrary.BaseURL, "disabled")},
				{"Destination", textutil.Ternary(cfg.Reorganize.Destination == "", "(unset)", cfg.Reorganize.Destination)},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows, nil))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
