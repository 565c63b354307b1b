package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/alerts/internal/config"
	"github.com/vango-dev/alerts/internal/errors"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage alerts.json",
	}
	cmd.AddCommand(configInitCmd(), configCheckCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default alerts.json",
		Long: `Write alerts.json with default values to dir (default: current directory).

Examples:
  alerts config init
  alerts config init ./deploy --force`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if config.Exists(dir) && !force {
				return errors.New("E402").
					WithDetail(filepath.Join(dir, config.ConfigFileName) + " already exists").
					WithSuggestion("Pass --force to overwrite it")
			}

			path := filepath.Join(dir, config.ConfigFileName)
			if err := config.New().SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing alerts.json")

	return cmd
}

func configCheckCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the resolved configuration",
		Args:  maxArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(path, ".")
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			source := cfg.Path()
			if source == "" {
				source = "defaults"
			}
			success(w, "Configuration OK (%s)", source)
			info(w, "Listen:    %s", cfg.URL())
			info(w, "Transport: %s", cfg.Stream.Transport)
			if cfg.Metrics.Enabled {
				info(w, "Metrics:   %s", cfg.Metrics.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "Path to alerts.json")

	return cmd
}

// maxArgs is cobra.MaximumNArgs reporting E401.
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return errors.New("E401").
				WithDetail(cmd.CommandPath() + " takes at most " + plural(n, "argument")).
				WithSuggestion("Run '" + cmd.CommandPath() + " --help' for usage")
		}
		return nil
	}
}
