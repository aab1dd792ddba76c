package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolforge-dev/toolforge/application/config"
	"github.com/toolforge-dev/toolforge/domain/entities"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(root), newConfigShowCmd(root))
	return cmd
}

func newConfigInitCmd(root *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with default settings",
		Long: `Write a configuration file with default settings. The format follows the
file extension (.json, .yaml or .yml). Without a path, --config or the default
location next to the binary is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.configPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				path = config.DefaultPath()
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(path, entities.DefaultSettings()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration, including environment overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := root.loadSettings()
			if err != nil {
				return err
			}
			out, err := config.Marshal(settings, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json or yaml)")
	return cmd
}
