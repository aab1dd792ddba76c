package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toolforge-dev/toolforge/resolver"
)

type resolveOptions struct {
	version         string
	paths           []string
	roots           []string
	noStandardRoots bool
}

func newResolveCmd(root *rootOptions) *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the Delphi installation chosen for a project version",
		Long: `Print the Delphi installation directory chosen for a project version.

Explicit --path entries (default: delphiInstallPaths from the configuration) are
matched first. Otherwise installation roots are scanned: the configured
installRoots, any --root entries and, on Windows, the standard Embarcadero
Studio directories.

Examples:
  toolforge resolve --version 22.0
  toolforge resolve --version 19.5 --path "C:\Delphi\20.0" --path "C:\Delphi\22.0"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := root.loadSettings()
			if err != nil {
				return err
			}
			logger := root.newLogger(settings, cmd.ErrOrStderr())
			defer logger.Close()

			roots := append(append([]string(nil), settings.Tools.MSBuildDelphi.InstallRoots...), opts.roots...)
			resolverOpts := []resolver.Option{
				resolver.WithRoots(roots...),
				resolver.WithLogger(logger.Logger),
			}
			if opts.noStandardRoots {
				resolverOpts = append(resolverOpts, resolver.WithoutStandardRoots())
			}

			paths := opts.paths
			if len(paths) == 0 {
				paths = settings.Tools.MSBuildDelphi.DelphiInstallPaths
			}

			path, ok := resolver.New(resolverOpts...).ResolveInstallPath(opts.version, paths)
			if !ok {
				return fmt.Errorf("no Delphi installation found for version %q", opts.version)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.version, "version", "", "project version, e.g. 22.0")
	cmd.Flags().StringArrayVar(&opts.paths, "path", nil, "explicit installation directory (repeatable)")
	cmd.Flags().StringArrayVar(&opts.roots, "root", nil, "extra directory to scan for versioned installations (repeatable)")
	cmd.Flags().BoolVar(&opts.noStandardRoots, "no-standard-roots", false, "do not scan the standard Embarcadero Studio directories")
	_ = cmd.MarkFlagRequired("version")
	return cmd
}
