package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/toolforge-dev/toolforge/application/config"
	"github.com/toolforge-dev/toolforge/domain/entities"
	"github.com/toolforge-dev/toolforge/log"
)

// errUnsuccessful makes the process exit with status 1 without printing anything
// beyond the report already written.
var errUnsuccessful = errors.New("operation was not successful")

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "toolforge",
		Short: "Toolchain execution server for coding agents",
		Long: `toolforge - toolchain execution server

Runs dotnet, cargo, python, MSBuild and the Delphi compilers on behalf of a
client and returns a normalized report of exit code, output and errors.

Configuration is read from config.json next to the binary unless --config is
given. Any key can be overridden with a TOOLFORGE_ environment variable, e.g.
TOOLFORGE_FEATURES_DEFAULTTIMEOUT=120.

Examples:
  toolforge serve                                  # MCP server on stdin/stdout
  toolforge serve --metrics-addr :9464             # ... with Prometheus metrics
  toolforge run execute_cargo_command --arg command=build --arg workingDirectory=./app
  toolforge list --format json                     # operations and input schemas
  toolforge resolve --version 22.0                 # locate a Delphi installation`,
		Version:       Version + " (" + Build + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (default: config.json next to the binary)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newRunCmd(opts),
		newListCmd(opts),
		newResolveCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

func (o *rootOptions) loadSettings() (*entities.Settings, error) {
	return config.Load(o.configPath)
}

// newLogger builds the process logger. Records always go to w, never to stdout,
// which carries protocol messages and reports.
func (o *rootOptions) newLogger(settings *entities.Settings, w io.Writer) *log.Logger {
	opts := append(log.FromSettings(settings.Logging), log.WithWriter(w))
	if o.logLevel != "" {
		opts = append(opts, log.WithLevel(log.ParseLevel(o.logLevel)))
	}
	return log.New(opts...)
}
