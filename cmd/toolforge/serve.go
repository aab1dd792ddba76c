package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/toolforge-dev/toolforge/application/config"
	"github.com/toolforge-dev/toolforge/domain/entities"
	"github.com/toolforge-dev/toolforge/domain/ports"
	"github.com/toolforge-dev/toolforge/infrastructure/metrics"
	"github.com/toolforge-dev/toolforge/infrastructure/stdio"
	"github.com/toolforge-dev/toolforge/log"
)

type serveOptions struct {
	metricsAddr string
	noWatch     bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the toolchain operations as an MCP server on stdin/stdout",
		Long: `Serve the toolchain operations as MCP tools over line-delimited JSON-RPC on
stdin/stdout. Logs are written to stderr.

The configuration file is watched and reloaded on change; an invalid edit is
logged and the previous configuration stays in effect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9464)")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not reload the configuration file on change")
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	var observers []ports.ExecutionObserver
	reg := prometheus.NewRegistry()
	if opts.metricsAddr != "" {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		collector, err := metrics.NewCollector(reg)
		if err != nil {
			return err
		}
		observers = append(observers, collector)
	}

	a, err := newApp(root, cmd.ErrOrStderr(), observers...)
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger

	if opts.metricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, opts.metricsAddr, reg, logger.Logger); err != nil {
				logger.ErrorContext(ctx, "metrics server failed", "error", err)
			}
		}()
	}

	if path := watchedPath(root.configPath); path != "" && !opts.noWatch {
		go func() {
			err := config.Watch(ctx, path, a.provider,
				config.WithWatchLogger(logger.Logger),
				config.WithOnReload(func(s *entities.Settings) {
					if root.logLevel == "" {
						logger.SetLevel(log.ParseLevel(s.Logging.Level))
					}
				}),
			)
			if err != nil {
				logger.ErrorContext(ctx, "configuration watcher stopped", "error", err)
			}
		}()
	}

	logger.InfoContext(ctx, "toolforge MCP server starting", "version", Version, "operations", len(a.registry.Names()))

	srv := stdio.NewServer(a.registry,
		stdio.WithLogger(logger.Logger),
		stdio.WithServerInfo("toolforge", Version),
	)
	return srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}

// watchedPath returns the configuration file to watch, or "" when the default
// file does not exist.
func watchedPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	path := config.DefaultPath()
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
