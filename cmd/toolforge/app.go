package main

import (
	"io"

	"github.com/toolforge-dev/toolforge/application/config"
	"github.com/toolforge-dev/toolforge/domain/entities"
	"github.com/toolforge-dev/toolforge/domain/ports"
	"github.com/toolforge-dev/toolforge/engine"
	"github.com/toolforge-dev/toolforge/log"
	"github.com/toolforge-dev/toolforge/operations"
	"github.com/toolforge-dev/toolforge/toolchains"
)

// app is the wired object graph shared by serve and run.
type app struct {
	provider *config.Provider
	logger   *log.Logger
	registry *operations.Registry
}

func newApp(opts *rootOptions, stderr io.Writer, observers ...ports.ExecutionObserver) (*app, error) {
	settings, err := opts.loadSettings()
	if err != nil {
		return nil, err
	}
	return newAppWithSettings(opts, settings, stderr, observers...)
}

func newAppWithSettings(opts *rootOptions, settings *entities.Settings, stderr io.Writer, observers ...ports.ExecutionObserver) (*app, error) {
	logger := opts.newLogger(settings, stderr)
	provider := config.NewProvider(settings)

	eng := engine.New(provider,
		engine.WithLogger(logger.Logger),
		engine.WithObservers(observers...),
	)
	adapters := toolchains.New(eng, toolchains.WithLogger(logger.Logger))

	registry, err := operations.NewRegistry(
		operations.WithMiddleware(
			operations.PanicRecoveryMiddleware(),
			operations.LoggingMiddleware(logger.Logger),
		),
		operations.WithSchemaValidation(),
		operations.WithBundle(operations.ToolchainBundle(adapters)),
	)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	return &app{provider: provider, logger: logger, registry: registry}, nil
}

func (a *app) Close() error {
	return a.logger.Close()
}
