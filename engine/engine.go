package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/toolforge-dev/toolforge/domain/entities"
	domainerrors "github.com/toolforge-dev/toolforge/domain/errors"
	"github.com/toolforge-dev/toolforge/domain/ports"
)

// defaultWaitDelay bounds how long Wait blocks on pipes still held open by
// descendants after the main process has exited.
const defaultWaitDelay = 2 * time.Second

// Option is a functional option for configuring an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	logger    *slog.Logger
	observers []ports.ExecutionObserver
	waitDelay time.Duration
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		logger:    slog.Default(),
		waitDelay: defaultWaitDelay,
	}
}

// WithLogger sets the logger. A nil logger discards all records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		c.logger = logger
	}
}

// WithObservers registers execution observers, e.g. metrics collectors.
func WithObservers(observers ...ports.ExecutionObserver) Option {
	return func(c *engineConfig) {
		c.observers = append(c.observers, observers...)
	}
}

// WithWaitDelay sets how long to wait for output pipes after the process exits.
func WithWaitDelay(d time.Duration) Option {
	return func(c *engineConfig) {
		if d > 0 {
			c.waitDelay = d
		}
	}
}

// Engine is the shared subprocess execution pipeline.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	settings ports.SettingsProvider
	config   engineConfig
}

// New creates an Engine reading configuration from provider.
func New(provider ports.SettingsProvider, opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{settings: provider, config: cfg}
}

// Execute runs command with the toolchain's executable and returns the outcome.
// It never returns nil and never panics; every failure is reported as a fatal
// error in the outcome. The process is stopped only by the configured deadline:
// cancellation of ctx does not interrupt a running process.
func (e *Engine) Execute(ctx context.Context, tc Toolchain, command, workingDirectory string) (outcome *entities.ExecutionOutcome) {
	id := uuid.NewString()
	start := time.Now()
	settings := e.snapshot()

	logger := e.config.logger
	if !settings.Features.EnableLogging {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("tool", tc.Name, "execution_id", id)

	for _, obs := range e.config.observers {
		obs.ExecutionStarted(ctx, tc.Name)
	}

	defer func() {
		if r := recover(); r != nil {
			outcome = fatalOutcome(ctx, logger, command, &domainerrors.PanicError{Value: r})
		}
		outcome.ExecutionID = id
		outcome.Duration = time.Since(start)
		for _, obs := range e.config.observers {
			obs.ExecutionFinished(ctx, tc.Name, outcome)
		}
	}()

	logger.InfoContext(ctx, "executing command", "command", command)

	result, err := e.run(ctx, logger, tc, settings, command, workingDirectory)
	if err != nil {
		return fatalOutcome(ctx, logger, command, err)
	}
	return result
}

func (e *Engine) snapshot() *entities.Settings {
	if e.settings == nil {
		return entities.DefaultSettings()
	}
	if s := e.settings.Current(); s != nil {
		return s
	}
	return entities.DefaultSettings()
}

func (e *Engine) run(
	ctx context.Context,
	logger *slog.Logger,
	tc Toolchain,
	settings *entities.Settings,
	command, workingDirectory string,
) (*entities.ExecutionOutcome, error) {
	call := Call{
		Settings:         settings,
		Command:          command,
		WorkingDirectory: workingDirectory,
	}
	if tc.Location != nil {
		call.Location = tc.Location(settings)
	}
	if call.Location.ExecutableName == "" {
		call.Location.ExecutableName = tc.Name
	}

	if call.WorkingDirectory == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		call.WorkingDirectory = wd
	}

	executable, err := e.resolveExecutable(ctx, logger, tc, call)
	if err != nil {
		return nil, err
	}

	if tc.PreFlight != nil {
		if err := tc.PreFlight(ctx, call); err != nil {
			return nil, asPreflightError(tc.Name, err)
		}
	}

	arguments := command
	if tc.FormatArguments != nil {
		arguments = tc.FormatArguments(command)
	}

	inv := invocation{
		executable:       executable,
		arguments:        arguments,
		workingDirectory: call.WorkingDirectory,
		env:              os.Environ(),
	}
	if tc.MutateEnvironment != nil {
		env, err := tc.MutateEnvironment(call, inv.env)
		if err != nil {
			return nil, err
		}
		inv.env = env
	}

	outcome, err := e.runProcess(ctx, logger, inv, settings.Timeout(), settings.Features.MaxOutputSize)
	if err != nil {
		return nil, err
	}

	if tc.PostProcess != nil {
		if processed := tc.PostProcess(outcome); processed != nil {
			outcome = processed
		}
	}
	return outcome, nil
}

func (e *Engine) resolveExecutable(ctx context.Context, logger *slog.Logger, tc Toolchain, call Call) (string, error) {
	if tc.ResolveExecutable != nil {
		return tc.ResolveExecutable(ctx, call)
	}
	return ResolveDefault(ctx, logger, tc.Name, call.Location)
}

// ResolveDefault returns the bare executable name when no directory is configured,
// otherwise the joined path, which must exist as a regular file.
func ResolveDefault(ctx context.Context, logger *slog.Logger, tool string, loc entities.ToolLocation) (string, error) {
	if loc.UsesSearchPath() {
		logger.InfoContext(ctx, "using executable from PATH", "executable", loc.ExecutableName)
		return loc.ExecutableName, nil
	}

	path := loc.ResolvedPath()
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		logger.WarnContext(ctx, "executable not found", "path", path)
		return "", &domainerrors.ExecutableNotFoundError{Tool: tool, Path: path}
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}

func asPreflightError(tool string, err error) error {
	var de domainerrors.DetailedError
	if errors.As(err, &de) {
		return err
	}
	return &domainerrors.PreflightError{Tool: tool, Message: err.Error()}
}

func fatalOutcome(ctx context.Context, logger *slog.Logger, command string, err error) *entities.ExecutionOutcome {
	detail := domainerrors.ToErrorDetail(err)
	logger.ErrorContext(ctx, "error executing command",
		"command", command,
		"error", err,
		"kind", detail.Type)
	return entities.NewFatalOutcome(detail.Type, strings.TrimSpace(detail.Message))
}
