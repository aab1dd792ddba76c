package toolchains

import (
	"context"
	"io"
	"log/slog"

	"github.com/toolforge-dev/toolforge/domain/entities"
	"github.com/toolforge-dev/toolforge/domain/ports"
	"github.com/toolforge-dev/toolforge/engine"
	"github.com/toolforge-dev/toolforge/resolver"
)

// Tool names used in logs, metrics and error messages.
const (
	ToolDotnet        = "dotnet"
	ToolCargo         = "cargo"
	ToolPython        = "python"
	ToolMSBuild       = "msbuild"
	ToolMSBuildDelphi = "msbuild-delphi"
	ToolDccDelphi     = "dcc-delphi"
)

// LocatorFactory builds the installation locator for one call from its settings.
type LocatorFactory func(settings *entities.Settings, logger *slog.Logger) ports.InstallationLocator

// Option is a functional option for configuring Adapters.
type Option func(*adaptersConfig)

type adaptersConfig struct {
	logger     *slog.Logger
	newLocator LocatorFactory
}

func defaultAdaptersConfig() adaptersConfig {
	return adaptersConfig{
		logger:     slog.Default(),
		newLocator: defaultLocator,
	}
}

// WithLogger sets the logger. A nil logger discards all records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *adaptersConfig) {
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		c.logger = logger
	}
}

// WithLocatorFactory replaces how Delphi installations are located.
func WithLocatorFactory(f LocatorFactory) Option {
	return func(c *adaptersConfig) {
		if f != nil {
			c.newLocator = f
		}
	}
}

func defaultLocator(settings *entities.Settings, logger *slog.Logger) ports.InstallationLocator {
	return resolver.New(
		resolver.WithRoots(settings.Tools.MSBuildDelphi.InstallRoots...),
		resolver.WithLogger(logger),
	)
}

// Adapters exposes one method per supported tool.
type Adapters struct {
	engine *engine.Engine
	config adaptersConfig
}

// New creates the adapters on top of eng.
func New(eng *engine.Engine, opts ...Option) *Adapters {
	cfg := defaultAdaptersConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Adapters{engine: eng, config: cfg}
}

// Dotnet runs a .NET CLI command such as "build" or "test".
func (a *Adapters) Dotnet(ctx context.Context, command, workingDirectory string) *entities.ExecutionOutcome {
	return a.engine.Execute(ctx, a.simple(ToolDotnet, "dotnet", selectDotnet), command, workingDirectory)
}

// Cargo runs a cargo command.
func (a *Adapters) Cargo(ctx context.Context, command, workingDirectory string) *entities.ExecutionOutcome {
	return a.engine.Execute(ctx, a.simple(ToolCargo, "cargo", selectRust), command, workingDirectory)
}

// Python runs the Python interpreter with command as its arguments.
func (a *Adapters) Python(ctx context.Context, command, workingDirectory string) *entities.ExecutionOutcome {
	return a.engine.Execute(ctx, a.simple(ToolPython, "python", selectPython), command, workingDirectory)
}

// BuildProject builds an MSBuild project or solution.
func (a *Adapters) BuildProject(ctx context.Context, projectPath, buildOptions string) *entities.ExecutionOutcome {
	p := newProjectBuild(projectPath, buildOptions)
	return a.engine.Execute(ctx, a.msbuild(p), p.command(), p.workingDirectory())
}

// BuildDelphiProject builds a Delphi .dproj, pointing BDS at the installation
// matching the project's ProjectVersion.
func (a *Adapters) BuildDelphiProject(ctx context.Context, projectPath, buildOptions string) *entities.ExecutionOutcome {
	p := newProjectBuild(projectPath, buildOptions)
	return a.engine.Execute(ctx, a.msbuildDelphi(p), p.command(), p.workingDirectory())
}

// CompileDpr compiles a Delphi .dpr with dcc32, or dcc64 for Win64/x64.
func (a *Adapters) CompileDpr(ctx context.Context, dprPath, architecture string) *entities.ExecutionOutcome {
	d := newDprCompile(dprPath, architecture)
	return a.engine.Execute(ctx, a.dcc(d), d.command(), d.workingDirectory())
}

type configSelector func(*entities.Settings) entities.ToolConfig

func selectDotnet(s *entities.Settings) entities.ToolConfig  { return s.Tools.Dotnet }
func selectRust(s *entities.Settings) entities.ToolConfig    { return s.Tools.Rust }
func selectPython(s *entities.Settings) entities.ToolConfig  { return s.Tools.Python }
func selectMSBuild(s *entities.Settings) entities.ToolConfig { return s.Tools.MSBuild }
func selectMSBuildDelphi(s *entities.Settings) entities.ToolConfig {
	return s.Tools.MSBuildDelphi.ToolConfig
}

// simple binds a tool that needs no overrides beyond its location and env file.
func (a *Adapters) simple(name, defaultExecutable string, sel configSelector) engine.Toolchain {
	return engine.Toolchain{
		Name: name,
		Location: func(s *entities.Settings) entities.ToolLocation {
			return entities.NewToolLocation(sel(s), defaultExecutable)
		},
		MutateEnvironment: func(call engine.Call, env []string) ([]string, error) {
			return applyEnvFile(env, sel(call.Settings).EnvFile)
		},
	}
}
