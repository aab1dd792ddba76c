package toolchains

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/toolforge-dev/toolforge/domain/entities"
	domainerrors "github.com/toolforge-dev/toolforge/domain/errors"
	"github.com/toolforge-dev/toolforge/engine"
)

// bdsVariable is the environment variable Delphi's MSBuild targets read the
// installation root from.
const bdsVariable = "BDS"

// projectBuild is the per-call state of an MSBuild invocation.
type projectBuild struct {
	projectPath  string
	absolutePath string
	buildOptions string
}

func newProjectBuild(projectPath, buildOptions string) *projectBuild {
	projectPath = strings.TrimSpace(projectPath)
	p := &projectBuild{
		projectPath:  projectPath,
		absolutePath: projectPath,
		buildOptions: strings.TrimSpace(buildOptions),
	}
	if projectPath != "" {
		if abs, err := filepath.Abs(projectPath); err == nil {
			p.absolutePath = abs
		}
	}
	return p
}

// command is the build options followed by the quoted project path.
func (p *projectBuild) command() string {
	quoted := engine.QuoteArgument(p.absolutePath)
	if p.buildOptions == "" {
		return quoted
	}
	return p.buildOptions + " " + quoted
}

// workingDirectory is the directory containing the project.
func (p *projectBuild) workingDirectory() string {
	if p.projectPath == "" {
		return ""
	}
	return filepath.Dir(p.absolutePath)
}

func (p *projectBuild) preFlight(tool string) error {
	if !isFile(p.absolutePath) {
		return &domainerrors.PreflightError{
			Tool:    tool,
			Message: fmt.Sprintf("Project file not found at %s", p.projectPath),
		}
	}
	return nil
}

func (a *Adapters) msbuild(p *projectBuild) engine.Toolchain {
	tc := a.simple(ToolMSBuild, "msbuild", selectMSBuild)
	tc.PreFlight = func(context.Context, engine.Call) error {
		return p.preFlight(ToolMSBuild)
	}
	return tc
}

func (a *Adapters) msbuildDelphi(p *projectBuild) engine.Toolchain {
	var bds string

	tc := a.simple(ToolMSBuildDelphi, "msbuild", selectMSBuildDelphi)
	tc.PreFlight = func(ctx context.Context, call engine.Call) error {
		if err := p.preFlight(ToolMSBuildDelphi); err != nil {
			return err
		}
		version := a.projectVersion(ctx, p.absolutePath)
		bds = a.resolveInstallation(ctx, call.Settings, version)
		if bds != "" {
			a.config.logger.InfoContext(ctx, "resolved BDS path", "project", p.projectPath, "bds", bds)
		} else {
			a.config.logger.WarnContext(ctx, "no Delphi installation found",
				"project", p.projectPath, "version", valueOr(version, "unknown"))
		}
		return nil
	}
	tc.MutateEnvironment = func(call engine.Call, env []string) ([]string, error) {
		env, err := applyEnvFile(env, selectMSBuildDelphi(call.Settings).EnvFile)
		if err != nil {
			return nil, err
		}
		return engine.SetEnv(env, bdsVariable, bds), nil
	}
	return tc
}

// projectVersion reads ProjectVersion from a .dproj. Failures are logged and
// yield an empty version.
func (a *Adapters) projectVersion(ctx context.Context, dprojPath string) string {
	version, err := ReadProjectVersion(dprojPath)
	if err != nil {
		a.config.logger.WarnContext(ctx, "could not read ProjectVersion", "path", dprojPath, "error", err)
		return ""
	}
	a.config.logger.InfoContext(ctx, "extracted ProjectVersion", "path", dprojPath, "version", version)
	return version
}

// resolveInstallation returns the Delphi installation root for version, or "".
func (a *Adapters) resolveInstallation(ctx context.Context, settings *entities.Settings, version string) (path string) {
	defer func() {
		if r := recover(); r != nil {
			a.config.logger.ErrorContext(ctx, "error resolving Delphi installation", "panic", r)
			path = ""
		}
	}()

	configured := settings.Tools.MSBuildDelphi.DelphiInstallPaths
	locator := a.config.newLocator(settings, a.config.logger)
	path, ok := locator.ResolveInstallPath(version, configured)
	if !ok {
		if len(configured) > 0 {
			a.config.logger.WarnContext(ctx, "no matching Delphi installation in configured paths or standard locations")
		} else {
			a.config.logger.WarnContext(ctx, "no Delphi installation in standard locations; consider setting delphiInstallPaths")
		}
		return ""
	}
	return path
}

func isFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
