package toolchains

import (
	"context"
	"path/filepath"
	"strings"

	domainerrors "github.com/toolforge-dev/toolforge/domain/errors"
	"github.com/toolforge-dev/toolforge/engine"
)

// Delphi compiler executables.
const (
	dcc32 = "dcc32.exe"
	dcc64 = "dcc64.exe"
)

const dprNotFoundMessage = "DPR file not found or path not provided."

// CompilerForArchitecture returns dcc64.exe for Win64 or x64 and dcc32.exe otherwise.
func CompilerForArchitecture(architecture string) string {
	a := strings.TrimSpace(architecture)
	if strings.EqualFold(a, "Win64") || strings.EqualFold(a, "x64") {
		return dcc64
	}
	return dcc32
}

// dprCompile is the per-call state of a dcc invocation.
type dprCompile struct {
	dprPath      string
	absolutePath string
	compiler     string
}

func newDprCompile(dprPath, architecture string) *dprCompile {
	dprPath = strings.TrimSpace(dprPath)
	d := &dprCompile{
		dprPath:      dprPath,
		absolutePath: dprPath,
		compiler:     CompilerForArchitecture(architecture),
	}
	if dprPath != "" {
		if abs, err := filepath.Abs(dprPath); err == nil {
			d.absolutePath = abs
		}
	}
	return d
}

func (d *dprCompile) command() string {
	return engine.QuoteArgument(d.absolutePath)
}

func (d *dprCompile) workingDirectory() string {
	if d.dprPath == "" {
		return ""
	}
	return filepath.Dir(d.absolutePath)
}

// dprojPath is the project file sitting next to the .dpr.
func (d *dprCompile) dprojPath() string {
	return strings.TrimSuffix(d.absolutePath, filepath.Ext(d.absolutePath)) + ".dproj"
}

func (a *Adapters) dcc(d *dprCompile) engine.Toolchain {
	tc := a.simple(ToolDccDelphi, d.compiler, selectMSBuildDelphi)
	tc.ResolveExecutable = func(ctx context.Context, call engine.Call) (string, error) {
		return a.findCompiler(ctx, call, d), nil
	}
	tc.PreFlight = func(context.Context, engine.Call) error {
		if !isFile(d.absolutePath) {
			return &domainerrors.PreflightError{Tool: ToolDccDelphi, Message: dprNotFoundMessage}
		}
		return nil
	}
	return tc
}

// findCompiler looks for the compiler under the resolved installation's bin and
// bin/win32, then in the configured tool directory, and finally falls back to
// the bare name on PATH. It never fails.
func (a *Adapters) findCompiler(ctx context.Context, call engine.Call, d *dprCompile) string {
	logger := a.config.logger

	var version string
	if d.dprPath != "" && isFile(d.dprojPath()) {
		version = a.projectVersion(ctx, d.dprojPath())
	}

	if root := a.resolveInstallation(ctx, call.Settings, version); root != "" {
		for _, candidate := range []string{
			filepath.Join(root, "bin", d.compiler),
			filepath.Join(root, "bin", "win32", d.compiler),
		} {
			if isFile(candidate) {
				logger.InfoContext(ctx, "found compiler", "executable", d.compiler, "path", candidate)
				return candidate
			}
		}
	}

	if dir := strings.TrimSpace(call.Settings.Tools.MSBuildDelphi.Path); dir != "" {
		candidate := filepath.Join(dir, d.compiler)
		if isFile(candidate) {
			logger.InfoContext(ctx, "found compiler at configured path", "executable", d.compiler, "path", candidate)
			return candidate
		}
	}

	logger.InfoContext(ctx, "using compiler from PATH", "executable", d.compiler)
	return d.compiler
}
