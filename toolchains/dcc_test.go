package toolchains

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolforge-dev/toolforge/domain/entities"
	domainerrors "github.com/toolforge-dev/toolforge/domain/errors"
	"github.com/toolforge-dev/toolforge/internal/testutil"
)

func TestCompilerForArchitecture(t *testing.T) {
	tests := map[string]string{
		"":      "dcc32.exe",
		"Win32": "dcc32.exe",
		"win64": "dcc64.exe",
		"Win64": "dcc64.exe",
		"x64":   "dcc64.exe",
		" X64 ": "dcc64.exe",
		"arm64": "dcc32.exe",
	}
	for arch, want := range tests {
		assert.Equal(t, want, CompilerForArchitecture(arch), "architecture %q", arch)
	}
}

func writeCompiler(t *testing.T, path string) {
	t.Helper()
	testutil.WriteScript(t, filepath.Dir(path), filepath.Base(path), `echo "$0"; `+printArgs)
}

func TestCompileDpr_ResolvedInstallationBin(t *testing.T) {
	installs := t.TempDir()
	v22 := testutil.MakeInstallation(t, installs, "22.0", "bds.exe")
	v23 := testutil.MakeInstallation(t, installs, "23.0", "bds.exe")
	writeCompiler(t, filepath.Join(v22, "bin", "dcc64.exe"))
	writeCompiler(t, filepath.Join(v23, "bin", "dcc64.exe"))

	projectDir := t.TempDir()
	dpr := testutil.WriteFile(t, projectDir, "Project1.dpr", "program Project1;")
	testutil.WriteFile(t, projectDir, "Project1.dproj", dproj("22.0"))

	settings := settingsWith(func(s *entities.Settings) {
		s.Tools.MSBuildDelphi.DelphiInstallPaths = []string{v22, v23}
	})

	outcome := newTestAdapters(t, settings).CompileDpr(context.Background(), dpr, "Win64")

	require.True(t, outcome.Success(), outcome.String())
	assert.Equal(t, filepath.Join(v22, "bin", "dcc64.exe")+"\n["+dpr+"]\n", outcome.Stdout)
}

func TestCompileDpr_Win32Subdirectory(t *testing.T) {
	install := testutil.MakeInstallation(t, t.TempDir(), "22.0", "bds.exe")
	compiler := filepath.Join(install, "bin", "win32", "dcc32.exe")
	writeCompiler(t, compiler)
	dpr := testutil.WriteFile(t, t.TempDir(), "App.dpr", "")

	settings := settingsWith(func(s *entities.Settings) {
		s.Tools.MSBuildDelphi.DelphiInstallPaths = []string{install}
	})

	outcome := newTestAdapters(t, settings).CompileDpr(context.Background(), dpr, "Win32")

	require.True(t, outcome.Success(), outcome.String())
	assert.Equal(t, compiler+"\n["+dpr+"]\n", outcome.Stdout)
}

func TestCompileDpr_ConfiguredToolDirectory(t *testing.T) {
	toolDir := t.TempDir()
	compiler := filepath.Join(toolDir, "dcc32.exe")
	writeCompiler(t, compiler)
	dpr := testutil.WriteFile(t, t.TempDir(), "App.dpr", "")

	settings := settingsWith(func(s *entities.Settings) {
		s.Tools.MSBuildDelphi.Path = toolDir
	})

	outcome := newTestAdapters(t, settings).CompileDpr(context.Background(), dpr, "")

	require.True(t, outcome.Success(), outcome.String())
	assert.Equal(t, compiler+"\n["+dpr+"]\n", outcome.Stdout)
}

func TestCompileDpr_FallsBackToSearchPath(t *testing.T) {
	pathDir := t.TempDir()
	writeCompiler(t, filepath.Join(pathDir, "dcc64.exe"))
	t.Setenv("PATH", pathDir)
	dpr := testutil.WriteFile(t, t.TempDir(), "App.dpr", "")

	outcome := newTestAdapters(t, entities.DefaultSettings()).CompileDpr(context.Background(), dpr, "x64")

	require.True(t, outcome.Success(), outcome.String())
	assert.Equal(t, filepath.Join(pathDir, "dcc64.exe")+"\n["+dpr+"]\n", outcome.Stdout)
}

func TestCompileDpr_MissingDpr(t *testing.T) {
	toolDir := t.TempDir()
	marker := filepath.Join(toolDir, "ran")
	testutil.WriteScript(t, toolDir, "dcc32.exe", "touch "+marker)
	settings := settingsWith(func(s *entities.Settings) {
		s.Tools.MSBuildDelphi.Path = toolDir
	})

	for _, path := range []string{"", filepath.Join(toolDir, "missing.dpr")} {
		outcome := newTestAdapters(t, settings).CompileDpr(context.Background(), path, "Win32")

		assert.Equal(t, "DPR file not found or path not provided.", testutil.RequireFatal(t, outcome, domainerrors.KindValidation))
	}
	assert.NoFileExists(t, marker)
}
