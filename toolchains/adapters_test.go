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

func TestSimpleAdapters(t *testing.T) {
	tests := []struct {
		name      string
		configure func(*entities.Settings, entities.ToolConfig)
		run       func(*Adapters, string, string) *entities.ExecutionOutcome
	}{
		{
			name:      "dotnet",
			configure: func(s *entities.Settings, c entities.ToolConfig) { s.Tools.Dotnet = c },
			run: func(a *Adapters, cmd, wd string) *entities.ExecutionOutcome {
				return a.Dotnet(context.Background(), cmd, wd)
			},
		},
		{
			name:      "cargo",
			configure: func(s *entities.Settings, c entities.ToolConfig) { s.Tools.Rust = c },
			run: func(a *Adapters, cmd, wd string) *entities.ExecutionOutcome {
				return a.Cargo(context.Background(), cmd, wd)
			},
		},
		{
			name:      "python",
			configure: func(s *entities.Settings, c entities.ToolConfig) { s.Tools.Python = c },
			run: func(a *Adapters, cmd, wd string) *entities.ExecutionOutcome {
				return a.Python(context.Background(), cmd, wd)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			testutil.WriteScript(t, dir, tt.name, printArgs)
			settings := settingsWith(func(s *entities.Settings) {
				tt.configure(s, entities.ToolConfig{Path: dir})
			})

			outcome := tt.run(newTestAdapters(t, settings), `build "a b"`, "")

			require.True(t, outcome.Success(), outcome.String())
			assert.Equal(t, "[build]\n[a b]\n", outcome.Stdout)
		})
	}
}

func TestSimpleAdapter_ExecutableNameOverride(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteScript(t, dir, "python3", "echo py3")
	settings := settingsWith(func(s *entities.Settings) {
		s.Tools.Python = entities.ToolConfig{Path: dir, ExecutableName: "python3"}
	})

	outcome := newTestAdapters(t, settings).Python(context.Background(), "--version", "")
	assert.Equal(t, "py3\n", outcome.Stdout)
}

func TestSimpleAdapter_MissingExecutable(t *testing.T) {
	dir := t.TempDir()
	settings := settingsWith(func(s *entities.Settings) {
		s.Tools.Rust = entities.ToolConfig{Path: dir}
	})

	outcome := newTestAdapters(t, settings).Cargo(context.Background(), "build", "")

	assert.Equal(t, "cargo executable not found at "+filepath.Join(dir, "cargo")+
		". Please update the configuration with the correct path or leave path empty to use PATH.",
		testutil.RequireFatal(t, outcome, domainerrors.KindConfig))
}

func TestSimpleAdapter_EnvFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteScript(t, dir, "dotnet", `echo "$DOTNET_CLI_TELEMETRY_OPTOUT $GREETING"`)
	envFile := testutil.WriteFile(t, dir, "tool.env", "DOTNET_CLI_TELEMETRY_OPTOUT=1\nGREETING=\"hello world\"\n")
	settings := settingsWith(func(s *entities.Settings) {
		s.Tools.Dotnet = entities.ToolConfig{Path: dir, EnvFile: envFile}
	})

	outcome := newTestAdapters(t, settings).Dotnet(context.Background(), "--info", "")

	require.True(t, outcome.Success(), outcome.String())
	assert.Equal(t, "1 hello world\n", outcome.Stdout)
}

func TestSimpleAdapter_MissingEnvFile(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	testutil.WriteScript(t, dir, "dotnet", "touch "+marker)
	settings := settingsWith(func(s *entities.Settings) {
		s.Tools.Dotnet = entities.ToolConfig{Path: dir, EnvFile: filepath.Join(dir, "missing.env")}
	})

	outcome := newTestAdapters(t, settings).Dotnet(context.Background(), "build", "")

	assert.Contains(t, testutil.RequireFatal(t, outcome, domainerrors.KindConfig), "envFile")
	assert.NoFileExists(t, marker)
}

func TestApplyEnvFile_EmptyPath(t *testing.T) {
	env := []string{"A=1"}
	got, err := applyEnvFile(env, "  ")
	require.NoError(t, err)
	assert.Equal(t, env, got)
}
