package entities

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolLocation_ResolvedPath(t *testing.T) {
	tests := []struct {
		name       string
		cfg        ToolConfig
		defaultExe string
		want       string
		searchPath bool
	}{
		{
			name:       "empty directory uses bare name",
			cfg:        ToolConfig{},
			defaultExe: "dotnet",
			want:       "dotnet",
			searchPath: true,
		},
		{
			name:       "whitespace directory treated as empty",
			cfg:        ToolConfig{Path: "   ", ExecutableName: "cargo"},
			defaultExe: "cargo",
			want:       "cargo",
			searchPath: true,
		},
		{
			name:       "configured directory joins name",
			cfg:        ToolConfig{Path: filepath.Join("opt", "py"), ExecutableName: "python3"},
			defaultExe: "python",
			want:       filepath.Join("opt", "py", "python3"),
		},
		{
			name:       "blank executable falls back to default",
			cfg:        ToolConfig{Path: "bin", ExecutableName: " "},
			defaultExe: "msbuild",
			want:       filepath.Join("bin", "msbuild"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := NewToolLocation(tt.cfg, tt.defaultExe)
			assert.Equal(t, tt.want, loc.ResolvedPath())
			assert.Equal(t, tt.searchPath, loc.UsesSearchPath())
			assert.NotEmpty(t, loc.ResolvedPath())
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	assert.Equal(t, 0, Version{22, 0}.Compare(Version{22, 0}))
	assert.Equal(t, -1, Version{21, 9}.Compare(Version{22, 0}))
	assert.Equal(t, 1, Version{22, 1}.Compare(Version{22, 0}))
	assert.Equal(t, "19.5", Version{19, 5}.String())
}

func TestSettings_Timeout(t *testing.T) {
	var nilSettings *Settings
	assert.Equal(t, DefaultTimeoutSeconds, int(nilSettings.Timeout().Seconds()))

	s := DefaultSettings()
	s.Features.DefaultTimeout = 5
	assert.Equal(t, 5.0, s.Timeout().Seconds())

	s.Features.DefaultTimeout = 0
	assert.Equal(t, float64(DefaultTimeoutSeconds), s.Timeout().Seconds())
}
