package toolchains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolforge-dev/toolforge/internal/testutil"
)

func TestReadProjectVersion(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr string
	}{
		{name: "msbuild namespace", content: dproj("20.1"), want: "20.1"},
		{
			name:    "no namespace",
			content: "<Project><PropertyGroup><ProjectVersion> 19.5 </ProjectVersion></PropertyGroup></Project>",
			want:    "19.5",
		},
		{
			name: "only first property group is read",
			content: "<Project><PropertyGroup><Config>Debug</Config></PropertyGroup>" +
				"<PropertyGroup><ProjectVersion>22.0</ProjectVersion></PropertyGroup></Project>",
			wantErr: "ProjectVersion element not found",
		},
		{name: "no property group", content: "<Project><ItemGroup/></Project>", wantErr: "PropertyGroup not found"},
		{name: "not xml", content: "program Project1;", wantErr: "EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, t.TempDir(), "p.dproj", tt.content)

			got, err := ReadProjectVersion(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadProjectVersion_MissingFile(t *testing.T) {
	_, err := ReadProjectVersion("does-not-exist.dproj")
	assert.Error(t, err)
}
