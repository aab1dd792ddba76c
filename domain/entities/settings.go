package entities

import "time"

// Settings defaults.
const (
	DefaultTimeoutSeconds = 30
	DefaultMaxOutputSize  = 10 * 1024 * 1024
)

// Settings is an immutable configuration snapshot.
// The engine reads one snapshot at the start of each call; reloads publish a new
// value instead of mutating the current one.
type Settings struct {
	Tools    ToolsSettings    `mapstructure:"tools" json:"tools" yaml:"tools"`
	Features FeaturesSettings `mapstructure:"features" json:"features" yaml:"features"`
	Logging  LoggingSettings  `mapstructure:"logging" json:"logging" yaml:"logging"`
}

// ToolsSettings holds per-toolchain configuration.
type ToolsSettings struct {
	Dotnet        ToolConfig       `mapstructure:"dotnet" json:"dotnet" yaml:"dotnet"`
	Rust          ToolConfig       `mapstructure:"rust" json:"rust" yaml:"rust"`
	Python        ToolConfig       `mapstructure:"python" json:"python" yaml:"python"`
	MSBuild       ToolConfig       `mapstructure:"msBuild" json:"msBuild" yaml:"msBuild"`
	MSBuildDelphi DelphiToolConfig `mapstructure:"msBuildDelphi" json:"msBuildDelphi" yaml:"msBuildDelphi"`
}

// ToolConfig locates one executable.
type ToolConfig struct {
	// Path is the install directory. Empty means "use PATH".
	Path string `mapstructure:"path" json:"path" yaml:"path"`

	// ExecutableName overrides the adapter's default executable name.
	ExecutableName string `mapstructure:"executableName" json:"executableName" yaml:"executableName"`

	// EnvFile is an optional dotenv file whose variables are injected into the process.
	EnvFile string `mapstructure:"envFile" json:"envFile,omitempty" yaml:"envFile,omitempty"`
}

// DelphiToolConfig extends ToolConfig with installation discovery hints.
type DelphiToolConfig struct {
	ToolConfig `mapstructure:",squash" yaml:",inline"`

	// DelphiInstallPaths are explicit installation directories, checked before any scan.
	DelphiInstallPaths []string `mapstructure:"delphiInstallPaths" json:"delphiInstallPaths,omitempty" yaml:"delphiInstallPaths,omitempty" validate:"dive,required"`

	// InstallRoots are extra directories scanned for versioned installations.
	InstallRoots []string `mapstructure:"installRoots" json:"installRoots,omitempty" yaml:"installRoots,omitempty" validate:"dive,required"`
}

// FeaturesSettings holds process-wide execution settings.
type FeaturesSettings struct {
	// DefaultTimeout is the execution deadline in seconds.
	DefaultTimeout int `mapstructure:"defaultTimeout" json:"defaultTimeout" yaml:"defaultTimeout" validate:"min=1,max=86400"`

	// MaxOutputSize is advisory: exceeding it is logged, output is not truncated.
	MaxOutputSize int64 `mapstructure:"maxOutputSize" json:"maxOutputSize" yaml:"maxOutputSize" validate:"min=0"`

	EnableLogging bool `mapstructure:"enableLogging" json:"enableLogging" yaml:"enableLogging"`
}

// LoggingSettings configures the process-wide logger.
type LoggingSettings struct {
	Level  string `mapstructure:"level" json:"level" yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `mapstructure:"format" json:"format" yaml:"format" validate:"omitempty,oneof=text json"`
	File   string `mapstructure:"file" json:"file,omitempty" yaml:"file,omitempty"`
}

// DefaultSettings returns the settings used when no configuration file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Features: FeaturesSettings{
			EnableLogging:  true,
			DefaultTimeout: DefaultTimeoutSeconds,
			MaxOutputSize:  DefaultMaxOutputSize,
		},
		Logging: LoggingSettings{
			Level:  "info",
			Format: "text",
		},
	}
}

// Timeout returns the execution deadline, falling back to the default for
// non-positive values.
func (s *Settings) Timeout() time.Duration {
	if s == nil || s.Features.DefaultTimeout <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(s.Features.DefaultTimeout) * time.Second
}
