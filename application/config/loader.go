package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/toolforge-dev/toolforge/domain/entities"
	domainerrors "github.com/toolforge-dev/toolforge/domain/errors"
)

// EnvPrefix prefixes environment overrides, e.g. TOOLFORGE_FEATURES_DEFAULTTIMEOUT.
const EnvPrefix = "TOOLFORGE"

// DefaultFileName is looked up next to the executable when no path is given.
const DefaultFileName = "config.json"

// validate is a package-level singleton; building a validator is expensive.
var validate = validator.New()

// DefaultPath returns config.json in the executable's directory.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(filepath.Dir(exe), DefaultFileName)
}

// Load reads settings from path. An empty path means DefaultPath, which may
// be absent, in which case defaults and environment overrides apply. An explicit
// path must exist.
func Load(path string) (*entities.Settings, error) {
	v := newViper()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return nil, &domainerrors.ConfigError{Err: fmt.Errorf("reading %s: %w", path, err)}
		}
	}

	settings := entities.DefaultSettings()
	if err := v.Unmarshal(settings); err != nil {
		return nil, &domainerrors.ConfigError{Err: fmt.Errorf("decoding %s: %w", path, err)}
	}
	normalize(settings)

	if err := Validate(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks settings against their validator tags.
func Validate(s *entities.Settings) error {
	if err := validate.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &domainerrors.ConfigError{Field: fieldErrs[0].Namespace(), Err: err}
		}
		return &domainerrors.ConfigError{Err: err}
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every key so that environment overrides are seen by
// Unmarshal even when the file does not mention them.
func setDefaults(v *viper.Viper) {
	d := entities.DefaultSettings()

	for _, tool := range []string{"dotnet", "rust", "python", "msBuild", "msBuildDelphi"} {
		v.SetDefault("tools."+tool+".path", "")
		v.SetDefault("tools."+tool+".executableName", "")
		v.SetDefault("tools."+tool+".envFile", "")
	}
	v.SetDefault("tools.msBuildDelphi.delphiInstallPaths", []string{})
	v.SetDefault("tools.msBuildDelphi.installRoots", []string{})

	v.SetDefault("features.defaultTimeout", d.Features.DefaultTimeout)
	v.SetDefault("features.maxOutputSize", d.Features.MaxOutputSize)
	v.SetDefault("features.enableLogging", d.Features.EnableLogging)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", "")
}

// normalize trims path lists and drops blank entries.
func normalize(s *entities.Settings) {
	s.Tools.MSBuildDelphi.DelphiInstallPaths = compact(s.Tools.MSBuildDelphi.DelphiInstallPaths)
	s.Tools.MSBuildDelphi.InstallRoots = compact(s.Tools.MSBuildDelphi.InstallRoots)
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
