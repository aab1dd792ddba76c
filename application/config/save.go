package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toolforge-dev/toolforge/domain/entities"
)

// Marshal encodes settings as "json" or "yaml", keeping camelCase keys.
func Marshal(s *entities.Settings, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return yaml.Marshal(s)
	case "json", "":
		b, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported configuration format %q", format)
	}
}

// Save validates s and writes it to path in the format implied by its
// extension (.json, .yaml or .yml). Parent directories are created.
func Save(path string, s *entities.Settings) error {
	if err := Validate(s); err != nil {
		return err
	}

	data, err := Marshal(s, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace configuration: %w", err)
	}
	return nil
}
